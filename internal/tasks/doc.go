// Package tasks implements the library engine shared by the CLI and TUI.
//
// # Core Operations
//
// The [Engine] interface defines the operations the presentation layers use:
//
//  1. [Engine.LoadSongs] : List the repertoire with artwork resolution
//     - Applies cached artwork URLs and persists them best-effort
//     - Warms the artwork cache in the background for unresolved songs
//
//  2. [Engine.LoadLessons] : List the lesson log, newest first
//
//  3. Song and lesson CRUD pass-throughs to the [store.Store]
//
//  4. [Engine.RefreshArtwork] : Force one song's artwork to re-resolve
//
//  5. [Engine.ExportSongs] / [Engine.ExportLessons] : Write the library to
//     CSV, Markdown, plain text, or JSON files via the formatter package
//
// # Artwork Policy
//
// Artwork is best-effort throughout. A nil artwork client (lookups disabled
// in config) turns every artwork path into a no-op; lookup and write-back
// failures log warnings and never fail the surrounding operation.
//
// # Implementation
//
// [LibraryEngine] implements [Engine] with dependencies on:
//   - [store.Store] : hosted or in-memory record store
//   - [artwork.Client] : optional iTunes Search client
package tasks
