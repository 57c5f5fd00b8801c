// Package models defines the entities shared by the store, engine, CLI, and TUI layers.
//
// # Entities
//
//   - [Song] : a repertoire entry with external links, optional artwork, and a [Category] bucket
//   - [Lesson] : a dated log entry with notes, a remaining-lesson counter, and practiced [SongSummary] values
//   - [LessonSongRelation] : the many-to-many join row between lessons and songs
//
// # Partial Updates
//
// [SongPatch] and [LessonPatch] carry pointer fields; a nil field leaves the
// stored value untouched, while a pointer to the zero value applies it
// explicitly. The single-field category move and the best-effort artwork
// write-back are both expressed as patches.
//
// The JSON tags on all entities double as the hosted store's column names,
// so the structs marshal directly into PostgREST request and response bodies.
package models
