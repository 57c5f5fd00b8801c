// Package store persists lessons, songs, and the lesson↔song join relation.
//
// # Backends
//
// [Open] selects one of two [Store] implementations once at startup:
//
//   - [SupabaseStore] : hosted mode, speaking PostgREST over HTTPS to a
//     Supabase project (tables lessons, songs, lesson_songs, plus the
//     optional lessons_with_songs view)
//   - [MemoryStore] : local fallback when credentials are absent or invalid;
//     mutex-guarded slices that vanish on exit
//
// Callers hold the interface and never branch on the active mode.
//
// # Graceful Degradation
//
// The hosted backend tolerates three optional schema elements being absent:
// the lessons_with_songs view, the lesson_songs table, and the
// songs.artwork_url column. Each is tracked by a capability flag discovered
// lazily on first failure and cached for the process lifetime. Secondary
// writes (attaching songs to a lesson, persisting artwork URLs) are
// best-effort: failures are logged and swallowed, never rolled back, and a
// lesson whose relation read fails is returned with an empty song list
// rather than failing the whole listing.
//
// # Errors
//
// [ErrNotFound] reports a missing entity on update and delete paths. Every
// other hosted failure passes through wrapped in [shared.ErrStoreRequest];
// nothing is retried in this layer.
package store
