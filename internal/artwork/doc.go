// Package artwork resolves album cover URLs for songs via the iTunes Search API.
//
// # Lookup Flow
//
// [Client.Lookup] queries iTunes with a cleaned "artist song" term and maps the
// first hit to an [Artwork] with small (60), medium (100), and large (600)
// variants. The large variant is derived by rewriting the 100x100bb dimension
// segment; iTunes serves any requested size.
//
// # Caching
//
// Results memoize in-process keyed by lowercase "author-song". Negative
// results cache too: a song iTunes cannot match is asked about once, not on
// every render. [Client.Refresh] drops a single entry and [Client.ClearCache]
// drops everything.
//
// # Failure Policy
//
// Artwork is decorative. Lookups never return errors; network and decode
// failures log a warning, cache as a miss, and the caller renders without an
// image.
//
// # Rate Limiting
//
// A [rate.Limiter] spaces search calls about three seconds apart, within the
// iTunes Search allowance of roughly 20 calls per minute. [Client.Preload]
// warms the cache in the background at that pace.
package artwork
