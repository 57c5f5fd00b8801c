// iTunes Search API client for song artwork
//
// Search semantics per https://developer.apple.com/library/archive/documentation/AudioVideo/Conceptual/iTuneSearchAPI/
package artwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const itunesSearchURL = "https://itunes.apple.com/search"

// iTunes allows roughly 20 search calls per minute.
var searchInterval = 3 * time.Second

// termCleaner strips punctuation from search terms before querying.
var termCleaner = regexp.MustCompile(`[^\w\s]`)

// Artwork holds the album cover URLs iTunes returns for a track, at the
// three sizes the UI renders.
type Artwork struct {
	Small  string `json:"small"`  // 60x60
	Medium string `json:"medium"` // 100x100
	Large  string `json:"large"`  // 600x600
}

type searchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		ArtworkURL60  string `json:"artworkUrl60"`
		ArtworkURL100 string `json:"artworkUrl100"`
	} `json:"results"`
}

// Client looks up artwork on the iTunes Search API, memoizing results for
// the life of the process. Misses and failures cache as nil so a song with
// no match is queried at most once; Refresh drops a cached entry explicitly.
//
// A lookup never returns an error: artwork is decorative, so failures log a
// warning and yield nil.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
	limiter    *rate.Limiter

	mu     sync.Mutex
	cache  map[string]*Artwork
	flight singleflight.Group
}

// NewClient creates an artwork client. An empty baseURL selects the real
// iTunes endpoint and a nil client gets a sensible timeout.
func NewClient(baseURL string, client *http.Client, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = itunesSearchURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: client,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Every(searchInterval), 1),
		cache:      make(map[string]*Artwork),
	}
}

// cacheKey is lowercase "author-song"; distinct songs that collide here are
// treated as the same record, matching the lookup term.
func cacheKey(song, author string) string {
	return strings.ToLower(author) + "-" + strings.ToLower(song)
}

func cleanTerm(s string) string {
	return strings.TrimSpace(termCleaner.ReplaceAllString(s, ""))
}

// Lookup returns artwork for a song, from cache when possible. A nil result
// means iTunes has no match (or the lookup failed); that answer is cached
// until ClearCache or Refresh.
func (c *Client) Lookup(ctx context.Context, song, author string) *Artwork {
	key := cacheKey(song, author)

	// Concurrent lookups on one key share a single search. The cache is
	// re-checked inside the flight so a caller arriving just after a flight
	// lands reads the fresh entry instead of querying again.
	v, _, _ := c.flight.Do(key, func() (interface{}, error) {
		c.mu.Lock()
		if art, ok := c.cache[key]; ok {
			c.mu.Unlock()
			return art, nil
		}
		c.mu.Unlock()

		art := c.search(ctx, song, author)

		c.mu.Lock()
		c.cache[key] = art
		c.mu.Unlock()
		return art, nil
	})
	art, _ := v.(*Artwork)
	return art
}

// Cached returns the memoized artwork for a song without querying. The
// second return reports whether the song has been looked up at all; a true
// with nil artwork is a cached miss.
func (c *Client) Cached(song, author string) (*Artwork, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	art, ok := c.cache[cacheKey(song, author)]
	return art, ok
}

// Refresh drops the cached entry for a song and looks it up again.
func (c *Client) Refresh(ctx context.Context, song, author string) *Artwork {
	c.mu.Lock()
	delete(c.cache, cacheKey(song, author))
	c.mu.Unlock()
	return c.Lookup(ctx, song, author)
}

// Preload warms the cache for songs that have no stored artwork URL. It
// returns immediately; lookups proceed in the background at the rate limit
// until done or ctx is cancelled.
func (c *Client) Preload(ctx context.Context, songs []models.Song) {
	go func() {
		for _, song := range songs {
			if ctx.Err() != nil {
				return
			}
			if song.ArtworkURL != "" {
				continue
			}
			c.Lookup(ctx, song.Name, song.Author)
		}
	}()
}

// ClearCache forgets all cached results, including negative ones.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*Artwork)
}

// CacheSize returns the number of memoized lookups, hits and misses both.
func (c *Client) CacheSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

func (c *Client) search(ctx context.Context, song, author string) *Artwork {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	term := strings.TrimSpace(cleanTerm(author) + " " + cleanTerm(song))
	if term == "" {
		return nil
	}

	query := url.Values{}
	query.Set("term", term)
	query.Set("media", "music")
	query.Set("entity", "song")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		c.logger.Warn("failed to build artwork request", "song", song, "error", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("artwork lookup failed", "song", song, "author", author, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("artwork lookup failed", "song", song, "author", author, "error", fmt.Errorf("itunes search: status %d", resp.StatusCode))
		return nil
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("failed to decode artwork response", "song", song, "error", err)
		return nil
	}

	if result.ResultCount == 0 || len(result.Results) == 0 {
		return nil
	}

	track := result.Results[0]
	if track.ArtworkURL100 == "" {
		return nil
	}

	return &Artwork{
		Small:  track.ArtworkURL60,
		Medium: track.ArtworkURL100,
		// iTunes serves arbitrary sizes by rewriting the dimension segment
		Large: strings.Replace(track.ArtworkURL100, "100x100bb", "600x600bb", 1),
	}
}
