package fetcher

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// ResultCache is an in-memory TTL cache of fetch outcomes keyed by the
// normalized URL. It is shared across queries and safe for concurrent use.
// Two in-flight fetches of the same URL are tolerated; the last write wins.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	clock   utils.Clock
}

type cacheEntry struct {
	result   *models.FetchResult
	storedAt time.Time
}

// NewResultCache creates a cache whose entries expire after ttl.
func NewResultCache(ttl time.Duration, clock utils.Clock) *ResultCache {
	if clock == nil {
		clock = utils.RealClock()
	}
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the cached result for the URL if present and not expired.
// Expired entries are removed on access.
func (c *ResultCache) Get(rawURL string) (*models.FetchResult, bool) {
	key := cacheKey(rawURL)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

// Set stores the result under the URL's normalized key.
func (c *ResultCache) Set(rawURL string, result *models.FetchResult) {
	key := cacheKey(rawURL)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: result, storedAt: c.clock.Now()}
}

// ClearExpired removes all entries past their TTL.
func (c *ResultCache) ClearExpired() {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of entries currently stored, expired or not.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cacheKey(rawURL string) string {
	sum := md5.Sum([]byte(NormalizeURL(rawURL)))
	return hex.EncodeToString(sum[:])
}

// NormalizeURL canonicalizes a URL for cache keying: lowercased scheme and
// host, no fragment, no trailing slash on the path.
func NormalizeURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
