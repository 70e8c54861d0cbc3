package searcher

import (
	"crypto/sha256"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mealforge/recipesearch/pkg/types"
)

// DefaultCacheSize bounds the number of cached responses
const DefaultCacheSize = 1000

// DefaultCacheTTL is how long a cached response stays valid
const DefaultCacheTTL = 5 * time.Minute

// cacheEntry represents a cached search response with expiration time
type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// resultCache is an LRU cache of search responses keyed by request hash.
// The key always includes the requester scope, so two identities never
// share an entry even for otherwise identical requests.
type resultCache struct {
	cache *lru.Cache[[32]byte, *cacheEntry]
	ttl   time.Duration
	mu    sync.RWMutex
}

func newResultCache(size int, ttl time.Duration) *resultCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	cache, err := lru.New[[32]byte, *cacheEntry](size)
	if err != nil {
		// Only reachable with a non-positive size, which is guarded above
		cache, _ = lru.New[[32]byte, *cacheEntry](DefaultCacheSize)
	}
	return &resultCache{cache: cache, ttl: ttl}
}

// get returns a deep copy of a live cached response, or nil on miss.
// Expired entries are evicted on access.
func (c *resultCache) get(key [32]byte) *Response {
	now := time.Now()

	c.mu.RLock()
	entry, found := c.cache.Get(key)
	if !found {
		c.mu.RUnlock()
		return nil
	}
	if now.After(entry.expiresAt) {
		c.mu.RUnlock()
		c.mu.Lock()
		c.cache.Remove(key)
		c.mu.Unlock()
		return nil
	}
	// Copy while holding the read lock so the entry can't change mid-copy
	response := copyResponse(entry.response)
	c.mu.RUnlock()
	return response
}

// set stores a deep copy of the response
func (c *resultCache) set(key [32]byte, response *Response) {
	entry := &cacheEntry{
		response:  copyResponse(response),
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Lock()
	c.cache.Add(key, entry)
	c.mu.Unlock()
}

// purge drops every cached response
func (c *resultCache) purge() {
	c.mu.Lock()
	c.cache.Purge()
	c.mu.Unlock()
}

// size returns the number of live entries, counting not-yet-evicted
// expired ones
func (c *resultCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache.Len()
}

// copyResponse creates a deep copy of a Response so cached entries are
// isolated from caller mutations
func copyResponse(src *Response) *Response {
	if src == nil {
		return nil
	}

	dst := &Response{
		TotalResults:  src.TotalResults,
		Degraded:      src.Degraded,
		CacheHit:      src.CacheHit,
		Duration:      src.Duration,
		VectorResults: src.VectorResults,
		TextResults:   src.TextResults,
		Results:       make([]types.RankedResult, len(src.Results)),
	}

	for i, result := range src.Results {
		copied := result

		copied.Recipe.Tags = append([]string(nil), result.Recipe.Tags...)
		copied.MatchedIngredients = append([]string(nil), result.MatchedIngredients...)
		if result.Breakdown != nil {
			bd := *result.Breakdown
			copied.Breakdown = &bd
		}

		dst.Results[i] = copied
	}

	return dst
}

// ingredientsCacheKey hashes an ingredient search request. Names are
// normalized and sorted so equivalent ingredient sets share an entry.
func ingredientsCacheKey(names []string, opts *types.SearchOptions) [32]byte {
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		n = types.NormalizeIngredientName(n)
		if n != "" {
			normalized = append(normalized, n)
		}
	}
	sort.Strings(normalized)
	return requestHash("ingredients", strings.Join(normalized, ","), opts)
}

// queryCacheKey hashes a semantic or hybrid search request
func queryCacheKey(path, query string, opts *types.SearchOptions) [32]byte {
	return requestHash(path, strings.TrimSpace(query), opts)
}

func requestHash(path, payload string, opts *types.SearchOptions) [32]byte {
	var b strings.Builder
	b.WriteString(path)
	b.WriteString("|")
	b.WriteString(payload)
	b.WriteString("|")
	b.WriteString(opts.CacheKeyPart())
	return sha256.Sum256([]byte(b.String()))
}
