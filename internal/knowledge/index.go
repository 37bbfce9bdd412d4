package knowledge

import (
	"sort"
	"strings"
	"sync"
	"time"

	"sourcerer/internal/logging"
)

// =============================================================================
// INDEX - Token-overlap lookup over a fixed set of records
// =============================================================================

// Match is one record returned by a lookup, with its relevance score
// and the query terms that matched it.
type Match struct {
	Record       Record
	Score        float64
	MatchedTerms []string
}

// IndexConfig holds configuration for the index.
type IndexConfig struct {
	MaxResults int
	CacheSize  int
	CacheTTL   time.Duration
}

// DefaultIndexConfig returns sensible defaults.
func DefaultIndexConfig() *IndexConfig {
	return &IndexConfig{
		MaxResults: 25,
		CacheSize:  256,
		CacheTTL:   5 * time.Minute,
	}
}

type indexedRecord struct {
	record Record
	tokens map[string]struct{}
}

// Index answers queries against an in-memory set of records. A record
// matches when its token set intersects the query's non-stopword
// tokens. Lookups have no side effects; an unmatched query returns an
// empty result, never an error.
type Index struct {
	mu         sync.RWMutex
	records    []indexedRecord
	cache      *QueryCache
	maxResults int
}

// NewIndex creates an empty index with the given config.
func NewIndex(cfg *IndexConfig) *Index {
	if cfg == nil {
		cfg = DefaultIndexConfig()
	}
	return &Index{
		cache:      NewQueryCache(cfg.CacheSize, cfg.CacheTTL),
		maxResults: cfg.MaxResults,
	}
}

// Load replaces the indexed records. Used at startup and by the
// sources watcher on hot reload. Invalidates the query cache.
func (ix *Index) Load(records []Record) {
	timer := logging.StartTimer(logging.CategoryKnowledge, "Index.Load")
	defer timer.Stop()

	indexed := make([]indexedRecord, 0, len(records))
	for _, rec := range records {
		indexed = append(indexed, indexedRecord{
			record: rec,
			tokens: Tokenize(rec.searchText()),
		})
	}

	ix.mu.Lock()
	ix.records = indexed
	ix.mu.Unlock()
	ix.cache.Clear()

	logging.Knowledge("Index loaded with %d records", len(records))
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.records)
}

// Search returns the records whose tokens intersect the query's
// non-stopword tokens, ranked by score (descending), ties broken by
// load order. The result is possibly empty and never an error.
func (ix *Index) Search(query string) []Match {
	timer := logging.StartTimer(logging.CategoryKnowledge, "Index.Search")
	defer timer.Stop()

	key := normalizeQuery(query)
	if key == "" {
		return nil
	}
	if cached, ok := ix.cache.Get(key); ok {
		logging.KnowledgeDebug("Cache hit for query: %s", key)
		return cached
	}

	terms := make([]string, 0)
	for tok := range Tokenize(query) {
		if !IsStopword(tok) {
			terms = append(terms, tok)
		}
	}
	sort.Strings(terms)

	ix.mu.RLock()
	type scored struct {
		match Match
		order int
	}
	var results []scored
	for i, ir := range ix.records {
		var matched []string
		for _, term := range terms {
			if _, ok := ir.tokens[term]; ok {
				matched = append(matched, term)
			}
		}
		if len(matched) == 0 {
			continue
		}

		score := float64(len(matched))
		// Boost records hit by multiple distinct terms.
		if len(matched) > 1 {
			score *= 1.0 + float64(len(matched)-1)*0.2
		}

		results = append(results, scored{
			match: Match{Record: ir.record, Score: score, MatchedTerms: matched},
			order: i,
		})
	}
	ix.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].match.Score != results[j].match.Score {
			return results[i].match.Score > results[j].match.Score
		}
		return results[i].order < results[j].order
	})

	if ix.maxResults > 0 && len(results) > ix.maxResults {
		results = results[:ix.maxResults]
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, r.match)
	}

	ix.cache.Set(key, matches)
	logging.KnowledgeDebug("Search %q matched %d records (%d terms)", key, len(matches), len(terms))
	return matches
}

// normalizeQuery canonicalizes a query for cache keying.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// =============================================================================
// QUERY CACHE
// =============================================================================

// QueryCache caches lookup results per normalized query.
type QueryCache struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	matches   []Match
	timestamp time.Time
}

// NewQueryCache creates a new cache.
func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get retrieves cached matches for a query. An expired entry is
// removed so it does not hold a slot until eviction.
func (c *QueryCache) Get(query string) ([]Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[query]
	if !ok {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		delete(c.entries, query)
		return nil, false
	}
	return entry.matches, true
}

// Set stores matches for a query.
func (c *QueryCache) Set(query string, matches []Match) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[query] = &cacheEntry{matches: matches, timestamp: time.Now()}
}

// evictOldest removes the oldest cache entry.
func (c *QueryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.timestamp.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.timestamp
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Clear empties the cache.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}
