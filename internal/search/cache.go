package search

// QueryCache remembers the results of the last query only. A hit requires the
// exact same query string; there is no prefix reuse.
// Not safe for concurrent use; the controller owns it.
type QueryCache struct {
	query   string
	results []Match
	valid   bool

	hits   int
	misses int
}

// NewQueryCache creates an empty cache
func NewQueryCache() *QueryCache {
	return &QueryCache{}
}

// GetOrCompute returns the cached results when query matches the cached query,
// otherwise calls compute and replaces the slot with its output.
// The bool reports a cache hit.
func (c *QueryCache) GetOrCompute(query string, compute func(string) []Match) ([]Match, bool) {
	if results, ok := c.Lookup(query); ok {
		return results, true
	}
	results := compute(query)
	c.Store(query, results)
	return results, false
}

// Lookup returns the cached results for query, if any
func (c *QueryCache) Lookup(query string) ([]Match, bool) {
	if c.valid && c.query == query {
		c.hits++
		return c.results, true
	}
	c.misses++
	return nil, false
}

// Store replaces the cached pair
func (c *QueryCache) Store(query string, results []Match) {
	c.query = query
	c.results = results
	c.valid = true
}

// Invalidate empties the cache, e.g. after the index was swapped
func (c *QueryCache) Invalidate() {
	c.query = ""
	c.results = nil
	c.valid = false
}

// Stats returns hit and miss counters
func (c *QueryCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
