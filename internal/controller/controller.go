package controller

import (
	"fmt"
	"log"
	"slices"
	"sync/atomic"

	"skylaunch/internal/domain"
	"skylaunch/internal/eventbus"
	"skylaunch/internal/search"
	"skylaunch/internal/selection"
)

// Options tunes the controller
type Options struct {
	Limit          int // maximum results per query
	PageSize       int // rows moved by page up/down
	AsyncThreshold int // catalogs larger than this search on the worker pool; 0 never
}

// DefaultOptions returns the stock options
func DefaultOptions() Options {
	return Options{
		Limit:          8,
		PageSize:       5,
		AsyncThreshold: 0,
	}
}

// ResultView is what the renderer gets for one result row
type ResultView struct {
	ID       string
	Title    string
	Subtitle string
	Score    float64
	Rule     search.Rule
	Source   string
}

// searchFunc matches (*search.Index).SearchInto so tests can count scoring passes
type searchFunc func(ix *search.Index, dst []search.Match, query string, limit int) []search.Match

func indexSearch(ix *search.Index, dst []search.Match, query string, limit int) []search.Match {
	return ix.SearchInto(dst, query, limit)
}

// Controller turns text and navigation input into an ordered result list and a
// selection. It is driven from a single goroutine (the UI loop); only the index
// pointer is shared, with searches running on the async pool.
type Controller struct {
	index   atomic.Pointer[search.Index]
	weights search.Weights
	opts    Options
	bus     eventbus.EventBus

	cache  *search.QueryCache
	cursor *selection.Cursor

	query     string         // query the current results belong to
	results   []search.Match // current results
	resultsIx *search.Index  // index the current results point into
	scratch   []search.Match
	recent    []string

	async        *search.AsyncSearcher
	pending      uint64 // generation of the in-flight async search, 0 if none
	pendingQuery string

	searchFn searchFunc
}

// New creates a controller over an empty catalog
func New(bus eventbus.EventBus, weights search.Weights, opts Options) *Controller {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	if opts.Limit < 1 {
		opts.Limit = DefaultOptions().Limit
	}
	if opts.PageSize < 1 {
		opts.PageSize = DefaultOptions().PageSize
	}

	c := &Controller{
		weights:  weights,
		opts:     opts,
		bus:      bus,
		cache:    search.NewQueryCache(),
		cursor:   selection.NewCursor(),
		searchFn: indexSearch,
	}
	c.index.Store(search.NewIndex(nil, weights))
	c.refresh(c.query, true)
	return c
}

// EnableAsync turns on worker-pool searching for large catalogs. deliver is
// invoked on a worker goroutine and must hand the result back to the goroutine
// driving the controller, which then calls ApplyAsync.
func (c *Controller) EnableAsync(workers int, deliver func(search.Result)) error {
	if c.opts.AsyncThreshold <= 0 {
		return nil
	}
	async, err := search.NewAsyncSearcher(workers, deliver)
	if err != nil {
		return fmt.Errorf("failed to enable async search: %w", err)
	}
	c.async = async
	return nil
}

// Close releases the worker pool, if any
func (c *Controller) Close() {
	if c.async != nil {
		c.async.Release()
	}
}

// Rebuild swaps in a new index built from a complete catalog snapshot and
// re-runs the current query against it.
func (c *Controller) Rebuild(entries []domain.CatalogEntry) {
	ix := search.NewIndex(entries, c.weights)
	c.index.Store(ix)
	c.cache.Invalidate()
	c.cancelPending()
	log.Printf("Controller: index rebuilt with %d entries", ix.Len())
	c.refresh(c.query, true)
}

// OnTextChanged receives the full current query string
func (c *Controller) OnTextChanged(query string) {
	c.refresh(query, false)
}

// OnNavigate moves the selection. Ignored while there are no results.
func (c *Controller) OnNavigate(direction selection.Direction) {
	// Move fails on an empty cursor, so old is always a real position here
	old, _ := c.cursor.Index()
	if !c.cursor.Move(direction, c.opts.PageSize) {
		return
	}
	now, _ := c.cursor.Index()
	c.bus.Publish(eventbus.SelectionMovedEvent{OldIndex: old, NewIndex: now})
}

// OnExecute hands the selected entry to the execution collaborator.
// Returns false when nothing is selected.
func (c *Controller) OnExecute() (domain.CatalogEntry, bool) {
	entry, ok := c.SelectedEntry()
	if !ok {
		return domain.CatalogEntry{}, false
	}
	c.bus.Publish(eventbus.ExecuteRequestedEvent{Entry: entry})
	return entry, true
}

// SetRecent sets the recently launched entry ids, newest first. They lead the
// empty-query listing.
func (c *Controller) SetRecent(ids []string) {
	if slices.Equal(ids, c.recent) {
		return
	}
	c.recent = slices.Clone(ids)
	if c.query == "" {
		c.cache.Invalidate()
		c.refresh("", true)
	}
}

// ApplyAsync applies a worker result if it is still the newest request for
// the current index. Stale results are dropped. Returns whether it was applied.
func (c *Controller) ApplyAsync(r search.Result) bool {
	if c.async == nil || c.pending == 0 || r.Generation != c.pending ||
		!c.async.IsCurrent(r.Generation) || r.Index != c.index.Load() {
		log.Printf("Controller: dropping stale search result for %q", r.Query)
		return false
	}
	c.pending = 0
	c.pendingQuery = ""
	matches := c.withRecent(r.Index, r.Query, r.Matches)
	c.cache.Store(r.Query, matches)
	c.apply(r.Query, r.Index, matches, false)
	return true
}

// CurrentResults returns a copy of the current result rows, best first
func (c *Controller) CurrentResults() []ResultView {
	views := make([]ResultView, len(c.results))
	for i, m := range c.results {
		e := c.resultsIx.Entry(m.EntryIndex)
		views[i] = ResultView{
			ID:       e.ID,
			Title:    e.Title,
			Subtitle: e.Subtitle,
			Score:    m.Score,
			Rule:     m.Rule,
			Source:   e.Source,
		}
	}
	return views
}

// CurrentSelection returns the highlighted row, if any
func (c *Controller) CurrentSelection() (int, bool) {
	return c.cursor.Index()
}

// SelectedEntry returns a copy of the highlighted entry
func (c *Controller) SelectedEntry() (domain.CatalogEntry, bool) {
	i, ok := c.cursor.Index()
	if !ok {
		return domain.CatalogEntry{}, false
	}
	return c.resultsIx.Entry(c.results[i].EntryIndex), true
}

// Query returns the query the current results belong to
func (c *Controller) Query() string {
	return c.query
}

// Pending reports whether an async search is in flight
func (c *Controller) Pending() bool {
	return c.pending != 0
}

// CatalogSize returns the number of indexed entries
func (c *Controller) CatalogSize() int {
	return c.index.Load().Len()
}

// CacheStats exposes the query cache counters
func (c *Controller) CacheStats() (hits, misses int) {
	return c.cache.Stats()
}

// refresh brings the results in line with query. With force it recomputes
// even when the cache holds query, which callers use after invalidating it.
func (c *Controller) refresh(query string, force bool) {
	ix := c.index.Load()

	if !force {
		if c.pending != 0 && query == c.pendingQuery {
			return
		}
		if results, ok := c.cache.Lookup(query); ok {
			if c.pending == 0 && query == c.query && c.resultsIx == ix {
				// Same logical input, e.g. a modifier-only key press; keep the selection
				return
			}
			c.cancelPending()
			c.apply(query, ix, results, true)
			return
		}
	}

	c.cancelPending()
	if c.async != nil && ix.Len() > c.opts.AsyncThreshold {
		gen, err := c.async.Submit(ix, query, c.opts.Limit)
		if err == nil {
			c.pending = gen
			c.pendingQuery = query
			return
		}
		log.Printf("Controller: %v, searching inline", err)
	}

	c.scratch = c.searchFn(ix, c.scratch, query, c.opts.Limit)
	results := c.withRecent(ix, query, c.scratch)
	c.cache.Store(query, results)
	c.apply(query, ix, results, false)
}

func (c *Controller) cancelPending() {
	if c.pending == 0 {
		return
	}
	c.pending = 0
	c.pendingQuery = ""
	c.async.Supersede()
}

// withRecent puts recently launched entries in front of the default listing.
// Only the empty query is affected.
func (c *Controller) withRecent(ix *search.Index, query string, matches []search.Match) []search.Match {
	if query != "" || len(c.recent) == 0 {
		return matches
	}

	merged := make([]search.Match, 0, c.opts.Limit)
	seen := make(map[int]bool, len(c.recent))
	for _, id := range c.recent {
		if len(merged) == c.opts.Limit {
			break
		}
		i, ok := ix.Lookup(id)
		if !ok || seen[i] {
			continue
		}
		seen[i] = true
		merged = append(merged, search.Match{EntryIndex: i, Score: ix.Entry(i).BaseWeight, Rule: search.RuleDefault})
	}
	for _, m := range matches {
		if len(merged) == c.opts.Limit {
			break
		}
		if seen[m.EntryIndex] {
			continue
		}
		merged = append(merged, m)
	}
	return merged
}

func (c *Controller) apply(query string, ix *search.Index, results []search.Match, cached bool) {
	c.query = query
	c.results = results
	c.resultsIx = ix
	c.cursor.Reset(len(results))
	c.bus.Publish(eventbus.QueryChangedEvent{Query: query, Results: len(results), Cached: cached})
}
