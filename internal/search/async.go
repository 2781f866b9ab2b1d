package search

import (
	"fmt"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
)

// Result is the output of one asynchronous search
type Result struct {
	Generation uint64
	Query      string
	Index      *Index // snapshot the matches refer to
	Matches    []Match
}

// AsyncSearcher runs searches on a worker pool for catalogs too large to score
// inside one frame. Every submission gets a new generation number; a result is
// only worth applying while its generation is still the latest. Superseded work
// is not interrupted, it just skips scoring or delivery when it notices.
type AsyncSearcher struct {
	pool    *ants.Pool
	latest  atomic.Uint64
	deliver func(Result)
}

// NewAsyncSearcher creates a searcher with the given number of workers.
// deliver is called from a worker goroutine.
func NewAsyncSearcher(workers int, deliver func(Result)) (*AsyncSearcher, error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create search pool: %w", err)
	}
	return &AsyncSearcher{
		pool:    pool,
		deliver: deliver,
	}, nil
}

// Submit queues a search and returns its generation
func (a *AsyncSearcher) Submit(ix *Index, query string, limit int) (uint64, error) {
	gen := a.latest.Add(1)
	err := a.pool.Submit(func() {
		if !a.IsCurrent(gen) {
			return
		}
		matches := ix.Search(query, limit)
		if !a.IsCurrent(gen) {
			return
		}
		a.deliver(Result{
			Generation: gen,
			Query:      query,
			Index:      ix,
			Matches:    matches,
		})
	})
	if err != nil {
		return gen, fmt.Errorf("failed to submit search: %w", err)
	}
	return gen, nil
}

// Supersede marks every in-flight search stale without starting a new one
func (a *AsyncSearcher) Supersede() uint64 {
	return a.latest.Add(1)
}

// IsCurrent reports whether gen is the most recent generation
func (a *AsyncSearcher) IsCurrent(gen uint64) bool {
	return a.latest.Load() == gen
}

// Release stops the worker pool
func (a *AsyncSearcher) Release() {
	a.pool.Release()
}
