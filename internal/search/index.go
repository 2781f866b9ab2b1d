package search

import (
	"cmp"
	"slices"

	"skylaunch/internal/domain"
)

// Match is one scored search hit. EntryIndex points into the index that
// produced it and is meaningless against any other index.
type Match struct {
	EntryIndex int
	Score      float64
	Rule       Rule
}

const maxStackQuery = 64

// Index is an immutable snapshot of the catalog with every title and keyword
// folded to lowercase once at build time. Entry i always lines up with
// titles[i] and keywords[i]. Safe for concurrent Search calls.
type Index struct {
	entries  []domain.CatalogEntry
	titles   [][]rune
	keywords [][][]rune
	byID     map[string]int
	weights  Weights
}

// NewIndex builds an index from a catalog snapshot. Entries without a title are
// skipped and base weights are clamped to [0,1]. The input slice is copied.
func NewIndex(entries []domain.CatalogEntry, weights Weights) *Index {
	ix := &Index{
		entries:  make([]domain.CatalogEntry, 0, len(entries)),
		titles:   make([][]rune, 0, len(entries)),
		keywords: make([][][]rune, 0, len(entries)),
		byID:     make(map[string]int, len(entries)),
		weights:  weights,
	}

	for _, e := range entries {
		if e.Title == "" {
			continue
		}
		e.BaseWeight = min(max(e.BaseWeight, 0), 1)
		e.Keywords = slices.Clone(e.Keywords)

		kws := make([][]rune, len(e.Keywords))
		for i, kw := range e.Keywords {
			kws[i] = fold(kw)
		}

		if _, dup := ix.byID[e.ID]; !dup {
			ix.byID[e.ID] = len(ix.entries)
		}
		ix.entries = append(ix.entries, e)
		ix.titles = append(ix.titles, fold(e.Title))
		ix.keywords = append(ix.keywords, kws)
	}

	return ix
}

// Len returns the number of indexed entries
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Entry returns the entry at position i
func (ix *Index) Entry(i int) domain.CatalogEntry {
	return ix.entries[i]
}

// Lookup returns the position of the first entry with the given id
func (ix *Index) Lookup(id string) (int, bool) {
	if ix == nil {
		return 0, false
	}
	i, ok := ix.byID[id]
	return i, ok
}

// Weights returns the scoring constants the index was built with
func (ix *Index) Weights() Weights {
	return ix.weights
}

// Search returns at most limit matches for query, best first.
// An empty query lists entries by base weight.
func (ix *Index) Search(query string, limit int) []Match {
	return ix.SearchInto(nil, query, limit)
}

// SearchInto is Search writing into dst's backing array, so a caller that
// keeps its buffer around stops allocating once it has grown to catalog size.
// ASCII queries up to maxStackQuery runes are folded on the stack.
func (ix *Index) SearchInto(dst []Match, query string, limit int) []Match {
	dst = dst[:0]
	if ix.Len() == 0 || limit < 1 {
		return dst
	}

	if query == "" {
		for i, e := range ix.entries {
			dst = append(dst, Match{EntryIndex: i, Score: e.BaseWeight, Rule: RuleDefault})
		}
		return rank(dst, limit)
	}

	var stack [maxStackQuery]rune
	q := foldInto(stack[:0], query)
	for i, e := range ix.entries {
		score, rule := ix.weights.score(e.BaseWeight, ix.titles[i], ix.keywords[i], q)
		if rule == RuleNone {
			continue
		}
		dst = append(dst, Match{EntryIndex: i, Score: score, Rule: rule})
	}
	return rank(dst, limit)
}

// rank sorts by descending score, ascending entry index, and truncates.
// The index tie-break makes the order total, so an unstable sort is deterministic.
func rank(matches []Match, limit int) []Match {
	slices.SortFunc(matches, compareMatches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func compareMatches(a, b Match) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.EntryIndex, b.EntryIndex)
}
