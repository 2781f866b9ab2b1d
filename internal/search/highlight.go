package search

import (
	"github.com/sahilm/fuzzy"
)

// MatchedPositions returns the rune positions in text that query matched, for
// highlighting. It returns nil for an empty query or when text does not match.
func MatchedPositions(query, text string) []int {
	if query == "" || text == "" {
		return nil
	}
	folded := string(fold(text))
	matches := fuzzy.Find(string(fold(query)), []string{folded})
	if len(matches) == 0 {
		return nil
	}
	return runePositions(folded, matches[0].MatchedIndexes)
}

// runePositions converts byte offsets reported by the matcher into rune
// positions. Identity for ASCII.
func runePositions(s string, offsets []int) []int {
	if len(offsets) == 0 {
		return nil
	}
	out := make([]int, 0, len(offsets))
	next := 0
	runeIdx := 0
	for byteIdx := range s {
		if next == len(offsets) {
			break
		}
		if byteIdx == offsets[next] {
			out = append(out, runeIdx)
			next++
		}
		runeIdx++
	}
	return out
}
