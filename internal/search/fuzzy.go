package search

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fold lowercases s into a rune sequence. A Caser is stateful, so each call
// gets its own instead of sharing one across concurrent searches.
func fold(s string) []rune {
	return []rune(cases.Lower(language.Und).String(s))
}

// foldInto appends the folded runes of s to dst. ASCII input, which is what
// gets typed almost always, is lowercased in place of going through a Caser
// and does not allocate once dst has room.
func foldInto(dst []rune, s string) []rune {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return append(dst, fold(s)...)
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		dst = append(dst, rune(c))
	}
	return dst
}

// HasPrefix reports whether target starts with query
func HasPrefix(target, query []rune) bool {
	if len(query) > len(target) {
		return false
	}
	for i, r := range query {
		if target[i] != r {
			return false
		}
	}
	return true
}

// IsSubsequence reports whether every rune of query appears in target in the
// same order. Single forward pass, no backtracking.
func IsSubsequence(target, query []rune) bool {
	qi := 0
	for _, r := range target {
		if qi == len(query) {
			break
		}
		if r == query[qi] {
			qi++
		}
	}
	return qi == len(query)
}

// Rule identifies which matching rule produced a score
type Rule int

const (
	RuleNone    Rule = iota
	RuleDefault      // empty query, score is the base weight
	RulePrefix       // title starts with the query
	RuleTitle        // query is a subsequence of the title
	RuleKeyword      // query is a subsequence of a keyword
)

func (r Rule) String() string {
	switch r {
	case RuleDefault:
		return "default"
	case RulePrefix:
		return "prefix"
	case RuleTitle:
		return "title"
	case RuleKeyword:
		return "keyword"
	default:
		return "none"
	}
}

// Weights are the tunable scoring constants
type Weights struct {
	PrefixBonus  float64 // added to the base weight on a title prefix match
	TitleFuzzy   float64 // multiplier for len(query)/len(title) on a title subsequence match
	KeywordFuzzy float64 // multiplier for len(query)/len(keyword) on a keyword subsequence match
}

// DefaultWeights returns the stock scoring constants
func DefaultWeights() Weights {
	return Weights{
		PrefixBonus:  0.5,
		TitleFuzzy:   0.3,
		KeywordFuzzy: 0.2,
	}
}

// score applies the rules in priority order and returns the first that matches.
// query must be non-empty and already folded.
func (w Weights) score(base float64, title []rune, keywords [][]rune, query []rune) (float64, Rule) {
	if HasPrefix(title, query) {
		return base + w.PrefixBonus, RulePrefix
	}
	if IsSubsequence(title, query) {
		return base + w.TitleFuzzy*ratio(query, title), RuleTitle
	}

	// Best keyword wins; ties keep the earliest keyword
	best := -1.0
	for _, kw := range keywords {
		if len(kw) == 0 || !IsSubsequence(kw, query) {
			continue
		}
		if r := ratio(query, kw); r > best {
			best = r
		}
	}
	if best >= 0 {
		return base + w.KeywordFuzzy*best, RuleKeyword
	}
	return 0, RuleNone
}

func ratio(query, target []rune) float64 {
	return float64(len(query)) / float64(len(target))
}
