package ui

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance is the largest edit distance FindSimilar accepts
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions caps the number of FindSimilar results
	DefaultMaxSuggestions = 3
)

// FuzzyOptions configures FindSimilar
type FuzzyOptions struct {
	MaxDistance    int
	MaxSuggestions int
	CaseSensitive  bool
}

// FindSimilar returns the candidates closest to target by edit distance,
// nearest first. Ties keep candidate order.
func FindSimilar(target string, candidates []string, opts *FuzzyOptions) []string {
	o := FuzzyOptions{}
	if opts != nil {
		o = *opts
	}
	if o.MaxDistance == 0 {
		o.MaxDistance = DefaultMaxDistance
	}
	if o.MaxSuggestions == 0 {
		o.MaxSuggestions = DefaultMaxSuggestions
	}

	type match struct {
		value    string
		distance int
	}

	needle := target
	if !o.CaseSensitive {
		needle = strings.ToLower(target)
	}

	var matches []match
	for _, candidate := range candidates {
		hay := candidate
		if !o.CaseSensitive {
			hay = strings.ToLower(candidate)
		}
		if d := EditDistance(needle, hay); d <= o.MaxDistance {
			matches = append(matches, match{candidate, d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	result := make([]string, 0, o.MaxSuggestions)
	for i := 0; i < len(matches) && i < o.MaxSuggestions; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// FindBestMatch returns the closest candidate, or "" when none is close
func FindBestMatch(target string, candidates []string) string {
	matches := FindSimilar(target, candidates, &FuzzyOptions{MaxSuggestions: 1})
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// EditDistance is the Levenshtein distance between a and b, counted in runes
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
