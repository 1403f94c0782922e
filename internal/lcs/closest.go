package lcs

import "unicode/utf8"

// Closest returns the candidate most similar to s, measured by the length of
// the common prefix plus the common suffix. It reports false if no candidate
// shares at least two thirds of its length with s.
//
// e.g., Closest("IsPublised", ["IsDraft", "IsPublished"]) => "IsPublished"
func Closest(s string, candidates []string) (string, bool) {
	best, bestScore := "", 0
	for _, c := range candidates {
		if c == s {
			continue
		}

		n := utf8.RuneCountInString(c)
		score := min(PrefixLen(s, c)+SuffixLen(s, c), utf8.RuneCountInString(s), n)
		if score*3 < n*2 {
			continue
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore != 0
}
