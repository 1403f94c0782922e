// Package lcs measures how much names have in common at their ends. Statum
// uses it to suggest the name a user probably meant, and to derive local
// names from declared ones.
package lcs

import "unicode/utf8"

// PrefixLen returns the number of leading runes a and b share.
func PrefixLen(a, b string) int {
	n := 0
	for a != "" && b != "" {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)
		if ra != rb {
			break
		}
		a, b = a[sa:], b[sb:]
		n++
	}
	return n
}

// SuffixLen returns the number of trailing runes a and b share.
func SuffixLen(a, b string) int {
	n := 0
	for a != "" && b != "" {
		ra, sa := utf8.DecodeLastRuneInString(a)
		rb, sb := utf8.DecodeLastRuneInString(b)
		if ra != rb {
			break
		}
		a, b = a[:len(a)-sa], b[:len(b)-sb]
		n++
	}
	return n
}
