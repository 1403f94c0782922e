package lcs

import "unicode"

// LowerCamel turns a declared name into a local one by lower-casing its
// leading upper-case run. The last letter of the run stays upper-case when
// it starts the next word, so initialisms read well.
//
// e.g., LowerCamel("Row") => "row"
// e.g., LowerCamel("URLPath") => "urlPath"
// e.g., LowerCamel("ID") => "id"
func LowerCamel(s string) string {
	rs := []rune(s)
	n := 0
	for n < len(rs) && unicode.IsUpper(rs[n]) {
		n++
	}
	if n > 1 && n < len(rs) && unicode.IsLower(rs[n]) {
		n--
	}
	for i := range n {
		rs[i] = unicode.ToLower(rs[i])
	}
	return string(rs)
}

// Initial returns the first letter of s in lower case, like "r" for "Row"
// or "é" for "Élan". It returns "" for an empty s.
func Initial(s string) string {
	for _, r := range s {
		return string(unicode.ToLower(r))
	}
	return ""
}
