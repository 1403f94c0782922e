// Package match pairs the variants of a state with the entries that must
// cover them one to one, such as the predicates of a validators block, and
// keeps the transition edges between variants.
package match

import (
	"go/token"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/eboody/statum/internal/lcs"
)

// Entry is a named item to be matched. Entries on both sides with the same
// key match each other.
type Entry struct {
	Name string
	Key  string
	pos  token.Pos
}

// NewEntry creates an entry displayed as name.
func NewEntry(name, key string, pos token.Pos) Entry {
	return Entry{Name: name, Key: key, pos: pos}
}

// IsValid reports whether the entry is not the missing sentinel.
func (e Entry) IsValid() bool { return e.Name != "" }

func (e Entry) Pos() token.Pos { return e.pos }

func (e Entry) String() string {
	if !e.IsValid() {
		return "?"
	}
	return e.Name
}

// missing is a sentinel entry standing for the absent side of a failed match.
var missing = Entry{}

// Pair is a successful match.
type Pair struct{ X, Y Entry }

// Extra is a Y entry that no X entry claims.
type Extra struct {
	Entry

	// Hint is the expected name closest to the entry, if any.
	Hint string
}

// Result is the outcome of [Matcher.Match].
type Result struct {
	// Pairs are in the order of X entries.
	Pairs []Pair

	// Missing are the X entries without a Y entry.
	Missing []Entry

	// Extra are the Y entries without an X entry.
	Extra []Extra

	table string
}

// OK reports whether every X entry matched exactly one Y entry and vice
// versa.
func (r Result) OK() bool { return len(r.Missing) == 0 && len(r.Extra) == 0 }

// Table renders every match and failure, one per line.
//
//	ok:   Draft    -> IsDraft
//	FAIL: Archived -> ?        // missing IsArchived
//	FAIL: ?        -> IsArchivd // no such variant; did you mean IsArchived?
func (r Result) Table() string { return r.table }

// Matcher matches X entries to Y entries by key. X entries come first in
// every listing, in the order they were added.
type Matcher struct {
	xs, ys *linkedhashmap.Map // key: string, value: Entry
	expect func(key string) string
}

// NewMatcher creates a matcher. expect names the Y entry an X entry of the
// given key needs; it is used in failure reasons and hints.
func NewMatcher(expect func(key string) string) *Matcher {
	return &Matcher{
		xs:     linkedhashmap.New(),
		ys:     linkedhashmap.New(),
		expect: expect,
	}
}

// AddX adds an X entry. It reports false and keeps the first entry if the
// key was already added.
func (m *Matcher) AddX(e Entry) bool { return add(m.xs, e) }

// AddY adds a Y entry. It reports false and keeps the first entry if the
// key was already added.
func (m *Matcher) AddY(e Entry) bool { return add(m.ys, e) }

func add(entries *linkedhashmap.Map, e Entry) bool {
	if _, ok := entries.Get(e.Key); ok {
		return false
	}
	entries.Put(e.Key, e)
	return true
}

// Match pairs the entries.
func (m *Matcher) Match() Result {
	var res Result
	links := newBidiMultiMap[Entry, Entry]()
	vis := newVisualizer()

	var expected []string
	for it := m.xs.Iterator(); it.Next(); {
		x := it.Value().(Entry)
		if y, ok := m.ys.Get(x.Key); ok {
			links.Add(x, y.(Entry))
			vis.Match(x, y.(Entry), "")
			continue
		}

		want := m.expect(x.Key)
		expected = append(expected, want)
		res.Missing = append(res.Missing, x)
		vis.MatchFail(x, missing, "missing "+want)
	}

	for x, y := range links.All() {
		res.Pairs = append(res.Pairs, Pair{x, y})
	}

	for it := m.ys.Iterator(); it.Next(); {
		y := it.Value().(Entry)
		if len(links.GetKeys(y)) != 0 {
			continue
		}

		extra := Extra{Entry: y}
		reason := "no such variant"
		if hint, ok := lcs.Closest(y.Name, expected); ok {
			extra.Hint = hint
			reason += "; did you mean " + hint + "?"
		}
		res.Extra = append(res.Extra, extra)
		vis.MatchFail(missing, y, reason)
	}

	res.table = vis.String()
	return res
}
