package match

import (
	"cmp"
	"fmt"
	"go/token"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
)

// visualizer renders match results in a tabular format like below:
//
//	ok:   Draft     -> IsDraft
//	FAIL: Published -> ?       // missing IsPublished
type visualizer struct {
	matches map[[2]Entry]validity
}

func newVisualizer() *visualizer {
	return &visualizer{matches: make(map[[2]Entry]validity)}
}

type validity struct {
	ok     bool
	reason string
}

func (vis *visualizer) put(x, y Entry, val validity) {
	vis.matches[[2]Entry{x, y}] = val

	if x.IsValid() && y.IsValid() {
		// Both sides are present now, so neither is missing anymore.
		delete(vis.matches, [2]Entry{x, missing})
		delete(vis.matches, [2]Entry{missing, y})
	}
}

// Match records a valid match.
func (vis *visualizer) Match(x, y Entry, reason string) {
	vis.put(x, y, validity{ok: true, reason: reason})
}

// MatchFail records an invalid match.
func (vis *visualizer) MatchFail(x, y Entry, reason string) {
	vis.put(x, y, validity{ok: false, reason: reason})
}

func (vis visualizer) String() string {
	pairs := slices.SortedFunc(maps.Keys(vis.matches), func(a, b [2]Entry) int {
		return cmp.Or(
			comparePos(a[0].Pos(), b[0].Pos()),
			comparePos(a[1].Pos(), b[1].Pos()),
		)
	})

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 1, 1, 1, ' ', 0)
	for i, pair := range pairs {
		v := vis.matches[pair]
		if i != 0 {
			io.WriteString(tw, "\n")
		}

		status := "FAIL:"
		if v.ok {
			status = "ok:"
		}
		fmt.Fprintf(tw, "%s\t%s\t->\t%s", status, pair[0], pair[1])
		if v.reason != "" {
			fmt.Fprintf(tw, "\t// %s", v.reason)
		}
	}
	tw.Flush()
	return b.String()
}

// comparePos orders entries by position. Missing entries go last.
func comparePos(a, b token.Pos) int {
	if a.IsValid() != b.IsValid() {
		if a.IsValid() {
			return -1
		}
		return 1
	}
	return cmp.Compare(a, b)
}
