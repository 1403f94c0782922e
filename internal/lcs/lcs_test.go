package lcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eboody/statum/internal/lcs"
)

func TestPrefixLen(t *testing.T) {
	assert.Equal(t, 3, lcs.PrefixLen("prefix", "present"))
	assert.Equal(t, 4, lcs.PrefixLen("hell", "hello"), "a string can be the prefix itself")
	assert.Equal(t, 0, lcs.PrefixLen("", "hello"))
	assert.Equal(t, 0, lcs.PrefixLen("feel", "extend"))
	assert.Equal(t, 1, lcs.PrefixLen("안경", "안녕"), "runes are compared, not bytes")
}

func TestSuffixLen(t *testing.T) {
	assert.Equal(t, 3, lcs.SuffixLen("IsDone", "IsGone"))
	assert.Equal(t, 2, lcs.SuffixLen("ed", "IsPublished"))
	assert.Equal(t, 0, lcs.SuffixLen("Draft", ""))
	assert.Equal(t, 0, lcs.SuffixLen("Open", "Closed"))
	assert.Equal(t, 1, lcs.SuffixLen("경안", "녕안"))
}
