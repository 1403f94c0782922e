package typeinfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eboody/statum/internal/typeinfo"
)

func results(t *testing.T, codes ...string) []typeinfo.Type {
	t.Helper()
	var out []typeinfo.Type
	for _, code := range codes {
		out = append(out, parseType(t, code, nil))
	}
	return out
}

func TestPeel(t *testing.T) {
	tests := []struct {
		results []string
		inner   string
		wrapper typeinfo.Wrapper
	}{
		{[]string{"*M[Done]"}, "M[Done]", typeinfo.Pointer},
		{[]string{"M[Done]", "error"}, "M[Done]", typeinfo.ErrorPair},
		{[]string{"M[Done]", "bool"}, "M[Done]", typeinfo.OKPair},
		{[]string{"statum.Result[M[Done]]"}, "M[Done]", typeinfo.Generic},
		{[]string{"Option[*M[Done]]"}, "*M[Done]", typeinfo.Generic},
	}
	for _, tt := range tests {
		shape, ok := typeinfo.Peel(results(t, tt.results...))
		require.True(t, ok, tt.results)
		assert.Equal(t, tt.inner, shape.Type.String(), tt.results)
		assert.Equal(t, tt.wrapper, shape.Wrapper, tt.results)
	}

	for _, codes := range [][]string{
		{"M[Done]"},
		{"Decision"},
		{"M[Done]", "int"},
		{"Pair[M[Done], int]"},
		{"M[Done]", "error", "bool"},
	} {
		_, ok := typeinfo.Peel(results(t, codes...))
		assert.False(t, ok, codes)
	}
}

func TestDepth(t *testing.T) {
	isMachine := func(typ typeinfo.Type) bool {
		inst, ok := typ.Instance()
		return ok && inst.Name == "M" && len(inst.Args) == 1
	}

	assert.Equal(t, 0, typeinfo.Depth(results(t, "M[Done]"), isMachine))
	assert.Equal(t, 1, typeinfo.Depth(results(t, "*M[Done]"), isMachine))
	assert.Equal(t, 1, typeinfo.Depth(results(t, "M[Done]", "error"), isMachine))
	assert.Equal(t, 2, typeinfo.Depth(results(t, "*M[Done]", "error"), isMachine))
	assert.Equal(t, 2, typeinfo.Depth(results(t, "*Result[M[Done]]"), isMachine))
	assert.Equal(t, -1, typeinfo.Depth(results(t, "Decision"), isMachine))
	assert.Equal(t, -1, typeinfo.Depth(results(t, "M[Done]", "M[Done]"), isMachine))
}
