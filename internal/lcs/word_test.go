package lcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eboody/statum/internal/lcs"
)

func TestLowerCamel(t *testing.T) {
	tests := map[string]string{
		"Row":         "row",
		"Name":        "name",
		"ID":          "id",
		"URLPath":     "urlPath",
		"HTTPServer2": "httpServer2",
		"My_Field":    "my_Field",
		"already":     "already",
		"Ö":           "ö",
		"":            "",
	}
	for input, want := range tests {
		assert.Equal(t, want, lcs.LowerCamel(input), input)
	}
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "r", lcs.Initial("Row"))
	assert.Equal(t, "é", lcs.Initial("Élan"))
	assert.Equal(t, "ö", lcs.Initial("Öl"))
	assert.Equal(t, "", lcs.Initial(""))
}
