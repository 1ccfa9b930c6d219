package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeJSONList(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{``, ``},
		{`null`, ``},
		{`["a","b"]`, `["a","b"]`},
		{`"[\"a\"]"`, `["a"]`},
		{`""`, ``},
		{`"orgânico"`, `[]`},
		{`{"a":1}`, `[]`},
	}
	for _, c := range cases {
		got := normalizeJSONList(json.RawMessage(c.in))
		assert.Equal(t, c.want, string(got), c.in)
	}
}

func TestPage_Normalize(t *testing.T) {
	p := Page{}.Normalize()
	assert.Equal(t, Page{Page: 1, Limit: 20}, p)
	assert.Equal(t, 0, p.Offset())

	p = Page{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 200, p.Offset())

	assert.Equal(t, 0, totalPages(0, 20))
	assert.Equal(t, 3, totalPages(41, 20))
}
