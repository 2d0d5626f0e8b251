package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"NewServer", "NewServr", 1},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
		})
	}
}

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NewHTTPServer", "newhttpserver"},
		{"new_http_server", "newhttpserver"},
		{"newHttpServer", "newhttpserver"},
		{"ID", "id"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdent(tt.input))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("max_conns", "MaxConns"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.Less(t, Similarity("Server", "Pool"), 0.5)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"NewServer", "NewInner", "NewOuter", "Level", "Server"}

	got := Suggest("NewServr", candidates, 3, DefaultThreshold)
	assert.Equal(t, "NewServer", got[0])
	assert.LessOrEqual(t, len(got), 3)
	assert.NotContains(t, got, "Level")

	assert.Empty(t, Suggest("Zzzzzz", candidates, 3, DefaultThreshold))
	assert.Nil(t, Suggest("NewServer", candidates, 0, DefaultThreshold))
}
