package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "Toyota", b: "Toyota", want: 100},
		{name: "case insensitive", a: "toyota", b: "Toyota", want: 100},
		{name: "one edit", a: "Tyota", b: "Toyota", want: 83},
		{name: "typo nissan", a: "nisan", b: "Nissan", want: 83},
		{name: "unrelated", a: "Mazda", b: "Chevrolet", want: 0},
		{name: "both empty", a: "", b: "", want: 100},
		{name: "one empty", a: "", b: "Golf", want: 0},
		{name: "trailing spaces", a: " Golf ", b: "Golf", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, similarity(tt.a, tt.b))
		})
	}
}

func TestBestMatch(t *testing.T) {
	candidates := []string{"Toyota", "Nissan", "Volkswagen", "Chevrolet"}

	match, score := bestMatch("toyot", candidates)
	assert.Equal(t, "Toyota", match)
	assert.GreaterOrEqual(t, score, FuzzyMatchThreshold)

	match, score = bestMatch("chevolet", candidates)
	assert.Equal(t, "Chevrolet", match)
	assert.GreaterOrEqual(t, score, FuzzyMatchThreshold)

	_, score = bestMatch("zzzzzz", candidates)
	assert.Less(t, score, FuzzyMatchThreshold)
}

func TestBestMatch_NoCandidates(t *testing.T) {
	match, score := bestMatch("Toyota", nil)
	assert.Equal(t, "", match)
	assert.Equal(t, -1, score)
}
