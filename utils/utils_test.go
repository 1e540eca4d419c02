package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniquesKeepsFirstOccurrence(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, Uniques([]int{3, 1, 3, 2, 1}))
	assert.Empty(t, Uniques([]int{}))
}

func TestGroupByAndCountBy(t *testing.T) {
	words := []string{"gala", "jury", "note", "juge"}
	first := func(s string) byte { return s[0] }

	assert.Equal(t, map[byte][]string{'g': {"gala"}, 'j': {"jury", "juge"}, 'n': {"note"}}, GroupBy(words, first))
	assert.Equal(t, map[byte]int{'g': 1, 'j': 2, 'n': 1}, CountBy(words, first))
	assert.Equal(t, []int{4, 4, 4, 4}, Map(words, func(s string) int { return len(s) }))
}
