// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat2(t *testing.T) {
	assert := assert.New(t)

	a := slices.All([]string{"x", "y"})
	b := slices.All([]string{"z"})

	var keys []int
	var values []string
	for k, v := range Concat2(a, b) {
		keys = append(keys, k)
		values = append(values, v)
	}
	assert.Equal([]int{0, 1, 0}, keys)
	assert.Equal([]string{"x", "y", "z"}, values)

	// Early exit stops the walk.
	var first []string
	for _, v := range Concat2(a, b) {
		first = append(first, v)
		break
	}
	assert.Equal([]string{"x"}, first)

	assert.Empty(maps.Collect(Concat2[string, string]()))
}
