package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInts(t *testing.T) {
	assert := assert.New(t)

	elems, err := parseInts([]string{"1", "-5", "300"})
	assert.NoError(err)
	assert.Equal([]int64{1, -5, 300}, elems)

	elems, err = parseInts(nil)
	assert.NoError(err)
	assert.Empty(elems)

	_, err = parseInts([]string{"1", "two"})
	assert.Error(err)
}
