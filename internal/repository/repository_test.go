package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListWindow(t *testing.T) {
	skip, limit := listWindow(1, 20)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(20), limit)

	skip, limit = listWindow(3, 15)
	assert.Equal(t, int64(30), skip)
	assert.Equal(t, int64(15), limit)

	skip, limit = listWindow(0, 0)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(defaultPerPage), limit)

	_, limit = listWindow(1, 10_000)
	assert.Equal(t, int64(maxPerPage), limit)
}

func TestRegexQuote(t *testing.T) {
	assert.Equal(t, `c\+\+`, regexQuote("c++"))
	assert.Equal(t, "databases", regexQuote("databases"))
}
