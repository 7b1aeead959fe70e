package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(1, 10)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, 10, limit)

	offset, limit = CalculateOffsetLimit(3, 25)
	assert.Equal(t, uint64(50), offset)
	assert.Equal(t, 25, limit)

	// invalid size falls back to the default
	offset, limit = CalculateOffsetLimit(2, 0)
	assert.Equal(t, uint64(10), offset)
	assert.Equal(t, DefaultPageSize, limit)

	// oversized page size is clamped
	_, limit = CalculateOffsetLimit(1, 5000)
	assert.Equal(t, DefaultPageSize, limit)

	// invalid page falls back to page 1
	offset, _ = CalculateOffsetLimit(-4, 10)
	assert.Equal(t, uint64(0), offset)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 10)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 5, info.TotalPages)
	assert.Equal(t, int64(45), info.TotalItems)

	// empty result set still reports one page
	info = NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, info.TotalPages)

	// current page never exceeds total pages
	info = NewPaginationInfo(10, 9, 10)
	assert.Equal(t, 1, info.CurrentPage)
}
