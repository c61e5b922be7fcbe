package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intRange(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("1.5"))
	assert.Equal(t, 3, ParsePage("3"))
	assert.Equal(t, -2, ParsePage("-2"))
}

func TestPaginate(t *testing.T) {
	t.Run("middle page of 25 items", func(t *testing.T) {
		got := Paginate(intRange(25), 10, 3)
		assert.Equal(t, []int{21, 22, 23, 24, 25}, got.Data)
		assert.Equal(t, 3, got.Pagination.CurrentPage)
		assert.Equal(t, 3, got.Pagination.TotalPages)
		assert.Equal(t, int64(25), got.Pagination.TotalItems)
		assert.False(t, got.Pagination.HasNext)
		assert.True(t, got.Pagination.HasPrev)
	})

	t.Run("non integer page falls back to first page", func(t *testing.T) {
		got := Paginate(intRange(25), 10, ParsePage("abc"))
		assert.Equal(t, 1, got.Pagination.CurrentPage)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, got.Data)
		assert.True(t, got.Pagination.HasNext)
		assert.False(t, got.Pagination.HasPrev)
	})

	t.Run("page past the end falls back to last page", func(t *testing.T) {
		got := Paginate(intRange(25), 10, 99)
		assert.Equal(t, 3, got.Pagination.CurrentPage)
		assert.Equal(t, []int{21, 22, 23, 24, 25}, got.Data)
	})

	t.Run("page below one falls back to last page", func(t *testing.T) {
		got := Paginate(intRange(25), 10, 0)
		assert.Equal(t, 3, got.Pagination.CurrentPage)
	})

	t.Run("empty input yields one empty page", func(t *testing.T) {
		got := Paginate([]int{}, 10, 5)
		assert.Empty(t, got.Data)
		assert.NotNil(t, got.Data)
		assert.Equal(t, 1, got.Pagination.CurrentPage)
		assert.Equal(t, 1, got.Pagination.TotalPages)
		assert.Equal(t, int64(0), got.Pagination.TotalItems)
	})

	t.Run("exact multiple of page size", func(t *testing.T) {
		got := Paginate(intRange(20), 10, 2)
		assert.Equal(t, 2, got.Pagination.TotalPages)
		assert.Equal(t, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, got.Data)
	})
}
