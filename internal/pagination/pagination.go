// Package pagination implements offset pagination over in-memory,
// deterministically ordered slices. Bad page input never errors: a
// non-integer page falls back to the first page and an out-of-range page
// falls back to the last valid page.
package pagination

import (
	"strconv"

	"wishlink/internal/models"
)

// DefaultPageSize matches the listing endpoints' page size.
const DefaultPageSize = 10

// ParsePage converts a raw page query parameter to a page number.
// Empty or non-integer input falls back to page 1.
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// Paginate slices items into the requested page. Page numbers below 1 or
// beyond the last page resolve to the last valid page. Callers must supply
// items in a deterministic order.
func Paginate[T any](items []T, pageSize, page int) *models.PaginatedResponse[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := int64(len(items))
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 || page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	pageItems := items[start:end]
	if pageItems == nil {
		pageItems = []T{}
	}

	return &models.PaginatedResponse[T]{
		Data: pageItems,
		Pagination: models.PaginationMeta{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: pageSize,
			HasNext:      page < totalPages,
			HasPrev:      page > 1,
		},
	}
}
