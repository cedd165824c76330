package domain

import (
	"fmt"
	"math"
	"strings"

	"carrest/internal/core/apperror"
)

// DefaultPageSize is used when the client does not pass pageSize.
const DefaultPageSize = 10

// SortDirection is the ordering of a paged list.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection accepts ASC/DESC in any case. Empty means ASC.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	}
	return "", apperror.NewValidation(fmt.Sprintf("Invalid sort direction : %s", s))
}

// SortFields maps API sort field names to storage sort keys.
// Anything outside the map is rejected.
type SortFields map[string]string

// PageRequest describes a zero-based page of a sorted list.
type PageRequest struct {
	// Offset is the page index, not a row offset
	Offset    int
	PageSize  int
	SortField string
	Direction SortDirection
}

// DefaultPageRequest returns page 0 of size DefaultPageSize sorted ascending.
func DefaultPageRequest() PageRequest {
	return PageRequest{
		Offset:    0,
		PageSize:  DefaultPageSize,
		Direction: SortAsc,
	}
}

// Resolve validates the request against the allow-list and converts it to a
// storage-level ListFilter.
func (r PageRequest) Resolve(fields SortFields, defaultField string) (ListFilter, error) {
	if r.Offset < 0 {
		return ListFilter{}, apperror.NewValidation("Offset must be a non-negative integer.")
	}
	if r.PageSize <= 0 {
		return ListFilter{}, apperror.NewValidation("Page size must be a positive integer.")
	}

	field := r.SortField
	if field == "" {
		field = defaultField
	}
	key, ok := fields[field]
	if !ok {
		return ListFilter{}, apperror.NewValidation(fmt.Sprintf("Invalid sort field : %s", field))
	}

	skip := math.MaxInt
	if r.Offset == 0 || r.PageSize <= math.MaxInt/r.Offset {
		skip = r.Offset * r.PageSize
	}

	return ListFilter{
		OrderBy:    key,
		Descending: r.Direction == SortDesc,
		Limit:      r.PageSize,
		Offset:     skip,
	}, nil
}

// Page is one page of a sorted list plus totals.
type Page[T any] struct {
	Content       []T
	TotalElements int64
	TotalPages    int
	Number        int
	Size          int
}

// NewPage assembles a Page from a storage result.
func NewPage[T any](result ListResult[T], req PageRequest) Page[T] {
	items := result.Items
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if req.PageSize > 0 && result.TotalCount > 0 {
		totalPages = int((result.TotalCount-1)/int64(req.PageSize) + 1)
	}

	return Page[T]{
		Content:       items,
		TotalElements: result.TotalCount,
		TotalPages:    totalPages,
		Number:        req.Offset,
		Size:          req.PageSize,
	}
}

// MapPage converts page content while keeping totals.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	content := make([]R, len(p.Content))
	for i, item := range p.Content {
		content[i] = fn(item)
	}
	return Page[R]{
		Content:       content,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Number:        p.Number,
		Size:          p.Size,
	}
}
