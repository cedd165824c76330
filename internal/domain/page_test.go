package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrest/internal/core/apperror"
)

var testFields = SortFields{
	"thingId":   "id",
	"thingName": "name",
}

func TestParseSortDirection(t *testing.T) {
	tests := []struct {
		in   string
		want SortDirection
	}{
		{"", SortAsc},
		{"asc", SortAsc},
		{"DESC", SortDesc},
		{" desc ", SortDesc},
	}
	for _, tt := range tests {
		got, err := ParseSortDirection(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseSortDirection("sideways")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "Invalid sort direction : sideways")
}

func TestPageRequest_Resolve(t *testing.T) {
	req := PageRequest{Offset: 2, PageSize: 5, SortField: "thingName", Direction: SortDesc}

	filter, err := req.Resolve(testFields, "thingId")
	require.NoError(t, err)
	assert.Equal(t, ListFilter{OrderBy: "name", Descending: true, Limit: 5, Offset: 10}, filter)

	filter, err = DefaultPageRequest().Resolve(testFields, "thingId")
	require.NoError(t, err)
	assert.Equal(t, ListFilter{OrderBy: "id", Limit: DefaultPageSize}, filter)
}

func TestPageRequest_ResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     PageRequest
		message string
	}{
		{"negative offset", PageRequest{Offset: -1, PageSize: 10}, "Offset must be a non-negative integer."},
		{"zero page size", PageRequest{PageSize: 0}, "Page size must be a positive integer."},
		{"unknown field", PageRequest{PageSize: 10, SortField: "color"}, "Invalid sort field : color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Resolve(testFields, "thingId")
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestPageRequest_ResolveOverflow(t *testing.T) {
	filter, err := PageRequest{Offset: math.MaxInt, PageSize: 2}.Resolve(testFields, "thingId")
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, filter.Offset)
}

func TestNewPage(t *testing.T) {
	page := NewPage(ListResult[string]{Items: []string{"a", "b"}, TotalCount: 11}, PageRequest{Offset: 1, PageSize: 5})

	assert.Equal(t, []string{"a", "b"}, page.Content)
	assert.Equal(t, int64(11), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 5, page.Size)

	empty := NewPage(ListResult[string]{}, PageRequest{PageSize: 10})
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)

	huge := NewPage(ListResult[int]{Items: []int{1, 2}, TotalCount: 2}, PageRequest{PageSize: math.MaxInt})
	assert.Equal(t, 1, huge.TotalPages)

	mapped := MapPage(page, func(s string) int { return len(s) })
	assert.Equal(t, []int{1, 1}, mapped.Content)
	assert.Equal(t, page.TotalPages, mapped.TotalPages)
}
