// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"carrest/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// --- Pagination ---

// PageResponse is one page of a sorted list.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// NewPageResponse maps a domain page to its wire form.
func NewPageResponse[T, D any](p domain.Page[T], toDTO func(T) D) PageResponse[D] {
	mapped := domain.MapPage(p, toDTO)
	return PageResponse[D]{
		Content:       mapped.Content,
		TotalElements: mapped.TotalElements,
		TotalPages:    mapped.TotalPages,
		Number:        mapped.Number,
		Size:          mapped.Size,
	}
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
