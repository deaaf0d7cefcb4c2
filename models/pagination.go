package models

import "math"

// PaginationMeta is the meta block of every paginated response.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Page is the { data, meta } envelope shared by all list endpoints.
type Page[T any] struct {
	Data []T           `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

func NewPage[T any](data []T, total int64, page, limit int) Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Page[T]{
		Data: data,
		Meta: PaginationMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}
