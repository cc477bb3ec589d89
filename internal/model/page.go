package model

// Page is the backend's paginated response envelope (Spring Data shape).
// Content holds one page of items; Number is the zero-based page index.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	Last          bool  `json:"last"`
}

// HasMore reports whether pages remain after this one.
func (p Page[T]) HasMore() bool {
	return !p.Last && p.Number+1 < p.TotalPages
}
