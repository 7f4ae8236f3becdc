package model

import "time"

// Collection names in the document store.
const (
	CollectionLeads          = "leads"
	CollectionB2BLeads       = "b2b_leads"
	CollectionUniversities   = "universities"
	CollectionUpdates        = "updates"
	CollectionSuccessStories = "success_stories"
	CollectionContentPages   = "content_pages"
)

// Pagination bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// ListQuery describes a filtered, sorted, paginated read.
type ListQuery struct {
	Filter       map[string]any
	Search       string
	SearchFields []string
	SortField    string
	SortDesc     bool
	Limit        int64
	Offset       int64
	UpdatedSince *time.Time
}

// Normalize fills defaults and clamps the page size.
func (q ListQuery) Normalize() ListQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.SortField == "" {
		q.SortField = "createdAt"
		q.SortDesc = true
	}
	return q
}

// Page is one page of a list read.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}
