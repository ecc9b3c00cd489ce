package domain

import "context"

// SearchQuery describes one marketplace search request.
type SearchQuery struct {
	Keyword     string
	Category    string
	Subcategory string
	MaxPrice    float64
	Limit       int
}

// ListingSource searches a marketplace and returns raw, unvalidated listings.
type ListingSource interface {
	Search(ctx context.Context, q SearchQuery) ([]RawListing, error)
	Name() string
}
