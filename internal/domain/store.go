package domain

import (
	"context"
	"time"
)

// ListOpts carries standard pagination parameters.
type ListOpts struct {
	Limit  int
	Offset int
}

// ScanRecord is the persisted header for one completed scan.
type ScanRecord struct {
	ScanID             string
	Keyword            string
	Category           string
	Subcategory        string
	MinProfit          float64
	ListingsAnalyzed   int
	OpportunitiesFound int
	HighestNetProfit   float64
	AverageROI         float64
	StartedAt          time.Time
	DurationMs         int64
}

// ScanStore persists scan history.
type ScanStore interface {
	Insert(ctx context.Context, rec ScanRecord) error
	ListRecent(ctx context.Context, limit int) ([]ScanRecord, error)
	ListBefore(ctx context.Context, cutoff time.Time, limit int) ([]ScanRecord, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// OpportunityStore persists the opportunities emitted by each scan.
type OpportunityStore interface {
	InsertBatch(ctx context.Context, scanID string, opps []Opportunity) error
	ListByScan(ctx context.Context, scanID string) ([]Opportunity, error)
	ListRecent(ctx context.Context, limit int) ([]Opportunity, error)
}
