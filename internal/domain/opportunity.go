package domain

import "time"

// RiskLevel is the coarse bucket summarizing an opportunity's ROI-implied
// risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// FeeBreakdown itemizes the estimated cost of flipping a listing.
type FeeBreakdown struct {
	MarketplaceFee float64 `json:"marketplace_fee"`
	PaymentFee     float64 `json:"payment_fee"`
	ShippingCost   float64 `json:"shipping_cost"`
}

// Total returns the sum of all fee components.
func (f FeeBreakdown) Total() float64 {
	return f.MarketplaceFee + f.PaymentFee + f.ShippingCost
}

// Opportunity is a buy/sell listing pair with positive estimated net profit
// after fees. Opportunities are derived, read-only, and scoped to a single
// scan; they are never carried across scans.
type Opportunity struct {
	ID            string  `json:"opportunity_id"`
	BuyListing    Listing `json:"buy_listing"`
	SellReference Listing `json:"sell_reference"`

	SimilarityScore    float64      `json:"similarity_score"` // 0-1
	GrossProfit        float64      `json:"gross_profit"`
	EstimatedFees      float64      `json:"estimated_fees"`
	FeeBreakdown       FeeBreakdown `json:"fee_breakdown"`
	NetProfitAfterFees float64      `json:"net_profit_after_fees"`
	ROIPercentage      float64      `json:"roi_percentage"`
	RiskLevel          RiskLevel    `json:"risk_level"`
	// ConfidenceScore is 0-100, capped at 95 for pairwise opportunities
	// since cross-listing uncertainty compounds.
	ConfidenceScore int `json:"confidence_score"`

	CreatedAt time.Time `json:"created_at"`
}

// ProfitBuckets partitions opportunities into coarse net-profit ranges for
// the scan summary.
type ProfitBuckets struct {
	Under25     int `json:"under_25"`
	From25To50  int `json:"25_to_50"`
	From50To100 int `json:"50_to_100"`
	Over100     int `json:"over_100"`
}

// RiskDistribution counts opportunities per risk tier. The three counts
// always sum to the total opportunity count.
type RiskDistribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// ScanSummary aggregates statistics over a scan's opportunity list.
type ScanSummary struct {
	TotalOpportunities int              `json:"total_opportunities"`
	AverageNetProfit   float64          `json:"average_net_profit"`
	HighestNetProfit   float64          `json:"highest_net_profit"`
	AverageROI         float64          `json:"average_roi"`
	AverageConfidence  float64          `json:"average_confidence"`
	RiskDistribution   RiskDistribution `json:"risk_distribution"`
	ProfitBuckets      ProfitBuckets    `json:"profit_buckets"`
}

// ScanStats counts what happened to the raw input during a scan, for
// observability. Malformed and duplicate drops are tracked separately.
type ScanStats struct {
	RawListings       int `json:"raw_listings"`
	MalformedDropped  int `json:"malformed_dropped"`
	DuplicatesDropped int `json:"duplicates_dropped"`
	ListingsAnalyzed  int `json:"listings_analyzed"`
	PairsCompared     int `json:"pairs_compared"`
}

// ScanResult is the full output of one scan request.
type ScanResult struct {
	ScanID        string        `json:"scan_id"`
	Keyword       string        `json:"keyword"`
	Category      string        `json:"category"`
	Subcategory   string        `json:"subcategory,omitempty"`
	MinProfit     float64       `json:"min_profit"`
	Opportunities []Opportunity `json:"opportunities"`
	Summary       ScanSummary   `json:"summary"`
	Stats         ScanStats     `json:"stats"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
}
