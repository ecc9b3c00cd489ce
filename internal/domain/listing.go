// Package domain defines the core types shared across the FlipHawk scanner:
// listings, opportunities, scan results, and the store/cache/blob interfaces
// implemented by the infrastructure packages.
package domain

// ConditionTier is the closed taxonomy that free-text condition labels are
// mapped onto during normalization.
type ConditionTier string

const (
	ConditionNew         ConditionTier = "new"
	ConditionLikeNew     ConditionTier = "like-new"
	ConditionVeryGood    ConditionTier = "very-good"
	ConditionGood        ConditionTier = "good"
	ConditionAcceptable  ConditionTier = "acceptable"
	ConditionRefurbished ConditionTier = "refurbished"
	ConditionUnknown     ConditionTier = "unknown"
)

// SellerRatingUnavailable and SellerFeedbackUnavailable are the sentinels
// used when the listing source did not expose seller reputation data.
const (
	SellerRatingUnavailable   float64 = -1
	SellerFeedbackUnavailable int     = -1
)

// Listing is a single normalized marketplace offer. Listings are immutable
// once created: the normalizer builds them, the valuation engine returns a
// copy with the derived fields attached.
type Listing struct {
	ItemID          string        `json:"item_id"`
	Title           string        `json:"title"`
	NormalizedTitle string        `json:"normalized_title"`
	Price           float64       `json:"price"`
	ShippingCost    float64       `json:"shipping_cost"`
	// FreeShipping is set only when the source explicitly advertised free
	// shipping, not merely when the shipping cost parsed to zero.
	FreeShipping    bool          `json:"free_shipping,omitempty"`
	TotalCost       float64       `json:"total_cost"` // always Price + ShippingCost
	Condition       string        `json:"condition"`
	ConditionTier   ConditionTier `json:"condition_tier"`
	Category        string        `json:"category"`
	Subcategory     string        `json:"subcategory"`

	// SellerRating is a 0-100 feedback percentage, or SellerRatingUnavailable.
	SellerRating float64 `json:"seller_rating"`
	// SellerFeedbackCount is the seller's feedback score, or
	// SellerFeedbackUnavailable.
	SellerFeedbackCount int `json:"seller_feedback_count"`

	Location       string `json:"location"`
	Link           string `json:"link"`
	ImageURL       string `json:"image_url,omitempty"`
	MatchedKeyword string `json:"matched_keyword"`

	// Derived valuation fields, attached by the valuation engine.
	EstimatedResalePrice float64 `json:"estimated_resale_price"`
	EstimatedProfit      float64 `json:"estimated_profit"`
	ProfitMarginPercent  float64 `json:"profit_margin_percent"`
	ConfidenceScore      int     `json:"confidence_score"` // 0-100
}

// HasSellerRating reports whether the source exposed a feedback percentage.
func (l Listing) HasSellerRating() bool {
	return l.SellerRating >= 0
}

// HasSellerFeedback reports whether the source exposed a feedback count.
func (l Listing) HasSellerFeedback() bool {
	return l.SellerFeedbackCount >= 0
}

// RawListing is the unprocessed payload handed to the normalizer by a
// listing source. Every field is free text as delivered by the marketplace;
// missing fields are empty strings.
type RawListing struct {
	Title          string
	PriceText      string
	ShippingText   string
	ConditionText  string
	LocationText   string
	SellerRating   string // e.g. "99.8%" or ""
	SellerFeedback string // e.g. "12403" or ""
	Link           string
	ImageURL       string
	Category       string
	Subcategory    string
	MatchedKeyword string
}
