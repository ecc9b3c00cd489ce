package valuation

import (
	"strings"

	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/match"
)

// ConfidencePolicy holds the table set behind the per-listing confidence
// score.
type ConfidencePolicy struct {
	// PriceBands maps category to its sweet-spot price range.
	PriceBands map[string]PriceBand
	// ProfitThresholds maps category to the profit considered exceptional.
	ProfitThresholds       map[string]float64
	DefaultProfitThreshold float64
	CategoryBonus          map[string]int
	AuthenticityWords      []string
	RiskWords              []string
	DomesticLocations      []string
}

// StandardConfidencePolicy returns the production confidence tables.
func StandardConfidencePolicy() ConfidencePolicy {
	return ConfidencePolicy{
		PriceBands: map[string]PriceBand{
			"Tech":         {Min: 20, Max: 800},
			"Gaming":       {Min: 15, Max: 600},
			"Collectibles": {Min: 10, Max: 1000},
			"Fashion":      {Min: 25, Max: 900},
			"Vintage":      {Min: 15, Max: 1200},
			"Electronics":  {Min: 20, Max: 700},
		},
		ProfitThresholds: map[string]float64{
			"Collectibles": 80,
			"Fashion":      70,
			"Tech":         60,
			"Gaming":       50,
			"Vintage":      60,
			"Electronics":  50,
		},
		DefaultProfitThreshold: 60,
		CategoryBonus: map[string]int{
			"Tech":         10,
			"Gaming":       9,
			"Collectibles": 8,
			"Fashion":      7,
			"Electronics":  6,
			"Vintage":      5,
		},
		AuthenticityWords: []string{
			"certificate", "serial number", "authenticated", "coa",
			"receipt", "warranty", "papers",
		},
		RiskWords: []string{
			"as is", "as-is", "damaged", "for parts", "broken",
			"cracked", "untested", "no returns", "needs repair",
		},
		DomesticLocations: []string{"united states", "usa", "us"},
	}
}

// Scorer computes the 0-100 trust score for a single listing's profit
// estimate. Additive model starting at 50.
type Scorer struct {
	policy ConfidencePolicy
}

// NewScorer returns a Scorer backed by the given tables.
func NewScorer(policy ConfidencePolicy) *Scorer {
	return &Scorer{policy: policy}
}

// Score computes the listing confidence against the query that produced it
// and stores it on the listing.
func (s *Scorer) Score(l *domain.Listing, query string) {
	l.ConfidenceScore = s.score(*l, query)
}

func (s *Scorer) score(l domain.Listing, query string) int {
	score := 50

	score += s.priceBandPoints(l)
	score += conditionPoints(l)
	score += s.profitPoints(l)
	if l.HasSellerRating() {
		score += ratingPoints(l.SellerRating)
	}
	if l.HasSellerFeedback() {
		score += feedbackPoints(l.SellerFeedbackCount)
	}
	score += titlePoints(l.Title)
	score += queryPoints(query, l.Title)
	score += s.locationPoints(l.Location)
	score += s.policy.CategoryBonus[l.Category]
	score += cappedWordPoints(l.Title, s.policy.AuthenticityWords, 3, 15)
	score -= cappedWordPoints(l.Title, s.policy.RiskWords, 10, 30)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (s *Scorer) priceBandPoints(l domain.Listing) int {
	band, ok := s.policy.PriceBands[l.Category]
	if !ok {
		band = PriceBand{Min: 15, Max: 800}
	}
	switch {
	case l.Price >= band.Min && l.Price <= band.Max:
		return 25
	case l.Price >= band.Min/2 && l.Price <= band.Max*2:
		return 15
	default:
		return 10
	}
}

func conditionPoints(l domain.Listing) int {
	lower := strings.ToLower(l.Condition)
	if strings.Contains(lower, "sealed") || strings.Contains(lower, "new with tags") {
		return 40
	}
	switch l.ConditionTier {
	case domain.ConditionNew:
		return 35
	case domain.ConditionLikeNew:
		return 25
	case domain.ConditionVeryGood:
		return 20
	case domain.ConditionGood:
		return 12
	case domain.ConditionRefurbished:
		return 10
	case domain.ConditionAcceptable:
		return 5
	default:
		if lower != "" {
			return 10
		}
		return 0
	}
}

func (s *Scorer) profitPoints(l domain.Listing) int {
	threshold, ok := s.policy.ProfitThresholds[l.Category]
	if !ok {
		threshold = s.policy.DefaultProfitThreshold
	}
	profit := l.EstimatedProfit
	switch {
	case profit >= 2*threshold:
		return 35
	case profit >= threshold:
		return 25
	case profit >= threshold/2:
		return 15
	case profit > 0:
		return 5
	case profit == 0:
		return 0
	default:
		return -30
	}
}

func ratingPoints(rating float64) int {
	switch {
	case rating >= 99.8:
		return 25
	case rating >= 99:
		return 20
	case rating >= 97:
		return 12
	case rating >= 95:
		return 8
	case rating >= 90:
		return 3
	case rating >= 85:
		return -5
	default:
		return -15
	}
}

func feedbackPoints(count int) int {
	switch {
	case count >= 50_000:
		return 20
	case count >= 10_000:
		return 15
	case count >= 1_000:
		return 10
	case count >= 100:
		return 5
	case count >= 10:
		return 0
	default:
		return -10
	}
}

func titlePoints(title string) int {
	words := len(strings.Fields(title))
	chars := len(title)
	switch {
	case words >= 8 && chars >= 60:
		return 20
	case words >= 6 && chars >= 40:
		return 12
	case words >= 4 && chars >= 25:
		return 6
	case words >= 2:
		return 0
	default:
		return -5
	}
}

func queryPoints(query, title string) int {
	if query == "" {
		return 0
	}
	sim := match.SequenceRatio(query, title)
	switch {
	case sim >= 0.9:
		return 25
	case sim >= 0.7:
		return 18
	case sim >= 0.5:
		return 10
	case sim >= 0.3:
		return 3
	case sim >= 0.15:
		return -3
	default:
		return -10
	}
}

func (s *Scorer) locationPoints(location string) int {
	lower := strings.ToLower(location)
	if lower == "" {
		return -8
	}
	for _, loc := range s.policy.DomesticLocations {
		if containsTokenPhrase(lower, loc) {
			return 10
		}
	}
	return 0
}

// cappedWordPoints counts matched phrases, awarding per points each up to
// limit.
func cappedWordPoints(title string, phrases []string, per, limit int) int {
	lower := strings.ToLower(title)
	total := 0
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			total += per
		}
	}
	if total > limit {
		return limit
	}
	return total
}
