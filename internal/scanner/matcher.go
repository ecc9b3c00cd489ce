package scanner

import (
	"sort"

	"github.com/google/uuid"

	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/match"
)

// opportunityConfidenceCap bounds pairwise confidence below full certainty,
// since a cross-listing inference compounds the uncertainty of both sides.
const opportunityConfidenceCap = 95

// matchPairs enumerates unordered listing pairs cheapest-first and emits an
// opportunity for every pair that survives the profit pre-filter, the
// similarity threshold, the identity check, and the net-profit floor.
// The returned pair count covers pairs that reached similarity scoring.
func (s *Scanner) matchPairs(listings []domain.Listing, minProfit float64) ([]domain.Opportunity, int) {
	sorted := make([]domain.Listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalCost < sorted[j].TotalCost
	})

	visited := make(map[string]bool)
	createdAt := s.now()
	var opps []domain.Opportunity
	pairs := 0

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			buy, sell := sorted[i], sorted[j]
			if buy.TotalCost >= sell.TotalCost {
				continue
			}
			key := pairIDKey(buy.ItemID, sell.ItemID)
			if visited[key] {
				continue
			}
			visited[key] = true

			// Cheap spread pre-filter before the similarity work.
			if sell.TotalCost-buy.TotalCost < 0.5*minProfit {
				continue
			}
			pairs++

			sim := match.Similarity(buy.Title, sell.Title)
			if sim < s.cfg.Similarity.Threshold(buy.Title, sell.Title) {
				continue
			}
			if !match.SameProduct(buy.Title, sell.Title) {
				continue
			}

			fees := EstimateFees(s.cfg.FeePolicy, sell)
			gross := sell.Price - buy.TotalCost
			net := gross - fees.Total()
			if net < minProfit {
				continue
			}
			roi := net / buy.TotalCost * 100

			opps = append(opps, domain.Opportunity{
				ID:                 uuid.NewString(),
				BuyListing:         buy,
				SellReference:      sell,
				SimilarityScore:    sim,
				GrossProfit:        gross,
				EstimatedFees:      fees.Total(),
				FeeBreakdown:       fees,
				NetProfitAfterFees: net,
				ROIPercentage:      roi,
				RiskLevel:          s.cfg.RiskPolicy.Level(roi),
				ConfidenceScore:    opportunityConfidence(sim, net, roi, buy, sell),
				CreatedAt:          createdAt,
			})
		}
	}
	return opps, pairs
}

func pairIDKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// opportunityConfidence scores a matched pair on an additive model from a
// base of 50, capped at opportunityConfidenceCap.
func opportunityConfidence(sim, net, roi float64, buy, sell domain.Listing) int {
	score := 50

	switch {
	case sim >= 0.9:
		score += 20
	case sim >= 0.75:
		score += 12
	case sim >= 0.6:
		score += 8
	default:
		score += 5
	}

	switch {
	case net >= 100:
		score += 15
	case net >= 50:
		score += 10
	default:
		score += 5
	}

	switch {
	case roi >= 50:
		score += 10
	case roi >= 20:
		score += 8
	default:
		score += 5
	}

	switch buy.ConditionTier {
	case domain.ConditionNew:
		score += 10
	case domain.ConditionLikeNew, domain.ConditionVeryGood:
		score += 8
	default:
		score += 5
	}

	if buy.HasSellerRating() && buy.SellerRating >= 98 {
		if buy.SellerRating >= 99.5 {
			score += 10
		} else {
			score += 7
		}
	}

	if buy.TotalCost > 0 {
		switch ratio := sell.TotalCost / buy.TotalCost; {
		case ratio >= 1.5:
			score += 10
		case ratio >= 1.3:
			score += 5
		}
	}

	if score > opportunityConfidenceCap {
		score = opportunityConfidenceCap
	}
	return score
}
