package scanner

import (
	"sort"

	"github.com/fliphawk/fliphawk/internal/domain"
)

// Composite ranking weights. Profit dominates, then confidence, margin,
// price-band fit, and a small category/condition bonus.
const (
	rankProfitWeight     = 0.30
	rankConfidenceWeight = 0.25
	rankMarginWeight     = 0.20
	rankPriceBandWeight  = 0.15
	rankBonusWeight      = 0.10
)

// profitSaturation is the net profit in dollars at which the profit term of
// the ranking score saturates.
const profitSaturation = 300.0

// Rank sorts opportunities in place by descending composite score. The sort
// is stable, so equal scores keep their discovery order.
func Rank(opps []domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return CompositeScore(opps[i]) > CompositeScore(opps[j])
	})
}

// CompositeScore is the ranking score in [0,1].
func CompositeScore(o domain.Opportunity) float64 {
	profit := o.NetProfitAfterFees / profitSaturation
	if profit > 1 {
		profit = 1
	}
	if profit < 0 {
		profit = 0
	}

	margin := 0.0
	if o.SellReference.TotalCost > 0 {
		margin = o.NetProfitAfterFees / o.SellReference.TotalCost
		if margin > 1 {
			margin = 1
		}
		if margin < 0 {
			margin = 0
		}
	}

	return rankProfitWeight*profit +
		rankConfidenceWeight*float64(o.ConfidenceScore)/100 +
		rankMarginWeight*margin +
		rankPriceBandWeight*priceBandFit(o.BuyListing.TotalCost) +
		rankBonusWeight*pairBonus(o)
}

// priceBandFit prefers buy costs in the liquid middle of the market: cheap
// enough to move quickly, expensive enough to be worth the handling.
func priceBandFit(cost float64) float64 {
	switch {
	case cost >= 15 && cost <= 500:
		return 1.0
	case cost >= 5 && cost <= 1000:
		return 0.6
	default:
		return 0.25
	}
}

var bonusCategories = map[string]bool{
	"Collectibles": true,
	"Gaming":       true,
	"Tech":         true,
}

func pairBonus(o domain.Opportunity) float64 {
	bonus := 0.0
	if bonusCategories[o.BuyListing.Category] {
		bonus += 0.5
	}
	switch o.BuyListing.ConditionTier {
	case domain.ConditionNew:
		bonus += 0.5
	case domain.ConditionLikeNew:
		bonus += 0.3
	}
	return bonus
}
