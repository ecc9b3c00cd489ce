package valuation

import (
	"strings"
	"time"

	"github.com/fliphawk/fliphawk/internal/domain"
)

// Engine estimates resale prices from an injected Policy. Deterministic for a
// fixed time; safe for concurrent use.
type Engine struct {
	policy Policy
}

// NewEngine returns an Engine backed by the given policy tables.
func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Apply fills the derived valuation fields of a listing.
func (e *Engine) Apply(l *domain.Listing, now time.Time) {
	resale := e.EstimateResale(*l, now)
	l.EstimatedResalePrice = resale
	l.EstimatedProfit = resale - l.TotalCost
	if resale > 0 {
		l.ProfitMarginPercent = l.EstimatedProfit / resale * 100
	} else {
		l.ProfitMarginPercent = 0
	}
}

// EstimateResale computes the bounded resale estimate for one listing. Each
// signal contributes an independent multiplier on top of the base markup; the
// combined multiplier is clamped to the policy's markup range.
func (e *Engine) EstimateResale(l domain.Listing, now time.Time) float64 {
	p := e.policy
	title := strings.ToLower(l.Title)

	mult := p.BaseMarkup
	mult *= lookupOr(p.CategoryMultipliers, l.Category, 1.0)
	mult *= lookupOr(p.SubcategoryMultipliers, l.Subcategory, 1.0)
	mult *= phraseMultiplier(p.ConditionMultipliers, strings.ToLower(l.Condition), p.DefaultCondition)
	mult *= e.demandMultiplier(title)
	mult *= e.priceBandMultiplier(l.Price)
	mult *= locationMultiplier(p.LocationMultipliers, strings.ToLower(l.Location), p.DefaultLocation)
	if containsAnyWord(title, p.PremiumBrands) {
		mult += p.BrandBonus
	}
	if seasonal, ok := p.SeasonalMultipliers[now.Month()]; ok {
		mult *= seasonal
	} else {
		mult *= p.DefaultSeasonal
	}

	if mult < p.MinMarkup {
		mult = p.MinMarkup
	}
	if mult > p.MaxMarkup {
		mult = p.MaxMarkup
	}
	return l.Price * mult
}

// demandMultiplier sums a fixed boost per matched demand keyword, capped.
func (e *Engine) demandMultiplier(title string) float64 {
	mult := 1.0
	for _, kw := range e.policy.DemandKeywords {
		if strings.Contains(title, kw) {
			mult += e.policy.DemandPerKeyword
		}
	}
	if mult > e.policy.DemandCap {
		mult = e.policy.DemandCap
	}
	return mult
}

func (e *Engine) priceBandMultiplier(price float64) float64 {
	for _, band := range e.policy.PriceBands {
		if price >= band.Min && price < band.Max {
			return band.Multiplier
		}
	}
	return e.policy.DefaultPriceBand
}

func lookupOr(table map[string]float64, key string, fallback float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

func phraseMultiplier(table []PhraseMultiplier, text string, fallback float64) float64 {
	if text == "" {
		return fallback
	}
	for _, entry := range table {
		if strings.Contains(text, entry.Phrase) {
			return entry.Multiplier
		}
	}
	return fallback
}

func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// locationMultiplier matches location phrases on word boundaries: the "us"
// alias must not fire inside "Australia" or "Russia".
func locationMultiplier(table []PhraseMultiplier, text string, fallback float64) float64 {
	if text == "" {
		return fallback
	}
	for _, entry := range table {
		if containsTokenPhrase(text, entry.Phrase) {
			return entry.Multiplier
		}
	}
	return fallback
}

// containsTokenPhrase reports whether phrase occurs in text as a run of
// whole words. Both inputs are expected lowercase.
func containsTokenPhrase(text, phrase string) bool {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	padded := " " + strings.Join(tokens, " ") + " "
	return strings.Contains(padded, " "+phrase+" ")
}
