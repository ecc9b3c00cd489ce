// Package valuation estimates resale price, profit, and per-listing
// confidence using versioned policy tables.
package valuation

import "time"

// PhraseMultiplier pairs a lowercase phrase with its multiplier. Tables are
// checked in order so more specific phrases must come first.
type PhraseMultiplier struct {
	Phrase     string
	Multiplier float64
}

// PriceBand applies a multiplier to listings priced within [Min, Max).
type PriceBand struct {
	Min, Max   float64
	Multiplier float64
}

// Policy is the immutable valuation table set. Tune the numbers, not the
// control flow.
type Policy struct {
	BaseMarkup float64

	CategoryMultipliers    map[string]float64
	SubcategoryMultipliers map[string]float64
	ConditionMultipliers   []PhraseMultiplier
	DefaultCondition       float64

	DemandKeywords   []string
	DemandPerKeyword float64
	DemandCap        float64

	PriceBands       []PriceBand
	DefaultPriceBand float64

	LocationMultipliers []PhraseMultiplier
	DefaultLocation     float64

	PremiumBrands []string
	BrandBonus    float64

	SeasonalMultipliers map[time.Month]float64
	DefaultSeasonal     float64

	// Markup clamp applied to the combined multiplier.
	MinMarkup float64
	MaxMarkup float64
}

// StandardPolicy returns the production valuation tables.
func StandardPolicy() Policy {
	return Policy{
		BaseMarkup: 1.4,

		CategoryMultipliers: map[string]float64{
			"Collectibles": 2.5,
			"Vintage":      2.2,
			"Fashion":      1.8,
			"Gaming":       1.5,
			"Tech":         1.3,
			"Electronics":  1.2,
		},
		SubcategoryMultipliers: map[string]float64{
			"Trading Cards":     2.8,
			"Coins":             2.2,
			"Sneakers":          2.0,
			"Action Figures":    1.9,
			"Vintage Clothing":  1.8,
			"Designer Clothing": 1.7,
			"Cameras":           1.6,
			"Consoles":          1.5,
			"Graphics Cards":    1.4,
			"Headphones":        1.3,
			"Video Games":       1.3,
			"Smartphones":       1.2,
			"Laptops":           1.2,
			"Tablets":           1.2,
		},
		ConditionMultipliers: []PhraseMultiplier{
			{"new with tags", 1.8},
			{"sealed", 1.8},
			{"brand new", 1.6},
			{"like new", 1.45},
			{"mint", 1.45},
			{"new", 1.5},
			{"excellent", 1.3},
			{"very good", 1.2},
			{"refurbished", 1.1},
			{"good", 1.05},
			{"acceptable", 1.0},
			{"poor", 0.95},
			{"for parts", 0.95},
		},
		DefaultCondition: 1.0,

		DemandKeywords: []string{
			"rare", "limited", "exclusive", "discontinued", "grail",
			"holo", "first edition", "1st edition", "graded", "psa",
			"bgs", "og", "deadstock", "viral", "trending", "sold out",
		},
		DemandPerKeyword: 0.15,
		DemandCap:        2.0,

		PriceBands: []PriceBand{
			{Min: 0, Max: 10, Multiplier: 0.95},
			{Min: 10, Max: 50, Multiplier: 1.2},
			{Min: 50, Max: 200, Multiplier: 1.15},
			{Min: 200, Max: 500, Multiplier: 1.1},
			{Min: 500, Max: 1000, Multiplier: 1.0},
		},
		DefaultPriceBand: 0.9,

		LocationMultipliers: []PhraseMultiplier{
			{"japan", 1.4},
			{"hong kong", 1.3},
			{"china", 1.25},
			{"korea", 1.25},
			{"united states", 1.1},
			{"usa", 1.1},
			{"us", 1.1},
		},
		DefaultLocation: 1.0,

		PremiumBrands: []string{
			"apple", "sony", "nintendo", "rolex", "omega", "leica",
			"supreme", "nike", "jordan", "yeezy", "louis vuitton",
			"gucci", "lego", "bose",
		},
		BrandBonus: 0.2,

		SeasonalMultipliers: map[time.Month]float64{
			time.November: 1.1,
			time.December: 1.15,
			time.January:  1.05,
		},
		DefaultSeasonal: 1.0,

		MinMarkup: 1.1,
		MaxMarkup: 5.0,
	}
}
