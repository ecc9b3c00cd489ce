package valuation

import (
	"testing"
	"time"

	"github.com/fliphawk/fliphawk/internal/domain"
)

var june = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func baseListing() domain.Listing {
	return domain.Listing{
		ItemID:              "1",
		Title:               "Generic Widget Thing",
		Price:               100,
		TotalCost:           100,
		Condition:           "Used",
		ConditionTier:       domain.ConditionGood,
		SellerRating:        domain.SellerRatingUnavailable,
		SellerFeedbackCount: domain.SellerFeedbackUnavailable,
	}
}

func TestEstimateResaleClamp(t *testing.T) {
	e := NewEngine(StandardPolicy())

	// Maximal signals must still respect the 5x ceiling.
	hot := domain.Listing{
		Title:         "Rare Limited Exclusive Graded PSA Holo First Edition Charizard",
		Price:         40,
		TotalCost:     40,
		Condition:     "Sealed New With Tags",
		ConditionTier: domain.ConditionNew,
		Category:      "Collectibles",
		Subcategory:   "Trading Cards",
		Location:      "Tokyo, Japan",
	}
	got := e.EstimateResale(hot, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC))
	if got > hot.Price*5.0+1e-9 {
		t.Errorf("resale %v exceeds 5x ceiling", got)
	}
	if got < hot.Price*5.0-1e-9 {
		t.Errorf("maximal signals should hit the ceiling, got %v", got)
	}

	// Minimal signals must still respect the 1.1x floor.
	cold := domain.Listing{
		Title:         "Broken thing",
		Price:         5,
		TotalCost:     5,
		Condition:     "For parts",
		ConditionTier: domain.ConditionAcceptable,
	}
	got = e.EstimateResale(cold, june)
	if got < cold.Price*1.1-1e-9 {
		t.Errorf("resale %v below 1.1x floor", got)
	}
}

func TestEstimateResaleDeterministic(t *testing.T) {
	e := NewEngine(StandardPolicy())
	l := baseListing()
	a := e.EstimateResale(l, june)
	b := e.EstimateResale(l, june)
	if a != b {
		t.Errorf("estimate not deterministic: %v vs %v", a, b)
	}
}

func TestApplyDerivedFields(t *testing.T) {
	e := NewEngine(StandardPolicy())
	l := baseListing()
	l.ShippingCost = 10
	l.TotalCost = 110

	e.Apply(&l, june)

	if l.EstimatedResalePrice < l.Price*1.1 || l.EstimatedResalePrice > l.Price*5.0 {
		t.Errorf("EstimatedResalePrice %v outside invariant range", l.EstimatedResalePrice)
	}
	wantProfit := l.EstimatedResalePrice - l.TotalCost
	if l.EstimatedProfit != wantProfit {
		t.Errorf("EstimatedProfit = %v, want %v", l.EstimatedProfit, wantProfit)
	}
	wantMargin := wantProfit / l.EstimatedResalePrice * 100
	if l.ProfitMarginPercent != wantMargin {
		t.Errorf("ProfitMarginPercent = %v, want %v", l.ProfitMarginPercent, wantMargin)
	}
}

func TestCategorySignalsOrdering(t *testing.T) {
	e := NewEngine(StandardPolicy())

	collectible := baseListing()
	collectible.Category = "Collectibles"
	collectible.Subcategory = "Trading Cards"

	tech := baseListing()
	tech.Category = "Tech"
	tech.Subcategory = "Laptops"

	if e.EstimateResale(collectible, june) <= e.EstimateResale(tech, june) {
		t.Error("collectibles should value higher than tech for equal prices")
	}
}

func TestDemandCap(t *testing.T) {
	e := NewEngine(StandardPolicy())
	if got := e.demandMultiplier("rare limited exclusive discontinued grail holo graded psa deadstock viral"); got != 2.0 {
		t.Errorf("demand multiplier = %v, want capped at 2.0", got)
	}
	if got := e.demandMultiplier("plain title"); got != 1.0 {
		t.Errorf("demand multiplier = %v, want 1.0 for no matches", got)
	}
}

func TestConfidenceHighSignalScenario(t *testing.T) {
	s := NewScorer(StandardConfidencePolicy())
	l := domain.Listing{
		Title: "Apple AirPods Pro 2nd Generation Wireless Earbuds with MagSafe Charging Case White",
		Price:               180,
		TotalCost:           180,
		Condition:           "Brand New Sealed",
		ConditionTier:       domain.ConditionNew,
		Category:            "Tech",
		SellerRating:        99.9,
		SellerFeedbackCount: 10_000,
		EstimatedProfit:     60,
		Location:            "Dallas, United States",
	}

	s.Score(&l, "apple airpods pro 2nd generation wireless earbuds magsafe case")
	if l.ConfidenceScore < 90 {
		t.Errorf("high-signal listing scored %d, want >= 90", l.ConfidenceScore)
	}
	if l.ConfidenceScore > 100 {
		t.Errorf("score %d exceeds clamp", l.ConfidenceScore)
	}
}

func TestConfidenceClampFloor(t *testing.T) {
	s := NewScorer(StandardConfidencePolicy())
	l := domain.Listing{
		Title:               "Broken damaged as is untested for parts needs repair cracked thing",
		Price:               5000,
		TotalCost:           5000,
		Condition:           "",
		ConditionTier:       domain.ConditionUnknown,
		SellerRating:        60,
		SellerFeedbackCount: 2,
		EstimatedProfit:     -50,
	}
	s.Score(&l, "completely unrelated search query zzz")
	if l.ConfidenceScore < 0 || l.ConfidenceScore > 100 {
		t.Fatalf("score %d outside [0,100]", l.ConfidenceScore)
	}
	if l.ConfidenceScore > 20 {
		t.Errorf("risk-laden listing scored %d, want near the floor", l.ConfidenceScore)
	}
}

func TestConfidenceSkipsUnavailableSellerSignals(t *testing.T) {
	s := NewScorer(StandardConfidencePolicy())

	with := baseListing()
	with.SellerRating = 50 // terrible rating
	with.SellerFeedbackCount = 1

	without := baseListing()

	s.Score(&with, "generic widget thing")
	s.Score(&without, "generic widget thing")

	if with.ConfidenceScore >= without.ConfidenceScore {
		t.Errorf("bad seller signals should lower the score: with=%d without=%d",
			with.ConfidenceScore, without.ConfidenceScore)
	}
}

func TestConditionPointsUnmappedText(t *testing.T) {
	l := baseListing()
	l.Condition = "Shows shelf wear"
	l.ConditionTier = domain.ConditionUnknown
	if got := conditionPoints(l); got != 10 {
		t.Errorf("unmapped condition text = %d points, want flat 10", got)
	}

	l.Condition = ""
	if got := conditionPoints(l); got != 0 {
		t.Errorf("missing condition = %d points, want 0", got)
	}
}

func TestLocationMatchesWholeWordsOnly(t *testing.T) {
	table := StandardPolicy().LocationMultipliers

	tests := []struct {
		location string
		want     float64
	}{
		{"dallas us", 1.1},
		{"austin united states", 1.1},
		{"tokyo japan", 1.4},
		// "us" must not fire inside other country names.
		{"sydney australia", 1.0},
		{"moscow russia", 1.0},
		{"houston usa", 1.1},
	}
	for _, tt := range tests {
		if got := locationMultiplier(table, tt.location, 1.0); got != tt.want {
			t.Errorf("locationMultiplier(%q) = %v, want %v", tt.location, got, tt.want)
		}
	}
}

func TestLocationPointsWholeWordsOnly(t *testing.T) {
	s := NewScorer(StandardConfidencePolicy())

	tests := []struct {
		location string
		want     int
	}{
		{"Austin, United States", 10},
		{"Dallas, US", 10},
		{"Sydney, Australia", 0},
		{"Moscow, Russia", 0},
		{"", -8},
	}
	for _, tt := range tests {
		if got := s.locationPoints(tt.location); got != tt.want {
			t.Errorf("locationPoints(%q) = %d, want %d", tt.location, got, tt.want)
		}
	}
}
