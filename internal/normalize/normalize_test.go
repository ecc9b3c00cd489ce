package normalize

import (
	"strings"
	"testing"

	"github.com/fliphawk/fliphawk/internal/domain"
)

func rawListing(title, price string) domain.RawListing {
	return domain.RawListing{
		Title:     title,
		PriceText: price,
		Link:      "https://www.ebay.com/itm/123456789",
	}
}

func TestNormalizeHappyPath(t *testing.T) {
	s := NewSession(DefaultConfig())
	raw := domain.RawListing{
		Title:          "Apple AirPods Pro 2nd Gen Sealed",
		PriceText:      "$180.00",
		ShippingText:   "Free shipping",
		ConditionText:  "Brand New",
		LocationText:   "Austin, United States",
		SellerRating:   "99.8%",
		SellerFeedback: "12,405",
		Link:           "https://www.ebay.com/itm/334455667788",
		MatchedKeyword: "airpods pro",
	}

	l, ok := s.Normalize(raw)
	if !ok {
		t.Fatal("expected listing to survive normalization")
	}
	if l.ItemID != "334455667788" {
		t.Errorf("ItemID = %q, want native ID from link", l.ItemID)
	}
	if l.Price != 180 || l.ShippingCost != 0 || l.TotalCost != 180 {
		t.Errorf("price fields = %v/%v/%v", l.Price, l.ShippingCost, l.TotalCost)
	}
	if !l.FreeShipping {
		t.Error("FreeShipping = false, want true for explicit free-shipping text")
	}
	if l.ConditionTier != domain.ConditionNew {
		t.Errorf("ConditionTier = %q, want new", l.ConditionTier)
	}
	if l.SellerRating != 99.8 {
		t.Errorf("SellerRating = %v", l.SellerRating)
	}
	if l.SellerFeedbackCount != 12405 {
		t.Errorf("SellerFeedbackCount = %v", l.SellerFeedbackCount)
	}
	if l.NormalizedTitle == "" || strings.Contains(l.NormalizedTitle, "Sealed") {
		t.Errorf("NormalizedTitle = %q", l.NormalizedTitle)
	}
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.RawListing
	}{
		{"short title", rawListing("iPhone", "$100")},
		{"promotional", rawListing("Shop on eBay great deals here", "$100")},
		{"zero price", rawListing("Apple AirPods Pro 2nd Gen", "$0")},
		{"no price", rawListing("Apple AirPods Pro 2nd Gen", "call for price")},
		{"above ceiling", rawListing("Apple AirPods Pro 2nd Gen", "$15,000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(DefaultConfig())
			if _, ok := s.Normalize(tt.raw); ok {
				t.Error("expected listing to be dropped")
			}
			if s.MalformedCount() != 1 {
				t.Errorf("MalformedCount = %d, want 1", s.MalformedCount())
			}
			if s.DuplicateCount() != 0 {
				t.Errorf("DuplicateCount = %d, want 0", s.DuplicateCount())
			}
		})
	}
}

func TestNormalizeDedupByID(t *testing.T) {
	s := NewSession(DefaultConfig())
	first := rawListing("Apple AirPods Pro 2nd Gen Sealed", "$180")
	second := rawListing("Apple AirPods Pro second generation brand new offer", "$190")
	second.Link = first.Link // same native ID

	if _, ok := s.Normalize(first); !ok {
		t.Fatal("first listing should survive")
	}
	if _, ok := s.Normalize(second); ok {
		t.Error("second listing with same item ID should be dropped")
	}
	if s.DuplicateCount() != 1 {
		t.Errorf("DuplicateCount = %d, want 1", s.DuplicateCount())
	}
}

func TestNormalizeDedupByTitle(t *testing.T) {
	s := NewSession(DefaultConfig())
	first := rawListing("Apple AirPods Pro 2nd Gen Sealed", "$180")
	second := rawListing("Apple AirPods Pro 2nd Gen Sealed", "$190")
	second.Link = "https://www.ebay.com/itm/999999999"

	if _, ok := s.Normalize(first); !ok {
		t.Fatal("first listing should survive")
	}
	if _, ok := s.Normalize(second); ok {
		t.Error("identical normalized title should be dropped as duplicate")
	}
	if s.DuplicateCount() != 1 {
		t.Errorf("DuplicateCount = %d, want 1", s.DuplicateCount())
	}
}

func TestSessionIsolation(t *testing.T) {
	raw := rawListing("Apple AirPods Pro 2nd Gen Sealed", "$180")

	s1 := NewSession(DefaultConfig())
	if _, ok := s1.Normalize(raw); !ok {
		t.Fatal("first session should accept the listing")
	}

	// A new session has no memory of the previous scan.
	s2 := NewSession(DefaultConfig())
	if _, ok := s2.Normalize(raw); !ok {
		t.Error("fresh session should accept a listing seen by an older session")
	}
}

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$19.99", 19.99, true},
		{"$20 to $35", 20, true},
		{"$1,299.00 - $1,499.00", 1299, true},
		{"USD 45", 45, true},
		{"free", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePrice(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParsePrice(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseShipping(t *testing.T) {
	if got := ParseShipping("Free shipping"); got != 0 {
		t.Errorf("free shipping = %v, want 0", got)
	}
	if got := ParseShipping("+$4.99 shipping"); got != 4.99 {
		t.Errorf("shipping = %v, want 4.99", got)
	}
	if got := ParseShipping(""); got != 0 {
		t.Errorf("empty shipping = %v, want 0", got)
	}
}

func TestShippingClamp(t *testing.T) {
	s := NewSession(DefaultConfig())
	raw := rawListing("Apple AirPods Pro 2nd Gen Sealed", "$100")
	raw.ShippingText = "$80.00 shipping"

	l, ok := s.Normalize(raw)
	if !ok {
		t.Fatal("listing should survive")
	}
	if l.ShippingCost != 30 {
		t.Errorf("ShippingCost = %v, want clamp to 30%% of price", l.ShippingCost)
	}
	if l.TotalCost != l.Price+l.ShippingCost {
		t.Errorf("TotalCost = %v, want price+shipping", l.TotalCost)
	}
}

func TestMapCondition(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ConditionTier
	}{
		{"Brand New", domain.ConditionNew},
		{"New with tags", domain.ConditionNew},
		{"Factory Sealed", domain.ConditionNew},
		{"Open box", domain.ConditionLikeNew},
		{"Excellent condition", domain.ConditionVeryGood},
		{"Seller refurbished", domain.ConditionRefurbished},
		{"Pre-owned", domain.ConditionGood},
		{"Acceptable", domain.ConditionAcceptable},
		{"", domain.ConditionUnknown},
		{"something else", domain.ConditionUnknown},
	}
	for _, tt := range tests {
		if got := MapCondition(tt.in); got != tt.want {
			t.Errorf("MapCondition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveItemIDDeterministic(t *testing.T) {
	a := ResolveItemID("", "Some Widget Title", 19.99)
	b := ResolveItemID("", "Some Widget Title", 19.99)
	if a != b {
		t.Errorf("hash fallback not deterministic: %q vs %q", a, b)
	}
	c := ResolveItemID("", "Some Widget Title", 29.99)
	if a == c {
		t.Error("different price should hash to different ID")
	}
	if got := ResolveItemID("https://www.ebay.com/itm/42?x=1", "t", 1); got != "42" {
		t.Errorf("native ID = %q, want 42", got)
	}
}
