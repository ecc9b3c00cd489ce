package keywords

import (
	"testing"
	"time"
)

func TestExpandKnownTerm(t *testing.T) {
	got := Expand("AirPods Pro")
	if len(got) != 3 {
		t.Fatalf("Expand returned %d variants, want 3: %v", len(got), got)
	}
	if got[0] != "airpods pro" {
		t.Errorf("first variant = %q, want the cleaned input first", got[0])
	}
	for i, kw := range got {
		for j, other := range got {
			if i != j && kw == other {
				t.Errorf("duplicate variant %q", kw)
			}
		}
	}
}

func TestExpandPrefersLongestBase(t *testing.T) {
	got := Expand("nintendo switch oled")
	// "nintendo switch" variants, not generic "nintendo" handling.
	found := false
	for _, kw := range got[1:] {
		if kw == "nintendo swich" || kw == "nintedo switch" || kw == "switch console" || kw == "nintendo switch oled" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a nintendo switch variant in %v", got)
	}
}

func TestExpandUnknownTerm(t *testing.T) {
	got := Expand("  Obscure Widget  ")
	if len(got) != 1 || got[0] != "obscure widget" {
		t.Errorf("unknown term should expand to itself only, got %v", got)
	}
}

func TestExpandEmpty(t *testing.T) {
	if got := Expand("   "); got != nil {
		t.Errorf("blank keyword should expand to nil, got %v", got)
	}
}

func TestSuggestions(t *testing.T) {
	got := Suggestions("Tech", "Headphones")
	if len(got) == 0 {
		t.Fatal("expected suggestions for Tech/Headphones")
	}
	if got := Suggestions("Tech", "Nope"); got != nil {
		t.Errorf("unknown subcategory should return nil, got %v", got)
	}
	if got := Suggestions("Nope", "Headphones"); got != nil {
		t.Errorf("unknown category should return nil, got %v", got)
	}
}

func TestCategoriesSorted(t *testing.T) {
	cats := Categories()
	subs, ok := cats["Gaming"]
	if !ok {
		t.Fatal("Gaming category missing")
	}
	for i := 1; i < len(subs); i++ {
		if subs[i-1] > subs[i] {
			t.Errorf("subcategories not sorted: %v", subs)
		}
	}
}

func TestTrendingSeasonal(t *testing.T) {
	dec := Trending(time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC))
	foundHoliday := false
	for _, kw := range dec {
		if kw == "christmas" {
			foundHoliday = true
		}
	}
	if !foundHoliday {
		t.Errorf("December trending should include christmas: %v", dec)
	}

	jul := Trending(time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC))
	for _, kw := range jul {
		if kw == "christmas" {
			t.Error("July trending should not include christmas")
		}
	}
}
