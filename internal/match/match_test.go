package match

import (
	"math/rand"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple AirPods Pro 2nd Gen Sealed!", "apple airpods pro 2nd gen"},
		{"BRAND NEW Nintendo Switch, with box", "nintendo switch"},
		{"Authentic Genuine Original USA Fast Free Ship", ""},
		{"  spaced   out   title  ", "spaced out title"},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractFeatures(t *testing.T) {
	f := ExtractFeatures("iPhone 13 Pro 256GB Gen 2 2021")
	for _, want := range []string{"256gb", "gen2", "2021"} {
		if !f[want] {
			t.Errorf("features missing %q: %v", want, f)
		}
	}

	f = ExtractFeatures("Pokemon Card Charizard Holo")
	if !f["charizard"] {
		t.Errorf("pokemon domain should extract character names: %v", f)
	}

	f = ExtractFeatures("Jordan 1 Retro Bred Size 9")
	if !f["bred"] {
		t.Errorf("sneaker domain should extract colorways: %v", f)
	}
	if !f["size9"] {
		t.Errorf("shoe size should be extracted: %v", f)
	}

	if f = ExtractFeatures(""); len(f) != 0 {
		t.Errorf("empty title should yield empty feature set, got %v", f)
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"Apple AirPods Pro 2nd Gen Sealed", "Apple AirPods Pro 2nd Generation New"},
		{"Jordan 1 Size 9", "Jordan 1 Size 11"},
		{"Pokemon Charizard Card", "Nintendo Switch OLED Console"},
		// Lengths and tie structure chosen so a direction-dependent
		// matcher would produce different block totals when swapped.
		{"cdeacbb", "eed  ecbdaaa"},
		{"abcabc", "cbacba"},
	}
	for _, p := range pairs {
		if ab, ba := Similarity(p[0], p[1]), Similarity(p[1], p[0]); ab != ba {
			t.Errorf("Similarity(%q,%q)=%v but reversed=%v", p[0], p[1], ab, ba)
		}
		if ab, ba := SequenceRatio(p[0], p[1]), SequenceRatio(p[1], p[0]); ab != ba {
			t.Errorf("SequenceRatio(%q,%q)=%v but reversed=%v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilaritySymmetryRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const alphabet = "abcde "
	randStr := func() string {
		n := 1 + rng.Intn(16)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(buf)
	}

	for i := 0; i < 500; i++ {
		a, b := randStr(), randStr()
		if ab, ba := SequenceRatio(a, b), SequenceRatio(b, a); ab != ba {
			t.Fatalf("SequenceRatio(%q,%q)=%v but reversed=%v", a, b, ab, ba)
		}
		if ab, ba := Similarity(a, b), Similarity(b, a); ab != ba {
			t.Fatalf("Similarity(%q,%q)=%v but reversed=%v", a, b, ab, ba)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	if got := Similarity("x", "x"); got < 0 || got > 1 {
		t.Errorf("similarity out of bounds: %v", got)
	}
	// Identical titles with no extractable features still get full raw and
	// normalized sequence credit.
	same := Similarity("Apple AirPods Pro 2nd Gen", "Apple AirPods Pro 2nd Gen")
	if same < 0.75 {
		t.Errorf("identical titles should score high, got %v", same)
	}
	withFeatures := Similarity("iPhone 13 Pro 256GB", "iPhone 13 Pro 256GB")
	if withFeatures < 0.99 {
		t.Errorf("identical titles with shared features should score near 1, got %v", withFeatures)
	}
	diff := Similarity("Apple AirPods Pro", "Vintage Morgan Silver Dollar 1921")
	if diff > 0.5 {
		t.Errorf("unrelated titles should score low, got %v", diff)
	}
}

func TestSimilarityAirPodsScenario(t *testing.T) {
	got := Similarity(
		"Apple AirPods Pro 2nd Gen Sealed",
		"Apple AirPods Pro 2nd Generation New",
	)
	if got < 0.6 {
		t.Errorf("similar AirPods titles should score >= 0.6, got %v", got)
	}
}

func TestSimilarityTermValueBonus(t *testing.T) {
	with := Similarity("Jordan 1 Retro High Size 9", "Jordan 1 High OG Size 9")
	without := Similarity("Jordan 1 Retro High Size 9", "Jordan 1 High OG Size 11")
	if with <= without {
		t.Errorf("shared size value should add a bonus: with=%v without=%v", with, without)
	}
}

func TestThresholdByDomain(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		t1, t2 string
		want   float64
	}{
		{"Pokemon TCG Booster", "Charizard Holo", cfg.TradingCardThreshold},
		{"PS5 Console Disc Edition", "PlayStation 5", cfg.ConsoleThreshold},
		{"Jordan 4 Retro", "Air Jordan 4", cfg.SneakerThreshold},
		{"Dyson V8 Vacuum", "Dyson Vacuum Cleaner", cfg.DefaultThreshold},
	}
	for _, tt := range tests {
		if got := cfg.Threshold(tt.t1, tt.t2); got != tt.want {
			t.Errorf("Threshold(%q,%q) = %v, want %v", tt.t1, tt.t2, got, tt.want)
		}
	}
}

func TestSameProductModelCodeShortCircuit(t *testing.T) {
	// Shared model code wins even though the sizes differ elsewhere.
	if !SameProduct("Sony WH-1000XM5 Headphones", "Sony WH-1000XM5 Wireless") {
		t.Error("shared model code should classify as same product")
	}
}

func TestSameProductSizeVeto(t *testing.T) {
	if SameProduct("Jordan 1 Size 9", "Jordan 1 Size 11") {
		t.Error("different shoe sizes must veto the match")
	}
	if SameProduct("iPhone 13 128GB", "iPhone 13 256GB") {
		t.Error("different storage sizes must veto the match")
	}
}

func TestSameProductGenerationVeto(t *testing.T) {
	if SameProduct("Echo Dot Gen 3 Speaker", "Echo Dot Gen 4 Speaker") {
		t.Error("different generations must veto the match")
	}
}

func TestSameProductColorwayVeto(t *testing.T) {
	if SameProduct("Jordan 1 Retro Bred", "Jordan 1 Retro Chicago") {
		t.Error("different colorways must veto the match")
	}
}

func TestSameProductCharacterVeto(t *testing.T) {
	if SameProduct("Pokemon Card Charizard Holo", "Pokemon Card Pikachu Holo") {
		t.Error("different characters must veto the match")
	}
}

func TestSameProductPermissiveDefault(t *testing.T) {
	if !SameProduct("Wireless Bluetooth Speaker", "Portable Bluetooth Speaker") {
		t.Error("no conflicting features should default to same product")
	}
}

func TestSameProductIdempotent(t *testing.T) {
	a, b := "Jordan 1 Size 9", "Jordan 1 Size 11"
	first := SameProduct(a, b)
	second := SameProduct(a, b)
	if first != second {
		t.Error("classifier must be deterministic")
	}
}
