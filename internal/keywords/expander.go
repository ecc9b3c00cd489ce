// Package keywords expands search keywords with misspellings, synonyms, and
// trending modifiers to broaden marketplace coverage.
package keywords

import (
	"sort"
	"strings"
	"time"
)

// maxVariants caps the expansion of one keyword. Each variant costs an API
// search, so the list is kept short.
const maxVariants = 3

// variantTable maps base terms to common misspellings and synonyms seen in
// live listings.
var variantTable = map[string][]string{
	"airpods":         {"airpod", "air pods", "apple earbuds", "aripods", "airpds"},
	"beats":           {"beats by dre", "beats audio", "dr dre"},
	"bose":            {"bose quietcomfort", "bose qc", "bose noise cancelling"},
	"nintendo switch": {"nintendo swich", "nintedo switch", "switch console", "nintendo switch oled"},
	"playstation":     {"play station", "playstaton", "ps5", "ps4"},
	"xbox":            {"x box", "xobx", "microsoft xbox"},
	"iphone":          {"i phone", "ifone", "iphome", "apple phone"},
	"samsung":         {"samung", "samsng", "samsung galaxy"},
	"jordan":          {"jorden", "jordn", "air jordan", "jordan retro"},
	"yeezy":           {"yezy", "adidas yeezy", "yeezy boost"},
	"nike":            {"niki", "nke", "nike sneakers"},
	"pokemon":         {"pokémon", "pokeman", "pocket monsters", "pokemon cards"},
	"charizard":       {"charizrd", "charizard card"},
	"macbook":         {"mac book", "mackbook", "apple laptop"},
	"ipad":            {"i pad", "apple tablet"},
	"supreme":         {"supeme", "suprme", "supreme box logo"},
	"off white":       {"offwhite", "off-white", "virgil abloh"},
}

// Expand returns up to maxVariants query strings for a keyword: the cleaned
// keyword itself followed by known variants of the longest matching base term.
// Order is deterministic and the original keyword always comes first.
func Expand(keyword string) []string {
	cleaned := strings.ToLower(strings.TrimSpace(keyword))
	if cleaned == "" {
		return nil
	}

	expanded := []string{cleaned}

	// Prefer the longest base term so "nintendo switch" wins over "nintendo".
	var bases []string
	for base := range variantTable {
		if strings.Contains(cleaned, base) {
			bases = append(bases, base)
		}
	}
	sort.Slice(bases, func(i, j int) bool {
		if len(bases[i]) != len(bases[j]) {
			return len(bases[i]) > len(bases[j])
		}
		return bases[i] < bases[j]
	})
	if len(bases) > 0 {
		expanded = append(expanded, variantTable[bases[0]]...)
	}

	seen := make(map[string]bool, len(expanded))
	unique := make([]string, 0, maxVariants)
	for _, kw := range expanded {
		if seen[kw] {
			continue
		}
		seen[kw] = true
		unique = append(unique, kw)
		if len(unique) == maxVariants {
			break
		}
	}
	return unique
}

// categoryVocab holds keyword suggestions per category/subcategory.
var categoryVocab = map[string]map[string][]string{
	"Tech": {
		"Headphones":     {"airpods", "beats", "bose", "sony headphones", "wireless earbuds"},
		"Smartphones":    {"iphone", "samsung galaxy", "google pixel", "oneplus", "xiaomi"},
		"Laptops":        {"macbook", "thinkpad", "dell xps", "hp laptop", "gaming laptop"},
		"Graphics Cards": {"rtx 4090", "rtx 4080", "rx 7900", "nvidia", "amd gpu"},
		"Tablets":        {"ipad", "samsung tablet", "surface pro", "kindle fire"},
	},
	"Gaming": {
		"Consoles":           {"ps5", "xbox series x", "nintendo switch", "steam deck"},
		"Video Games":        {"call of duty", "fifa", "pokemon", "zelda", "mario"},
		"Gaming Accessories": {"gaming chair", "mechanical keyboard", "gaming mouse"},
	},
	"Collectibles": {
		"Trading Cards":  {"pokemon cards", "magic the gathering", "basketball cards", "charizard"},
		"Action Figures": {"hot toys", "funko pop", "marvel legends", "star wars"},
		"Coins":          {"morgan dollar", "gold coin", "silver coin", "rare coins"},
	},
	"Fashion": {
		"Sneakers":          {"air jordan", "yeezy", "nike dunk", "new balance", "adidas"},
		"Designer Clothing": {"supreme", "off white", "gucci", "louis vuitton"},
		"Vintage Clothing":  {"vintage band tee", "90s vintage", "carhartt", "tommy hilfiger"},
	},
	"Vintage": {
		"Electronics": {"vintage mac", "nintendo 64", "walkman", "vintage camera"},
		"Cameras":     {"leica", "hasselblad", "nikon", "canon", "polaroid"},
	},
}

// Suggestions returns the curated keyword list for a category/subcategory
// pair, or nil when the pair is unknown.
func Suggestions(category, subcategory string) []string {
	subs, ok := categoryVocab[category]
	if !ok {
		return nil
	}
	kws := subs[subcategory]
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}

// Categories returns the category tree as category -> subcategory names, with
// both levels sorted.
func Categories() map[string][]string {
	out := make(map[string][]string, len(categoryVocab))
	for cat, subs := range categoryVocab {
		names := make([]string, 0, len(subs))
		for sub := range subs {
			names = append(names, sub)
		}
		sort.Strings(names)
		out[cat] = names
	}
	return out
}

// baseTrending is the always-on list of trending modifiers.
var baseTrending = []string{
	"limited edition", "exclusive drop", "sold out everywhere",
	"rare find", "collector item", "investment piece",
	"airpods pro 2", "nintendo switch oled", "pokemon cards",
	"supreme hoodie", "jordan 1", "iphone 15 pro", "ps5",
}

// seasonalTerms keys extra trending terms by calendar month.
var seasonalTerms = map[time.Month][]string{
	time.January:   {"new year", "resolution", "fitness"},
	time.February:  {"valentine", "love", "gifts"},
	time.March:     {"spring", "easter", "renewal"},
	time.April:     {"april", "spring cleaning", "fresh"},
	time.May:       {"mother's day", "graduation", "spring"},
	time.June:      {"summer", "vacation", "outdoor"},
	time.July:      {"summer", "july 4th", "patriotic"},
	time.August:    {"back to school", "college", "supplies"},
	time.September: {"fall", "autumn", "cozy"},
	time.October:   {"halloween", "spooky", "costume"},
	time.November:  {"thanksgiving", "black friday", "deals"},
	time.December:  {"christmas", "holiday", "gifts"},
}

// Trending returns the trending keyword list for a point in time: the base
// list plus month-specific seasonal terms.
func Trending(now time.Time) []string {
	out := make([]string, 0, len(baseTrending)+3)
	out = append(out, baseTrending...)
	out = append(out, seasonalTerms[now.Month()]...)
	return out
}
