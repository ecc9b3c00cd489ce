// Package normalize turns raw marketplace payloads into canonical Listings
// and owns the per-scan dedup state.
package normalize

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"

	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/match"
)

// Config holds normalizer policy knobs.
type Config struct {
	// MinTitleLen is the minimum cleaned title length. Shorter titles are
	// treated as malformed.
	MinTitleLen int
	// PriceCeiling rejects listings priced above it.
	PriceCeiling float64
	// ShippingCapFraction clamps shipping above this fraction of price.
	ShippingCapFraction float64
}

// DefaultConfig returns the production normalizer settings.
func DefaultConfig() Config {
	return Config{
		MinTitleLen:         10,
		PriceCeiling:        10_000,
		ShippingCapFraction: 0.30,
	}
}

// promoDenylist drops promotional pseudo-listings injected into search pages.
var promoDenylist = []string{
	"sponsored",
	"shop on ebay",
	"see more like this",
	"new listing",
	"results matching fewer words",
}

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	moneyRe      = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	itemIDRe     = regexp.MustCompile(`/itm/(\d+)`)
)

// conditionEntry maps a condition phrase to its tier. Entries are checked in
// order so more specific phrases win.
type conditionEntry struct {
	phrase string
	tier   domain.ConditionTier
}

var conditionTable = []conditionEntry{
	{"like new", domain.ConditionLikeNew},
	{"open box", domain.ConditionLikeNew},
	{"mint", domain.ConditionLikeNew},
	{"refurbished", domain.ConditionRefurbished},
	{"renewed", domain.ConditionRefurbished},
	{"brand new", domain.ConditionNew},
	{"new with tags", domain.ConditionNew},
	{"new in box", domain.ConditionNew},
	{"sealed", domain.ConditionNew},
	{"new", domain.ConditionNew},
	{"excellent", domain.ConditionVeryGood},
	{"very good", domain.ConditionVeryGood},
	{"acceptable", domain.ConditionAcceptable},
	{"fair", domain.ConditionAcceptable},
	{"for parts", domain.ConditionAcceptable},
	{"pre-owned", domain.ConditionGood},
	{"preowned", domain.ConditionGood},
	{"good", domain.ConditionGood},
	{"used", domain.ConditionGood},
}

// Session owns the dedup state for one scan. It is not safe for concurrent
// use; each scan creates its own.
type Session struct {
	cfg        Config
	seenIDs    map[string]bool
	seenTitles map[uint64]bool
	malformed  int
	duplicates int
}

// NewSession returns a fresh Session with empty dedup state.
func NewSession(cfg Config) *Session {
	if cfg.MinTitleLen <= 0 {
		cfg.MinTitleLen = DefaultConfig().MinTitleLen
	}
	if cfg.PriceCeiling <= 0 {
		cfg.PriceCeiling = DefaultConfig().PriceCeiling
	}
	if cfg.ShippingCapFraction <= 0 {
		cfg.ShippingCapFraction = DefaultConfig().ShippingCapFraction
	}
	return &Session{
		cfg:        cfg,
		seenIDs:    make(map[string]bool),
		seenTitles: make(map[uint64]bool),
	}
}

// MalformedCount reports raw listings dropped as unparseable or promotional.
func (s *Session) MalformedCount() int { return s.malformed }

// DuplicateCount reports raw listings dropped as duplicates within this scan.
func (s *Session) DuplicateCount() int { return s.duplicates }

// Normalize converts one raw payload into a Listing. The second return is
// false when the input was dropped; drops are counted on the session rather
// than surfaced as errors.
func (s *Session) Normalize(raw domain.RawListing) (domain.Listing, bool) {
	title := CleanTitle(raw.Title)
	if len(title) < s.cfg.MinTitleLen || isPromotional(title) {
		s.malformed++
		return domain.Listing{}, false
	}

	price, ok := ParsePrice(raw.PriceText)
	if !ok || price <= 0 || price > s.cfg.PriceCeiling {
		s.malformed++
		return domain.Listing{}, false
	}

	shipping := ParseShipping(raw.ShippingText)
	if limit := price * s.cfg.ShippingCapFraction; shipping > limit {
		shipping = limit
	}
	freeShipping := strings.Contains(strings.ToLower(raw.ShippingText), "free")

	itemID := ResolveItemID(raw.Link, title, price)
	normTitle := match.NormalizeTitle(title)
	titleHash := hash64(normTitle)

	if s.seenIDs[itemID] || s.seenTitles[titleHash] {
		s.duplicates++
		return domain.Listing{}, false
	}
	s.seenIDs[itemID] = true
	s.seenTitles[titleHash] = true

	rating := parseSellerRating(raw.SellerRating)
	feedback := parseSellerFeedback(raw.SellerFeedback)

	return domain.Listing{
		ItemID:              itemID,
		Title:               title,
		NormalizedTitle:     normTitle,
		Price:               price,
		ShippingCost:        shipping,
		FreeShipping:        freeShipping,
		TotalCost:           price + shipping,
		Condition:           strings.TrimSpace(raw.ConditionText),
		ConditionTier:       MapCondition(raw.ConditionText),
		Category:            raw.Category,
		Subcategory:         raw.Subcategory,
		SellerRating:        rating,
		SellerFeedbackCount: feedback,
		Location:            strings.TrimSpace(raw.LocationText),
		Link:                raw.Link,
		ImageURL:            raw.ImageURL,
		MatchedKeyword:      raw.MatchedKeyword,
	}, true
}

// CleanTitle strips markup and collapses whitespace.
func CleanTitle(title string) string {
	t := htmlTagRe.ReplaceAllString(title, " ")
	t = whitespaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

func isPromotional(title string) bool {
	lower := strings.ToLower(title)
	for _, phrase := range promoDenylist {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// ParsePrice extracts the first monetary amount from free text. Ranges like
// "$20 to $30" or "$20 - $30" resolve to the lower bound.
func ParsePrice(text string) (float64, bool) {
	m := moneyRe.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseShipping maps free-shipping phrases to zero cost, otherwise extracts
// the first monetary amount. Unparseable text means unknown shipping, treated
// as zero.
func ParseShipping(text string) float64 {
	lower := strings.ToLower(text)
	if lower == "" || strings.Contains(lower, "free") {
		return 0
	}
	v, ok := ParsePrice(text)
	if !ok {
		return 0
	}
	return v
}

// MapCondition maps free condition text onto the closed tier taxonomy.
func MapCondition(text string) domain.ConditionTier {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return domain.ConditionUnknown
	}
	for _, entry := range conditionTable {
		if strings.Contains(lower, entry.phrase) {
			return entry.tier
		}
	}
	return domain.ConditionUnknown
}

// ResolveItemID extracts the marketplace-native item ID from the listing link,
// falling back to a deterministic hash of the link, then of title and price.
func ResolveItemID(link, title string, price float64) string {
	if m := itemIDRe.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	if link != "" {
		return fmt.Sprintf("h%016x", hash64(link))
	}
	return fmt.Sprintf("h%016x", hash64(fmt.Sprintf("%s|%.2f", title, price)))
}

func hash64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

func parseSellerRating(text string) float64 {
	t := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	if t == "" {
		return domain.SellerRatingUnavailable
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || v < 0 || v > 100 {
		return domain.SellerRatingUnavailable
	}
	return v
}

func parseSellerFeedback(text string) int {
	t := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	t = strings.Trim(t, "()")
	if t == "" {
		return domain.SellerFeedbackUnavailable
	}
	v, err := strconv.Atoi(t)
	if err != nil || v < 0 {
		return domain.SellerFeedbackUnavailable
	}
	return v
}
