package match

import (
	"regexp"
	"strings"
)

// Similarity weights. Normalized-title sequence similarity dominates; raw
// text and feature overlap refine it.
const (
	rawWeight     = 0.3
	normWeight    = 0.5
	featureWeight = 0.2
	termBonus     = 0.1
)

// Config holds the domain-adjusted thresholds for "similar enough to
// compare".
type Config struct {
	DefaultThreshold     float64
	TradingCardThreshold float64
	ConsoleThreshold     float64
	SneakerThreshold     float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		DefaultThreshold:     0.25,
		TradingCardThreshold: 0.20,
		ConsoleThreshold:     0.30,
		SneakerThreshold:     0.25,
	}
}

var termValueRe = regexp.MustCompile(`\b(size|edition)\s*(\w+)`)

// Similarity scores how likely two titles describe the same product, in
// [0,1].
func Similarity(title1, title2 string) float64 {
	raw := sequenceRatio(strings.ToLower(title1), strings.ToLower(title2))
	norm := sequenceRatio(NormalizeTitle(title1), NormalizeTitle(title2))
	feat := jaccard(ExtractFeatures(title1), ExtractFeatures(title2))

	score := raw*rawWeight + norm*normWeight + feat*featureWeight

	if sharesTermValue(title1, title2) {
		score += termBonus
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Threshold returns the minimum similarity for a pair of titles, adjusted by
// the product domain the titles suggest.
func (c Config) Threshold(title1, title2 string) float64 {
	combined := strings.ToLower(title1 + " " + title2)
	switch {
	case containsAny(combined, "pokemon", "pokémon", "mtg", "trading card", "tcg", "topps"):
		return c.TradingCardThreshold
	case containsAny(combined, "console", "ps5", "ps4", "xbox", "nintendo switch"):
		return c.ConsoleThreshold
	case containsAny(combined, "jordan", "yeezy", "sneaker", "nike dunk"):
		return c.SneakerThreshold
	default:
		return c.DefaultThreshold
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// sharesTermValue reports whether both titles carry the same explicit
// "term value" pattern, e.g. both say "size 9".
func sharesTermValue(title1, title2 string) bool {
	pairs1 := termValuePairs(title1)
	if len(pairs1) == 0 {
		return false
	}
	for pair := range termValuePairs(title2) {
		if pairs1[pair] {
			return true
		}
	}
	return false
}

func termValuePairs(title string) map[string]bool {
	pairs := make(map[string]bool)
	for _, m := range termValueRe.FindAllStringSubmatch(strings.ToLower(title), -1) {
		pairs[m[1]+"="+m[2]] = true
	}
	return pairs
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// SequenceRatio exposes the raw sequence similarity of two strings, in
// [0,1]. Used for query-to-title matching where feature extraction adds
// nothing.
func SequenceRatio(a, b string) float64 {
	return sequenceRatio(strings.ToLower(a), strings.ToLower(b))
}

// sequenceRatio is the classic difflib-style similarity: twice the total
// length of matching blocks over the combined length. longestMatch breaks
// ties by position, which depends on argument order, so the arguments are
// put in canonical order first to keep the ratio symmetric.
func sequenceRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if a > b {
		a, b = b, a
	}
	matched := matchingLen([]byte(a), []byte(b), 0, len(a), 0, len(b))
	return 2 * float64(matched) / float64(len(a)+len(b))
}

// matchingLen sums the lengths of the matching blocks found by recursively
// splitting around the longest common substring.
func matchingLen(a, b []byte, alo, ahi, blo, bhi int) int {
	ai, bi, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingLen(a, b, alo, ai, blo, bi)
	total += matchingLen(a, b, ai+size, ahi, bi+size, bhi)
	return total
}

// longestMatch finds the longest matching block within a[alo:ahi] and
// b[blo:bhi], preferring the earliest in a, then in b, on ties.
func longestMatch(a, b []byte, alo, ahi, blo, bhi int) (int, int, int) {
	b2j := make(map[byte][]int)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj, bestsize := alo, blo, 0
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
