// Package match quantifies whether two listings describe the same physical
// product: title normalization, discriminating-feature extraction, a
// similarity score, and a hard-constraint identity classifier.
package match

import (
	"regexp"
	"strings"
)

// stopWords are dropped during title normalization. They describe the sale,
// not the product.
var stopWords = map[string]bool{
	"for": true, "the": true, "and": true, "with": true,
	"new": true, "brand": true, "sealed": true, "box": true,
	"authentic": true, "genuine": true, "original": true,
	"usa": true, "ship": true, "fast": true, "free": true,
}

var (
	punctRe    = regexp.MustCompile(`[^\w\s]`)
	spaceRe    = regexp.MustCompile(`\s+`)
	sizeRe     = regexp.MustCompile(`\b\d+(?:gb|tb|mm|ml|oz|inch)\b|\d+"`)
	genRe      = regexp.MustCompile(`\bgen\s*\d+\b|\bv\d+\b`)
	yearRe     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	modelRe    = regexp.MustCompile(`\b[a-z0-9]+(?:-[a-z0-9]+)*\b`)
	shoeSizeRe = regexp.MustCompile(`\bsize\s*\d+(?:\.\d+)?\b`)
)

// pokemonCharacters is the recognized trading-card entity vocabulary.
var pokemonCharacters = []string{
	"charizard", "pikachu", "blastoise", "venusaur", "mewtwo", "mew",
	"gyarados", "dragonite", "umbreon", "rayquaza", "lugia", "gengar",
	"eevee", "snorlax",
}

// sneakerColorways is the recognized sneaker colorway vocabulary.
var sneakerColorways = []string{
	"bred", "chicago", "royal", "shadow", "mocha", "travis", "panda",
	"unc", "pine green", "court purple", "obsidian", "zebra", "beluga",
	"oreo", "onyx", "bone",
}

// NormalizeTitle lowercases, strips punctuation, drops stop words, and
// collapses whitespace.
func NormalizeTitle(title string) string {
	t := strings.ToLower(title)
	t = punctRe.ReplaceAllString(t, " ")
	words := spaceRe.Split(strings.TrimSpace(t), -1)
	kept := words[:0]
	for _, w := range words {
		if w != "" && !stopWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// ExtractFeatures returns the discriminating tokens of a title: sizes,
// generation markers, years, and domain-specific entities when the title's
// domain is recognizable. A malformed title yields an empty set.
func ExtractFeatures(title string) map[string]bool {
	features := make(map[string]bool)
	lower := strings.ToLower(title)

	for _, m := range sizeRe.FindAllString(lower, -1) {
		features[strings.ReplaceAll(m, " ", "")] = true
	}
	for _, m := range shoeSizeRe.FindAllString(lower, -1) {
		features[strings.ReplaceAll(m, " ", "")] = true
	}
	for _, m := range genRe.FindAllString(lower, -1) {
		features[strings.ReplaceAll(m, " ", "")] = true
	}
	for _, m := range yearRe.FindAllString(lower, -1) {
		features[m] = true
	}

	if strings.Contains(lower, "pokemon") || strings.Contains(lower, "pokémon") {
		for _, name := range pokemonCharacters {
			if strings.Contains(lower, name) {
				features[name] = true
			}
		}
	}
	if strings.Contains(lower, "jordan") || strings.Contains(lower, "nike") || strings.Contains(lower, "yeezy") {
		for _, cw := range sneakerColorways {
			if strings.Contains(lower, cw) {
				features[cw] = true
			}
		}
	}

	return features
}

// extractModelCodes returns alphanumeric model-code tokens: runs of 3+
// characters mixing letters and digits, optionally hyphenated.
func extractModelCodes(title string) map[string]bool {
	codes := make(map[string]bool)
	lower := strings.ToLower(title)
	for _, tok := range modelRe.FindAllString(lower, -1) {
		if len(tok) < 3 {
			continue
		}
		hasLetter, hasDigit := false, false
		for _, r := range tok {
			switch {
			case r >= 'a' && r <= 'z':
				hasLetter = true
			case r >= '0' && r <= '9':
				hasDigit = true
			}
		}
		if hasLetter && hasDigit {
			codes[tok] = true
		}
	}
	return codes
}
