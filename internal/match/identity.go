package match

// SameProduct decides whether two titles describe the same physical product.
// The rules are hard constraints: shared model codes short-circuit to true,
// conflicting discriminators veto regardless of similarity, and the default
// is permissive.
func SameProduct(title1, title2 string) bool {
	codes1 := extractModelCodes(title1)
	codes2 := extractModelCodes(title2)
	if len(codes1) > 0 && len(codes2) > 0 {
		for code := range codes1 {
			if codes2[code] {
				return true
			}
		}
	}

	f1 := ExtractFeatures(title1)
	f2 := ExtractFeatures(title2)

	if setsConflict(f1, f2, isSizeToken) {
		return false
	}
	if setsConflict(f1, f2, isGenToken) {
		return false
	}
	if setsConflict(f1, f2, isColorwayToken) {
		return false
	}
	if setsConflict(f1, f2, isCharacterToken) {
		return false
	}

	return true
}

// setsConflict reports whether both feature sets contain tokens of a kind
// and the subsets differ.
func setsConflict(f1, f2 map[string]bool, kind func(string) bool) bool {
	s1 := filter(f1, kind)
	s2 := filter(f2, kind)
	if len(s1) == 0 || len(s2) == 0 {
		return false
	}
	if len(s1) != len(s2) {
		return true
	}
	for k := range s1 {
		if !s2[k] {
			return true
		}
	}
	return false
}

func filter(set map[string]bool, kind func(string) bool) map[string]bool {
	out := make(map[string]bool)
	for k := range set {
		if kind(k) {
			out[k] = true
		}
	}
	return out
}

func isSizeToken(tok string) bool {
	return sizeRe.MatchString(tok) || shoeSizeRe.MatchString(tok)
}

func isGenToken(tok string) bool {
	return genRe.MatchString(tok)
}

func isColorwayToken(tok string) bool {
	for _, cw := range sneakerColorways {
		if tok == cw {
			return true
		}
	}
	return false
}

func isCharacterToken(tok string) bool {
	for _, name := range pokemonCharacters {
		if tok == name {
			return true
		}
	}
	return false
}
