package scanner

import (
	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/match"
)

// nearDuplicateThreshold is the pairwise similarity above which two listings
// are treated as the same physical listing posted twice.
const nearDuplicateThreshold = 0.85

// DedupeListings drops near-duplicate listings before matching, keeping the
// first encountered of each cluster. Matching a listing against its own
// duplicate would otherwise produce a fake zero-risk opportunity.
func DedupeListings(listings []domain.Listing) []domain.Listing {
	kept := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		dup := false
		for _, k := range kept {
			if match.Similarity(l.Title, k.Title) > nearDuplicateThreshold {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, l)
		}
	}
	return kept
}

// dedupeOpportunities keeps the first opportunity seen per symmetric title
// key, so the same product pair surfaced through different listings is
// reported once.
func dedupeOpportunities(opps []domain.Opportunity) []domain.Opportunity {
	seen := make(map[string]bool, len(opps))
	kept := make([]domain.Opportunity, 0, len(opps))
	for _, o := range opps {
		key := pairTitleKey(o)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, o)
	}
	return kept
}

func pairTitleKey(o domain.Opportunity) string {
	a := titleKey(o.BuyListing)
	b := titleKey(o.SellReference)
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

func titleKey(l domain.Listing) string {
	t := l.NormalizedTitle
	if t == "" {
		t = match.NormalizeTitle(l.Title)
	}
	if len(t) > 50 {
		t = t[:50]
	}
	return t
}
