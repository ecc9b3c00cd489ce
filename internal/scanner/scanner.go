// Package scanner implements the arbitrage pipeline core: pairwise matching
// of valued listings into opportunities, fee and risk estimation, dedup, and
// ranking. The pipeline is pure in-memory computation; listing acquisition
// and persistence live outside it.
package scanner

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/match"
)

// Config tunes one scanner instance. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// MinProfit is the default net-profit floor in dollars, used when a
	// scan request does not carry its own.
	MinProfit float64
	// MaxOpportunities caps the ranked result list.
	MaxOpportunities int
	FeePolicy        FeePolicy
	RiskPolicy       RiskPolicy
	Similarity       match.Config
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MinProfit:        10,
		MaxOpportunities: 10,
		FeePolicy:        FeePolicyStandard,
		RiskPolicy:       RiskPolicyStandard,
		Similarity:       match.DefaultConfig(),
	}
}

// UnsetMinProfit marks a request that did not specify a profit floor.
// Callers that default it must do so before Validate, which rejects any
// negative floor. Zero is a valid explicit floor.
const UnsetMinProfit = -1

// Params are the caller-supplied inputs of one scan request.
type Params struct {
	Keyword     string
	Category    string
	Subcategory string
	MinProfit   float64
	MaxListings int
}

// Validate fails fast on invalid parameters before any matching work.
func (p Params) Validate() error {
	if p.MinProfit < 0 {
		return fmt.Errorf("scanner: negative min_profit %.2f: %w", p.MinProfit, domain.ErrInvalidScanParams)
	}
	if strings.TrimSpace(p.Keyword) == "" && strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("scanner: keyword or category required: %w", domain.ErrInvalidScanParams)
	}
	return nil
}

// MatchStats counts what the matcher did with its input batch.
type MatchStats struct {
	ListingsIn            int
	NearDuplicatesDropped int
	PairsCompared         int
}

// Scanner matches a batch of normalized, valued listings into ranked
// opportunities. A Scanner is stateless across calls and safe for
// concurrent use.
type Scanner struct {
	cfg Config
	log *slog.Logger
	now func() time.Time
}

// New returns a Scanner with the given config.
func New(cfg Config, log *slog.Logger) *Scanner {
	return &Scanner{
		cfg: cfg,
		log: log.With("component", "scanner"),
		now: time.Now,
	}
}

// FindOpportunities is the pipeline entry point. Given a batch of listings
// and a net-profit floor it returns the ranked opportunity list. An empty
// result is not an error. A negative minProfit is rejected before any work.
func (s *Scanner) FindOpportunities(listings []domain.Listing, minProfit float64) ([]domain.Opportunity, MatchStats, error) {
	if minProfit < 0 {
		return nil, MatchStats{}, fmt.Errorf("scanner: negative min_profit %.2f: %w", minProfit, domain.ErrInvalidScanParams)
	}

	deduped := DedupeListings(listings)
	opps, pairs := s.matchPairs(deduped, minProfit)
	opps = dedupeOpportunities(opps)
	Rank(opps)
	if s.cfg.MaxOpportunities > 0 && len(opps) > s.cfg.MaxOpportunities {
		opps = opps[:s.cfg.MaxOpportunities]
	}

	stats := MatchStats{
		ListingsIn:            len(listings),
		NearDuplicatesDropped: len(listings) - len(deduped),
		PairsCompared:         pairs,
	}
	s.log.Debug("matching complete",
		"listings", len(deduped),
		"pairs_compared", pairs,
		"opportunities", len(opps))
	return opps, stats, nil
}
