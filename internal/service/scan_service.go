// Package service orchestrates the scan pipeline: listing acquisition,
// normalization, valuation, matching, and the fan-out to storage, cache,
// archive, and notification channels.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/normalize"
	"github.com/fliphawk/fliphawk/internal/notify"
	"github.com/fliphawk/fliphawk/internal/scanner"
	"github.com/fliphawk/fliphawk/internal/valuation"
)

// ScanChannel is the signal bus channel carrying completed scan events.
const ScanChannel = "scans"

// ScanConfig holds the service-level scan defaults.
type ScanConfig struct {
	MinProfit      float64
	MaxListings    int
	PriceCeiling   float64
	ProfitAlertMin float64
}

// Deps bundles the scan service dependencies. The source and scanner are
// required; everything else is optional and skipped when nil.
type Deps struct {
	Source   domain.ListingSource
	Scanner  *scanner.Scanner
	Valuer   *valuation.Engine
	Scorer   *valuation.Scorer
	Scans    domain.ScanStore
	Opps     domain.OpportunityStore
	Cache    domain.ResultCache
	Archiver domain.Archiver
	Bus      domain.SignalBus
	Notifier *notify.Notifier
}

// ScanService runs full scans end to end. Failures in persistence, caching,
// archiving, or notification are logged and do not fail the scan; only
// parameter validation and listing-source errors are fatal.
type ScanService struct {
	deps   Deps
	cfg    ScanConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewScanService creates a ScanService.
func NewScanService(deps Deps, cfg ScanConfig, logger *slog.Logger) *ScanService {
	return &ScanService{
		deps:   deps,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "scan_service")),
		now:    time.Now,
	}
}

// Scan runs one scan request through the whole pipeline and returns the
// ranked result. Repeated requests for the same parameters are served from
// the result cache while the entry lives.
func (s *ScanService) Scan(ctx context.Context, params scanner.Params) (domain.ScanResult, error) {
	params = s.applyDefaults(params)
	if err := params.Validate(); err != nil {
		return domain.ScanResult{}, err
	}

	cacheKey := scanCacheKey(params)
	if s.deps.Cache != nil {
		if cached, err := s.deps.Cache.Get(ctx, cacheKey); err == nil {
			s.logger.DebugContext(ctx, "cache hit", slog.String("key", cacheKey))
			return cached, nil
		}
	}

	startedAt := s.now()
	raws, err := s.deps.Source.Search(ctx, domain.SearchQuery{
		Keyword:     params.Keyword,
		Category:    params.Category,
		Subcategory: params.Subcategory,
		MaxPrice:    s.cfg.PriceCeiling,
		Limit:       params.MaxListings,
	})
	if err != nil {
		s.notifyError(ctx, params, err)
		return domain.ScanResult{}, fmt.Errorf("service: scan %q: %w", params.Keyword, err)
	}

	session := normalize.NewSession(normalize.Config{PriceCeiling: s.cfg.PriceCeiling})
	listings := make([]domain.Listing, 0, len(raws))
	for _, raw := range raws {
		l, ok := session.Normalize(raw)
		if !ok {
			continue
		}
		s.deps.Valuer.Apply(&l, startedAt)
		s.deps.Scorer.Score(&l, params.Keyword)
		listings = append(listings, l)
	}

	opps, matchStats, err := s.deps.Scanner.FindOpportunities(listings, params.MinProfit)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("service: scan %q: %w", params.Keyword, err)
	}

	result := domain.ScanResult{
		ScanID:        uuid.NewString(),
		Keyword:       params.Keyword,
		Category:      params.Category,
		Subcategory:   params.Subcategory,
		MinProfit:     params.MinProfit,
		Opportunities: opps,
		Summary:       scanner.Summarize(opps),
		Stats: domain.ScanStats{
			RawListings:       len(raws),
			MalformedDropped:  session.MalformedCount(),
			DuplicatesDropped: session.DuplicateCount() + matchStats.NearDuplicatesDropped,
			ListingsAnalyzed:  len(listings),
			PairsCompared:     matchStats.PairsCompared,
		},
		StartedAt: startedAt,
		Duration:  s.now().Sub(startedAt),
	}

	s.logger.InfoContext(ctx, "scan complete",
		slog.String("scan_id", result.ScanID),
		slog.String("keyword", params.Keyword),
		slog.Int("raw_listings", result.Stats.RawListings),
		slog.Int("analyzed", result.Stats.ListingsAnalyzed),
		slog.Int("opportunities", len(opps)),
		slog.Duration("duration", result.Duration),
	)

	s.persist(ctx, result)
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, cacheKey, result); err != nil {
			s.logger.WarnContext(ctx, "cache set failed", slog.String("error", err.Error()))
		}
	}
	s.archive(ctx, result)
	s.publish(ctx, result)
	s.notifyResult(ctx, result)

	return result, nil
}

// History returns recent scan headers, newest first.
func (s *ScanService) History(ctx context.Context, limit int) ([]domain.ScanRecord, error) {
	if s.deps.Scans == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	recs, err := s.deps.Scans.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: scan history: %w", err)
	}
	return recs, nil
}

// RecentOpportunities returns the newest persisted opportunities.
func (s *ScanService) RecentOpportunities(ctx context.Context, limit int) ([]domain.Opportunity, error) {
	if s.deps.Opps == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	opps, err := s.deps.Opps.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: recent opportunities: %w", err)
	}
	return opps, nil
}

func (s *ScanService) applyDefaults(params scanner.Params) scanner.Params {
	if params.MinProfit == scanner.UnsetMinProfit {
		params.MinProfit = s.cfg.MinProfit
	}
	if params.MaxListings <= 0 || params.MaxListings > s.cfg.MaxListings {
		params.MaxListings = s.cfg.MaxListings
	}
	return params
}

func (s *ScanService) persist(ctx context.Context, result domain.ScanResult) {
	if s.deps.Scans != nil {
		rec := domain.ScanRecord{
			ScanID:             result.ScanID,
			Keyword:            result.Keyword,
			Category:           result.Category,
			Subcategory:        result.Subcategory,
			MinProfit:          result.MinProfit,
			ListingsAnalyzed:   result.Stats.ListingsAnalyzed,
			OpportunitiesFound: len(result.Opportunities),
			HighestNetProfit:   result.Summary.HighestNetProfit,
			AverageROI:         result.Summary.AverageROI,
			StartedAt:          result.StartedAt,
			DurationMs:         result.Duration.Milliseconds(),
		}
		if err := s.deps.Scans.Insert(ctx, rec); err != nil {
			s.logger.ErrorContext(ctx, "persist scan failed",
				slog.String("scan_id", result.ScanID),
				slog.String("error", err.Error()),
			)
		}
	}
	if s.deps.Opps != nil && len(result.Opportunities) > 0 {
		if err := s.deps.Opps.InsertBatch(ctx, result.ScanID, result.Opportunities); err != nil {
			s.logger.ErrorContext(ctx, "persist opportunities failed",
				slog.String("scan_id", result.ScanID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *ScanService) archive(ctx context.Context, result domain.ScanResult) {
	if s.deps.Archiver == nil {
		return
	}
	key, err := s.deps.Archiver.ArchiveScan(ctx, result)
	if err != nil {
		s.logger.WarnContext(ctx, "archive failed",
			slog.String("scan_id", result.ScanID),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.DebugContext(ctx, "scan archived", slog.String("key", key))
}

func (s *ScanService) publish(ctx context.Context, result domain.ScanResult) {
	if s.deps.Bus == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.WarnContext(ctx, "marshal scan event failed", slog.String("error", err.Error()))
		return
	}
	if err := s.deps.Bus.Publish(ctx, ScanChannel, payload); err != nil {
		s.logger.WarnContext(ctx, "publish scan event failed", slog.String("error", err.Error()))
	}
}

func (s *ScanService) notifyResult(ctx context.Context, result domain.ScanResult) {
	if s.deps.Notifier == nil {
		return
	}

	title, message := notify.FormatScanResult(result)
	if err := s.deps.Notifier.Notify(ctx, notify.EventScanCompleted, title, message); err != nil {
		s.logger.WarnContext(ctx, "scan notification failed", slog.String("error", err.Error()))
	}

	for _, o := range result.Opportunities {
		if o.NetProfitAfterFees < s.cfg.ProfitAlertMin {
			continue
		}
		title, message := notify.FormatOpportunity(o)
		if err := s.deps.Notifier.Notify(ctx, notify.EventOpportunityFound, title, message); err != nil {
			s.logger.WarnContext(ctx, "opportunity notification failed",
				slog.String("opportunity_id", o.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *ScanService) notifyError(ctx context.Context, params scanner.Params, err error) {
	if s.deps.Notifier == nil {
		return
	}
	title := fmt.Sprintf("Scan %q failed", params.Keyword)
	if nerr := s.deps.Notifier.Notify(ctx, notify.EventError, title, err.Error()); nerr != nil {
		s.logger.WarnContext(ctx, "error notification failed", slog.String("error", nerr.Error()))
	}
}

func scanCacheKey(params scanner.Params) string {
	return strings.ToLower(strings.Join([]string{
		strings.TrimSpace(params.Keyword),
		params.Category,
		params.Subcategory,
		fmt.Sprintf("%.2f", params.MinProfit),
	}, "|"))
}
