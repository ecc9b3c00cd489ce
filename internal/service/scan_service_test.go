package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/scanner"
	"github.com/fliphawk/fliphawk/internal/valuation"
)

type fakeSource struct {
	raws  []domain.RawListing
	err   error
	calls int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Search(ctx context.Context, q domain.SearchQuery) ([]domain.RawListing, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.raws, nil
}

type memScanStore struct {
	records []domain.ScanRecord
}

func (m *memScanStore) Insert(ctx context.Context, rec domain.ScanRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memScanStore) ListRecent(ctx context.Context, limit int) ([]domain.ScanRecord, error) {
	if limit > len(m.records) {
		limit = len(m.records)
	}
	return m.records[:limit], nil
}

func (m *memScanStore) ListBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.ScanRecord, error) {
	return nil, nil
}

func (m *memScanStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type memOpportunityStore struct {
	byScan map[string][]domain.Opportunity
}

func (m *memOpportunityStore) InsertBatch(ctx context.Context, scanID string, opps []domain.Opportunity) error {
	if m.byScan == nil {
		m.byScan = make(map[string][]domain.Opportunity)
	}
	m.byScan[scanID] = append(m.byScan[scanID], opps...)
	return nil
}

func (m *memOpportunityStore) ListByScan(ctx context.Context, scanID string) ([]domain.Opportunity, error) {
	return m.byScan[scanID], nil
}

func (m *memOpportunityStore) ListRecent(ctx context.Context, limit int) ([]domain.Opportunity, error) {
	var out []domain.Opportunity
	for _, opps := range m.byScan {
		out = append(out, opps...)
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type memCache struct {
	entries map[string]domain.ScanResult
	sets    int
}

func (m *memCache) Set(ctx context.Context, key string, result domain.ScanResult) error {
	if m.entries == nil {
		m.entries = make(map[string]domain.ScanResult)
	}
	m.entries[key] = result
	m.sets++
	return nil
}

func (m *memCache) Get(ctx context.Context, key string) (domain.ScanResult, error) {
	r, ok := m.entries[key]
	if !ok {
		return domain.ScanResult{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memCache) Invalidate(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func airpodsRaws() []domain.RawListing {
	return []domain.RawListing{
		{
			Title:          "Apple AirPods Pro 2nd Generation Wireless Earbuds",
			PriceText:      "$180.00",
			ShippingText:   "Free shipping",
			ConditionText:  "Brand New",
			LocationText:   "Austin, United States",
			SellerRating:   "99.8%",
			SellerFeedback: "12405",
			Link:           "https://www.ebay.com/itm/1001",
			Category:       "Tech",
			Subcategory:    "Headphones",
			MatchedKeyword: "airpods pro",
		},
		{
			Title:          "Apple AirPods Pro 2nd Gen Brand New Sealed",
			PriceText:      "$230.00",
			ShippingText:   "Free shipping",
			ConditionText:  "Brand New",
			LocationText:   "Dallas, United States",
			SellerRating:   "99.6%",
			SellerFeedback: "8211",
			Link:           "https://www.ebay.com/itm/1002",
			Category:       "Tech",
			Subcategory:    "Headphones",
			MatchedKeyword: "airpods pro",
		},
	}
}

func newTestService(src domain.ListingSource, deps Deps) *ScanService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps.Source = src
	deps.Scanner = scanner.New(scanner.DefaultConfig(), logger)
	deps.Valuer = valuation.NewEngine(valuation.StandardPolicy())
	deps.Scorer = valuation.NewScorer(valuation.StandardConfidencePolicy())
	cfg := ScanConfig{
		MinProfit:      10,
		MaxListings:    50,
		PriceCeiling:   5000,
		ProfitAlertMin: 20,
	}
	return NewScanService(deps, cfg, logger)
}

func TestScanEndToEnd(t *testing.T) {
	src := &fakeSource{raws: airpodsRaws()}
	scans := &memScanStore{}
	opps := &memOpportunityStore{}
	svc := newTestService(src, Deps{Scans: scans, Opps: opps})

	result, err := svc.Scan(context.Background(), scanner.Params{Keyword: "airpods pro"})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.ScanID == "" {
		t.Error("scan ID not assigned")
	}
	if result.Stats.RawListings != 2 || result.Stats.ListingsAnalyzed != 2 {
		t.Errorf("stats = %+v, want 2 raw / 2 analyzed", result.Stats)
	}
	if len(result.Opportunities) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(result.Opportunities))
	}
	o := result.Opportunities[0]
	if o.NetProfitAfterFees < 10 {
		t.Errorf("net profit %.2f below floor", o.NetProfitAfterFees)
	}

	if len(scans.records) != 1 {
		t.Fatalf("persisted %d scan records, want 1", len(scans.records))
	}
	rec := scans.records[0]
	if rec.ScanID != result.ScanID || rec.OpportunitiesFound != 1 {
		t.Errorf("record = %+v", rec)
	}
	if got := opps.byScan[result.ScanID]; len(got) != 1 {
		t.Errorf("persisted %d opportunities, want 1", len(got))
	}
}

func TestScanServesRepeatFromCache(t *testing.T) {
	src := &fakeSource{raws: airpodsRaws()}
	cache := &memCache{}
	svc := newTestService(src, Deps{Cache: cache})

	params := scanner.Params{Keyword: "airpods pro"}
	first, err := svc.Scan(context.Background(), params)
	if err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	second, err := svc.Scan(context.Background(), params)
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("source called %d times, want 1", src.calls)
	}
	if second.ScanID != first.ScanID {
		t.Errorf("cached result scan ID %q != %q", second.ScanID, first.ScanID)
	}
	if cache.sets != 1 {
		t.Errorf("cache set %d times, want 1", cache.sets)
	}
}

func TestScanAppliesServiceDefaults(t *testing.T) {
	src := &fakeSource{raws: airpodsRaws()}
	svc := newTestService(src, Deps{})

	result, err := svc.Scan(context.Background(), scanner.Params{
		Keyword:   "airpods pro",
		MinProfit: scanner.UnsetMinProfit,
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.MinProfit != 10 {
		t.Errorf("MinProfit = %.2f, want service default 10", result.MinProfit)
	}
}

func TestScanHonorsExplicitZeroFloor(t *testing.T) {
	src := &fakeSource{raws: airpodsRaws()}
	svc := newTestService(src, Deps{})

	result, err := svc.Scan(context.Background(), scanner.Params{
		Keyword:   "airpods pro",
		MinProfit: 0,
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.MinProfit != 0 {
		t.Errorf("MinProfit = %.2f, want explicit 0 preserved", result.MinProfit)
	}
	if len(result.Opportunities) != 1 {
		t.Errorf("got %d opportunities, want 1 above the zero floor", len(result.Opportunities))
	}
}

func TestScanRejectsInvalidParams(t *testing.T) {
	src := &fakeSource{}
	svc := newTestService(src, Deps{})

	_, err := svc.Scan(context.Background(), scanner.Params{})
	if !errors.Is(err, domain.ErrInvalidScanParams) {
		t.Fatalf("err = %v, want ErrInvalidScanParams", err)
	}
	if src.calls != 0 {
		t.Errorf("source called %d times before validation", src.calls)
	}
}

func TestScanPropagatesSourceFailure(t *testing.T) {
	src := &fakeSource{err: domain.ErrSourceUnavailable}
	svc := newTestService(src, Deps{})

	_, err := svc.Scan(context.Background(), scanner.Params{Keyword: "airpods pro"})
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	svc := newTestService(&fakeSource{}, Deps{})
	recs, err := svc.History(context.Background(), 10)
	if err != nil || recs != nil {
		t.Fatalf("History = %v, %v; want nil, nil", recs, err)
	}
}
