package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/scanner"
)

type stubRunner struct {
	params scanner.Params
	result domain.ScanResult
	err    error
}

func (s *stubRunner) Scan(ctx context.Context, params scanner.Params) (domain.ScanResult, error) {
	s.params = params
	return s.result, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunScanDecodesBody(t *testing.T) {
	stub := &stubRunner{result: domain.ScanResult{ScanID: "abc"}}
	h := NewScanHandler(stub, discardLogger())

	body := `{"keyword":"airpods pro","min_profit":15,"max_listings":40}`
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.RunScan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if stub.params.Keyword != "airpods pro" || stub.params.MinProfit != 15 || stub.params.MaxListings != 40 {
		t.Errorf("params = %+v", stub.params)
	}

	var resp domain.ScanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ScanID != "abc" {
		t.Errorf("ScanID = %q", resp.ScanID)
	}
}

func TestRunScanMinProfitPresence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"absent", `{"keyword":"airpods"}`, scanner.UnsetMinProfit},
		{"explicit zero", `{"keyword":"airpods","min_profit":0}`, 0},
		{"explicit value", `{"keyword":"airpods","min_profit":25}`, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRunner{}
			h := NewScanHandler(stub, discardLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.RunScan(rec, req)
			if stub.params.MinProfit != tt.want {
				t.Errorf("MinProfit = %v, want %v", stub.params.MinProfit, tt.want)
			}
		})
	}
}

func TestRunScanRejectsMalformedBody(t *testing.T) {
	h := NewScanHandler(&stubRunner{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.RunScan(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestQuickScanMapsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid params", domain.ErrInvalidScanParams, http.StatusBadRequest},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
		{"source down", domain.ErrSourceUnavailable, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewScanHandler(&stubRunner{err: tt.err}, discardLogger())
			req := httptest.NewRequest(http.MethodGet, "/api/scan/quick?keyword=x", nil)
			rec := httptest.NewRecorder()
			h.QuickScan(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestQuickScanReadsQueryParams(t *testing.T) {
	stub := &stubRunner{}
	h := NewScanHandler(stub, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/scan/quick?keyword=switch+oled&min_profit=25&max_listings=500", nil)
	rec := httptest.NewRecorder()
	h.QuickScan(rec, req)

	if stub.params.Keyword != "switch oled" {
		t.Errorf("keyword = %q", stub.params.Keyword)
	}
	if stub.params.MinProfit != 25 {
		t.Errorf("min_profit = %.2f", stub.params.MinProfit)
	}
	if stub.params.MaxListings != 200 {
		t.Errorf("max_listings = %d, want clamped 200", stub.params.MaxListings)
	}
}

func TestQuickScanOmittedMinProfitIsUnset(t *testing.T) {
	stub := &stubRunner{}
	h := NewScanHandler(stub, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/scan/quick?keyword=airpods", nil)
	rec := httptest.NewRecorder()
	h.QuickScan(rec, req)

	if stub.params.MinProfit != scanner.UnsetMinProfit {
		t.Errorf("MinProfit = %v, want unset sentinel", stub.params.MinProfit)
	}
}
