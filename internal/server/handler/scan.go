package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/scanner"
)

// ScanRunner defines the scan operations the handler requires.
type ScanRunner interface {
	Scan(ctx context.Context, params scanner.Params) (domain.ScanResult, error)
}

// ScanHandler serves the scan-trigger endpoints.
type ScanHandler struct {
	svc    ScanRunner
	logger *slog.Logger
}

// NewScanHandler creates a ScanHandler.
func NewScanHandler(svc ScanRunner, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{svc: svc, logger: logHandler(logger, "scan")}
}

// scanRequest is the POST /api/scan body. MinProfit is a pointer so an
// explicit zero floor is distinguishable from an absent field.
type scanRequest struct {
	Keyword     string   `json:"keyword"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	MinProfit   *float64 `json:"min_profit"`
	MaxListings int      `json:"max_listings"`
}

// RunScan runs a full scan with the parameters from the JSON body.
// POST /api/scan
func (h *ScanHandler) RunScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	minProfit := float64(scanner.UnsetMinProfit)
	if req.MinProfit != nil {
		minProfit = *req.MinProfit
	}
	h.run(w, r, scanner.Params{
		Keyword:     strings.TrimSpace(req.Keyword),
		Category:    strings.TrimSpace(req.Category),
		Subcategory: strings.TrimSpace(req.Subcategory),
		MinProfit:   minProfit,
		MaxListings: req.MaxListings,
	})
}

// QuickScan runs a scan with parameters taken from the query string.
// GET /api/scan/quick?keyword=airpods&min_profit=15
func (h *ScanHandler) QuickScan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.run(w, r, scanner.Params{
		Keyword:     strings.TrimSpace(q.Get("keyword")),
		Category:    strings.TrimSpace(q.Get("category")),
		Subcategory: strings.TrimSpace(q.Get("subcategory")),
		MinProfit:   queryFloat(r, "min_profit", scanner.UnsetMinProfit),
		MaxListings: queryInt(r, "max_listings", 0, 200),
	})
}

func (h *ScanHandler) run(w http.ResponseWriter, r *http.Request, params scanner.Params) {
	result, err := h.svc.Scan(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidScanParams):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, "listing source rate limited, retry shortly")
		case errors.Is(err, domain.ErrSourceUnavailable):
			writeError(w, http.StatusBadGateway, "listing source unavailable")
		default:
			h.logger.ErrorContext(r.Context(), "scan failed",
				slog.String("keyword", params.Keyword),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "scan failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}
