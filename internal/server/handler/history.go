package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fliphawk/fliphawk/internal/domain"
)

// HistoryService defines the persisted-result lookups the handler requires.
type HistoryService interface {
	History(ctx context.Context, limit int) ([]domain.ScanRecord, error)
	RecentOpportunities(ctx context.Context, limit int) ([]domain.Opportunity, error)
}

// HistoryHandler serves past scans and opportunities.
type HistoryHandler struct {
	svc    HistoryService
	opps   domain.OpportunityStore // optional; enables per-scan lookups
	logger *slog.Logger
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(svc HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{svc: svc, logger: logHandler(logger, "history")}
}

// WithOpportunityStore enables the per-scan opportunity endpoint.
func (h *HistoryHandler) WithOpportunityStore(store domain.OpportunityStore) *HistoryHandler {
	h.opps = store
	return h
}

// ListScans returns recent scan headers, newest first.
// GET /api/scans/recent?limit=20
func (h *HistoryHandler) ListScans(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20, 100)
	recs, err := h.svc.History(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list scans failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list scans")
		return
	}
	if recs == nil {
		recs = []domain.ScanRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"scans": recs})
}

// ListScanOpportunities returns the opportunities persisted for one scan.
// GET /api/scans/{id}/opportunities
func (h *HistoryHandler) ListScanOpportunities(w http.ResponseWriter, r *http.Request) {
	if h.opps == nil {
		writeError(w, http.StatusNotImplemented, "opportunity storage not configured")
		return
	}
	scanID := r.PathValue("id")
	if scanID == "" {
		writeError(w, http.StatusBadRequest, "missing scan id")
		return
	}
	opps, err := h.opps.ListByScan(r.Context(), scanID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list scan opportunities failed",
			slog.String("scan_id", scanID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list opportunities")
		return
	}
	if opps == nil {
		opps = []domain.Opportunity{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scan_id":       scanID,
		"opportunities": opps,
	})
}

// ListRecentOpportunities returns the newest opportunities across scans.
// GET /api/opportunities/recent?limit=20
func (h *HistoryHandler) ListRecentOpportunities(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20, 100)
	opps, err := h.svc.RecentOpportunities(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list recent opportunities failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list opportunities")
		return
	}
	if opps == nil {
		opps = []domain.Opportunity{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"opportunities": opps})
}
