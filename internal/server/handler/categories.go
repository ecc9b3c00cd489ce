package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fliphawk/fliphawk/internal/keywords"
)

// CategoryHandler serves the category and keyword-suggestion endpoints.
type CategoryHandler struct {
	logger *slog.Logger
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{logger: logHandler(logger, "categories")}
}

// ListCategories returns the category tree.
// GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": keywords.Categories()})
}

// Suggestions returns seed keywords for a category or subcategory.
// GET /api/categories/suggestions?category=Tech&subcategory=Headphones
func (h *CategoryHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	if category == "" {
		writeError(w, http.StatusBadRequest, "missing category parameter")
		return
	}
	sugg := keywords.Suggestions(category, q.Get("subcategory"))
	if sugg == nil {
		sugg = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category":    category,
		"suggestions": sugg,
	})
}

// Trending returns the current seasonal keyword set.
// GET /api/categories/trending
func (h *CategoryHandler) Trending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"trending": keywords.Trending(time.Now()),
	})
}
