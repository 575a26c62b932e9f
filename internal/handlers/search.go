package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// Search handles GET /search?q= over the full-text index.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 50)

	results, err := h.db.SearchEmails(query, limit)
	if err != nil {
		h.log.Error("search failed", zap.String("query", query), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	summaries := make([]emailSummary, 0, len(results))
	for _, res := range results {
		summaries = append(summaries, summarize(&res.Record, res.Snippet))
	}
	h.writeJSON(w, http.StatusOK, summaries)
}
