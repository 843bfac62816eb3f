package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
	"github.com/MrSnakeDoc/bibliofind/internal/summary"
)

// Summarize serves POST /api/summaries with {"bookDescription": "..."}.
func Summarize(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req summary.Request
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid summary request")
			return
		}

		resp, err := d.Summarizer.Summarize(r.Context(), req)
		switch {
		case errors.Is(err, summary.ErrEmptyDescription):
			writeError(w, http.StatusBadRequest, "book description is required")
			return
		case errors.Is(err, summary.ErrDisabled):
			writeError(w, http.StatusServiceUnavailable, "summaries are not enabled")
			return
		case err != nil:
			d.Logger.Error("summary generation failed", logger.Error(err))
			writeError(w, http.StatusBadGateway, "Failed to generate summary.")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
