package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
)

const readyTimeout = 2 * time.Second

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz fails while Redis is configured but unreachable, or while the mock
// catalog is empty.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			err := d.Redis.Ping(ctx)
			cancel()
			if err != nil {
				writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "redis unreachable"})
				return
			}
		}
		if d.CatalogStats != nil && d.CatalogStats.Count() == 0 {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "catalog empty"})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
