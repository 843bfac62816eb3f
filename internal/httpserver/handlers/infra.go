package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	Provider    string `json:"provider,omitempty"`
	BooksLoaded *int   `json:"books_loaded,omitempty"`
	LastReload  string `json:"last_reload,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of each backing component.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"catalog":   catalogStatus(d),
			"redis":     redisStatus(r.Context(), d),
			"summaries": summaryStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       overallMode(components),
			Components: components,
		})
	}
}

func overallMode(components map[string]componentStatus) string {
	if c, ok := components["catalog"]; ok && !c.OK {
		return "critical"
	}
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "optimal"
}

func catalogStatus(d deps.Deps) componentStatus {
	st := componentStatus{OK: true, Provider: d.CatalogProvider}
	if d.CatalogStats == nil {
		return st
	}

	count := d.CatalogStats.Count()
	st.OK = count > 0
	st.BooksLoaded = &count
	st.LastReload = "never"
	if last := d.CatalogStats.LastReload(); !last.IsZero() {
		st.LastReload = last.Format(time.RFC3339)
	}
	return st
}

func redisStatus(ctx context.Context, d deps.Deps) componentStatus {
	if d.Redis == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "wishlist-in-memory",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	if err := d.Redis.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "wishlist-not-persisted",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}

func summaryStatus(d deps.Deps) componentStatus {
	if !d.SummariesEnabled {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	return componentStatus{OK: true, Mode: "gemini"}
}
