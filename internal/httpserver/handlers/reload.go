package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/mw"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

type reloadResponse struct {
	Status string `json:"status"`
}

// Reload triggers a manual reload of the mock catalog.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadTrigger == nil {
			writeError(w, http.StatusNotFound, "catalog reload requires the mock catalog")
			return
		}

		remoteIP := mw.ClientIP(r, d.TrustProxy)
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual catalog reload triggered via endpoint",
				logger.String("remote_ip", remoteIP))
			writeJSON(w, http.StatusAccepted, reloadResponse{Status: "reload triggered"})
		default:
			d.Logger.Warn("catalog reload already in progress",
				logger.String("remote_ip", remoteIP))
			writeJSON(w, http.StatusTooManyRequests, reloadResponse{Status: "reload already in progress"})
		}
	}
}
