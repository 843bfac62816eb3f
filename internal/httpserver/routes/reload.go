package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/mw"
)

func init() { RegisterAPI(registerReload) }

func registerReload(r chi.Router, d deps.Deps) {
	r.With(
		mw.AllowOnlyCIDRS(d.ReloadAllowedCIDRs, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.ReloadAllowedHosts, d.Logger),
	).Post("/catalog/reload", handlers.Reload(d))
}
