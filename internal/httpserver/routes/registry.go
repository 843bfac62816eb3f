package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var (
	registry    []entry
	apiRegistry []entry
)

// Register a root-level registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAPI registers routes mounted under /api, behind the shared API middlewares.
func RegisterAPI(reg Registrar, mws ...Middleware) {
	apiRegistry = append(apiRegistry, entry{reg: reg, mws: mws})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps, apiMws ...Middleware) {
	for _, e := range registry {
		mount(r, d, e)
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(apiMws...)
		for _, e := range apiRegistry {
			mount(api, d, e)
		}
	})
}

func mount(r chi.Router, d deps.Deps, e entry) {
	if len(e.mws) == 0 {
		e.reg(r, d)
		return
	}
	e.reg(r.With(e.mws...), d)
}
