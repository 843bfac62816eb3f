package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerSummary) }

func registerSummary(r chi.Router, d deps.Deps) {
	r.Post("/summaries", handlers.Summarize(d))
}
