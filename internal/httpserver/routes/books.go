package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerBooks) }

func registerBooks(r chi.Router, d deps.Deps) {
	r.Get("/books", handlers.SearchBooks(d))
	r.Get("/books/{id}", handlers.GetBook(d))
	r.Get("/books/{id}/recommendations", handlers.BookRecommendations(d))
	r.Get("/recommendations", handlers.Recommendations(d))
}
