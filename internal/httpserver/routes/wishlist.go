package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerWishlist) }

func registerWishlist(r chi.Router, d deps.Deps) {
	r.Get("/wishlist", handlers.ListWishlist(d))
	r.Post("/wishlist", handlers.AddToWishlist(d))
	r.Get("/wishlist/{id}", handlers.WishlistContains(d))
	r.Delete("/wishlist/{id}", handlers.RemoveFromWishlist(d))
}
