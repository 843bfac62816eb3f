package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
	"github.com/MrSnakeDoc/bibliofind/internal/wishlist"
)

// persistWarning is surfaced when a change applied in memory could not be saved.
const persistWarning = "Could not save wishlist changes."

type addResponse struct {
	Added   bool   `json:"added"`
	Warning string `json:"warning,omitempty"`
}

type removeResponse struct {
	Removed bool   `json:"removed"`
	Warning string `json:"warning,omitempty"`
}

type containsResponse struct {
	ID         string `json:"id"`
	InWishlist bool   `json:"inWishlist"`
}

// ListWishlist serves GET /api/wishlist in insertion order.
func ListWishlist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nonNil(d.Wishlist.List()))
	}
}

// AddToWishlist serves POST /api/wishlist with a Book body.
func AddToWishlist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var book domain.Book
		if err := decodeBody(w, r, &book); err != nil {
			writeError(w, http.StatusBadRequest, "invalid book payload")
			return
		}

		added, err := d.Wishlist.Add(r.Context(), book)
		switch {
		case errors.Is(err, wishlist.ErrMissingID):
			writeError(w, http.StatusBadRequest, "book id is required")
			return
		case errors.Is(err, wishlist.ErrNotPersisted):
			d.Logger.Warn("wishlist add not persisted",
				logger.String("id", book.ID),
				logger.Error(err))
			writeJSON(w, http.StatusOK, addResponse{Added: added, Warning: persistWarning})
			return
		case err != nil:
			d.Logger.Error("wishlist add failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "could not update wishlist")
			return
		}

		writeJSON(w, http.StatusOK, addResponse{Added: added})
	}
}

// WishlistContains serves GET /api/wishlist/{id}.
func WishlistContains(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		writeJSON(w, http.StatusOK, containsResponse{ID: id, InWishlist: d.Wishlist.Contains(id)})
	}
}

// RemoveFromWishlist serves DELETE /api/wishlist/{id}. Removing an absent
// id is not an error.
func RemoveFromWishlist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		removed, err := d.Wishlist.Remove(r.Context(), id)
		switch {
		case errors.Is(err, wishlist.ErrNotPersisted):
			d.Logger.Warn("wishlist remove not persisted",
				logger.String("id", id),
				logger.Error(err))
			writeJSON(w, http.StatusOK, removeResponse{Removed: removed, Warning: persistWarning})
			return
		case err != nil:
			d.Logger.Error("wishlist remove failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "could not update wishlist")
			return
		}
		writeJSON(w, http.StatusOK, removeResponse{Removed: removed})
	}
}
