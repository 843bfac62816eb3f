package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

// SearchBooks serves GET /api/books?q=&page=&pageSize=.
// Catalog failures are absorbed by the service, so this always answers 200.
func SearchBooks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := d.Books.Search(r.Context(),
			r.URL.Query().Get("q"),
			queryInt(r, "page"),
			queryInt(r, "pageSize"),
		)
		writeJSON(w, http.StatusOK, res)
	}
}

// GetBook serves GET /api/books/{id}.
func GetBook(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		book, found, err := d.Books.GetByID(r.Context(), id)
		if err != nil {
			d.Logger.Warn("book lookup failed",
				logger.String("id", id),
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "catalog unavailable")
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		writeJSON(w, http.StatusOK, book)
	}
}

// Recommendations serves GET /api/recommendations?limit= (global picks).
func Recommendations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs := d.Books.Recommend(r.Context(), "", queryInt(r, "limit"))
		writeJSON(w, http.StatusOK, nonNil(recs))
	}
}

// BookRecommendations serves GET /api/books/{id}/recommendations?limit=.
func BookRecommendations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs := d.Books.Recommend(r.Context(), chi.URLParam(r, "id"), queryInt(r, "limit"))
		writeJSON(w, http.StatusOK, nonNil(recs))
	}
}

func nonNil(books []domain.Book) []domain.Book {
	if books == nil {
		return []domain.Book{}
	}
	return books
}
