package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
	"github.com/redis/go-redis/v9"
)

// WishlistStorage persists the wishlist under one fixed key
type WishlistStorage struct {
	store *Store
}

// Wishlist returns the wishlist persistence backed by this store
func (s *Store) Wishlist() *WishlistStorage {
	return &WishlistStorage{store: s}
}

// Load reads the saved wishlist. A missing key is an empty list.
func (w *WishlistStorage) Load(ctx context.Context) ([]domain.Book, error) {
	data, err := w.store.client.Get(ctx, WishlistKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}

	var books []domain.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wishlist: %w", err)
	}
	return books, nil
}

// Save overwrites the saved wishlist, without expiry
func (w *WishlistStorage) Save(ctx context.Context, books []domain.Book) error {
	if books == nil {
		books = []domain.Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("failed to marshal wishlist: %w", err)
	}

	if err := w.store.client.Set(ctx, WishlistKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save wishlist: %w", err)
	}
	return nil
}
