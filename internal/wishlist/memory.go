package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
)

// MemoryStorage keeps the serialized wishlist in process memory. It is used
// when no Redis is configured, so the list lives as long as the process.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(_ context.Context) ([]domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.data) == 0 {
		return nil, nil
	}
	var books []domain.Book
	if err := json.Unmarshal(m.data, &books); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wishlist: %w", err)
	}
	return books, nil
}

func (m *MemoryStorage) Save(_ context.Context, books []domain.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("failed to marshal wishlist: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}
