package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

// ErrNotPersisted reports that a mutation was applied in memory but could
// not be written to storage. The in-memory state remains authoritative.
var ErrNotPersisted = errors.New("wishlist: changes could not be saved")

// ErrMissingID is returned when adding a book without an id.
var ErrMissingID = errors.New("wishlist: book id is required")

// Storage persists the whole wishlist as one ordered list.
type Storage interface {
	Load(ctx context.Context) ([]domain.Book, error)
	Save(ctx context.Context, books []domain.Book) error
}

// Service is the process-wide wishlist: an insertion-ordered set of books
// keyed by id. All methods are safe for concurrent use.
type Service struct {
	mu      sync.Mutex
	books   []domain.Book
	storage Storage
	log     logger.Logger
}

// New loads the persisted wishlist once. A load failure is logged and the
// wishlist starts empty.
func New(ctx context.Context, storage Storage, log logger.Logger) *Service {
	s := &Service{storage: storage, log: log, books: []domain.Book{}}

	loaded, err := storage.Load(ctx)
	if err != nil {
		log.Error("failed to load wishlist, starting empty", logger.Error(err))
		return s
	}

	seen := make(map[string]bool, len(loaded))
	for _, b := range loaded {
		if b.ID == "" || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		s.books = append(s.books, b.Clone())
	}
	log.Info("wishlist loaded", logger.Int("count", len(s.books)))
	return s
}

// Add inserts book unless its id is already present. It reports whether
// the list changed; when it did but the write failed, the error wraps
// ErrNotPersisted.
func (s *Service) Add(ctx context.Context, book domain.Book) (bool, error) {
	if strings.TrimSpace(book.ID) == "" {
		return false, ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(book.ID) >= 0 {
		return false, nil
	}
	s.books = append(s.books, book.Clone())
	return true, s.persist(ctx)
}

// Remove deletes id from the list. Removing an absent id is a no-op and
// does not touch storage.
func (s *Service) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.books = append(s.books[:i:i], s.books[i+1:]...)
	return true, s.persist(ctx)
}

// Contains reports whether id is in the wishlist.
func (s *Service) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.indexOf(id) >= 0
}

// List returns copies of the saved books in insertion order.
func (s *Service) List() []domain.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Book, len(s.books))
	for i, b := range s.books {
		out[i] = b.Clone()
	}
	return out
}

// Len returns the number of saved books.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.books)
}

// persist must be called with s.mu held.
func (s *Service) persist(ctx context.Context) error {
	if err := s.storage.Save(ctx, s.books); err != nil {
		s.log.Warn("failed to persist wishlist",
			logger.Int("count", len(s.books)),
			logger.Error(err))
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}

func (s *Service) indexOf(id string) int {
	for i, b := range s.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}
