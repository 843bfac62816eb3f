package mock

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
)

// Index is the in-memory book catalog backing the mock source.
// It keeps the seed file order, which stands in for relevance.
type Index struct {
	mu         sync.RWMutex
	books      []domain.Book
	byID       map[string]int // ID -> position in books
	lastReload time.Time
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		byID: make(map[string]int),
	}
}

// Replace swaps the whole catalog
func (idx *Index) Replace(books []domain.Book) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.books = make([]domain.Book, 0, len(books))
	idx.byID = make(map[string]int, len(books))
	for _, b := range books {
		if _, dup := idx.byID[b.ID]; dup {
			continue
		}
		idx.byID[b.ID] = len(idx.books)
		idx.books = append(idx.books, b.Clone())
	}
	idx.lastReload = time.Now()
}

// Get retrieves a book by ID
func (idx *Index) Get(id string) (domain.Book, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	i, ok := idx.byID[id]
	if !ok {
		return domain.Book{}, false
	}
	return idx.books[i].Clone(), true
}

// Filter returns copies of the books matching keep, in catalog order
func (idx *Index) Filter(keep func(domain.Book) bool) []domain.Book {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]domain.Book, 0)
	for _, b := range idx.books {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	return out
}

// Count returns the number of books in the index
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.books)
}

// LastReload returns the timestamp of the last reload
func (idx *Index) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
