package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

// recordingStorage counts writes and can be told to fail.
type recordingStorage struct {
	mu       sync.Mutex
	initial  []domain.Book
	loadErr  error
	saveErr  error
	saves    int
	lastSave []domain.Book
}

func (r *recordingStorage) Load(context.Context) ([]domain.Book, error) {
	return r.initial, r.loadErr
}

func (r *recordingStorage) Save(_ context.Context, books []domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.lastSave = append([]domain.Book(nil), books...)
	return nil
}

func book(id string) domain.Book {
	return domain.Book{ID: id, Title: "Title " + id, Authors: []string{"A"}, Categories: []string{"C"}}
}

func listIDs(s *Service) []string {
	var out []string
	for _, b := range s.List() {
		out = append(out, b.ID)
	}
	return out
}

func TestAdd_IsIdempotent(t *testing.T) {
	st := &recordingStorage{}
	s := New(context.Background(), st, logger.NewNop())

	added, err := s.Add(context.Background(), book("1"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add(context.Background(), book("1"))
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, st.saves)
	assert.True(t, s.Contains("1"))
}

func TestAdd_RequiresID(t *testing.T) {
	s := New(context.Background(), &recordingStorage{}, logger.NewNop())

	_, err := s.Add(context.Background(), domain.Book{Title: "no id"})
	assert.ErrorIs(t, err, ErrMissingID)
	assert.Equal(t, 0, s.Len())
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	st := &recordingStorage{}
	s := New(context.Background(), st, logger.NewNop())

	removed, err := s.Remove(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 0, st.saves)
}

func TestRemove_KeepsInsertionOrder(t *testing.T) {
	st := &recordingStorage{}
	s := New(context.Background(), st, logger.NewNop())
	for _, id := range []string{"a", "b", "c", "d"} {
		_, err := s.Add(context.Background(), book(id))
		require.NoError(t, err)
	}

	removed, err := s.Remove(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, removed)

	assert.Equal(t, []string{"a", "c", "d"}, listIDs(s))
	assert.False(t, s.Contains("b"))
	require.Len(t, st.lastSave, 3)
	assert.Equal(t, "d", st.lastSave[2].ID)
}

func TestNew_LoadsPersistedList(t *testing.T) {
	st := &recordingStorage{initial: []domain.Book{book("x"), book("y"), book("x"), {Title: "no id"}}}
	s := New(context.Background(), st, logger.NewNop())

	assert.Equal(t, []string{"x", "y"}, listIDs(s))
}

func TestNew_LoadFailureStartsEmpty(t *testing.T) {
	st := &recordingStorage{loadErr: errors.New("corrupt json")}
	s := New(context.Background(), st, logger.NewNop())

	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.List())
}

func TestSaveFailureIsNonFatal(t *testing.T) {
	st := &recordingStorage{saveErr: errors.New("redis down")}
	s := New(context.Background(), st, logger.NewNop())

	added, err := s.Add(context.Background(), book("1"))
	assert.True(t, added)
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.True(t, s.Contains("1"), "in-memory state stays authoritative")

	removed, err := s.Remove(context.Background(), "1")
	assert.True(t, removed)
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.False(t, s.Contains("1"))
}

func TestStoredBooksAreFrozenCopies(t *testing.T) {
	s := New(context.Background(), &recordingStorage{}, logger.NewNop())

	b := book("1")
	_, err := s.Add(context.Background(), b)
	require.NoError(t, err)

	b.Authors[0] = "mutated by caller"
	listed := s.List()
	listed[0].Categories[0] = "mutated by reader"

	again := s.List()
	assert.Equal(t, "A", again[0].Authors[0])
	assert.Equal(t, "C", again[0].Categories[0])
}

func TestConcurrentAdds(t *testing.T) {
	s := New(context.Background(), NewMemoryStorage(), logger.NewNop())

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Add(context.Background(), book(fmt.Sprintf("b-%d", i%10)))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	st := NewMemoryStorage()

	books, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)

	first := New(context.Background(), st, logger.NewNop())
	_, err = first.Add(context.Background(), book("kept"))
	require.NoError(t, err)

	second := New(context.Background(), st, logger.NewNop())
	assert.Equal(t, []string{"kept"}, listIDs(second))
}
