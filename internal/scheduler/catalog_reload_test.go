package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

type countingCatalog struct {
	reloads atomic.Int32
	fail    atomic.Bool
}

func (c *countingCatalog) Reload(context.Context) error {
	c.reloads.Add(1)
	if c.fail.Load() {
		return errors.New("seed file unreadable")
	}
	return nil
}

type countingFlusher struct {
	flushes atomic.Int32
}

func (f *countingFlusher) FlushCache(context.Context) error {
	f.flushes.Add(1)
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCatalogReloader_InitialLoad(t *testing.T) {
	cat := &countingCatalog{}
	flusher := &countingFlusher{}
	r := NewCatalogReloader(cat, flusher, logger.NewNop(), time.Hour, make(chan struct{}, 1))

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer r.Stop()

	if got := cat.reloads.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1", got)
	}
	if got := flusher.flushes.Load(); got != 1 {
		t.Errorf("flushes = %d, want 1", got)
	}
}

func TestCatalogReloader_InitialLoadFailure(t *testing.T) {
	cat := &countingCatalog{}
	cat.fail.Store(true)
	r := NewCatalogReloader(cat, nil, logger.NewNop(), time.Hour, make(chan struct{}, 1))

	if err := r.Start(context.Background()); err == nil {
		t.Fatal("Start should fail when the first load fails")
	}
}

func TestCatalogReloader_ManualTrigger(t *testing.T) {
	cat := &countingCatalog{}
	trigger := make(chan struct{}, 1)
	r := NewCatalogReloader(cat, nil, logger.NewNop(), time.Hour, trigger)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer r.Stop()

	trigger <- struct{}{}
	waitFor(t, func() bool { return cat.reloads.Load() == 2 })
}

func TestCatalogReloader_TickerAndFailureKeepRunning(t *testing.T) {
	cat := &countingCatalog{}
	r := NewCatalogReloader(cat, nil, logger.NewNop(), 10*time.Millisecond, make(chan struct{}, 1))

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer r.Stop()

	cat.fail.Store(true)
	waitFor(t, func() bool { return cat.reloads.Load() >= 3 })
}

func TestCatalogReloader_StopIsIdempotent(t *testing.T) {
	r := NewCatalogReloader(&countingCatalog{}, nil, logger.NewNop(), time.Hour, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	r.Stop()
	r.Stop()
}
