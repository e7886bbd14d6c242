package storage

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/eugenenazirov/fautil/internal/config"
	"github.com/eugenenazirov/fautil/internal/settings"
)

func TestSnapshotBeforePublish(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if _, err := store.Snapshot(); !errors.Is(err, ErrNotInitialised) {
		t.Fatalf("expected ErrNotInitialised, got %v", err)
	}
}

func TestPublishOnce(t *testing.T) {
	t.Parallel()

	first := &config.Settings{App: config.AppConfig{Title: "first"}}
	store, err := NewInitialisedStorage(first, &settings.Resolved{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := &config.Settings{App: config.AppConfig{Title: "second"}}
	if err := store.Publish(second, &settings.Resolved{}); !errors.Is(err, ErrAlreadyInitialised) {
		t.Fatalf("expected ErrAlreadyInitialised, got %v", err)
	}

	snap, err := store.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Settings.App.Title != "first" {
		t.Fatalf("expected first settings to stay published, got %q", snap.Settings.App.Title)
	}
}

func TestPublishRejectsNil(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if err := store.Publish(nil, &settings.Resolved{}); !errors.Is(err, ErrNilSnapshot) {
		t.Fatalf("expected ErrNilSnapshot, got %v", err)
	}
	if err := store.Publish(&config.Settings{}, nil); !errors.Is(err, ErrNilSnapshot) {
		t.Fatalf("expected ErrNilSnapshot, got %v", err)
	}
	if _, err := store.Snapshot(); !errors.Is(err, ErrNotInitialised) {
		t.Fatalf("expected storage to stay empty, got %v", err)
	}
}

func TestMemoryStorageConcurrentPublish(t *testing.T) {
	store := NewMemoryStorage()
	var (
		wg        sync.WaitGroup
		published atomic.Int32
	)

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			err := store.Publish(&config.Settings{}, &settings.Resolved{})
			switch {
			case err == nil:
				published.Add(1)
			case !errors.Is(err, ErrAlreadyInitialised):
				t.Errorf("Publish failed: %v", err)
			}
		}()

		go func() {
			defer wg.Done()
			if _, err := store.Snapshot(); err != nil && !errors.Is(err, ErrNotInitialised) {
				t.Errorf("Snapshot failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if got := published.Load(); got != 1 {
		t.Fatalf("expected exactly one successful publish, got %d", got)
	}
}
