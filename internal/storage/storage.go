package storage

import (
	"errors"
	"sync"

	"github.com/eugenenazirov/fautil/internal/config"
	"github.com/eugenenazirov/fautil/internal/settings"
)

var (
	// ErrNotInitialised indicates no settings have been published yet.
	ErrNotInitialised = errors.New("settings have not been initialised")
	// ErrAlreadyInitialised indicates settings were already published; they are read-only afterwards.
	ErrAlreadyInitialised = errors.New("settings are already initialised")
	// ErrNilSnapshot indicates Publish was called without settings or resolution details.
	ErrNilSnapshot = errors.New("settings and resolution details are required")
)

// Snapshot is one resolved settings value together with the resolution details it came from.
type Snapshot struct {
	Settings *config.Settings
	Resolved *settings.Resolved
}

// Storage provides process-wide access to the resolved settings.
type Storage interface {
	Snapshot() (Snapshot, error)
	Publish(s *config.Settings, r *settings.Resolved) error
}

// MemoryStorage keeps the settings in-memory and guards access with a RWMutex.
// It accepts exactly one Publish.
type MemoryStorage struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewMemoryStorage returns an empty, uninitialised storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// NewInitialisedStorage returns a storage already holding the given settings.
func NewInitialisedStorage(s *config.Settings, r *settings.Resolved) (*MemoryStorage, error) {
	store := NewMemoryStorage()
	if err := store.Publish(s, r); err != nil {
		return nil, err
	}
	return store, nil
}

// Snapshot returns the published settings.
func (m *MemoryStorage) Snapshot() (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshot == nil {
		return Snapshot{}, ErrNotInitialised
	}
	return *m.snapshot, nil
}

// Publish stores the resolved settings. Only the first call succeeds.
func (m *MemoryStorage) Publish(s *config.Settings, r *settings.Resolved) error {
	if s == nil || r == nil {
		return ErrNilSnapshot
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot != nil {
		return ErrAlreadyInitialised
	}
	m.snapshot = &Snapshot{Settings: s, Resolved: r}
	return nil
}
