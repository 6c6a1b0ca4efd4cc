package cache

import (
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"fundboard/internal/log"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}

// Loading fronts a Cache with a loader. Concurrent misses on the same key
// share one load; failed loads are not cached.
type Loading[T any] struct {
	cache Cache[T]
	group singleflight.Group
}

func NewLoading[T any](c Cache[T]) *Loading[T] {
	return &Loading[T]{cache: c}
}

// GetOrLoad returns the cached value for key, or runs load and caches its
// result. hit is false only for the caller whose load ran; callers served
// from the cache or from a concurrent caller's load get hit true, along with
// that load's error if it failed.
func (l *Loading[T]) GetOrLoad(key string, load func() (T, error)) (value T, hit bool, err error) {
	if v, ok := l.cache.Get(key); ok {
		return v, true, nil
	}

	loaded := false
	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		if v, ok := l.cache.Get(key); ok {
			return v, nil
		}
		loaded = true
		v, err := load()
		if err != nil {
			return nil, err
		}
		l.cache.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, !loaded, err
	}
	return v.(T), !loaded, nil
}

// Cache returns the underlying cache.
func (l *Loading[T]) Cache() Cache[T] {
	return l.cache
}

// Manager handles cache lifecycle and cleanup
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	started     bool
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// NewManager creates a new cache manager
func NewManager() *Manager {
	return &Manager{
		caches:      make([]Cleaner, 0),
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager for cleanup
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// StartCleanup begins periodic cleanup of all registered caches
func (m *Manager) StartCleanup(interval time.Duration) {
	m.started = true
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.CleanNow(); n > 0 {
				slog.Debug("Expired cache entries removed", log.FieldComponent, log.ComponentCache, "count", n)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// CleanNow cleans every registered cache once and returns the entries removed.
func (m *Manager) CleanNow() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

// Stop gracefully stops the cleanup routine
func (m *Manager) Stop() {
	if !m.started {
		return
	}
	m.started = false
	close(m.stopCleanup)
	<-m.cleanupDone
}
