package cache

import (
	"log/slog"
	"sync/atomic"
	"time"

	"bilancio/internal/log"
)

// Cleaner is any cache that can shed its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager owns the periodic cleanup loop for a set of caches so each
// cache does not need its own ticker goroutine.
type Manager struct {
	caches      []Cleaner
	started     atomic.Bool
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the cleanup set. Not safe to call after
// StartCleanup.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup launches the cleanup loop. Call at most once.
func (m *Manager) StartCleanup(interval time.Duration) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	go m.run(interval)
}

func (m *Manager) run(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := 0
			for _, c := range m.caches {
				cleaned += c.CleanExpired()
			}
			if cleaned > 0 {
				slog.Debug("Cleaned expired cache entries",
					log.FieldComponent, log.ComponentCache,
					"entries", cleaned)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop halts the cleanup loop and waits for it to exit. Safe to call
// even when StartCleanup never ran.
func (m *Manager) Stop() {
	if !m.started.Load() {
		return
	}
	close(m.stopCleanup)
	<-m.cleanupDone
}
