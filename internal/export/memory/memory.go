// Package memory is an in-process SummaryExporter used as the default
// backend and in tests.
package memory

import (
	"context"
	"sync"

	"bilancio/internal/core"
	"bilancio/internal/export"
)

type Store struct {
	mu       sync.Mutex
	exports  int
	revision int64
	last     core.Summary
}

var _ export.SummaryExporter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// ExportSummary keeps only the latest snapshot; older revisions are
// ignored so out-of-order deliveries cannot roll the mirror back.
func (s *Store) ExportSummary(_ context.Context, revision int64, sum core.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports++
	if revision < s.revision {
		return nil
	}
	s.revision = revision
	s.last = sum
	return nil
}

// Last returns the most recently exported summary and its revision.
func (s *Store) Last() (core.Summary, int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.revision, s.exports > 0
}

// Exports returns how many export calls were made.
func (s *Store) Exports() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exports
}
