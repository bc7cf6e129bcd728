package engine

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// ============================================================================
// STORE — The single "current dataset" slot
// ============================================================================
// Ingestion builds a complete Dataset (records + index) before calling Swap,
// and Swap replaces the pointer in one atomic step. A query that took a
// snapshot with Current keeps reading that snapshot even if a swap lands
// mid-query; it can never observe a half-built index.
// ============================================================================

// Store holds the current Dataset.
type Store struct {
	current atomic.Pointer[Dataset]
	log     *zap.Logger
}

// NewStore creates an empty store.
func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{log: log}
}

// Current returns the current dataset snapshot, or nil before the first load.
func (s *Store) Current() *Dataset {
	return s.current.Load()
}

// Swap installs ds as current and returns the dataset it replaced.
func (s *Store) Swap(ds *Dataset) *Dataset {
	prev := s.current.Swap(ds)
	fields := []zap.Field{zap.Int("records", ds.Len())}
	if ds != nil {
		fields = append(fields, zap.String("id", ds.ID.String()))
	}
	if prev != nil {
		fields = append(fields, zap.String("replaced", prev.ID.String()))
	}
	s.log.Info("🔄 current dataset swapped", fields...)
	return prev
}
