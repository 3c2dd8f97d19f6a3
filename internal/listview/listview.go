// Package listview is the shared list-state container behind every list
// page: it tracks loading/ready/failed state per filter set, reloads when
// the filters change, and discards stale fetch results so a slow earlier
// request can never overwrite a newer one.
package listview

import (
	"context"
	"maps"
	"sync"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Filters is the page-owned filter state, compared by value.
type Filters map[string]string

func (f Filters) Equal(other Filters) bool {
	return maps.Equal(f, other)
}

func (f Filters) Clone() Filters {
	return maps.Clone(f)
}

// FetchFunc loads one page of rows plus the backend's total element count.
type FetchFunc[T any] func(ctx context.Context, f Filters) ([]T, int64, error)

// Snapshot is an immutable view of the store for rendering.
type Snapshot[T any] struct {
	State   State
	Items   []T
	Total   int64
	Err     error
	Filters Filters
}

type Store[T any] struct {
	fetch FetchFunc[T]

	mu      sync.Mutex
	gen     uint64
	state   State
	items   []T
	total   int64
	err     error
	filters Filters
}

func NewStore[T any](fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{fetch: fetch, filters: Filters{}}
}

// Load fetches when the filter set changed (by value) or the store has not
// loaded successfully yet; otherwise it returns the current snapshot. Each
// fetch takes a generation ticket and only the newest generation may apply
// its result.
func (s *Store[T]) Load(ctx context.Context, f Filters) Snapshot[T] {
	if f == nil {
		f = Filters{}
	}

	s.mu.Lock()
	if s.state == StateReady && s.filters.Equal(f) {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.mu.Unlock()

	return s.refresh(ctx, f)
}

// Reload refetches with the current filters unconditionally.
func (s *Store[T]) Reload(ctx context.Context) Snapshot[T] {
	s.mu.Lock()
	f := s.filters.Clone()
	s.mu.Unlock()
	return s.refresh(ctx, f)
}

// Mutate runs the mutation and, on success, performs a full reload with the
// last filters rather than patching rows locally, so server-computed fields
// (aggregates, usage counters) stay true.
func (s *Store[T]) Mutate(ctx context.Context, mutation func(ctx context.Context) error) error {
	if err := mutation(ctx); err != nil {
		return err
	}
	s.Reload(ctx)
	return nil
}

func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store[T]) refresh(ctx context.Context, f Filters) Snapshot[T] {
	s.mu.Lock()
	s.gen++
	ticket := s.gen
	s.state = StateLoading
	s.filters = f.Clone()
	s.mu.Unlock()

	items, total, err := s.fetch(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.gen {
		// A newer load started while this one was in flight; drop it.
		return s.snapshotLocked()
	}
	if err != nil {
		s.state = StateFailed
		s.err = err
	} else {
		s.state = StateReady
		s.items = items
		s.total = total
		s.err = nil
	}
	return s.snapshotLocked()
}

func (s *Store[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		State:   s.state,
		Items:   s.items,
		Total:   s.total,
		Err:     s.err,
		Filters: s.filters.Clone(),
	}
}
