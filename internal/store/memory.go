package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with an in-memory map. Used by tests and as
// the fallback when no database path is configured. Records are deep-copied
// both ways so callers can't mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Save(ctx context.Context, rec *Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if _, ok := s.records[rec.ID]; ok {
		return "", &AlreadyExistsError{ID: rec.ID}
	}

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Generation = 1

	s.records[rec.ID] = rec.Clone()
	return rec.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.records[rec.ID]
	if !ok {
		return &NotFoundError{ID: rec.ID}
	}
	if old.Generation != rec.Generation {
		return &ConflictError{
			ID:      rec.ID,
			Message: "generation mismatch",
		}
	}

	rec.CreatedAt = old.CreatedAt
	rec.Generation++
	rec.UpdatedAt = time.Now().UTC()

	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec.Clone())
	}
	sortByUpdatedAt(records)
	return records, nil
}
