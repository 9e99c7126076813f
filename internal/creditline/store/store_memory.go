package store

import (
	"context"
	"fmt"
	"sync"

	"creditline/internal/creditline/models"
	id "creditline/pkg/domain"
	"creditline/pkg/platform/sentinel"
)

// MemoryStore keeps decision records in a mutex-guarded map. Used in dev mode
// and tests; production deployments use PostgresStore.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[id.CustomerID]models.DecisionRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		records: make(map[id.CustomerID]models.DecisionRecord),
	}
}

func (s *MemoryStore) FindByCustomer(_ context.Context, customerID id.CustomerID) (*models.DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[customerID]
	if !ok {
		return nil, fmt.Errorf("decision record for %s: %w", customerID, sentinel.ErrNotFound)
	}
	// Return a copy so callers cannot mutate stored state in place.
	cp := rec
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, record *models.DecisionRecord) error {
	if record == nil {
		return fmt.Errorf("decision record is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.CustomerID] = *record
	return nil
}

// Len reports the number of stored records. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
