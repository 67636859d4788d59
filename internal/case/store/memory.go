package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"caseflow/internal/case/models"
	id "caseflow/pkg/domain"
	"caseflow/pkg/platform/sentinel"
)

// InMemoryStore keeps cases in a map for tests and local development.
// It honors the same error contract as the Postgres store.
type InMemoryStore struct {
	mu    sync.RWMutex
	cases map[id.CaseID]*models.Case
}

// NewInMemoryStore constructs an empty in-memory case store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{cases: make(map[id.CaseID]*models.Case)}
}

func (s *InMemoryStore) GetByID(_ context.Context, caseID id.CaseID) (*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

func (s *InMemoryStore) UpsertFromIngestion(_ context.Context, c *models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cases[c.ID]; exists {
		// Replayed ingestion event; created timestamp stays untouched.
		return nil
	}
	clone := *c
	s.cases[c.ID] = &clone
	return nil
}

func (s *InMemoryStore) UpdatePayload(_ context.Context, caseID id.CaseID, payload models.Payload, owner id.ActorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	if c.IsFinalized() {
		return fmt.Errorf("case %s is finalized: %w", caseID, sentinel.ErrConflict)
	}
	c.Payload = payload
	c.Owner = owner
	// A corrected payload clears a block.
	if c.Status == models.CaseStatusBlocked {
		c.Status = models.CaseStatusReceived
	}
	return nil
}

func (s *InMemoryStore) SetStatus(_ context.Context, caseID id.CaseID, status models.CaseStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	if c.IsFinalized() {
		return fmt.Errorf("case %s is finalized: %w", caseID, sentinel.ErrConflict)
	}
	c.Status = status
	return nil
}

func (s *InMemoryStore) MarkFinalized(_ context.Context, caseID id.CaseID, outcome models.Outcome, reason string, owner id.ActorID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	if c.IsFinalized() {
		return fmt.Errorf("case %s already finalized: %w", caseID, sentinel.ErrConflict)
	}
	c.ApplyFinalization(outcome, reason, owner, at)
	return nil
}
