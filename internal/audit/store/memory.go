package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"caseflow/internal/audit"
	id "caseflow/pkg/domain"
)

// InMemoryStore keeps audit events per subject for tests and local runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	seen   map[uuid.UUID]struct{}
	events map[id.SubjectID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		seen:   make(map[uuid.UUID]struct{}),
		events: make(map[id.SubjectID][]audit.Event),
	}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[event.ID]; dup {
		return nil
	}
	s.seen[event.ID] = struct{}{}
	s.events[event.SubjectID] = append(s.events[event.SubjectID], event)
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subjectID id.SubjectID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[subjectID]...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = make(map[uuid.UUID]struct{})
	s.events = make(map[id.SubjectID][]audit.Event)
}
