package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "caseflow/pkg/domain"
)

// Store persists audit events. Append is idempotent on event ID so replays
// from the worker channel cannot duplicate entries.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit persists the event synchronously. Callers in the access path must not
// return their result before Emit has returned.
func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	return p.store.Append(ctx, base)
}

func (p *Publisher) List(ctx context.Context, subjectID id.SubjectID) ([]Event, error) {
	return p.store.ListBySubject(ctx, subjectID)
}
