package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow/internal/audit"
	id "caseflow/pkg/domain"
)

func TestInMemoryStoreAppend(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	event := audit.Event{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		ActorID:   id.ActorID("Z999001"),
		SubjectID: id.SubjectID("12345678901"),
		CaseID:    id.CaseID("case-1"),
		Operation: audit.OperationWrite,
		Path:      "/api/v1/cases/case-1/finalize",
		Decision:  audit.DecisionPermit,
	}

	require.NoError(t, s.Append(ctx, event))

	t.Run("listed by subject", func(t *testing.T) {
		events, err := s.ListBySubject(ctx, event.SubjectID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, event.ID, events[0].ID)
	})

	t.Run("replay with same id is a no-op", func(t *testing.T) {
		require.NoError(t, s.Append(ctx, event))
		events, err := s.ListBySubject(ctx, event.SubjectID)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("other subject sees nothing", func(t *testing.T) {
		events, err := s.ListBySubject(ctx, id.SubjectID("other"))
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestPublisherEmitFillsDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	pub := audit.NewPublisher(s)

	err := pub.Emit(ctx, audit.Event{
		ActorID:   id.ActorID("Z999001"),
		SubjectID: id.SubjectID("12345678901"),
		Operation: audit.OperationRead,
		Decision:  audit.DecisionDeny,
		Reason:    "not permitted",
	})
	require.NoError(t, err)

	events, err := pub.List(ctx, id.SubjectID("12345678901"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEqual(t, uuid.Nil, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}
