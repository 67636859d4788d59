package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow/internal/case/models"
	casestore "caseflow/internal/case/store"
	"caseflow/internal/platform/kafka/consumer"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

func testListener(cases casestore.Store) *Listener {
	return NewListener(cases, DefaultFilter(), nil, slog.New(slog.DiscardHandler))
}

func testEvent() taskEvent {
	return taskEvent{
		TaskID:           "task-42",
		ArchiveID:        "journal-42",
		DocumentIDs:      []string{"doc-1", "doc-2"},
		SubjectID:        "subject-42",
		SubjectType:      "PERSON",
		SubjectBirthDate: "1984-05-02",
		TaskType:         "BEH_SAK",
		Theme:            "SYM",
		Channel:          "SKAN_IM",
		CreatedAt:        "2024-03-01T10:00:00Z",
	}
}

func messageFor(t *testing.T, event taskEvent) *consumer.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return &consumer.Message{
		Topic:     "oppgave-task-created",
		Offset:    7,
		Key:       []byte(event.TaskID),
		Value:     value,
		Timestamp: time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC),
	}
}

func TestHandleCreatesCase(t *testing.T) {
	cases := casestore.NewInMemoryStore()
	listener := testListener(cases)

	require.NoError(t, listener.Handle(context.Background(), messageFor(t, testEvent())))

	got, err := cases.GetByID(context.Background(), "task-42")
	require.NoError(t, err)
	assert.Equal(t, id.ArchiveID("journal-42"), got.ArchiveID)
	assert.Equal(t, "task-42", got.TaskID)
	assert.Equal(t, id.SubjectID("subject-42"), got.SubjectID)
	assert.Equal(t, id.CaseKindScanned, got.Kind)
	assert.Equal(t, models.CaseStatusReceived, got.Status)
	assert.Equal(t, []id.DocumentID{"doc-1", "doc-2"}, got.DocumentIDs)
	assert.Equal(t, time.Date(1984, 5, 2, 0, 0, 0, 0, time.UTC), got.SubjectBirthDate)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), got.CreatedAt)
}

func TestHandleReplayKeepsOriginalRow(t *testing.T) {
	cases := casestore.NewInMemoryStore()
	listener := testListener(cases)
	ctx := context.Background()

	require.NoError(t, listener.Handle(ctx, messageFor(t, testEvent())))

	replay := testEvent()
	replay.CreatedAt = "2024-03-02T09:00:00Z"
	require.NoError(t, listener.Handle(ctx, messageFor(t, replay)))

	got, err := cases.GetByID(ctx, "task-42")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), got.CreatedAt)
}

func TestHandleFiltersIrrelevantTasks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*taskEvent)
	}{
		{"wrong subject type", func(e *taskEvent) { e.SubjectType = "ORGANISATION" }},
		{"wrong task type", func(e *taskEvent) { e.TaskType = "VURDER_DOKUMENT" }},
		{"wrong theme", func(e *taskEvent) { e.Theme = "DAG" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cases := casestore.NewInMemoryStore()
			listener := testListener(cases)
			event := testEvent()
			tc.mutate(&event)

			require.NoError(t, listener.Handle(context.Background(), messageFor(t, event)))

			_, err := cases.GetByID(context.Background(), id.CaseID(event.TaskID))
			assert.Error(t, err)
		})
	}
}

func TestHandleSkipsMalformedMessages(t *testing.T) {
	cases := casestore.NewInMemoryStore()
	listener := testListener(cases)

	msg := &consumer.Message{Topic: "oppgave-task-created", Value: []byte("{not json")}
	assert.NoError(t, listener.Handle(context.Background(), msg))
}

func TestHandleSkipsUnknownChannel(t *testing.T) {
	cases := casestore.NewInMemoryStore()
	listener := testListener(cases)
	event := testEvent()
	event.Channel = "EESSI"

	require.NoError(t, listener.Handle(context.Background(), messageFor(t, event)))

	_, err := cases.GetByID(context.Background(), "task-42")
	assert.Error(t, err)
}

func TestHandleSkipsMissingIdentifiers(t *testing.T) {
	t.Run("missing task id", func(t *testing.T) {
		listener := testListener(casestore.NewInMemoryStore())
		event := testEvent()
		event.TaskID = ""
		assert.NoError(t, listener.Handle(context.Background(), messageFor(t, event)))
	})

	t.Run("missing subject id", func(t *testing.T) {
		cases := casestore.NewInMemoryStore()
		listener := testListener(cases)
		event := testEvent()
		event.SubjectID = "   "

		require.NoError(t, listener.Handle(context.Background(), messageFor(t, event)))

		_, err := cases.GetByID(context.Background(), "task-42")
		assert.Error(t, err)
	})
}

type failingStore struct {
	casestore.Store
}

func (f *failingStore) UpsertFromIngestion(context.Context, *models.Case) error {
	return dErrors.New(dErrors.CodeUnavailable, "database down")
}

func TestHandleStoreFailureIsNotCommitted(t *testing.T) {
	listener := testListener(&failingStore{Store: casestore.NewInMemoryStore()})

	err := listener.Handle(context.Background(), messageFor(t, testEvent()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}
