package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow/internal/case/models"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

type captureSender struct {
	topic string
	key   []byte
	value []byte
	err   error
}

func (s *captureSender) Produce(_ context.Context, topic string, key, value []byte) error {
	s.topic, s.key, s.value = topic, key, value
	return s.err
}

func TestPublisherPublish(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	event := FinalizedCaseEvent{
		CaseID:      id.CaseID("case-1"),
		SubjectID:   id.SubjectID("12345678901"),
		Kind:        id.CaseKindForeign,
		Outcome:     models.OutcomeAccepted,
		FinalizedBy: id.ActorID("Z999001"),
		FinalizedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("keys the record by case id", func(t *testing.T) {
		sender := &captureSender{}
		pub := NewPublisher(sender, "caseflow-case-finalized", logger)

		require.NoError(t, pub.Publish(context.Background(), event))
		assert.Equal(t, "caseflow-case-finalized", sender.topic)
		assert.Equal(t, []byte("case-1"), sender.key)

		var decoded FinalizedCaseEvent
		require.NoError(t, json.Unmarshal(sender.value, &decoded))
		assert.Equal(t, event, decoded)
	})

	t.Run("produce failure surfaces retryable", func(t *testing.T) {
		sender := &captureSender{err: errors.New("broker down")}
		pub := NewPublisher(sender, "caseflow-case-finalized", logger)

		err := pub.Publish(context.Background(), event)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}
