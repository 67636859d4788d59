// Package events publishes the finalized-case event consumers downstream
// (payment, statistics) subscribe to. Delivery is at-least-once: the record
// key is the case id, so replays land on the same partition and consumers
// can deduplicate.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"caseflow/internal/case/models"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// FinalizedCaseEvent is the wire payload announcing a case decision.
type FinalizedCaseEvent struct {
	CaseID      id.CaseID      `json:"caseId"`
	SubjectID   id.SubjectID   `json:"subjectId"`
	Kind        id.CaseKind    `json:"kind"`
	Outcome     models.Outcome `json:"outcome"`
	Reason      string         `json:"reason,omitempty"`
	FinalizedBy id.ActorID     `json:"finalizedBy"`
	FinalizedAt time.Time      `json:"finalizedAt"`
}

// Sender produces one record; satisfied by the kafka producer wrapper.
type Sender interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

// Publisher serializes finalized-case events onto a fixed topic.
type Publisher struct {
	sender Sender
	topic  string
	logger *slog.Logger
}

func NewPublisher(sender Sender, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{sender: sender, topic: topic, logger: logger}
}

// Publish sends the event keyed by case id.
func (p *Publisher) Publish(ctx context.Context, event FinalizedCaseEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal finalized case event")
	}
	if err := p.sender.Produce(ctx, p.topic, []byte(event.CaseID), value); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "publish finalized case event")
	}
	p.logger.InfoContext(ctx, "published finalized case event",
		"case_id", event.CaseID,
		"outcome", event.Outcome,
		"topic", p.topic,
	)
	return nil
}
