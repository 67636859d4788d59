// Package ingest consumes upstream task-created events and turns the relevant
// ones into case rows. It is deliberately thin: filter, map, upsert. All
// downstream processing happens through the finalize service once a caseworker
// (or an automatic trigger) picks the case up.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"caseflow/internal/case/models"
	"caseflow/internal/case/store"
	"caseflow/internal/platform/kafka/consumer"
	"caseflow/internal/platform/metrics"
	id "caseflow/pkg/domain"
)

// Filter narrows the upstream task stream to the cases this pipeline owns.
// Everything else on the topic is committed and dropped.
type Filter struct {
	SubjectTypes []string
	TaskTypes    []string
	Themes       []string
}

// DefaultFilter matches sick-leave certificate tasks for person subjects.
func DefaultFilter() Filter {
	return Filter{
		SubjectTypes: []string{"PERSON"},
		TaskTypes:    []string{"BEH_SAK"},
		Themes:       []string{"SYM"},
	}
}

func (f Filter) matches(e taskEvent) bool {
	return contains(f.SubjectTypes, e.SubjectType) &&
		contains(f.TaskTypes, e.TaskType) &&
		contains(f.Themes, e.Theme)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// channelKinds maps the upstream intake channel to the case kind the
// validation rules key on.
var channelKinds = map[string]id.CaseKind{
	"PAPIR":   id.CaseKindDomesticPaper,
	"UTLAND":  id.CaseKindForeign,
	"SKAN_IM": id.CaseKindScanned,
}

// Listener implements consumer.Handler for the task-created topic.
//
// Commit contract: returning nil commits the offset. Malformed or filtered
// messages return nil so they never block the partition; only a failed store
// write keeps the offset uncommitted for redelivery.
type Listener struct {
	cases   store.Store
	filter  Filter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewListener creates an ingestion handler over the case store. metrics may
// be nil in tests.
func NewListener(cases store.Store, filter Filter, m *metrics.Metrics, logger *slog.Logger) *Listener {
	return &Listener{
		cases:   cases,
		filter:  filter,
		metrics: m,
		logger:  logger,
	}
}

// taskEvent matches the JSON the task system publishes on task creation.
type taskEvent struct {
	TaskID           string   `json:"taskId"`
	ArchiveID        string   `json:"journalpostId"`
	DocumentIDs      []string `json:"documentIds"`
	SubjectID        string   `json:"subjectId"`
	SubjectType      string   `json:"subjectType"`
	SubjectBirthDate string   `json:"subjectBirthDate"`
	TaskType         string   `json:"taskType"`
	Theme            string   `json:"theme"`
	Channel          string   `json:"channel"`
	CreatedAt        string   `json:"createdAt"`
}

// Handle processes one task-created event.
func (l *Listener) Handle(ctx context.Context, msg *consumer.Message) error {
	var event taskEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		l.logger.ErrorContext(ctx, "malformed task event, skipping",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		l.metrics.IncrementSkipped("malformed")
		return nil
	}

	if !l.filter.matches(event) {
		l.logger.DebugContext(ctx, "task event outside filter, skipping",
			"task_id", event.TaskID,
			"subject_type", event.SubjectType,
			"task_type", event.TaskType,
			"theme", event.Theme,
		)
		l.metrics.IncrementSkipped("filtered")
		return nil
	}

	caseID, err := id.ParseCaseID(event.TaskID)
	if err != nil {
		l.logger.ErrorContext(ctx, "task event without usable task id, skipping",
			"offset", msg.Offset,
			"error", err,
		)
		l.metrics.IncrementSkipped("missing_id")
		return nil
	}
	subjectID, err := id.ParseSubjectID(event.SubjectID)
	if err != nil {
		l.logger.ErrorContext(ctx, "task event without usable subject id, skipping",
			"task_id", event.TaskID,
			"error", err,
		)
		l.metrics.IncrementSkipped("missing_id")
		return nil
	}

	kind, ok := channelKinds[event.Channel]
	if !ok {
		l.logger.WarnContext(ctx, "task event from unknown channel, skipping",
			"task_id", event.TaskID,
			"channel", event.Channel,
		)
		l.metrics.IncrementSkipped("unknown_channel")
		return nil
	}

	docIDs := make([]id.DocumentID, 0, len(event.DocumentIDs))
	for _, raw := range event.DocumentIDs {
		docIDs = append(docIDs, id.DocumentID(raw))
	}

	c := &models.Case{
		ID:               caseID,
		ArchiveID:        id.ArchiveID(event.ArchiveID),
		TaskID:           event.TaskID,
		DocumentIDs:      docIDs,
		SubjectID:        subjectID,
		SubjectBirthDate: parseBirthDate(event.SubjectBirthDate),
		Kind:             kind,
		Status:           models.CaseStatusReceived,
		CreatedAt:        eventTime(event.CreatedAt, msg.Timestamp),
	}

	// Replays are no-ops inside the store, so a redelivered message after a
	// crashed commit is harmless.
	if err := l.cases.UpsertFromIngestion(ctx, c); err != nil {
		l.logger.ErrorContext(ctx, "persist ingested case",
			"case_id", caseID,
			"error", err,
		)
		return fmt.Errorf("persist ingested case %s: %w", caseID, err)
	}

	l.metrics.IncrementIngested()
	l.logger.InfoContext(ctx, "case ingested",
		"case_id", caseID,
		"archive_id", c.ArchiveID,
		"kind", kind,
		"theme", event.Theme,
	)
	return nil
}

func parseBirthDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Time{}
}

func eventTime(raw string, fallback time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if !fallback.IsZero() {
		return fallback
	}
	return time.Now().UTC()
}
