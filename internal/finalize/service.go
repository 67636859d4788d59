// Package finalize orchestrates the terminal commit of a case across the
// archive, the task queue, the event bus, and the local store.
//
// Ordering is the whole point: upstream systems commit first and the local
// finalized row is written strictly last. Every attempt re-reads both the
// case row and upstream state, so a crashed or retried attempt resumes by
// skipping the steps that already happened instead of redoing them.
package finalize

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"caseflow/internal/archive"
	"caseflow/internal/audit"
	"caseflow/internal/case/models"
	"caseflow/internal/case/store"
	"caseflow/internal/events"
	"caseflow/internal/finalize/metrics"
	"caseflow/internal/finalize/ports"
	"caseflow/internal/validation"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/requestcontext"
)

// Status is the outcome of one pipeline run.
type Status string

const (
	StatusAccepted         Status = "accepted"
	StatusRejected         Status = "rejected"
	StatusBlocked          Status = "blocked"
	StatusValidationFailed Status = "validation_failed"
	StatusAlreadyFinalized Status = "already_finalized"
)

// Result reports how a run ended. Violations accompany the blocked and
// validation_failed statuses.
type Result struct {
	Status     Status                 `json:"status"`
	Violations []validation.Violation `json:"violations,omitempty"`
}

// Service is the finalization orchestrator.
type Service struct {
	cases   store.Store
	gate    ports.GatePort
	archive ports.ArchivePort
	tasks   ports.TaskPort
	events  ports.EventPort
	flags   ports.FlagPort
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func NewService(cases store.Store, gate ports.GatePort, archivePort ports.ArchivePort, tasks ports.TaskPort, eventPort ports.EventPort, flags ports.FlagPort, opts ...Option) *Service {
	s := &Service{
		cases:   cases,
		gate:    gate,
		archive: archivePort,
		tasks:   tasks,
		events:  eventPort,
		flags:   flags,
		tracer:  otel.Tracer("caseflow/finalize"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Finalize runs the full accept pipeline for the case. Re-entrant: an
// already-finalized case (locally or upstream) converges to success.
func (s *Service) Finalize(ctx context.Context, caseID id.CaseID) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "finalize.run",
		trace.WithAttributes(attribute.String("case.id", string(caseID))))
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.ObserveFinalizeLatency(time.Since(start)) }()

	if err := s.gate.Authorize(ctx, caseID, audit.OperationWrite); err != nil {
		return Result{}, err
	}

	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return Result{}, err
	}
	if c.IsFinalized() {
		return Result{Status: StatusAlreadyFinalized}, nil
	}

	violations, err := s.validate(ctx, c, c.Payload)
	if err != nil {
		return Result{}, err
	}
	if len(violations) > 0 {
		if validation.HasFatal(violations) {
			if err := s.cases.SetStatus(ctx, caseID, models.CaseStatusBlocked); err != nil && !errors.Is(err, sentinel.ErrConflict) {
				return Result{}, err
			}
			s.metrics.IncrementOutcome(string(StatusBlocked))
			s.logger.InfoContext(ctx, "case blocked by fatal violations",
				"case_id", caseID,
				"violations", len(violations),
			)
			return Result{Status: StatusBlocked, Violations: violations}, nil
		}
		return Result{Status: StatusValidationFailed, Violations: violations}, nil
	}

	actor := requestcontext.Actor(ctx)
	now := requestcontext.Now(ctx)

	if err := s.commitArchive(ctx, c); err != nil {
		return Result{}, err
	}
	if err := s.commitTask(ctx, c); err != nil {
		return Result{}, err
	}
	if err := s.publish(ctx, c, models.OutcomeAccepted, "", actor, now); err != nil {
		return Result{}, err
	}

	if err := s.cases.MarkFinalized(ctx, caseID, models.OutcomeAccepted, "", actor, now); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Another attempt won the write after our upstream commits; the
			// case is finalized either way.
			return Result{Status: StatusAlreadyFinalized}, nil
		}
		return Result{}, err
	}

	s.metrics.IncrementOutcome(string(StatusAccepted))
	s.logger.InfoContext(ctx, "case finalized",
		"case_id", caseID,
		"outcome", models.OutcomeAccepted,
		"actor_id", actor,
	)
	return Result{Status: StatusAccepted}, nil
}

// Reject closes the case without granting anything. The archive record is
// retitled but left open for a corrected resubmission; the task is cancelled.
func (s *Service) Reject(ctx context.Context, caseID id.CaseID, reason string) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "finalize.reject",
		trace.WithAttributes(attribute.String("case.id", string(caseID))))
	defer span.End()

	if reason == "" {
		return Result{}, dErrors.New(dErrors.CodeBadRequest, "rejection reason must not be empty")
	}

	if err := s.gate.Authorize(ctx, caseID, audit.OperationWrite); err != nil {
		return Result{}, err
	}

	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return Result{}, err
	}
	if c.IsFinalized() {
		return Result{Status: StatusAlreadyFinalized}, nil
	}

	actor := requestcontext.Actor(ctx)
	now := requestcontext.Now(ctx)

	if err := s.archive.Reject(ctx, c.ArchiveID, reason); err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return Result{}, err
	}
	if err := s.rejectTask(ctx, c, reason); err != nil {
		return Result{}, err
	}
	if err := s.publish(ctx, c, models.OutcomeRejected, reason, actor, now); err != nil {
		return Result{}, err
	}

	if err := s.cases.MarkFinalized(ctx, caseID, models.OutcomeRejected, reason, actor, now); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Result{Status: StatusAlreadyFinalized}, nil
		}
		return Result{}, err
	}

	s.metrics.IncrementOutcome(string(StatusRejected))
	s.logger.InfoContext(ctx, "case rejected",
		"case_id", caseID,
		"reason", reason,
		"actor_id", actor,
	)
	return Result{Status: StatusRejected}, nil
}

// Validate runs the rule engine without committing anything. A nil payload
// validates the stored one; a non-nil payload validates a caseworker draft.
func (s *Service) Validate(ctx context.Context, caseID id.CaseID, payload *models.Payload) ([]validation.Violation, error) {
	if err := s.gate.Authorize(ctx, caseID, audit.OperationRead); err != nil {
		return nil, err
	}

	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	candidate := c.Payload
	if payload != nil {
		candidate = *payload
	}
	return s.validate(ctx, c, candidate)
}

// UpdatePayload replaces the stored payload wholesale. A blocked case
// returns to received so the corrected submission can be finalized.
func (s *Service) UpdatePayload(ctx context.Context, caseID id.CaseID, payload models.Payload) error {
	if err := s.gate.Authorize(ctx, caseID, audit.OperationWrite); err != nil {
		return err
	}
	actor := requestcontext.Actor(ctx)
	if err := s.cases.UpdatePayload(ctx, caseID, payload, actor); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "case payload replaced",
		"case_id", caseID,
		"actor_id", actor,
	)
	return nil
}

// Get returns the case after an authorized read.
func (s *Service) Get(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	if err := s.gate.Authorize(ctx, caseID, audit.OperationRead); err != nil {
		return nil, err
	}
	return s.cases.GetByID(ctx, caseID)
}

func (s *Service) validate(ctx context.Context, c *models.Case, payload models.Payload) ([]validation.Violation, error) {
	ctx, span := s.tracer.Start(ctx, "finalize.validate")
	defer span.End()

	flags, err := s.flags.Flags(ctx, payload.PractitionerID)
	if err != nil {
		return nil, err
	}

	violations := validation.Validate(payload, c.SubjectBirthDate, requestcontext.Now(ctx), c.Kind, flags)
	for _, v := range violations {
		s.metrics.IncrementViolation(string(v.RuleID))
	}
	span.SetAttributes(attribute.Int("validation.violations", len(violations)))
	return violations, nil
}

// commitArchive updates metadata and finalizes the record, skipping both
// when the record is already terminal upstream.
func (s *Service) commitArchive(ctx context.Context, c *models.Case) error {
	ctx, span := s.tracer.Start(ctx, "finalize.archive")
	defer span.End()

	record, err := s.archive.Get(ctx, c.ArchiveID)
	if err != nil {
		return err
	}
	if record.Status.Terminal() {
		s.logger.InfoContext(ctx, "archive record already finalized, skipping",
			"case_id", c.ID,
			"archive_id", c.ArchiveID,
		)
		return nil
	}

	update := archive.Update{
		Title:     "Sykmelding",
		SubjectID: c.SubjectID,
		CaseID:    c.ID,
	}
	if err := s.archive.UpdateMetadata(ctx, c.ID, c.ArchiveID, update); err != nil {
		return err
	}
	if err := s.archive.Finalize(ctx, c.ArchiveID); err != nil && !errors.Is(err, sentinel.ErrAlreadyFinalized) {
		return err
	}
	return nil
}

// commitTask completes the queue item, skipping when it is already terminal.
// A version conflict means another writer just closed it, which is the same
// outcome.
func (s *Service) commitTask(ctx context.Context, c *models.Case) error {
	ctx, span := s.tracer.Start(ctx, "finalize.task")
	defer span.End()

	item, err := s.tasks.Get(ctx, c.TaskID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "task queue item gone, skipping",
				"case_id", c.ID,
				"task_id", c.TaskID,
			)
			return nil
		}
		return err
	}
	if item.Status.Terminal() {
		return nil
	}
	if err := s.tasks.Finalize(ctx, item); err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return err
	}
	return nil
}

func (s *Service) rejectTask(ctx context.Context, c *models.Case, reason string) error {
	item, err := s.tasks.Get(ctx, c.TaskID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return err
	}
	if item.Status.Terminal() {
		return nil
	}
	if err := s.tasks.Reject(ctx, item, reason); err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return err
	}
	return nil
}

// publish announces the outcome. The upstream commits preceding this call
// are never rolled back: a publish failure is surfaced retryable and the
// retry resumes here because archive and task are terminal by then.
func (s *Service) publish(ctx context.Context, c *models.Case, outcome models.Outcome, reason string, actor id.ActorID, now time.Time) error {
	ctx, span := s.tracer.Start(ctx, "finalize.publish")
	defer span.End()

	event := events.FinalizedCaseEvent{
		CaseID:      c.ID,
		SubjectID:   c.SubjectID,
		Kind:        c.Kind,
		Outcome:     outcome,
		Reason:      reason,
		FinalizedBy: actor,
		FinalizedAt: now,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "ALERT: finalized case event not published after upstream commit",
			"case_id", c.ID,
			"outcome", outcome,
			"error", err,
		)
		return err
	}
	return nil
}
