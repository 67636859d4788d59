// Package ports defines the upstream interfaces the finalization
// orchestrator drives. They mirror the concrete clients but are defined here
// so the service depends on behavior, not transports.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"caseflow/internal/archive"
	"caseflow/internal/audit"
	"caseflow/internal/events"
	"caseflow/internal/practitioner"
	"caseflow/internal/task"
	id "caseflow/pkg/domain"
)

// ArchivePort drives the document archive.
type ArchivePort interface {
	Get(ctx context.Context, archiveID id.ArchiveID) (archive.Record, error)
	UpdateMetadata(ctx context.Context, caseID id.CaseID, archiveID id.ArchiveID, update archive.Update) error
	Finalize(ctx context.Context, archiveID id.ArchiveID) error
	Reject(ctx context.Context, archiveID id.ArchiveID, reason string) error
}

// TaskPort drives the agency task queue.
type TaskPort interface {
	Get(ctx context.Context, taskID string) (task.Item, error)
	Finalize(ctx context.Context, item task.Item) error
	Reject(ctx context.Context, item task.Item, reason string) error
}

// EventPort announces finalized cases downstream.
type EventPort interface {
	Publish(ctx context.Context, event events.FinalizedCaseEvent) error
}

// GatePort authorizes the acting caseworker against the case's subject.
type GatePort interface {
	Authorize(ctx context.Context, caseID id.CaseID, op audit.Operation) error
}

// FlagPort resolves practitioner sanction flags for validation.
type FlagPort interface {
	Flags(ctx context.Context, practitionerID string) (practitioner.Flags, error)
}
