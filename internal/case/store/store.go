// Package store persists cases. The Postgres implementation is the single
// source of truth for idempotency checks; the in-memory twin exists for unit
// tests and local development.
package store

import (
	"context"
	"time"

	"caseflow/internal/case/models"
	id "caseflow/pkg/domain"
)

// Store is the durable record of cases.
//
// Error contract:
//   - GetByID returns sentinel.ErrNotFound (wrapped) for unknown cases
//   - UpsertFromIngestion is idempotent: a replayed row is a no-op, never an error
//   - UpdatePayload returns sentinel.ErrConflict when the case is finalized
//   - MarkFinalized returns sentinel.ErrConflict when the outcome is already
//     set — two concurrent finalize attempts resolve to exactly one winner
type Store interface {
	GetByID(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	UpsertFromIngestion(ctx context.Context, c *models.Case) error
	UpdatePayload(ctx context.Context, caseID id.CaseID, payload models.Payload, owner id.ActorID) error
	SetStatus(ctx context.Context, caseID id.CaseID, status models.CaseStatus) error
	MarkFinalized(ctx context.Context, caseID id.CaseID, outcome models.Outcome, reason string, owner id.ActorID, at time.Time) error
}
