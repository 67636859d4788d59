package models

import (
	"time"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// CaseStatus tracks where a case sits in the pipeline.
type CaseStatus string

const (
	// CaseStatusReceived: created from ingestion, awaiting a finalize or reject.
	CaseStatusReceived CaseStatus = "received"
	// CaseStatusBlocked: a fatal rule violation stopped the last attempt; a
	// corrected payload returns the case to received.
	CaseStatusBlocked CaseStatus = "blocked"
	// CaseStatusFinalized: terminal; outcome says which way it went.
	CaseStatusFinalized CaseStatus = "finalized"
)

// Outcome is the terminal result of finalization.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
)

// Case is the aggregate root for one sick-leave document moving from
// ingestion to finalization.
//
// Invariants:
//   - FinalizedAt is set if and only if Outcome is non-nil
//   - a case with a set Outcome is immutable in this pipeline
//   - ID maps to at most one row; ingestion replays are no-ops
//
// The orchestrator never holds a Case across attempts: each finalize attempt
// re-reads the row so a retry acts on current state, not a stale copy.
type Case struct {
	ID               id.CaseID       `json:"id"`
	ArchiveID        id.ArchiveID    `json:"archive_id"`
	TaskID           string          `json:"task_id"`
	DocumentIDs      []id.DocumentID `json:"document_ids"`
	SubjectID        id.SubjectID    `json:"subject_id"`
	SubjectBirthDate time.Time       `json:"subject_birth_date"`
	Kind             id.CaseKind     `json:"kind"`
	Status           CaseStatus      `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	FinalizedAt      *time.Time      `json:"finalized_at,omitempty"`
	Outcome          *Outcome        `json:"outcome,omitempty"`
	RejectionReason  string          `json:"rejection_reason,omitempty"`
	Owner            id.ActorID      `json:"owner,omitempty"`
	Payload          Payload         `json:"payload"`
}

func (c *Case) IsFinalized() bool {
	return c.Outcome != nil
}

// CanMutate checks whether edit operations are still allowed.
func (c *Case) CanMutate() error {
	if c.IsFinalized() {
		return dErrors.New(dErrors.CodeInvariantViolation, "case is finalized and read-only")
	}
	return nil
}

// ApplyFinalization records a terminal outcome. Call only after the store's
// optimistic guard succeeded; this keeps the in-memory copy consistent with
// the row that was just written.
func (c *Case) ApplyFinalization(outcome Outcome, reason string, owner id.ActorID, now time.Time) {
	c.Status = CaseStatusFinalized
	c.Outcome = &outcome
	c.RejectionReason = reason
	c.Owner = owner
	c.FinalizedAt = &now
}
