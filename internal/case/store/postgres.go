package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"caseflow/internal/case/models"
	id "caseflow/pkg/domain"
	"caseflow/pkg/platform/sentinel"
)

// PostgresStore persists cases in the cases table.
//
// MarkFinalized relies on `WHERE outcome IS NULL` as the optimistic guard:
// of two racing finalize attempts exactly one updates the row, the other
// sees zero rows affected and gets sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed case store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetByID(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	query := `
		SELECT id, archive_id, task_id, document_ids, subject_id,
		       subject_birth_date, kind, status, created_at, finalized_at,
		       outcome, rejection_reason, owner, payload
		FROM cases
		WHERE id = $1
	`

	var (
		c            models.Case
		docIDs       []byte
		payload      []byte
		finalizedAt  sql.NullTime
		outcome      sql.NullString
		rejectReason sql.NullString
		owner        sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, string(caseID)).Scan(
		&c.ID,
		&c.ArchiveID,
		&c.TaskID,
		&docIDs,
		&c.SubjectID,
		&c.SubjectBirthDate,
		&c.Kind,
		&c.Status,
		&c.CreatedAt,
		&finalizedAt,
		&outcome,
		&rejectReason,
		&owner,
		&payload,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query case: %w", err)
	}

	if err := json.Unmarshal(docIDs, &c.DocumentIDs); err != nil {
		return nil, fmt.Errorf("unmarshal document ids: %w", err)
	}
	if err := json.Unmarshal(payload, &c.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if finalizedAt.Valid {
		t := finalizedAt.Time
		c.FinalizedAt = &t
	}
	if outcome.Valid {
		o := models.Outcome(outcome.String)
		c.Outcome = &o
	}
	c.RejectionReason = rejectReason.String
	c.Owner = id.ActorID(owner.String)

	return &c, nil
}

func (s *PostgresStore) UpsertFromIngestion(ctx context.Context, c *models.Case) error {
	docIDs, err := json.Marshal(c.DocumentIDs)
	if err != nil {
		return fmt.Errorf("marshal document ids: %w", err)
	}
	payload, err := json.Marshal(c.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	// ON CONFLICT DO NOTHING keeps replayed ingestion events from touching
	// the row; created_at never changes on a duplicate.
	query := `
		INSERT INTO cases (id, archive_id, task_id, document_ids, subject_id,
		                   subject_birth_date, kind, status, created_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.db.ExecContext(ctx, query,
		string(c.ID),
		string(c.ArchiveID),
		c.TaskID,
		docIDs,
		string(c.SubjectID),
		c.SubjectBirthDate,
		string(c.Kind),
		string(c.Status),
		c.CreatedAt,
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdatePayload(ctx context.Context, caseID id.CaseID, payload models.Payload, owner id.ActorID) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	query := `
		UPDATE cases
		SET payload = $2,
		    owner = $3,
		    status = CASE WHEN status = 'blocked' THEN 'received' ELSE status END
		WHERE id = $1 AND outcome IS NULL
	`
	res, err := s.db.ExecContext(ctx, query, string(caseID), body, string(owner))
	if err != nil {
		return fmt.Errorf("update payload: %w", err)
	}
	return s.guardRowHit(ctx, caseID, res)
}

func (s *PostgresStore) SetStatus(ctx context.Context, caseID id.CaseID, status models.CaseStatus) error {
	query := `
		UPDATE cases
		SET status = $2
		WHERE id = $1 AND outcome IS NULL
	`
	res, err := s.db.ExecContext(ctx, query, string(caseID), string(status))
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return s.guardRowHit(ctx, caseID, res)
}

func (s *PostgresStore) MarkFinalized(ctx context.Context, caseID id.CaseID, outcome models.Outcome, reason string, owner id.ActorID, at time.Time) error {
	query := `
		UPDATE cases
		SET status = 'finalized',
		    outcome = $2,
		    rejection_reason = $3,
		    owner = $4,
		    finalized_at = $5
		WHERE id = $1 AND outcome IS NULL
	`
	res, err := s.db.ExecContext(ctx, query,
		string(caseID),
		string(outcome),
		reason,
		string(owner),
		at,
	)
	if err != nil {
		return fmt.Errorf("mark finalized: %w", err)
	}
	return s.guardRowHit(ctx, caseID, res)
}

// guardRowHit distinguishes "no such case" from "optimistic guard lost".
func (s *PostgresStore) guardRowHit(ctx context.Context, caseID id.CaseID, res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1)`, string(caseID)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check case existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("case %s: %w", caseID, sentinel.ErrNotFound)
	}
	return fmt.Errorf("case %s already finalized: %w", caseID, sentinel.ErrConflict)
}
