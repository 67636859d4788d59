package store

import (
	"context"
	"database/sql"
	"fmt"

	"caseflow/internal/audit"
	id "caseflow/pkg/domain"
)

// PostgresStore persists audit events. Appends are idempotent via
// ON CONFLICT DO NOTHING on the event ID.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, timestamp, actor_id, subject_id, case_id,
			operation, path, decision, reason, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp,
		string(event.ActorID),
		string(event.SubjectID),
		string(event.CaseID),
		string(event.Operation),
		event.Path,
		string(event.Decision),
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]audit.Event, error) {
	query := `
		SELECT id, timestamp, actor_id, subject_id, case_id,
			   operation, path, decision, reason, request_id
		FROM audit_events
		WHERE subject_id = $1
		ORDER BY timestamp DESC
	`
	rows, err := s.db.QueryContext(ctx, query, string(subjectID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			event     audit.Event
			actor     string
			subject   string
			caseID    string
			operation string
			decision  string
		)
		err := rows.Scan(
			&event.ID,
			&event.Timestamp,
			&actor,
			&subject,
			&caseID,
			&operation,
			&event.Path,
			&decision,
			&event.Reason,
			&event.RequestID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ActorID = id.ActorID(actor)
		event.SubjectID = id.SubjectID(subject)
		event.CaseID = id.CaseID(caseID)
		event.Operation = audit.Operation(operation)
		event.Decision = audit.Decision(decision)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
