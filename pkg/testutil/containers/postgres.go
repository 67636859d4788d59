//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresContainer wraps a testcontainers Postgres instance with the
// caseflow schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	DB        *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS cases (
	id                 TEXT PRIMARY KEY,
	archive_id         TEXT NOT NULL,
	task_id            TEXT NOT NULL DEFAULT '',
	document_ids       JSONB NOT NULL DEFAULT '[]',
	subject_id         TEXT NOT NULL,
	subject_birth_date TIMESTAMPTZ NOT NULL,
	kind               TEXT NOT NULL,
	status             TEXT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL,
	finalized_at       TIMESTAMPTZ,
	outcome            TEXT,
	rejection_reason   TEXT,
	owner              TEXT,
	payload            JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS audit_events (
	id         UUID PRIMARY KEY,
	timestamp  TIMESTAMPTZ NOT NULL,
	actor_id   TEXT NOT NULL,
	subject_id TEXT NOT NULL,
	case_id    TEXT NOT NULL,
	operation  TEXT NOT NULL,
	path       TEXT NOT NULL,
	decision   TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS audit_events_subject_idx ON audit_events (subject_id, timestamp DESC);
`

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("caseflow"),
		tcpostgres.WithUsername("caseflow"),
		tcpostgres.WithPassword("caseflow"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		URL:       url,
		DB:        db,
	}
}

// Truncate clears all rows. Use between tests to ensure isolation.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `TRUNCATE cases, audit_events`)
	return err
}
