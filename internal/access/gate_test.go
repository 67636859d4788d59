package access

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow/internal/audit"
	auditstore "caseflow/internal/audit/store"
	"caseflow/internal/case/models"
	"caseflow/internal/case/store"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/requestcontext"
)

type stubDecider struct {
	err       error
	calls     int
	superuser bool
}

func (d *stubDecider) Check(_ context.Context, _ id.ActorID, _ id.SubjectID, superuser bool) error {
	d.calls++
	d.superuser = superuser
	return d.err
}

func seedCase(t *testing.T, cases store.Store) id.CaseID {
	t.Helper()
	c := &models.Case{
		ID:        id.CaseID("case-1"),
		SubjectID: id.SubjectID("12345678901"),
		Kind:      id.CaseKindForeign,
		Status:    models.CaseStatusReceived,
		CreatedAt: time.Now(),
	}
	require.NoError(t, cases.UpsertFromIngestion(context.Background(), c))
	return c.ID
}

func actorContext() context.Context {
	ctx := requestcontext.WithActor(context.Background(), id.ActorID("Z999001"))
	ctx = requestcontext.WithRequestPath(ctx, "/api/v1/cases/case-1/finalize")
	return requestcontext.WithRequestID(ctx, "req-1")
}

func TestGateAuthorize(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("permit emits one permit audit event", func(t *testing.T) {
		cases := store.NewInMemoryStore()
		caseID := seedCase(t, cases)
		sink := auditstore.NewInMemoryStore()
		decider := &stubDecider{}
		gate := NewGate(cases, decider, audit.NewPublisher(sink), logger)

		err := gate.Authorize(actorContext(), caseID, audit.OperationWrite)
		require.NoError(t, err)
		assert.Equal(t, 1, decider.calls)

		events, err := sink.ListBySubject(context.Background(), id.SubjectID("12345678901"))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.DecisionPermit, events[0].Decision)
		assert.Equal(t, audit.OperationWrite, events[0].Operation)
		assert.Equal(t, "/api/v1/cases/case-1/finalize", events[0].Path)
		assert.Equal(t, "req-1", events[0].RequestID)
	})

	t.Run("deny emits exactly one deny audit event", func(t *testing.T) {
		cases := store.NewInMemoryStore()
		caseID := seedCase(t, cases)
		sink := auditstore.NewInMemoryStore()
		decider := &stubDecider{err: dErrors.New(dErrors.CodeForbidden, "nope")}
		gate := NewGate(cases, decider, audit.NewPublisher(sink), logger)

		err := gate.Authorize(actorContext(), caseID, audit.OperationRead)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

		events, err := sink.ListBySubject(context.Background(), id.SubjectID("12345678901"))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.DecisionDeny, events[0].Decision)
		assert.NotEmpty(t, events[0].Reason)
	})

	t.Run("indeterminate answer denies closed", func(t *testing.T) {
		cases := store.NewInMemoryStore()
		caseID := seedCase(t, cases)
		sink := auditstore.NewInMemoryStore()
		decider := &stubDecider{err: dErrors.New(dErrors.CodeUnavailable, "authz down")}
		gate := NewGate(cases, decider, audit.NewPublisher(sink), logger)

		err := gate.Authorize(actorContext(), caseID, audit.OperationWrite)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

		events, err := sink.ListBySubject(context.Background(), id.SubjectID("12345678901"))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.DecisionDeny, events[0].Decision)
	})

	t.Run("missing actor is unauthorized, no audit entry", func(t *testing.T) {
		cases := store.NewInMemoryStore()
		caseID := seedCase(t, cases)
		sink := auditstore.NewInMemoryStore()
		gate := NewGate(cases, &stubDecider{}, audit.NewPublisher(sink), logger)

		err := gate.Authorize(context.Background(), caseID, audit.OperationRead)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

		events, err := sink.ListBySubject(context.Background(), id.SubjectID("12345678901"))
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("unknown case propagates not found", func(t *testing.T) {
		cases := store.NewInMemoryStore()
		gate := NewGate(cases, &stubDecider{}, audit.NewPublisher(auditstore.NewInMemoryStore()), logger)

		err := gate.Authorize(actorContext(), id.CaseID("missing"), audit.OperationRead)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("superuser variant hits the extended endpoint", func(t *testing.T) {
		cases := store.NewInMemoryStore()
		caseID := seedCase(t, cases)
		decider := &stubDecider{}
		gate := NewGate(cases, decider, audit.NewPublisher(auditstore.NewInMemoryStore()), logger)

		require.NoError(t, gate.AuthorizeSuperuser(actorContext(), caseID, audit.OperationRead))
		assert.True(t, decider.superuser)
	})
}

func TestAuthzClientCheck(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	t.Run("2xx permits", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/access/subject", r.URL.Path)
			assert.Equal(t, "12345678901", r.URL.Query().Get("subject"))
			assert.Equal(t, "Z999001", r.Header.Get("X-Actor-Id"))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewAuthzClient(srv.URL, srv.Client(), logger)
		assert.NoError(t, client.Check(ctx, id.ActorID("Z999001"), id.SubjectID("12345678901"), false))
	})

	t.Run("403 denies", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		client := NewAuthzClient(srv.URL, srv.Client(), logger)
		err := client.Check(ctx, id.ActorID("Z999001"), id.SubjectID("12345678901"), false)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("superuser uses the extended path", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/access/subject/extended", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewAuthzClient(srv.URL, srv.Client(), logger)
		assert.NoError(t, client.Check(ctx, id.ActorID("Z999001"), id.SubjectID("12345678901"), true))
	})

	t.Run("5xx is unavailable, repeated failures open the circuit", func(t *testing.T) {
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewAuthzClient(srv.URL, srv.Client(), logger)
		for i := 0; i < 5; i++ {
			err := client.Check(ctx, id.ActorID("Z999001"), id.SubjectID("12345678901"), false)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
		}
		assert.True(t, client.breaker.IsOpen())

		// Open circuit lets a single probe through per call slot.
		before := hits
		err := client.Check(ctx, id.ActorID("Z999001"), id.SubjectID("12345678901"), false)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
		assert.Equal(t, before+1, hits)
	})
}
