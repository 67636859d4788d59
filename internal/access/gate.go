package access

import (
	"context"
	"log/slog"

	"caseflow/internal/audit"
	"caseflow/internal/case/store"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/requestcontext"
)

// Gate decides whether the calling actor may read or mutate a case. Every
// decision, permitted or not, is written to the audit log before the gate
// returns. Authorization failures deny closed.
type Gate struct {
	cases     store.Store
	decider   Decider
	publisher *audit.Publisher
	logger    *slog.Logger
}

func NewGate(cases store.Store, decider Decider, publisher *audit.Publisher, logger *slog.Logger) *Gate {
	return &Gate{cases: cases, decider: decider, publisher: publisher, logger: logger}
}

// Authorize resolves the case's subject and checks the actor against the
// authorization service. Exactly one audit event is emitted per call.
func (g *Gate) Authorize(ctx context.Context, caseID id.CaseID, op audit.Operation) error {
	return g.authorize(ctx, caseID, op, false)
}

// AuthorizeSuperuser checks the extended-access endpoint; same contract.
func (g *Gate) AuthorizeSuperuser(ctx context.Context, caseID id.CaseID, op audit.Operation) error {
	return g.authorize(ctx, caseID, op, true)
}

func (g *Gate) authorize(ctx context.Context, caseID id.CaseID, op audit.Operation, superuser bool) error {
	actorID := requestcontext.Actor(ctx)
	if actorID.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "no authenticated actor in request context")
	}

	c, err := g.cases.GetByID(ctx, caseID)
	if err != nil {
		return err
	}

	checkErr := g.decider.Check(ctx, actorID, c.SubjectID, superuser)

	event := audit.Event{
		ActorID:   actorID,
		SubjectID: c.SubjectID,
		CaseID:    caseID,
		Operation: op,
		Path:      requestcontext.RequestPath(ctx),
		RequestID: requestcontext.RequestID(ctx),
		Decision:  audit.DecisionPermit,
	}

	var result error
	switch {
	case checkErr == nil:
	case dErrors.HasCode(checkErr, dErrors.CodeForbidden):
		event.Decision = audit.DecisionDeny
		event.Reason = "authorization service denied access"
		result = checkErr
	default:
		// Indeterminate answer: deny closed.
		g.logger.ErrorContext(ctx, "authorization check failed, denying access",
			"case_id", caseID,
			"actor_id", actorID,
			"error", checkErr,
		)
		event.Decision = audit.DecisionDeny
		event.Reason = "authorization service unavailable"
		result = dErrors.Wrap(checkErr, dErrors.CodeForbidden, "access denied: authorization could not be verified")
	}

	if err := g.publisher.Emit(ctx, event); err != nil {
		// An access decision that cannot be audited must not stand.
		g.logger.ErrorContext(ctx, "audit write failed",
			"case_id", caseID,
			"actor_id", actorID,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "record access decision")
	}
	return result
}
