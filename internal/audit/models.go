package audit

import (
	"time"

	"github.com/google/uuid"

	id "caseflow/pkg/domain"
)

type Operation string

const (
	OperationRead  Operation = "read"
	OperationWrite Operation = "write"
)

type Decision string

const (
	DecisionPermit Decision = "permit"
	DecisionDeny   Decision = "deny"
)

// Event records one access decision against a subject's case data. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	ActorID   id.ActorID
	SubjectID id.SubjectID
	CaseID    id.CaseID
	Operation Operation
	Path      string
	Decision  Decision
	Reason    string
	RequestID string
}
