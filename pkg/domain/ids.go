// Package domain holds typed identifiers and domain values shared across
// services. IDs here are opaque references issued by external systems, so the
// only construction-time invariant is that they are present and sane in size.
package domain

import (
	"strings"

	dErrors "caseflow/pkg/domain-errors"
)

// Typed identifiers. Distinct types so a task id can never be passed where a
// subject id is expected; the compiler enforces it.
type (
	// CaseID is the external task id that keys a case end to end.
	CaseID string
	// SubjectID is the pseudonymized citizen identifier for the sick-leave subject.
	SubjectID string
	// ActorID is the authenticated caseworker ident.
	ActorID string
	// ArchiveID references the journalpost in the document archive.
	ArchiveID string
	// DocumentID references one document inside an archive entry.
	DocumentID string
)

const maxIDLength = 128

func parseID(raw, what string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be empty", what)
	}
	if len(trimmed) > maxIDLength {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "%s exceeds %d characters", what, maxIDLength)
	}
	return trimmed, nil
}

// ParseCaseID constructs a CaseID from external input at trust boundaries.
func ParseCaseID(raw string) (CaseID, error) {
	v, err := parseID(raw, "case id")
	return CaseID(v), err
}

// ParseSubjectID constructs a SubjectID from external input.
func ParseSubjectID(raw string) (SubjectID, error) {
	v, err := parseID(raw, "subject id")
	return SubjectID(v), err
}

// ParseActorID constructs an ActorID from an authenticated token claim.
func ParseActorID(raw string) (ActorID, error) {
	v, err := parseID(raw, "actor id")
	return ActorID(v), err
}

func (c CaseID) IsZero() bool    { return c == "" }
func (s SubjectID) IsZero() bool { return s == "" }
func (a ActorID) IsZero() bool   { return a == "" }
