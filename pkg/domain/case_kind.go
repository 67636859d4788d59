package domain

import dErrors "caseflow/pkg/domain-errors"

// CaseKind identifies which intake channel produced a certificate.
// Invariant: the value must be one of the supported kinds.
//
// Usage: construct via ParseCaseKind at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type CaseKind string

// Supported case kinds.
const (
	CaseKindDomesticPaper CaseKind = "domestic_paper"
	CaseKindForeign       CaseKind = "foreign_certificate"
	CaseKindScanned       CaseKind = "scanned_channel"
)

// validCaseKinds is the single source of truth for valid case kinds.
var validCaseKinds = map[CaseKind]bool{
	CaseKindDomesticPaper: true,
	CaseKindForeign:       true,
	CaseKindScanned:       true,
}

// ParseCaseKind constructs a CaseKind from external input.
func ParseCaseKind(raw string) (CaseKind, error) {
	kind := CaseKind(raw)
	if !validCaseKinds[kind] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported case kind %q", raw)
	}
	return kind, nil
}

// RequiresContinuousPeriods reports whether the sick-leave span for this kind
// must be gap-free. Foreign certificates legitimately arrive with gaps between
// treatment abroad and follow-up at home, so they are exempt.
func (k CaseKind) RequiresContinuousPeriods() bool {
	switch k {
	case CaseKindDomesticPaper, CaseKindScanned:
		return true
	case CaseKindForeign:
		return false
	default:
		return true
	}
}
