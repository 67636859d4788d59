// Package validation holds the pure rule engine for sick-leave payloads.
// Validate never touches I/O; everything it needs arrives as arguments.
package validation

// RuleID identifies one validation rule. Stable across releases; caseworker
// tooling keys on these values.
type RuleID string

const (
	RuleNoPeriods           RuleID = "no_periods"
	RulePeriodOrder         RuleID = "period_start_after_end"
	RulePeriodOverlap       RuleID = "period_overlap"
	RulePeriodGap           RuleID = "period_gap"
	RuleTravelSubsidyCombo  RuleID = "travel_subsidy_combination"
	RuleTreatmentInFuture   RuleID = "treatment_date_in_future"
	RuleSubjectAge          RuleID = "subject_age_outside_range"
	RuleTotalSpanTooLong    RuleID = "total_span_exceeds_one_year"
	RulePartialPercentage   RuleID = "partial_percentage_outside_range"
	RuleDiagnosisSystem     RuleID = "diagnosis_system_not_allowed"
	RuleDiagnosisNoSickPay  RuleID = "diagnosis_grants_no_sick_pay"
	RulePractitionerBlocked RuleID = "practitioner_not_authorized"
)

// Severity decides what the caller may do with a violating payload.
type Severity string

const (
	// SeverityManual: return to the caseworker for correction.
	SeverityManual Severity = "manual_processing"
	// SeverityFatal: the case is blocked; no external calls may be made.
	SeverityFatal Severity = "fatal"
)

// Violation is one broken rule. Both message variants are caller-safe: one
// phrased for the caseworker, one for the submitting clinician.
type Violation struct {
	RuleID            RuleID   `json:"rule_id"`
	Severity          Severity `json:"severity"`
	CaseworkerMessage string   `json:"caseworker_message"`
	SubmitterMessage  string   `json:"submitter_message"`
}

// HasFatal reports whether any violation blocks the case outright.
func HasFatal(violations []Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityFatal {
			return true
		}
	}
	return false
}
