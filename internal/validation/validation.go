package validation

import (
	"sort"
	"time"

	"caseflow/internal/case/models"
	"caseflow/internal/practitioner"
	id "caseflow/pkg/domain"
)

// Age bounds for the subject at treatment date, inclusive.
const (
	minSubjectAge = 13
	maxSubjectAge = 70
)

// Partial (graded) sick-leave percentage bounds, inclusive.
const (
	minPartialPercentage = 20
	maxPartialPercentage = 99
)

// allowedDiagnosisSystems is the code-system allow-list for the primary
// diagnosis.
var allowedDiagnosisSystems = map[string]bool{
	"ICD10": true,
	"ICPC2": true,
}

// noSickPayDiagnoses lists administrative codes that grant no right to
// sick pay.
var noSickPayDiagnoses = map[string]bool{
	"Z09": true,
	"Z50": true,
	"Z71": true,
	"Z76": true,
}

// Validate runs every rule in fixed order against the payload and returns
// all violations, not just the first. Pure and deterministic: the processing
// time and practitioner flags arrive as arguments.
func Validate(payload models.Payload, subjectBirthDate time.Time, now time.Time, kind id.CaseKind, flags practitioner.Flags) []Violation {
	var violations []Violation

	violations = append(violations, checkPeriodsPresent(payload)...)
	violations = append(violations, checkPeriodOrder(payload)...)
	violations = append(violations, checkOverlap(payload)...)
	violations = append(violations, checkContinuity(payload, kind)...)
	violations = append(violations, checkTravelSubsidyCombination(payload)...)
	violations = append(violations, checkTreatmentDate(payload, now)...)
	violations = append(violations, checkSubjectAge(payload, subjectBirthDate)...)
	violations = append(violations, checkTotalSpan(payload)...)
	violations = append(violations, checkPartialPercentage(payload)...)
	violations = append(violations, checkDiagnosis(payload)...)
	violations = append(violations, checkPractitioner(flags)...)

	return violations
}

func checkPeriodsPresent(payload models.Payload) []Violation {
	if len(payload.Periods) > 0 {
		return nil
	}
	return []Violation{{
		RuleID:            RuleNoPeriods,
		Severity:          SeverityManual,
		CaseworkerMessage: "The certificate has no sick-leave periods; register at least one period.",
		SubmitterMessage:  "The certificate must contain at least one sick-leave period.",
	}}
}

func checkPeriodOrder(payload models.Payload) []Violation {
	var out []Violation
	for _, p := range payload.Periods {
		if p.Start.After(p.End) {
			out = append(out, Violation{
				RuleID:            RulePeriodOrder,
				Severity:          SeverityManual,
				CaseworkerMessage: "A period starts after it ends; check the registered dates.",
				SubmitterMessage:  "A sick-leave period has a start date after its end date.",
			})
		}
	}
	return out
}

func checkOverlap(payload models.Payload) []Violation {
	if !hasOverlap(payload.Periods) {
		return nil
	}
	return []Violation{{
		RuleID:            RulePeriodOverlap,
		Severity:          SeverityManual,
		CaseworkerMessage: "Two or more periods overlap; periods must not share days.",
		SubmitterMessage:  "The certificate contains overlapping sick-leave periods.",
	}}
}

// hasOverlap reports whether any pair of periods overlaps. Symmetric by
// construction; identical periods count as overlapping.
func hasOverlap(periods []models.Period) bool {
	for i := 0; i < len(periods); i++ {
		for j := i + 1; j < len(periods); j++ {
			if periods[i].Overlaps(periods[j]) {
				return true
			}
		}
	}
	return false
}

func checkContinuity(payload models.Payload, kind id.CaseKind) []Violation {
	if !kind.RequiresContinuousPeriods() || len(payload.Periods) < 2 {
		return nil
	}

	sorted := make([]models.Period, len(payload.Periods))
	copy(sorted, payload.Periods)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	for i := 1; i < len(sorted); i++ {
		// Consecutive periods must abut: next start at most one day after
		// the previous end.
		if sorted[i].Start.After(sorted[i-1].End.AddDate(0, 0, 1)) {
			return []Violation{{
				RuleID:            RulePeriodGap,
				Severity:          SeverityManual,
				CaseworkerMessage: "The periods leave a gap in the sick-leave span; this certificate type must be continuous.",
				SubmitterMessage:  "The sick-leave periods are not continuous.",
			}}
		}
	}
	return nil
}

func checkTravelSubsidyCombination(payload models.Payload) []Violation {
	conflicting := []models.ActivityType{
		models.ActivityNotPossible,
		models.ActivityPartial,
		models.ActivityAwaitingInput,
		models.ActivityWorkdays,
	}
	for _, p := range payload.Periods {
		if !p.HasActivity(models.ActivityTravelSubsidy) {
			continue
		}
		for _, other := range conflicting {
			if p.HasActivity(other) {
				return []Violation{{
					RuleID:            RuleTravelSubsidyCombo,
					Severity:          SeverityManual,
					CaseworkerMessage: "Travel subsidy cannot be combined with other activity types in the same period.",
					SubmitterMessage:  "Travel subsidy must be the only activity type for a period.",
				}}
			}
		}
	}
	return nil
}

func checkTreatmentDate(payload models.Payload, now time.Time) []Violation {
	if payload.TreatmentDate.IsZero() || !payload.TreatmentDate.After(now) {
		return nil
	}
	return []Violation{{
		RuleID:            RuleTreatmentInFuture,
		Severity:          SeverityManual,
		CaseworkerMessage: "The treatment date is in the future; verify against the paper certificate.",
		SubmitterMessage:  "The treatment date cannot be in the future.",
	}}
}

func checkSubjectAge(payload models.Payload, subjectBirthDate time.Time) []Violation {
	if subjectBirthDate.IsZero() || payload.TreatmentDate.IsZero() {
		return nil
	}
	age := yearsBetween(subjectBirthDate, payload.TreatmentDate)
	if age >= minSubjectAge && age <= maxSubjectAge {
		return nil
	}
	return []Violation{{
		RuleID:            RuleSubjectAge,
		Severity:          SeverityManual,
		CaseworkerMessage: "The subject is outside the 13-70 age range at the treatment date.",
		SubmitterMessage:  "Sick pay requires the patient to be between 13 and 70 years old.",
	}}
}

func yearsBetween(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		years--
	}
	return years
}

func checkTotalSpan(payload models.Payload) []Violation {
	if len(payload.Periods) == 0 {
		return nil
	}
	earliest := payload.Periods[0].Start
	latest := payload.Periods[0].End
	for _, p := range payload.Periods[1:] {
		if p.Start.Before(earliest) {
			earliest = p.Start
		}
		if p.End.After(latest) {
			latest = p.End
		}
	}
	if !latest.After(earliest.AddDate(1, 0, 0)) {
		return nil
	}
	return []Violation{{
		RuleID:            RuleTotalSpanTooLong,
		Severity:          SeverityManual,
		CaseworkerMessage: "The total sick-leave span exceeds one year.",
		SubmitterMessage:  "A certificate cannot cover more than one year of sick leave.",
	}}
}

func checkPartialPercentage(payload models.Payload) []Violation {
	for _, p := range payload.Periods {
		if !p.HasActivity(models.ActivityPartial) {
			continue
		}
		if p.Percentage < minPartialPercentage || p.Percentage > maxPartialPercentage {
			return []Violation{{
				RuleID:            RulePartialPercentage,
				Severity:          SeverityManual,
				CaseworkerMessage: "Graded sick leave must be between 20 and 99 percent.",
				SubmitterMessage:  "The grading percentage must be between 20 and 99.",
			}}
		}
	}
	return nil
}

func checkDiagnosis(payload models.Payload) []Violation {
	var out []Violation
	if payload.Diagnosis.Code == "" {
		return out
	}
	if !allowedDiagnosisSystems[payload.Diagnosis.System] {
		out = append(out, Violation{
			RuleID:            RuleDiagnosisSystem,
			Severity:          SeverityManual,
			CaseworkerMessage: "The primary diagnosis uses a code system that is not accepted.",
			SubmitterMessage:  "The primary diagnosis must use ICD-10 or ICPC-2.",
		})
	}
	if noSickPayDiagnoses[payload.Diagnosis.Code] && len(payload.Periods) == 0 {
		out = append(out, Violation{
			RuleID:            RuleDiagnosisNoSickPay,
			Severity:          SeverityManual,
			CaseworkerMessage: "The primary diagnosis grants no right to sick pay and no periods justify it.",
			SubmitterMessage:  "The given diagnosis does not entitle the patient to sick pay.",
		})
	}
	return out
}

func checkPractitioner(flags practitioner.Flags) []Violation {
	if !flags.Blocking() {
		return nil
	}
	return []Violation{{
		RuleID:            RulePractitionerBlocked,
		Severity:          SeverityFatal,
		CaseworkerMessage: "The submitting practitioner is not authorized to issue certificates; the case is blocked.",
		SubmitterMessage:  "You are not currently authorized to issue sick-leave certificates.",
	}}
}
