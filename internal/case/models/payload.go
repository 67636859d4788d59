package models

import "time"

// ActivityType tags what the subject can or cannot do during a period.
type ActivityType string

const (
	ActivityNotPossible   ActivityType = "not_possible"
	ActivityPartial       ActivityType = "partial"
	ActivityTravelSubsidy ActivityType = "travel_subsidy"
	ActivityAwaitingInput ActivityType = "awaiting_input"
	ActivityWorkdays      ActivityType = "countable_workdays"
)

// Period is one contiguous date range within a sick-leave case. A period
// carries one or more activity tags; the extraction step can set several on
// the same range (which validation then rejects for illegal combinations).
// Invariant: Start <= End. Percentage only carries meaning when the partial
// tag is present, where it must sit in [20, 99].
type Period struct {
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	Activities []ActivityType `json:"activities"`
	Percentage int            `json:"percentage,omitempty"`
}

// HasActivity reports whether the period carries the given tag.
func (p Period) HasActivity(a ActivityType) bool {
	for _, candidate := range p.Activities {
		if candidate == a {
			return true
		}
	}
	return false
}

// Overlaps reports whether two periods overlap: either start falling within
// the other's closed [Start, End] range counts, so identical periods overlap.
func (p Period) Overlaps(other Period) bool {
	return withinClosed(p.Start, other.Start, other.End) ||
		withinClosed(other.Start, p.Start, p.End)
}

func withinClosed(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// Diagnosis identifies the medical condition on the certificate.
type Diagnosis struct {
	System string `json:"system"`
	Code   string `json:"code"`
	Text   string `json:"text,omitempty"`
}

// Payload is the medical and period data of a case. It may be partially
// filled before finalization and is replaced wholesale on each caseworker
// edit; there is no field-level merge.
type Payload struct {
	Periods        []Period  `json:"periods"`
	Diagnosis      Diagnosis `json:"diagnosis"`
	TreatmentDate  time.Time `json:"treatment_date"`
	PractitionerID string    `json:"practitioner_id,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}
