// Package practitioner looks up authorization flags for the clinician who
// signed a certificate. The external rule service owns the flags; this
// package fetches them and caches them briefly.
package practitioner

// Flags mirrors what the external rule service reports about a practitioner.
// Any set flag blocks finalization (validation surfaces it as fatal).
type Flags struct {
	Suspended           bool `json:"suspended"`
	UnauthorizedStudent bool `json:"unauthorized_student"`
}

// Blocking reports whether any flag forbids accepting the certificate.
func (f Flags) Blocking() bool {
	return f.Suspended || f.UnauthorizedStudent
}
