package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and upstream clients return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: case, document, or task does not exist
// - ErrConflict: optimistic check lost (case already finalized locally, task version stale)
// - ErrAlreadyFinalized: upstream record already in its terminal lifecycle state
//
// Unreachable upstreams are not a resource fact; they surface as coded
// unavailable errors from pkg/platform/upstream. For rule violations (bad
// payload content), use internal/validation directly.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrAlreadyFinalized = errors.New("already finalized")
)
