package tuitionRepo

import "errors"

// Sentinel errors returned when a conditional write matched no document.
// The repository re-reads the record once to classify which precondition
// failed; the conditional write itself is what guarantees atomicity.
var (
	ErrNotFound              = errors.New("tuition request not found")
	ErrNotOwner              = errors.New("actor is not the owner of this tuition request")
	ErrNotOpen               = errors.New("tuition request is not open")
	ErrAlreadyApplied        = errors.New("tutor has already applied to this tuition request")
	ErrApplicationNotFound   = errors.New("application not found")
	ErrApplicationNotPending = errors.New("application has already been processed")
	ErrAlreadyAssigned       = errors.New("a tutor has already been assigned")
	ErrAlreadyPaid           = errors.New("tuition request is already paid")
	ErrNotDeletable          = errors.New("tuition request can no longer be deleted")
)
