package tuition

import (
	"errors"
	"fmt"

	tuitionRepo "tutorlink/database/repository/tuition"
	userRepo "tutorlink/database/repository/user"
)

// ErrorKind classifies service failures for the transport layer.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindConflict     ErrorKind = "conflict"
	KindNotFound     ErrorKind = "not_found"
	KindSignature    ErrorKind = "signature"
	KindTransaction  ErrorKind = "transaction"
	KindInternal     ErrorKind = "internal"
)

// ServiceError carries an error kind and a human-readable reason. The
// transport layer translates kinds to status codes; raw storage errors
// never cross this boundary unclassified.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func validationErr(format string, args ...interface{}) error {
	return &ServiceError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func unauthorizedErr(format string, args ...interface{}) error {
	return &ServiceError{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func conflictErr(format string, args ...interface{}) error {
	return &ServiceError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func notFoundErr(format string, args ...interface{}) error {
	return &ServiceError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, defaulting to internal.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// fromRepoErr maps repository sentinel errors onto the service taxonomy.
func fromRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tuitionRepo.ErrNotFound), errors.Is(err, userRepo.ErrNotFound):
		return &ServiceError{Kind: KindNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, tuitionRepo.ErrNotOwner):
		return &ServiceError{Kind: KindUnauthorized, Message: err.Error(), Err: err}
	case errors.Is(err, tuitionRepo.ErrNotOpen),
		errors.Is(err, tuitionRepo.ErrAlreadyApplied),
		errors.Is(err, tuitionRepo.ErrAlreadyAssigned),
		errors.Is(err, tuitionRepo.ErrAlreadyPaid),
		errors.Is(err, tuitionRepo.ErrApplicationNotPending),
		errors.Is(err, tuitionRepo.ErrNotDeletable):
		return &ServiceError{Kind: KindConflict, Message: err.Error(), Err: err}
	case errors.Is(err, tuitionRepo.ErrApplicationNotFound):
		return &ServiceError{Kind: KindNotFound, Message: err.Error(), Err: err}
	default:
		return &ServiceError{Kind: KindTransaction, Message: "storage operation failed", Err: err}
	}
}
