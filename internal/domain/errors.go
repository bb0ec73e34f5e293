package domain

import "errors"

// Error kinds. Concrete domain errors match exactly one kind via errors.Is
// while printing only their own message.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// Domain-specific errors for business logic validation.
var (
	// Lookup errors
	ErrTaskNotFound       = newKindError(ErrNotFound, "task not found")
	ErrUserNotFound       = newKindError(ErrNotFound, "user not found")
	ErrAssignmentNotFound = newKindError(ErrNotFound, "assignment not found")

	// Assignment rules
	ErrNotTaskOwner           = newKindError(ErrValidation, "requester is not the task owner")
	ErrSelfAssignment         = newKindError(ErrValidation, "task owner cannot assign self as delegate")
	ErrAssignmentTaskMismatch = newKindError(ErrValidation, "assignment does not belong to this task")

	// Input errors
	ErrEmptyTitle   = newKindError(ErrValidation, "title is required")
	ErrEmptyComment = newKindError(ErrValidation, "comment is required")
	ErrInvalidPage  = newKindError(ErrValidation, "page must be >= 0 and size must be > 0")
	ErrEmailTaken   = newKindError(ErrValidation, "email is already registered")

	// Authentication errors
	ErrInvalidToken = newKindError(ErrUnauthorized, "invalid authentication token")
)

type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}
