package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/integrity"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// Common service errors. The conflict family is shared with the
// consistency rules so errors.Is works on either name.
var (
	// ErrConflict is the root of every conflict: rule rejections and
	// duplicate keys.
	ErrConflict = integrity.ErrConflict

	// ErrProjectHasTasks is returned when deleting a project that still owns tasks.
	ErrProjectHasTasks = integrity.ErrProjectHasTasks

	// ErrUserHasComments is returned when deleting a user who authored comments.
	ErrUserHasComments = integrity.ErrUserHasComments

	// ErrMemberExists is returned when the user is already on the project team.
	ErrMemberExists = integrity.ErrMemberExists

	// ErrEmptyBatch is returned when a batch update names no tasks.
	ErrEmptyBatch = fmt.Errorf("%w: task id list cannot be empty", domain.ErrInvalidArgument)
)

// Kind classifies an error for callers that need to choose a response.
type Kind int

// Error kinds
const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidArgument
	KindUnauthorized
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindUnauthorized:
		return "Unauthorized"
	default:
		return "Internal"
	}
}

// KindOf classifies err by walking its cause chain.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrReferenced):
		return KindConflict
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, store.ErrInvalidEntity):
		return KindInvalidArgument
	case errors.Is(err, domain.ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}

// ServiceError wraps errors from a service operation with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "delete_project")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with the operation context. A nil err
// returns nil, and an err that is already a *ServiceError is returned
// unchanged so nested calls do not stack prefixes.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
