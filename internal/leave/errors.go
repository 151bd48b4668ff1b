package leave

import (
	"errors"
	"fmt"

	"github.com/nhle/hr-console/internal/model"
)

// ValidationError reports a client-detected problem with a submission
// field. It is returned before any network call is made, and the UI
// renders it inline next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err (or any error in its chain) is
// a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InvalidTransitionError reports an attempt to change the status of a
// leave request that is no longer pending. Approved and rejected are
// terminal, so the operation can never succeed and must not be retried.
type InvalidTransitionError struct {
	RequestID string
	From      model.LeaveStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf(
		"leave request %s is %s; only pending requests can change status",
		e.RequestID, e.From,
	)
}

// IsInvalidTransition reports whether err (or any error in its chain)
// is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
