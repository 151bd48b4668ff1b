// Package leave drives the leave-request state machine from the client
// side: field validation before submission, and the pending →
// {approved, rejected} transition for admins. All server effects
// (persisting the request, fanning out notifications) belong to the HR
// API; this package only decides what is legal to send.
package leave

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/hr-console/internal/api"
	"github.com/nhle/hr-console/internal/model"
)

// API is the subset of the HR client the controller depends on.
type API interface {
	CreateLeave(
		ctx context.Context,
		leaveType model.LeaveType,
		startDate, endDate time.Time,
		reason string,
	) (*model.LeaveRequest, error)

	UpdateLeaveStatus(
		ctx context.Context,
		requestID string,
		status model.LeaveStatus,
	) (*model.LeaveRequest, error)
}

// Controller validates and executes leave-request operations for one
// viewer session.
type Controller struct {
	api     API
	session model.Session
}

// NewController creates a controller bound to the given API client and
// session.
func NewController(a API, sess model.Session) *Controller {
	return &Controller{api: a, session: sess}
}

// Submit validates a leave request and, if valid, posts it to the
// server. Every field is required and the start date must not be after
// the end date; violations return a ValidationError without touching
// the network. Submission is never auto-retried: a duplicate request is
// worse than a surfaced transport error.
func (c *Controller) Submit(
	ctx context.Context,
	leaveType model.LeaveType,
	startDate, endDate time.Time,
	reason string,
) (*model.LeaveRequest, error) {
	if err := validateSubmission(leaveType, startDate, endDate, reason); err != nil {
		return nil, err
	}
	return c.api.CreateLeave(ctx, leaveType, startDate, endDate, reason)
}

// SetStatus transitions a pending request to approved or rejected.
// The locally known status is checked first so an already-decided
// request fails fast; the server remains authoritative and its 409 is
// mapped to the same InvalidTransitionError.
func (c *Controller) SetStatus(
	ctx context.Context,
	request model.LeaveRequest,
	newStatus model.LeaveStatus,
) (*model.LeaveRequest, error) {
	if !newStatus.Terminal() {
		return nil, &ValidationError{
			Field:   "status",
			Message: "status must be approved or rejected",
		}
	}
	if request.Status != model.LeavePending {
		return nil, &InvalidTransitionError{
			RequestID: request.ID,
			From:      request.Status,
		}
	}

	updated, err := c.api.UpdateLeaveStatus(ctx, request.ID, newStatus)
	if err != nil {
		if api.IsConflict(err) {
			return nil, &InvalidTransitionError{
				RequestID: request.ID,
				From:      request.Status,
			}
		}
		return nil, err
	}
	return updated, nil
}

// validateSubmission applies the client-side submission rules.
func validateSubmission(
	leaveType model.LeaveType,
	startDate, endDate time.Time,
	reason string,
) error {
	if !leaveType.Valid() {
		return &ValidationError{
			Field:   "leave_type",
			Message: "choose a leave type",
		}
	}
	if startDate.IsZero() {
		return &ValidationError{
			Field:   "start_date",
			Message: "start date is required",
		}
	}
	if endDate.IsZero() {
		return &ValidationError{
			Field:   "end_date",
			Message: "end date is required",
		}
	}
	if endDate.Before(startDate) {
		return &ValidationError{
			Field:   "end_date",
			Message: "end date must not be before start date",
		}
	}
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{
			Field:   "reason",
			Message: "reason is required",
		}
	}
	return nil
}
