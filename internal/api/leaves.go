package api

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/hr-console/internal/model"
)

// dateFormat is the wire format for leave start/end dates.
const dateFormat = "2006-01-02"

// createLeaveBody is the request payload for POST /leaves/create.
type createLeaveBody struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

// updateLeaveBody is the request payload for PUT /leaves/update/{id}.
type updateLeaveBody struct {
	Status string `json:"status"`
}

// CreateLeave submits a new leave request on behalf of the session's
// employee. The server stores it with status pending and fans out one
// admin-broadcast notification. Not safe to auto-retry.
func (c *Client) CreateLeave(
	ctx context.Context,
	leaveType model.LeaveType,
	startDate, endDate time.Time,
	reason string,
) (*model.LeaveRequest, error) {
	body := createLeaveBody{
		EmployeeID: c.session.EmployeeID,
		LeaveType:  string(leaveType),
		StartDate:  startDate.Format(dateFormat),
		EndDate:    endDate.Format(dateFormat),
		Reason:     reason,
	}

	var created model.LeaveRequest
	if err := c.post(ctx, "/leaves/create", body, &created); err != nil {
		return nil, fmt.Errorf("creating leave request: %w", err)
	}
	return &created, nil
}

// UpdateLeaveStatus transitions a pending leave request to approved or
// rejected. The server answers 409 if the request has already left
// pending; that surfaces as a ConflictError and must not be retried.
// On success the server fans out one notification to the request's
// employee.
func (c *Client) UpdateLeaveStatus(
	ctx context.Context,
	requestID string,
	status model.LeaveStatus,
) (*model.LeaveRequest, error) {
	var updated model.LeaveRequest
	err := c.put(
		ctx,
		"/leaves/update/"+requestID,
		updateLeaveBody{Status: string(status)},
		&updated,
	)
	if err != nil {
		return nil, fmt.Errorf("updating leave %s: %w", requestID, err)
	}
	return &updated, nil
}

// ListLeaves returns every leave request visible to an admin session,
// newest first.
func (c *Client) ListLeaves(ctx context.Context) ([]model.LeaveRequest, error) {
	var leaves []model.LeaveRequest
	if err := c.get(ctx, "/leaves", &leaves); err != nil {
		return nil, fmt.Errorf("listing leaves: %w", err)
	}
	return leaves, nil
}

// MyLeaves returns the session employee's own leave requests.
func (c *Client) MyLeaves(ctx context.Context) ([]model.LeaveRequest, error) {
	var leaves []model.LeaveRequest
	if err := c.get(ctx, "/leaves/mine", &leaves); err != nil {
		return nil, fmt.Errorf("listing own leaves: %w", err)
	}
	return leaves, nil
}
