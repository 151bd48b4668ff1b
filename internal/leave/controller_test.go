package leave

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/hr-console/internal/api"
	"github.com/nhle/hr-console/internal/model"
)

// mockAPI records calls so tests can assert nothing reached the
// network on validation failure.
type mockAPI struct {
	createCalls  int
	createResult *model.LeaveRequest
	createErr    error

	updateCalls  int
	updateResult *model.LeaveRequest
	updateErr    error
}

func (m *mockAPI) CreateLeave(
	_ context.Context,
	_ model.LeaveType,
	_, _ time.Time,
	_ string,
) (*model.LeaveRequest, error) {
	m.createCalls++
	return m.createResult, m.createErr
}

func (m *mockAPI) UpdateLeaveStatus(
	_ context.Context,
	_ string,
	_ model.LeaveStatus,
) (*model.LeaveRequest, error) {
	m.updateCalls++
	return m.updateResult, m.updateErr
}

var testSession = model.Session{
	EmployeeID: "e1",
	Role:       model.RoleEmployee,
	Token:      "tok",
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestSubmitRejectsReversedDatesWithoutNetworkCall(t *testing.T) {
	m := &mockAPI{}
	c := NewController(m, testSession)

	_, err := c.Submit(
		context.Background(),
		model.LeaveVacation,
		date("2024-06-10"), date("2024-06-05"),
		"family trip",
	)
	if !IsValidationError(err) {
		t.Fatalf("got %v, want validation error", err)
	}
	if m.createCalls != 0 {
		t.Errorf("validation failure still made %d network calls", m.createCalls)
	}
}

func TestSubmitRequiresEveryField(t *testing.T) {
	m := &mockAPI{}
	c := NewController(m, testSession)
	start, end := date("2024-06-05"), date("2024-06-10")

	cases := []struct {
		name      string
		leaveType model.LeaveType
		start     time.Time
		end       time.Time
		reason    string
	}{
		{"bad type", model.LeaveType("holiday"), start, end, "r"},
		{"no start", model.LeaveSick, time.Time{}, end, "r"},
		{"no end", model.LeaveSick, start, time.Time{}, "r"},
		{"blank reason", model.LeaveSick, start, end, "   "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Submit(
				context.Background(), tc.leaveType, tc.start, tc.end, tc.reason,
			)
			if !IsValidationError(err) {
				t.Fatalf("got %v, want validation error", err)
			}
		})
	}
	if m.createCalls != 0 {
		t.Errorf("validation failures made %d network calls", m.createCalls)
	}
}

func TestSubmitValidRequest(t *testing.T) {
	created := &model.LeaveRequest{
		ID:         "l1",
		EmployeeID: "e1",
		Type:       model.LeaveVacation,
		Status:     model.LeavePending,
	}
	m := &mockAPI{createResult: created}
	c := NewController(m, testSession)

	got, err := c.Submit(
		context.Background(),
		model.LeaveVacation,
		date("2024-06-05"), date("2024-06-10"),
		"family trip",
	)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Status != model.LeavePending {
		t.Errorf("status = %s, want pending", got.Status)
	}
	if m.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", m.createCalls)
	}
}

func TestSubmitAllowsSingleDayLeave(t *testing.T) {
	m := &mockAPI{createResult: &model.LeaveRequest{Status: model.LeavePending}}
	c := NewController(m, testSession)

	d := date("2024-06-05")
	if _, err := c.Submit(context.Background(), model.LeaveSick, d, d, "flu"); err != nil {
		t.Fatalf("equal start/end rejected: %v", err)
	}
}

func TestSetStatusOnDecidedRequestFailsFast(t *testing.T) {
	m := &mockAPI{}
	c := NewController(m, testSession)

	already := model.LeaveRequest{ID: "l1", Status: model.LeaveApproved}
	_, err := c.SetStatus(context.Background(), already, model.LeaveApproved)
	if !IsInvalidTransition(err) {
		t.Fatalf("got %v, want invalid transition", err)
	}
	if m.updateCalls != 0 {
		t.Errorf("terminal request still made %d network calls", m.updateCalls)
	}
}

func TestSetStatusRejectsNonTerminalTarget(t *testing.T) {
	m := &mockAPI{}
	c := NewController(m, testSession)

	pending := model.LeaveRequest{ID: "l1", Status: model.LeavePending}
	_, err := c.SetStatus(context.Background(), pending, model.LeavePending)
	if !IsValidationError(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestSetStatusMapsConflictToInvalidTransition(t *testing.T) {
	// The local copy says pending, but the server already decided.
	m := &mockAPI{updateErr: &api.ConflictError{Message: "leave request is not pending"}}
	c := NewController(m, testSession)

	pending := model.LeaveRequest{ID: "l1", Status: model.LeavePending}
	_, err := c.SetStatus(context.Background(), pending, model.LeaveRejected)
	if !IsInvalidTransition(err) {
		t.Fatalf("got %v, want invalid transition", err)
	}
}

func TestSetStatusSuccess(t *testing.T) {
	updated := &model.LeaveRequest{ID: "l1", Status: model.LeaveApproved}
	m := &mockAPI{updateResult: updated}
	c := NewController(m, testSession)

	pending := model.LeaveRequest{ID: "l1", Status: model.LeavePending}
	got, err := c.SetStatus(context.Background(), pending, model.LeaveApproved)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if got.Status != model.LeaveApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}
	if m.updateCalls != 1 {
		t.Errorf("updateCalls = %d, want 1", m.updateCalls)
	}
}
