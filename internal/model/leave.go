package model

import "time"

// LeaveType enumerates the kinds of leave an employee can request.
type LeaveType string

const (
	LeaveVacation  LeaveType = "vacation"
	LeaveSick      LeaveType = "sick"
	LeaveMaternity LeaveType = "maternity"
	LeaveStudy     LeaveType = "study"
	LeaveOther     LeaveType = "other"
)

// LeaveTypes lists every valid leave type, in display order.
var LeaveTypes = []LeaveType{
	LeaveVacation,
	LeaveSick,
	LeaveMaternity,
	LeaveStudy,
	LeaveOther,
}

// Valid reports whether t is one of the enumerated leave types.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveVacation, LeaveSick, LeaveMaternity, LeaveStudy, LeaveOther:
		return true
	}
	return false
}

// LeaveStatus is the lifecycle state of a leave request.
// A request starts pending; approved and rejected are terminal.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// Terminal reports whether no further status transition is permitted.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveApproved || s == LeaveRejected
}

// LeaveRequest is a single leave request record as served by the HR API.
type LeaveRequest struct {
	// ID is the server-assigned unique identifier.
	ID string `json:"id" db:"id"`

	// EmployeeID identifies the requesting employee.
	EmployeeID string `json:"employee_id" db:"employee_id"`

	// Type is the enumerated kind of leave.
	Type LeaveType `json:"leave_type" db:"leave_type"`

	// StartDate is the first day of leave (date precision).
	StartDate time.Time `json:"start_date" db:"start_date"`

	// EndDate is the last day of leave; never before StartDate.
	EndDate time.Time `json:"end_date" db:"end_date"`

	// Reason is the free-text justification entered by the employee.
	Reason string `json:"reason" db:"reason"`

	// Status is pending until an admin approves or rejects the request.
	Status LeaveStatus `json:"status" db:"status"`

	// CreatedAt is when the request was submitted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
