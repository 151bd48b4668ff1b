package store

import (
	"context"

	"github.com/nhle/hr-console/internal/model"
)

// EmployeeFilter controls filtering and pagination for directory queries.
type EmployeeFilter struct {
	Query    *string // search name + email + position
	Division *string
	Limit    int
	Offset   int
}

// LeaveFilter controls filtering for cached leave request queries.
type LeaveFilter struct {
	EmployeeID *string
	Status     *string
	Limit      int
	Offset     int
}

// Store is the local reference-data cache. It holds snapshots of
// server-owned records (employees, leave requests) so views render
// immediately on startup and refresh in the background. Notifications
// are deliberately absent: inbox state is ephemeral per mounted view.
type Store interface {
	UpsertEmployees(ctx context.Context, employees []model.Employee) error
	GetEmployees(ctx context.Context, filter EmployeeFilter) ([]model.Employee, error)
	GetEmployeeByID(ctx context.Context, id string) (*model.Employee, error)

	UpsertLeaves(ctx context.Context, leaves []model.LeaveRequest) error
	GetLeaves(ctx context.Context, filter LeaveFilter) ([]model.LeaveRequest, error)

	Close() error
}
