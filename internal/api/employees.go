package api

import (
	"context"
	"fmt"

	"github.com/nhle/hr-console/internal/model"
)

// ListEmployees returns the employee directory.
func (c *Client) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	if err := c.get(ctx, "/employees", &employees); err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	return employees, nil
}
