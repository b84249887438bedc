package employee

import "context"

type EmployeeService interface {
	// ListEmployees returns active employees with their rollup totals
	ListEmployees(ctx context.Context) ([]EmployeeResponse, error)
}
