package employee

import "context"

type EmployeeRepository interface {
	// Upsert inserts or updates by external ID. A nil department or roster number
	// never clears a stored value.
	Upsert(ctx context.Context, employee Employee) (Employee, error)

	GetByID(ctx context.Context, id string) (Employee, error)
	GetByExternalID(ctx context.Context, externalID string) (Employee, error)

	// ListActive returns active employees ordered by surname, given name, with rollup totals
	ListActive(ctx context.Context) ([]EmployeeWithStats, error)

	CountActive(ctx context.Context) (int64, error)
}
