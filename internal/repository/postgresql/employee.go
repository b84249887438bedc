package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, external_id, roster_number, surname, given_name, department, active, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.ExternalID, &e.RosterNumber, &e.Surname, &e.GivenName,
		&e.Department, &e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Upsert implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Upsert(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if e.ExternalID == "" {
		return employee.Employee{}, employee.ErrExternalIDRequired
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (external_id, roster_number, surname, given_name, department, active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (external_id) DO UPDATE SET
			roster_number = COALESCE(EXCLUDED.roster_number, employees.roster_number),
			surname = EXCLUDED.surname,
			given_name = EXCLUDED.given_name,
			department = COALESCE(EXCLUDED.department, employees.department),
			active = TRUE,
			updated_at = NOW()
		RETURNING ` + employeeColumns

	saved, err := scanEmployee(q.QueryRow(ctx, query,
		e.ExternalID, e.RosterNumber, e.Surname, e.GivenName, e.Department,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to upsert employee %s: %w", e.ExternalID, err)
	}
	return saved, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return e, nil
}

// GetByExternalID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByExternalID(ctx context.Context, externalID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE external_id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with external id %s: %w", externalID, err)
	}
	return e, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.EmployeeWithStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.external_id, e.roster_number, e.surname, e.given_name, e.department,
			e.active, e.created_at, e.updated_at,
			COALESCE(SUM(r.days_worked), 0),
			COALESCE(SUM(r.total_hours), 0)::float8,
			COALESCE(SUM(r.days_with_errors), 0)
		FROM employees e
		LEFT JOIN monthly_rollups r ON r.employee_id = e.id
		WHERE e.active = TRUE
		GROUP BY e.id
		ORDER BY e.surname ASC, e.given_name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.EmployeeWithStats
	for rows.Next() {
		var e employee.EmployeeWithStats
		err := rows.Scan(
			&e.ID, &e.ExternalID, &e.RosterNumber, &e.Surname, &e.GivenName,
			&e.Department, &e.Active, &e.CreatedAt, &e.UpdatedAt,
			&e.TotalDaysWorked, &e.TotalHours, &e.DaysWithErrors,
		)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// CountActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE active = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}
