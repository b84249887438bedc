package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

const monthlyRollupColumns = `id, employee_id, year, month, days_worked, total_hours::float8, days_with_errors, created_at, updated_at`

type monthlyRollupRepositoryImpl struct {
	db *database.DB
}

func NewMonthlyRollupRepository(db *database.DB) attendance.MonthlyRollupRepository {
	return &monthlyRollupRepositoryImpl{db: db}
}

// Upsert implements attendance.MonthlyRollupRepository.
func (r *monthlyRollupRepositoryImpl) Upsert(ctx context.Context, rollup attendance.MonthlyRollup) (attendance.MonthlyRollup, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO monthly_rollups (employee_id, year, month, days_worked, total_hours, days_with_errors)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, year, month) DO UPDATE SET
			days_worked = EXCLUDED.days_worked,
			total_hours = EXCLUDED.total_hours,
			days_with_errors = EXCLUDED.days_with_errors,
			updated_at = NOW()
		RETURNING ` + monthlyRollupColumns

	var saved attendance.MonthlyRollup
	err := q.QueryRow(ctx, query,
		rollup.EmployeeID, rollup.Year, rollup.Month, rollup.DaysWorked, rollup.TotalHours, rollup.DaysWithErrors,
	).Scan(
		&saved.ID, &saved.EmployeeID, &saved.Year, &saved.Month, &saved.DaysWorked,
		&saved.TotalHours, &saved.DaysWithErrors, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return attendance.MonthlyRollup{}, fmt.Errorf("failed to upsert monthly rollup: %w", err)
	}
	return saved, nil
}

// List implements attendance.MonthlyRollupRepository.
func (r *monthlyRollupRepositoryImpl) List(ctx context.Context, filter attendance.RollupFilter) ([]attendance.MonthlyRollup, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []any
	)
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)))
	}
	if filter.Month != nil {
		args = append(args, *filter.Month)
		conditions = append(conditions, fmt.Sprintf("month = $%d", len(args)))
	}

	query := `SELECT ` + monthlyRollupColumns + ` FROM monthly_rollups`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY year DESC, month DESC, employee_id ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly rollups: %w", err)
	}
	defer rows.Close()

	var rollups []attendance.MonthlyRollup
	for rows.Next() {
		var m attendance.MonthlyRollup
		err := rows.Scan(
			&m.ID, &m.EmployeeID, &m.Year, &m.Month, &m.DaysWorked,
			&m.TotalHours, &m.DaysWithErrors, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rollups = append(rollups, m)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rollups, nil
}
