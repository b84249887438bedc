package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const dailyAttendanceColumns = `id, employee_id, date, entry_1, exit_1, entry_2, exit_2, entry_3, exit_3,
	worked_hours::float8, has_errors, error_kinds, observations, raw_pairs, mode, created_at, updated_at`

type dailyAttendanceRepositoryImpl struct {
	db *database.DB
}

func NewDailyAttendanceRepository(db *database.DB) attendance.DailyAttendanceRepository {
	return &dailyAttendanceRepositoryImpl{db: db}
}

func dailyAttendanceDest(d *attendance.DailyAttendance) []any {
	return []any{
		&d.ID, &d.EmployeeID, &d.Date,
		&d.Entry1, &d.Exit1, &d.Entry2, &d.Exit2, &d.Entry3, &d.Exit3,
		&d.WorkedHours, &d.HasErrors, &d.ErrorKinds, &d.Observations, &d.RawPairs,
		&d.Mode, &d.CreatedAt, &d.UpdatedAt,
	}
}

func collectDailyAttendances(rows pgx.Rows, extra func(d *attendance.DailyAttendance) []any) ([]attendance.DailyAttendance, error) {
	defer rows.Close()

	var days []attendance.DailyAttendance
	for rows.Next() {
		var d attendance.DailyAttendance
		dest := dailyAttendanceDest(&d)
		if extra != nil {
			dest = append(dest, extra(&d)...)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

// Upsert implements attendance.DailyAttendanceRepository.
func (r *dailyAttendanceRepositoryImpl) Upsert(ctx context.Context, day attendance.DailyAttendance) (attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, r.db)

	pairs := day.RawPairs
	if pairs == nil {
		pairs = []attendance.PunchPair{}
	}

	query := `
		INSERT INTO daily_attendances (
			employee_id, date, entry_1, exit_1, entry_2, exit_2, entry_3, exit_3,
			worked_hours, has_errors, error_kinds, observations, raw_pairs, mode
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			entry_1 = EXCLUDED.entry_1,
			exit_1 = EXCLUDED.exit_1,
			entry_2 = EXCLUDED.entry_2,
			exit_2 = EXCLUDED.exit_2,
			entry_3 = EXCLUDED.entry_3,
			exit_3 = EXCLUDED.exit_3,
			worked_hours = EXCLUDED.worked_hours,
			has_errors = EXCLUDED.has_errors,
			error_kinds = EXCLUDED.error_kinds,
			observations = EXCLUDED.observations,
			raw_pairs = EXCLUDED.raw_pairs,
			mode = EXCLUDED.mode,
			updated_at = NOW()
		RETURNING ` + dailyAttendanceColumns

	var saved attendance.DailyAttendance
	err := q.QueryRow(ctx, query,
		day.EmployeeID, day.Date, day.Entry1, day.Exit1, day.Entry2, day.Exit2, day.Entry3, day.Exit3,
		day.WorkedHours, day.HasErrors, day.ErrorKinds, day.Observations, pairs, string(day.Mode),
	).Scan(dailyAttendanceDest(&saved)...)
	if err != nil {
		return attendance.DailyAttendance{}, fmt.Errorf("failed to upsert daily attendance: %w", err)
	}
	return saved, nil
}

// ListByEmployeeMonth implements attendance.DailyAttendanceRepository.
func (r *dailyAttendanceRepositoryImpl) ListByEmployeeMonth(ctx context.Context, employeeID string, year int, month int) ([]attendance.DailyAttendance, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return r.ListByEmployeeRange(ctx, employeeID, start, start.AddDate(0, 1, -1))
}

// ListByEmployeeRange implements attendance.DailyAttendanceRepository.
func (r *dailyAttendanceRepositoryImpl) ListByEmployeeRange(ctx context.Context, employeeID string, start time.Time, end time.Time) ([]attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dailyAttendanceColumns + `
		FROM daily_attendances
		WHERE employee_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %s: %w", employeeID, err)
	}
	return collectDailyAttendances(rows, nil)
}

// List implements attendance.DailyAttendanceRepository.
func (r *dailyAttendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []any
	)
	addCondition := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		addCondition("d.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		addCondition("d.date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		addCondition("d.date <= $%d::date", *filter.EndDate)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT d.id, d.employee_id, d.date, d.entry_1, d.exit_1, d.entry_2, d.exit_2, d.entry_3, d.exit_3,
			d.worked_hours::float8, d.has_errors, d.error_kinds, d.observations, d.raw_pairs, d.mode,
			d.created_at, d.updated_at,
			e.external_id,
			CASE WHEN e.surname = e.given_name THEN e.surname ELSE e.surname || ', ' || e.given_name END,
			e.department
		FROM daily_attendances d
		JOIN employees e ON e.id = d.employee_id
		%s
		ORDER BY d.date DESC, e.surname ASC, e.given_name ASC
		LIMIT $%d
	`, where, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return collectDailyAttendances(rows, func(d *attendance.DailyAttendance) []any {
		return []any{&d.ExternalID, &d.EmployeeName, &d.Department}
	})
}

// CountWithErrors implements attendance.DailyAttendanceRepository.
func (r *dailyAttendanceRepositoryImpl) CountWithErrors(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM daily_attendances WHERE has_errors = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count days with errors: %w", err)
	}
	return count, nil
}
