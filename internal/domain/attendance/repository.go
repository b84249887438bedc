package attendance

import (
	"context"
	"time"
)

// DailyAttendanceRepository persists per-day results.
// Upsert must be atomic on (employee_id, date).
type DailyAttendanceRepository interface {
	// Upsert creates the record or overwrites every computed field of the existing one
	Upsert(ctx context.Context, day DailyAttendance) (DailyAttendance, error)

	// ListByEmployeeMonth returns every stored day of the employee in the month
	ListByEmployeeMonth(ctx context.Context, employeeID string, year int, month int) ([]DailyAttendance, error)

	// ListByEmployeeRange returns stored days in [start, end], ordered by date ascending
	ListByEmployeeRange(ctx context.Context, employeeID string, start time.Time, end time.Time) ([]DailyAttendance, error)

	List(ctx context.Context, filter AttendanceFilter) ([]DailyAttendance, error)

	CountWithErrors(ctx context.Context) (int64, error)
}

// MonthlyRollupRepository persists monthly aggregates.
// Upsert must be atomic on (employee_id, year, month).
type MonthlyRollupRepository interface {
	Upsert(ctx context.Context, rollup MonthlyRollup) (MonthlyRollup, error)
	List(ctx context.Context, filter RollupFilter) ([]MonthlyRollup, error)
}

// TxRunner runs fn in one storage transaction carried by the context.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
