// Package memory holds map-backed repositories with the same contracts as the
// PostgreSQL ones. Service and handler tests run against it.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/importing"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
)

type dayKey struct {
	employeeID string
	date       string
}

// Store is shared by every repository it hands out. All access holds mu.
type Store struct {
	mu sync.Mutex

	employees  map[string]employee.Employee
	externalID map[string]string
	days       map[dayKey]attendance.DailyAttendance
	rollups    map[attendance.YearMonth]map[string]attendance.MonthlyRollup
	imports    []importing.Import
	rawPunches []punch.Raw
	reports    []report.Report
}

func NewStore() *Store {
	return &Store{
		employees:  make(map[string]employee.Employee),
		externalID: make(map[string]string),
		days:       make(map[dayKey]attendance.DailyAttendance),
		rollups:    make(map[attendance.YearMonth]map[string]attendance.MonthlyRollup),
	}
}

func (s *Store) Employees() employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (s *Store) Days() attendance.DailyAttendanceRepository {
	return &dailyAttendanceRepository{s: s}
}

func (s *Store) Rollups() attendance.MonthlyRollupRepository {
	return &monthlyRollupRepository{s: s}
}

func (s *Store) Imports() importing.ImportRepository {
	return &importRepository{s: s}
}

func (s *Store) RawPunches() punch.RawRepository {
	return &rawPunchRepository{s: s}
}

func (s *Store) Reports() report.ReportRepository {
	return &reportRepository{s: s}
}

// TxRunner runs fn directly. The store has no rollback.
type TxRunner struct{}

func (TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func now() time.Time {
	return time.Now().UTC()
}
