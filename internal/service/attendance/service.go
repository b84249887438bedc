package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
)

type AttendanceServiceImpl struct {
	attendance.DailyAttendanceRepository
	attendance.MonthlyRollupRepository
	employee.EmployeeRepository
	punch.RawRepository
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func toAttendanceResponse(d attendance.DailyAttendance) attendance.AttendanceResponse {
	pairs := d.RawPairs
	if pairs == nil {
		pairs = []attendance.PunchPair{}
	}
	return attendance.AttendanceResponse{
		ID:           d.ID,
		EmployeeID:   d.EmployeeID,
		ExternalID:   d.ExternalID,
		EmployeeName: d.EmployeeName,
		Department:   d.Department,
		Date:         d.Date.Format("2006-01-02"),
		Entry1:       timePtrToString(d.Entry1),
		Exit1:        timePtrToString(d.Exit1),
		Entry2:       timePtrToString(d.Entry2),
		Exit2:        timePtrToString(d.Exit2),
		Entry3:       timePtrToString(d.Entry3),
		Exit3:        timePtrToString(d.Exit3),
		WorkedHours:  d.WorkedHours,
		HasErrors:    d.HasErrors,
		ErrorKinds:   d.ErrorKinds,
		Observations: d.Observations,
		Mode:         string(d.Mode),
		Pairs:        pairs,
		UpdatedAt:    d.UpdatedAt.Format(time.RFC3339),
	}
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	days, err := s.DailyAttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	out := make([]attendance.AttendanceResponse, 0, len(days))
	for _, d := range days {
		out = append(out, toAttendanceResponse(d))
	}
	return out, nil
}

// ListSummaries implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListSummaries(ctx context.Context, filter attendance.RollupFilter) ([]attendance.RollupResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rollups, err := s.MonthlyRollupRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly rollups: %w", err)
	}

	out := make([]attendance.RollupResponse, 0, len(rollups))
	for _, r := range rollups {
		out = append(out, attendance.RollupResponse{
			EmployeeID:     r.EmployeeID,
			Year:           r.Year,
			Month:          r.Month,
			DaysWorked:     r.DaysWorked,
			TotalHours:     r.TotalHours,
			DaysWithErrors: r.DaysWithErrors,
			UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// Stats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Stats(ctx context.Context) (attendance.StatsResponse, error) {
	employees, err := s.EmployeeRepository.CountActive(ctx)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to count employees: %w", err)
	}

	punches, err := s.RawRepository.Count(ctx)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to count punches: %w", err)
	}

	withErrors, err := s.DailyAttendanceRepository.CountWithErrors(ctx)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to count days with errors: %w", err)
	}

	return attendance.StatsResponse{
		TotalEmployees: employees,
		TotalPunches:   punches,
		DaysWithErrors: withErrors,
	}, nil
}

func NewAttendanceService(
	dayRepo attendance.DailyAttendanceRepository,
	rollupRepo attendance.MonthlyRollupRepository,
	employeeRepo employee.EmployeeRepository,
	rawRepo punch.RawRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		DailyAttendanceRepository: dayRepo,
		MonthlyRollupRepository:   rollupRepo,
		EmployeeRepository:        employeeRepo,
		RawRepository:             rawRepo,
	}
}
