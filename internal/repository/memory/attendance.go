package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type dailyAttendanceRepository struct {
	s *Store
}

func (r *dailyAttendanceRepository) Upsert(ctx context.Context, day attendance.DailyAttendance) (attendance.DailyAttendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := dayKey{employeeID: day.EmployeeID, date: day.Date.Format(dateLayout)}
	ts := now()
	if stored, ok := r.s.days[key]; ok {
		day.ID = stored.ID
		day.CreatedAt = stored.CreatedAt
	} else {
		day.ID = uuid.NewString()
		day.CreatedAt = ts
	}
	day.UpdatedAt = ts
	day.ExternalID, day.EmployeeName, day.Department = nil, nil, nil

	r.s.days[key] = day
	return day, nil
}

func (r *dailyAttendanceRepository) ListByEmployeeMonth(ctx context.Context, employeeID string, year int, month int) ([]attendance.DailyAttendance, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return r.ListByEmployeeRange(ctx, employeeID, start, end)
}

func (r *dailyAttendanceRepository) ListByEmployeeRange(ctx context.Context, employeeID string, start time.Time, end time.Time) ([]attendance.DailyAttendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	from, to := start.Format(dateLayout), end.Format(dateLayout)
	var out []attendance.DailyAttendance
	for key, day := range r.s.days {
		if key.employeeID == employeeID && key.date >= from && key.date <= to {
			out = append(out, day)
		}
	}
	sortDays(out)
	return out, nil
}

func (r *dailyAttendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.DailyAttendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []attendance.DailyAttendance
	for key, day := range r.s.days {
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && key.employeeID != *filter.EmployeeID {
			continue
		}
		if filter.StartDate != nil && *filter.StartDate != "" && key.date < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && *filter.EndDate != "" && key.date > *filter.EndDate {
			continue
		}
		if e, ok := r.s.employees[key.employeeID]; ok {
			externalID, name := e.ExternalID, e.FullName()
			day.ExternalID = &externalID
			day.EmployeeName = &name
			day.Department = e.Department
		}
		out = append(out, day)
	}

	// Most recent first, as the SQL listing.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *dailyAttendanceRepository) CountWithErrors(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, day := range r.s.days {
		if day.HasErrors {
			n++
		}
	}
	return n, nil
}

func sortDays(days []attendance.DailyAttendance) {
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
}

type monthlyRollupRepository struct {
	s *Store
}

func (r *monthlyRollupRepository) Upsert(ctx context.Context, rollup attendance.MonthlyRollup) (attendance.MonthlyRollup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ym := attendance.YearMonth{Year: rollup.Year, Month: rollup.Month}
	byEmployee, ok := r.s.rollups[ym]
	if !ok {
		byEmployee = make(map[string]attendance.MonthlyRollup)
		r.s.rollups[ym] = byEmployee
	}

	ts := now()
	if stored, ok := byEmployee[rollup.EmployeeID]; ok {
		rollup.ID = stored.ID
		rollup.CreatedAt = stored.CreatedAt
	} else {
		rollup.ID = uuid.NewString()
		rollup.CreatedAt = ts
	}
	rollup.UpdatedAt = ts

	byEmployee[rollup.EmployeeID] = rollup
	return rollup, nil
}

func (r *monthlyRollupRepository) List(ctx context.Context, filter attendance.RollupFilter) ([]attendance.MonthlyRollup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []attendance.MonthlyRollup
	for ym, byEmployee := range r.s.rollups {
		if filter.Year != nil && ym.Year != *filter.Year {
			continue
		}
		if filter.Month != nil && ym.Month != *filter.Month {
			continue
		}
		for employeeID, rollup := range byEmployee {
			if filter.EmployeeID != nil && *filter.EmployeeID != "" && employeeID != *filter.EmployeeID {
				continue
			}
			out = append(out, rollup)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}
