package attendance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/service/normalizer"
	"github.com/shopspring/decimal"
)

// Aggregator turns one employee's punches into stored day records and monthly rollups.
// It is the only writer of daily_attendances and monthly_rollups.
type Aggregator struct {
	days    attendance.DailyAttendanceRepository
	rollups attendance.MonthlyRollupRepository
}

func NewAggregator(days attendance.DailyAttendanceRepository, rollups attendance.MonthlyRollupRepository) *Aggregator {
	return &Aggregator{
		days:    days,
		rollups: rollups,
	}
}

// ProcessEmployee runs detection, pairing and hours per calendar date, upserts each day
// in date order, then recomputes the rollup of every month touched. Any storage error
// aborts the remaining work and is returned.
func (a *Aggregator) ProcessEmployee(ctx context.Context, employeeID string, punches []punch.Canonical, mode attendance.CalculationMode) ([]attendance.DailyAttendance, error) {
	if mode == "" {
		mode = attendance.ModeTolerant
	}

	byDate := normalizer.GroupByDate(punches)
	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]attendance.DailyAttendance, 0, len(keys))
	touched := make(map[attendance.YearMonth]struct{})

	for _, key := range keys {
		date, err := time.Parse(normalizer.DateKeyLayout, key)
		if err != nil {
			return nil, fmt.Errorf("invalid date bucket %q: %w", key, err)
		}

		day, _ := BuildDailyAttendance(employeeID, date, byDate[key], mode)
		saved, err := a.days.Upsert(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert attendance for %s on %s: %w", employeeID, key, err)
		}

		results = append(results, saved)
		touched[attendance.YearMonthOf(date)] = struct{}{}
	}

	months := make([]attendance.YearMonth, 0, len(touched))
	for ym := range touched {
		months = append(months, ym)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})

	for _, ym := range months {
		if err := a.recomputeRollup(ctx, employeeID, ym); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (a *Aggregator) recomputeRollup(ctx context.Context, employeeID string, ym attendance.YearMonth) error {
	stored, err := a.days.ListByEmployeeMonth(ctx, employeeID, ym.Year, ym.Month)
	if err != nil {
		return fmt.Errorf("failed to list attendance for %s %04d-%02d: %w", employeeID, ym.Year, ym.Month, err)
	}

	rollup := ComputeRollup(employeeID, ym, stored)
	if _, err := a.rollups.Upsert(ctx, rollup); err != nil {
		return fmt.Errorf("failed to upsert monthly rollup for %s %04d-%02d: %w", employeeID, ym.Year, ym.Month, err)
	}
	return nil
}

// BuildDailyAttendance computes the record for one employee-day without touching storage.
func BuildDailyAttendance(employeeID string, date time.Time, day []punch.Canonical, mode attendance.CalculationMode) (attendance.DailyAttendance, []attendance.Anomaly) {
	valid := ValidSorted(day)
	anomalies := DetectAnomalies(day, valid)
	pairs := BuildPairs(valid)
	hours := CalculateDayHours(pairs, mode, anomalies)

	kinds := make([]string, 0, len(anomalies))
	descriptions := make([]string, 0, len(anomalies))
	for _, an := range anomalies {
		kinds = append(kinds, string(an.Kind))
		descriptions = append(descriptions, an.Description)
	}

	if pairs == nil {
		pairs = []attendance.PunchPair{}
	}

	record := attendance.DailyAttendance{
		EmployeeID:   employeeID,
		Date:         date,
		WorkedHours:  hours,
		HasErrors:    len(anomalies) > 0,
		ErrorKinds:   strings.Join(kinds, ", "),
		Observations: strings.Join(descriptions, "; "),
		RawPairs:     pairs,
		Mode:         mode,
	}

	slots := []struct{ entry, exit **time.Time }{
		{&record.Entry1, &record.Exit1},
		{&record.Entry2, &record.Exit2},
		{&record.Entry3, &record.Exit3},
	}
	for i := 0; i < len(pairs) && i < attendance.MaxShiftSlots; i++ {
		*slots[i].entry = pairs[i].Entry
		*slots[i].exit = pairs[i].Exit
	}

	return record, anomalies
}

// ComputeRollup aggregates the full stored set of an employee's days in one month.
func ComputeRollup(employeeID string, ym attendance.YearMonth, days []attendance.DailyAttendance) attendance.MonthlyRollup {
	rollup := attendance.MonthlyRollup{
		EmployeeID: employeeID,
		Year:       ym.Year,
		Month:      ym.Month,
	}

	total := decimal.Zero
	for _, d := range days {
		if d.WorkedHours > 0 {
			rollup.DaysWorked++
		}
		if d.HasErrors {
			rollup.DaysWithErrors++
		}
		total = total.Add(decimal.NewFromFloat(d.WorkedHours))
	}
	rollup.TotalHours = total.Round(2).InexactFloat64()

	return rollup
}
