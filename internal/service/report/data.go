package report

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

// ObservationOK marks a clean day in strict reports.
const ObservationOK = "OK"

// BuildReportData applies the report mode to stored days, which must be ordered by date.
//
// Tolerant: a day counts as worked when it has hours, and every day's hours are summed.
// Strict: a day counts as worked when it has no errors, error days show and sum zero hours,
// and each row carries an observation.
func BuildReportData(emp employee.Employee, days []attendance.DailyAttendance, start, end time.Time, mode attendance.CalculationMode, generatedAt time.Time) report.Data {
	data := report.Data{
		Employee:    emp,
		StartDate:   start,
		EndDate:     end,
		Mode:        mode,
		Rows:        make([]report.Row, 0, len(days)),
		GeneratedAt: generatedAt,
	}

	total := decimal.Zero
	for _, d := range days {
		row := report.Row{
			Date:      d.Date,
			Hours:     d.WorkedHours,
			HasErrors: d.HasErrors,
		}
		for i := 0; i < attendance.MaxShiftSlots; i++ {
			entry, exit := d.Slot(i + 1)
			row.Slots[i] = [2]*time.Time{entry, exit}
		}

		if mode == attendance.ModeStrict {
			if d.HasErrors {
				row.Hours = 0
				row.Observation = d.ErrorKinds
				if row.Observation == "" {
					row.Observation = "Error"
				}
			} else {
				row.Observation = ObservationOK
				data.DaysWorked++
			}
		} else if d.WorkedHours > 0 {
			data.DaysWorked++
		}

		total = total.Add(decimal.NewFromFloat(row.Hours))
		data.Rows = append(data.Rows, row)
	}
	data.TotalHours = total.Round(2).InexactFloat64()

	return data
}
