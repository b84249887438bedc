package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/shopspring/decimal"
)

const (
	clockLayout = "15:04"

	// DefaultIncompleteHours is credited in tolerant mode for a pair missing one side.
	DefaultIncompleteHours = 8
)

var msPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

// ValidSorted filters the valid punches of a day and sorts them by timestamp.
// The sort is stable so equal timestamps keep input order. Both DetectAnomalies and
// BuildPairs consume this one value.
func ValidSorted(day []punch.Canonical) []punch.Canonical {
	valid := make([]punch.Canonical, 0, len(day))
	for _, p := range day {
		if p.IsValid() {
			valid = append(valid, p)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Timestamp.Before(valid[j].Timestamp)
	})
	return valid
}

// DetectAnomalies scans one employee-day. Emission order: invalid punches, duplicate
// punches (both in input order), then entry/exit sequence problems over validSorted.
func DetectAnomalies(day []punch.Canonical, validSorted []punch.Canonical) []attendance.Anomaly {
	var anomalies []attendance.Anomaly

	for i := range day {
		if day[i].Classification == punch.ClassificationInvalid {
			anomalies = append(anomalies, attendance.Anomaly{
				Kind:        attendance.AnomalyInvalid,
				Description: "Punch flagged invalid by the time clock",
				ClockTime:   day[i].Timestamp.Format(clockLayout),
				Punch:       &day[i],
			})
		}
	}

	for i := range day {
		if day[i].Classification == punch.ClassificationDuplicate {
			anomalies = append(anomalies, attendance.Anomaly{
				Kind:        attendance.AnomalyDuplicate,
				Description: "Duplicate punch",
				ClockTime:   day[i].Timestamp.Format(clockLayout),
				Punch:       &day[i],
			})
		}
	}

	var pending *punch.Canonical
	for i := range validSorted {
		p := &validSorted[i]
		if p.Direction == punch.DirectionEntry {
			if pending != nil {
				clock := pending.Timestamp.Format(clockLayout)
				anomalies = append(anomalies, attendance.Anomaly{
					Kind:        attendance.AnomalyEntryWithoutExit,
					Description: fmt.Sprintf("Entry at %s without matching exit", clock),
					ClockTime:   clock,
					Punch:       pending,
				})
			}
			pending = p
			continue
		}

		if pending == nil {
			anomalies = append(anomalies, attendance.Anomaly{
				Kind:        attendance.AnomalyExitWithoutEntry,
				Description: "Exit without prior entry",
				ClockTime:   p.Timestamp.Format(clockLayout),
				Punch:       p,
			})
		}
		pending = nil
	}

	if pending != nil {
		clock := pending.Timestamp.Format(clockLayout)
		anomalies = append(anomalies, attendance.Anomaly{
			Kind:        attendance.AnomalyEntryWithoutExit,
			Description: fmt.Sprintf("Last entry at %s without exit", clock),
			ClockTime:   clock,
			Punch:       pending,
		})
	}

	return anomalies
}

// BuildPairs reconstructs entry/exit pairs from validSorted in one forward pass.
func BuildPairs(validSorted []punch.Canonical) []attendance.PunchPair {
	var (
		pairs   []attendance.PunchPair
		pending *time.Time
	)

	for _, p := range validSorted {
		ts := p.Timestamp
		if p.Direction == punch.DirectionEntry {
			if pending != nil {
				pairs = append(pairs, attendance.PunchPair{Entry: pending})
			}
			pending = &ts
			continue
		}

		if pending != nil {
			pairs = append(pairs, attendance.PunchPair{
				Entry:    pending,
				Exit:     &ts,
				Hours:    HoursBetween(*pending, ts),
				Complete: true,
			})
			pending = nil
			continue
		}
		pairs = append(pairs, attendance.PunchPair{Exit: &ts})
	}

	if pending != nil {
		pairs = append(pairs, attendance.PunchPair{Entry: pending})
	}

	return pairs
}

// HoursBetween returns the hours from entry to exit rounded to 2 decimals. An exit whose
// clock time precedes the entry is treated as crossing midnight.
func HoursBetween(entry, exit time.Time) float64 {
	diff := exit.Sub(entry).Milliseconds()
	if diff < 0 {
		diff += int64(24 * time.Hour / time.Millisecond)
	}
	return decimal.NewFromInt(diff).Div(msPerHour).Round(2).InexactFloat64()
}

// CalculateDayHours applies the calculation mode to a day's pairs.
func CalculateDayHours(pairs []attendance.PunchPair, mode attendance.CalculationMode, anomalies []attendance.Anomaly) float64 {
	if mode == attendance.ModeStrict && len(anomalies) > 0 {
		return 0
	}

	total := decimal.Zero
	for _, p := range pairs {
		if p.Complete {
			total = total.Add(decimal.NewFromFloat(p.Hours))
			continue
		}
		if mode == attendance.ModeTolerant && (p.Entry == nil) != (p.Exit == nil) {
			total = total.Add(decimal.NewFromInt(DefaultIncompleteHours))
		}
	}

	return total.Round(2).InexactFloat64()
}
