package attendance

import (
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(clock string) time.Time {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		panic(err)
	}
	return testDay.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func entry(clock string) punch.Canonical {
	return punch.Canonical{ExternalID: "E1", Timestamp: at(clock), Direction: punch.DirectionEntry, Classification: punch.ClassificationValid}
}

func exit(clock string) punch.Canonical {
	return punch.Canonical{ExternalID: "E1", Timestamp: at(clock), Direction: punch.DirectionExit, Classification: punch.ClassificationValid}
}

func tagged(p punch.Canonical, c punch.Classification) punch.Canonical {
	p.Classification = c
	return p
}

func kinds(anomalies []attendance.Anomaly) []attendance.AnomalyKind {
	out := make([]attendance.AnomalyKind, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, a.Kind)
	}
	return out
}

func run(day []punch.Canonical, mode attendance.CalculationMode) ([]attendance.PunchPair, []attendance.Anomaly, float64) {
	valid := ValidSorted(day)
	anomalies := DetectAnomalies(day, valid)
	pairs := BuildPairs(valid)
	return pairs, anomalies, CalculateDayHours(pairs, mode, anomalies)
}

// ===== END-TO-END DAYS =====

func TestDay_TwoCompleteShifts(t *testing.T) {
	day := []punch.Canonical{exit("17:00"), entry("13:00"), exit("12:00"), entry("08:00")}

	pairs, anomalies, hours := run(day, attendance.ModeTolerant)

	require.Len(t, pairs, 2)
	assert.True(t, pairs[0].Complete)
	assert.True(t, pairs[1].Complete)
	assert.Equal(t, 4.0, pairs[0].Hours)
	assert.Equal(t, at("08:00"), *pairs[0].Entry)
	assert.Equal(t, at("17:00"), *pairs[1].Exit)
	assert.Empty(t, anomalies)
	assert.Equal(t, 8.0, hours)
}

func TestDay_TwoEntriesNoExit(t *testing.T) {
	day := []punch.Canonical{entry("08:00"), entry("09:00")}

	pairs, anomalies, hours := run(day, attendance.ModeTolerant)

	require.Len(t, pairs, 2)
	for i, clock := range []string{"08:00", "09:00"} {
		assert.False(t, pairs[i].Complete)
		assert.Equal(t, at(clock), *pairs[i].Entry)
		assert.Nil(t, pairs[i].Exit)
		assert.Zero(t, pairs[i].Hours)
	}

	require.Len(t, anomalies, 2)
	assert.Equal(t, attendance.AnomalyEntryWithoutExit, anomalies[0].Kind)
	assert.Equal(t, "08:00", anomalies[0].ClockTime)
	assert.Equal(t, attendance.AnomalyEntryWithoutExit, anomalies[1].Kind)
	assert.Equal(t, "09:00", anomalies[1].ClockTime)

	assert.Equal(t, 16.0, hours)
	assert.Equal(t, 0.0, CalculateDayHours(pairs, attendance.ModeStrict, anomalies))
}

// ===== ANOMALY DETECTION =====

func TestDetectAnomalies_EmissionOrder(t *testing.T) {
	day := []punch.Canonical{
		tagged(entry("07:00"), punch.ClassificationDuplicate),
		exit("06:00"),
		tagged(exit("10:00"), punch.ClassificationInvalid),
		entry("08:00"),
		tagged(entry("07:30"), punch.ClassificationInvalid),
		tagged(exit("11:00"), punch.ClassificationDuplicate),
	}

	anomalies := DetectAnomalies(day, ValidSorted(day))

	assert.Equal(t, []attendance.AnomalyKind{
		attendance.AnomalyInvalid,
		attendance.AnomalyInvalid,
		attendance.AnomalyDuplicate,
		attendance.AnomalyDuplicate,
		attendance.AnomalyExitWithoutEntry,
		attendance.AnomalyEntryWithoutExit,
	}, kinds(anomalies))

	assert.Equal(t, "10:00", anomalies[0].ClockTime)
	assert.Equal(t, "07:30", anomalies[1].ClockTime)
	assert.Equal(t, "07:00", anomalies[2].ClockTime)
	assert.Equal(t, "11:00", anomalies[3].ClockTime)
	assert.Equal(t, "06:00", anomalies[4].ClockTime)
	assert.Equal(t, "08:00", anomalies[5].ClockTime)
	assert.Same(t, &day[2], anomalies[0].Punch)
}

func TestDetectAnomalies_InvalidPunchesDoNotPair(t *testing.T) {
	day := []punch.Canonical{entry("08:00"), tagged(exit("12:00"), punch.ClassificationInvalid)}

	pairs, anomalies, hours := run(day, attendance.ModeTolerant)

	assert.Equal(t, []attendance.AnomalyKind{attendance.AnomalyInvalid, attendance.AnomalyEntryWithoutExit}, kinds(anomalies))
	require.Len(t, pairs, 1)
	assert.Nil(t, pairs[0].Exit)
	assert.Equal(t, 8.0, hours)
}

func TestDetectAnomalies_ExitOnly(t *testing.T) {
	pairs, anomalies, hours := run([]punch.Canonical{exit("17:00")}, attendance.ModeTolerant)

	assert.Equal(t, []attendance.AnomalyKind{attendance.AnomalyExitWithoutEntry}, kinds(anomalies))
	require.Len(t, pairs, 1)
	assert.Nil(t, pairs[0].Entry)
	assert.Equal(t, at("17:00"), *pairs[0].Exit)
	assert.Equal(t, 8.0, hours)
}

func TestDetectAnomalies_OnlyFlaggedPunches(t *testing.T) {
	day := []punch.Canonical{tagged(entry("08:00"), punch.ClassificationInvalid)}

	pairs, anomalies, hours := run(day, attendance.ModeTolerant)

	assert.Equal(t, []attendance.AnomalyKind{attendance.AnomalyInvalid}, kinds(anomalies))
	assert.Empty(t, pairs)
	assert.Zero(t, hours)
}

func TestDetectAnomalies_UnknownTagIgnored(t *testing.T) {
	day := []punch.Canonical{entry("08:00"), tagged(exit("10:00"), "Tarde"), exit("16:00")}

	pairs, anomalies, hours := run(day, attendance.ModeStrict)

	assert.Empty(t, anomalies)
	require.Len(t, pairs, 1)
	assert.Equal(t, at("16:00"), *pairs[0].Exit)
	assert.Equal(t, 8.0, hours)
}

// ===== PAIRING PROPERTIES =====

func TestPairing_AlternatingCyclesRoundTrip(t *testing.T) {
	for n := 0; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d cycles", n), func(t *testing.T) {
			var day []punch.Canonical
			for i := 0; i < n; i++ {
				day = append(day,
					entry(fmt.Sprintf("%02d:00", 2+i*3)),
					exit(fmt.Sprintf("%02d:30", 3+i*3)),
				)
			}

			pairs, anomalies, hours := run(day, attendance.ModeStrict)

			require.Len(t, pairs, n)
			for _, p := range pairs {
				assert.True(t, p.Complete)
				assert.Equal(t, 1.5, p.Hours)
			}
			assert.Empty(t, anomalies)
			assert.InDelta(t, 1.5*float64(n), hours, 0.001)
		})
	}
}

func TestPairing_EqualTimestampsKeepInputOrder(t *testing.T) {
	day := []punch.Canonical{entry("08:00"), exit("08:00")}

	pairs, anomalies, _ := run(day, attendance.ModeTolerant)

	assert.Empty(t, anomalies)
	require.Len(t, pairs, 1)
	assert.True(t, pairs[0].Complete)
	assert.Zero(t, pairs[0].Hours)
}

func TestHoursBetween(t *testing.T) {
	tests := []struct {
		name        string
		entry, exit string
		want        float64
	}{
		{"four hours", "08:00", "12:00", 4.0},
		{"overnight", "22:00", "06:00", 8.0},
		{"one third", "08:00", "08:20", 0.33},
		{"rounds up", "08:00", "08:01", 0.02},
		{"five sixths", "08:00", "08:50", 0.83},
		{"same instant", "09:00", "09:00", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HoursBetween(at(tt.entry), at(tt.exit)))
		})
	}
}

func TestPairing_OvernightSameDate(t *testing.T) {
	day := []punch.Canonical{exit("06:00"), entry("22:00")}

	// Sorted ascending, the exit comes first: it cannot pair with the later entry.
	pairs, _, _ := run(day, attendance.ModeTolerant)
	require.Len(t, pairs, 2)
	assert.False(t, pairs[0].Complete)

	// Out-of-order clock times on one pair still wrap forward.
	assert.Equal(t, 8.0, HoursBetween(at("22:00"), at("06:00")))
}

// ===== HOURS CALCULATION =====

func TestCalculateDayHours_StrictZeroesAnyAnomaly(t *testing.T) {
	days := [][]punch.Canonical{
		{entry("08:00")},
		{exit("17:00")},
		{entry("08:00"), exit("17:00"), tagged(exit("17:01"), punch.ClassificationDuplicate)},
		{entry("08:00"), exit("12:00"), tagged(entry("12:30"), punch.ClassificationInvalid)},
		{entry("08:00"), entry("09:00"), exit("17:00")},
	}

	for i, day := range days {
		_, anomalies, hours := run(day, attendance.ModeStrict)
		require.NotEmpty(t, anomalies, "day %d", i)
		assert.Equal(t, 0.0, hours, "day %d", i)
	}
}

func TestCalculateDayHours_TolerantDanglingEntry(t *testing.T) {
	_, _, hours := run([]punch.Canonical{entry("08:00")}, attendance.ModeTolerant)
	assert.Equal(t, 8.0, hours)

	_, _, hours = run([]punch.Canonical{entry("08:00")}, attendance.ModeStrict)
	assert.Equal(t, 0.0, hours)
}

func TestCalculateDayHours_TolerantMixesCompleteAndDefault(t *testing.T) {
	day := []punch.Canonical{entry("08:00"), entry("09:00"), exit("13:30")}

	pairs, _, hours := run(day, attendance.ModeTolerant)

	require.Len(t, pairs, 2)
	assert.Equal(t, 4.5, pairs[1].Hours)
	assert.Equal(t, 12.5, hours)
}

func TestCalculateDayHours_StrictIncompleteWithoutAnomalies(t *testing.T) {
	// Detection always flags incomplete pairs; this reaches the branch directly.
	start, end := at("08:00"), at("10:00")
	pairs := []attendance.PunchPair{
		{Entry: &start},
		{Entry: &start, Exit: &end, Hours: 2, Complete: true},
	}

	assert.Equal(t, 2.0, CalculateDayHours(pairs, attendance.ModeStrict, nil))
	assert.Equal(t, 10.0, CalculateDayHours(pairs, attendance.ModeTolerant, nil))
}

// ===== DAY RECORD =====

func TestBuildDailyAttendance_SlotsAndOverflow(t *testing.T) {
	day := []punch.Canonical{
		entry("06:00"), exit("07:00"),
		entry("08:00"), exit("09:00"),
		entry("10:00"), exit("11:00"),
		entry("12:00"), exit("13:00"),
	}

	record, anomalies := BuildDailyAttendance("emp-1", testDay, day, attendance.ModeTolerant)

	assert.Empty(t, anomalies)
	assert.Equal(t, 4.0, record.WorkedHours)
	assert.False(t, record.HasErrors)
	require.Len(t, record.RawPairs, 4)
	assert.Equal(t, at("06:00"), *record.Entry1)
	assert.Equal(t, at("09:00"), *record.Exit2)
	assert.Equal(t, at("11:00"), *record.Exit3)
	assert.Equal(t, "emp-1", record.EmployeeID)
	assert.Equal(t, attendance.ModeTolerant, record.Mode)
}

func TestBuildDailyAttendance_Summaries(t *testing.T) {
	day := []punch.Canonical{entry("08:00"), tagged(exit("12:00"), punch.ClassificationDuplicate)}

	record, _ := BuildDailyAttendance("emp-1", testDay, day, attendance.ModeStrict)

	assert.True(t, record.HasErrors)
	assert.Equal(t, "duplicate, entry_without_exit", record.ErrorKinds)
	assert.Equal(t, "Duplicate punch; Last entry at 08:00 without exit", record.Observations)
	assert.Zero(t, record.WorkedHours)
	assert.Nil(t, record.Exit1)
}

func TestBuildDailyAttendance_EmptyPairsNotNil(t *testing.T) {
	record, _ := BuildDailyAttendance("emp-1", testDay, []punch.Canonical{tagged(entry("08:00"), punch.ClassificationInvalid)}, attendance.ModeTolerant)

	assert.NotNil(t, record.RawPairs)
	assert.Empty(t, record.RawPairs)
}
