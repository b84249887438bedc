package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
)

// CalculationMode selects how incomplete and anomalous days turn into hours.
type CalculationMode string

const (
	ModeTolerant CalculationMode = "tolerant"
	ModeStrict   CalculationMode = "strict"
)

func (m CalculationMode) IsValid() bool {
	return m == ModeTolerant || m == ModeStrict
}

// ParseMode maps an empty string to the tolerant default.
func ParseMode(s string) (CalculationMode, error) {
	if s == "" {
		return ModeTolerant, nil
	}
	m := CalculationMode(s)
	if !m.IsValid() {
		return "", ErrInvalidMode
	}
	return m, nil
}

// AnomalyKind classifies a problem detected in an employee-day.
type AnomalyKind string

const (
	AnomalyInvalid          AnomalyKind = "invalid"
	AnomalyDuplicate        AnomalyKind = "duplicate"
	AnomalyEntryWithoutExit AnomalyKind = "entry_without_exit"
	AnomalyExitWithoutEntry AnomalyKind = "exit_without_entry"
)

// Anomaly is one detected problem. Punch points into the caller's slice and is lookup only.
type Anomaly struct {
	Kind        AnomalyKind
	Description string
	ClockTime   string
	Punch       *punch.Canonical
}

// PunchPair is a reconstructed entry/exit boundary. It is the audit payload shape too.
type PunchPair struct {
	Entry    *time.Time `json:"entry"`
	Exit     *time.Time `json:"exit"`
	Hours    float64    `json:"hours"`
	Complete bool       `json:"complete"`
}

// MaxShiftSlots is the number of named entry/exit slots persisted per day.
const MaxShiftSlots = 3

// DailyAttendance is one employee on one calendar day.
type DailyAttendance struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	Entry1       *time.Time
	Exit1        *time.Time
	Entry2       *time.Time
	Exit2        *time.Time
	Entry3       *time.Time
	Exit3        *time.Time
	WorkedHours  float64
	HasErrors    bool
	ErrorKinds   string
	Observations string
	RawPairs     []PunchPair
	Mode         CalculationMode
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	ExternalID   *string
	EmployeeName *string
	Department   *string
}

// Slot returns the entry and exit stored in the 1-based shift slot.
func (d DailyAttendance) Slot(n int) (*time.Time, *time.Time) {
	switch n {
	case 1:
		return d.Entry1, d.Exit1
	case 2:
		return d.Entry2, d.Exit2
	case 3:
		return d.Entry3, d.Exit3
	}
	return nil, nil
}

// MonthlyRollup aggregates one employee's days in a calendar month.
type MonthlyRollup struct {
	ID             string
	EmployeeID     string
	Year           int
	Month          int
	DaysWorked     int
	TotalHours     float64
	DaysWithErrors int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// YearMonth keys rollups.
type YearMonth struct {
	Year  int
	Month int
}

func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}
