package report

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
)

// Report is the stored record of a generated PDF.
type Report struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Mode       attendance.CalculationMode
	DaysWorked int
	TotalHours float64
	FileName   string
	FileURL    string
	CreatedAt  time.Time
}

// Row is one day line of the report table.
type Row struct {
	Date        time.Time
	Slots       [attendance.MaxShiftSlots][2]*time.Time
	Hours       float64
	HasErrors   bool
	Observation string
}

// Data is everything the renderer needs. It carries no storage handles.
type Data struct {
	Employee    employee.Employee
	StartDate   time.Time
	EndDate     time.Time
	Mode        attendance.CalculationMode
	Rows        []Row
	DaysWorked  int
	TotalHours  float64
	GeneratedAt time.Time
}
