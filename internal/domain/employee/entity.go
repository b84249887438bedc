package employee

import (
	"time"
)

// Employee is keyed by the external ID printed on the time clock export (national ID).
type Employee struct {
	ID           string
	ExternalID   string
	RosterNumber *string
	Surname      string
	GivenName    string
	Department   *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName renders "Surname, Given" unless both halves are the same string.
func (e Employee) FullName() string {
	if e.Surname == e.GivenName {
		return e.Surname
	}
	return e.Surname + ", " + e.GivenName
}

// EmployeeWithStats adds lifetime totals from the monthly rollups.
type EmployeeWithStats struct {
	Employee
	TotalDaysWorked int
	TotalHours      float64
	DaysWithErrors  int
}
