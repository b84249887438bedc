package attendance

import (
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID           string      `json:"id"`
	EmployeeID   string      `json:"employee_id"`
	ExternalID   *string     `json:"external_id,omitempty"`
	EmployeeName *string     `json:"employee_name,omitempty"`
	Department   *string     `json:"department,omitempty"`
	Date         string      `json:"date"`
	Entry1       *string     `json:"entry_1"`
	Exit1        *string     `json:"exit_1"`
	Entry2       *string     `json:"entry_2"`
	Exit2        *string     `json:"exit_2"`
	Entry3       *string     `json:"entry_3"`
	Exit3        *string     `json:"exit_3"`
	WorkedHours  float64     `json:"worked_hours"`
	HasErrors    bool        `json:"has_errors"`
	ErrorKinds   string      `json:"error_kinds,omitempty"`
	Observations string      `json:"observations,omitempty"`
	Mode         string      `json:"mode"`
	Pairs        []PunchPair `json:"pairs"`
	UpdatedAt    string      `json:"updated_at"`
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Limit      int     `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 100 // Default limit
	}
	if f.Limit > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 1000",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RollupResponse struct {
	EmployeeID     string  `json:"employee_id"`
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	DaysWorked     int     `json:"days_worked"`
	TotalHours     float64 `json:"total_hours"`
	DaysWithErrors int     `json:"days_with_errors"`
	UpdatedAt      string  `json:"updated_at"`
}

type RollupFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Month      *int    `json:"month,omitempty"`
}

func (f *RollupFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StatsResponse struct {
	TotalEmployees int64 `json:"total_employees"`
	TotalPunches   int64 `json:"total_punches"`
	DaysWithErrors int64 `json:"days_with_errors"`
}
