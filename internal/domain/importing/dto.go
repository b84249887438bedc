package importing

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// IMPORT REQUESTS
// ========================================

type ImportRequest struct {
	FileName    string
	Rows        []punch.RawRow
	PeriodStart *string // YYYY-MM-DD
	PeriodEnd   *string // YYYY-MM-DD
	Mode        string
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FileName) {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "file is required",
		})
	}

	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)
	errs = append(errs, validateMode(r.Mode)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DualImportRequest struct {
	WithoutErrorsFileName string
	WithoutErrorsRows     []punch.RawRow
	WithErrorsFileName    string
	WithErrorsRows        []punch.RawRow
	PeriodStart           *string
	PeriodEnd             *string
	Mode                  string
}

func (r *DualImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WithoutErrorsFileName) {
		errs = append(errs, validator.ValidationError{
			Field:   "file_without_errors",
			Message: "file_without_errors is required",
		})
	}
	if validator.IsEmpty(r.WithErrorsFileName) {
		errs = append(errs, validator.ValidationError{
			Field:   "file_with_errors",
			Message: "file_with_errors is required",
		})
	}

	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)
	errs = append(errs, validateMode(r.Mode)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	var startDate, endDate time.Time
	var startOK, endOK bool

	if start != nil && *start != "" {
		if startDate, startOK = validator.IsValidDate(*start); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "period_start",
				Message: "period_start must be in YYYY-MM-DD format",
			})
		}
	}
	if end != nil && *end != "" {
		if endDate, endOK = validator.IsValidDate(*end); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "period_end",
				Message: "period_end must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: ErrInvalidPeriod.Error(),
		})
	}
	return errs
}

func validateMode(mode string) validator.ValidationErrors {
	if mode == "" {
		return nil
	}
	if !attendance.CalculationMode(mode).IsValid() {
		return validator.ValidationErrors{{
			Field:   "mode",
			Message: "mode must be either 'tolerant' or 'strict'",
		}}
	}
	return nil
}

// ========================================
// IMPORT RESULTS
// ========================================

type ImportResult struct {
	Import  ImportResponse `json:"import"`
	Schema  punch.Schema   `json:"format"`
	Stats   Stats          `json:"stats"`
	Skipped []SkippedRow   `json:"skipped"`
	Message string         `json:"message"`
}

type ImportResponse struct {
	ID           string  `json:"id"`
	FileName     string  `json:"file_name"`
	Format       string  `json:"format"`
	Mode         string  `json:"mode"`
	Status       string  `json:"status"`
	PeriodStart  *string `json:"period_start,omitempty"`
	PeriodEnd    *string `json:"period_end,omitempty"`
	Stats        Stats   `json:"stats"`
	ErrorMessage *string `json:"error_message,omitempty"`
	CreatedAt    string  `json:"created_at"`
	FinishedAt   *string `json:"finished_at,omitempty"`
}

type ImportFilter struct {
	Limit int `json:"limit"`
}

func (f *ImportFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
