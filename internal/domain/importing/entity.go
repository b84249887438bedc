package importing

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Stats summarizes one import run.
type Stats struct {
	TotalRows               int `json:"total_rows"`
	SkippedRows             int `json:"skipped_rows"`
	TotalPunches            int `json:"total_punches"`
	ValidPunches            int `json:"valid_punches"`
	InvalidPunches          int `json:"invalid_punches"`
	DuplicatePunches        int `json:"duplicate_punches"`
	Employees               int `json:"employees"`
	EmployeesWithDepartment int `json:"employees_with_department"`
	DaysProcessed           int `json:"days_processed"`
	DaysWithErrors          int `json:"days_with_errors"`
}

// Import is the audit record of one uploaded file (or file pair).
type Import struct {
	ID           string
	FileName     string
	Format       punch.Schema
	Mode         attendance.CalculationMode
	Status       Status
	PeriodStart  *time.Time
	PeriodEnd    *time.Time
	Stats        Stats
	ErrorMessage *string
	CreatedAt    time.Time
	FinishedAt   *time.Time
}

// SkippedRow reports a row dropped during normalization.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
