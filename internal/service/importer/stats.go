package importer

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/importing"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
)

const dateLayout = "2006-01-02"

// ComputeStats counts punches by classification and distinct employees.
func ComputeStats(totalRows int, punches []punch.Canonical) importing.Stats {
	stats := importing.Stats{
		TotalRows:    totalRows,
		SkippedRows:  totalRows - len(punches),
		TotalPunches: len(punches),
	}

	employees := make(map[string]bool)
	for _, p := range punches {
		switch p.Classification {
		case punch.ClassificationValid:
			stats.ValidPunches++
		case punch.ClassificationInvalid:
			stats.InvalidPunches++
		case punch.ClassificationDuplicate:
			stats.DuplicatePunches++
		}

		hasDept := p.Department != nil && *p.Department != ""
		employees[p.ExternalID] = employees[p.ExternalID] || hasDept
	}

	stats.Employees = len(employees)
	for _, hasDept := range employees {
		if hasDept {
			stats.EmployeesWithDepartment++
		}
	}
	return stats
}

// EmployeeFromPunches takes identity from the first punch and the first non-empty
// department and roster number of the group.
func EmployeeFromPunches(punches []punch.Canonical) employee.Employee {
	if len(punches) == 0 {
		return employee.Employee{}
	}

	first := punches[0]
	emp := employee.Employee{
		ExternalID:   first.ExternalID,
		RosterNumber: first.RosterNumber,
		Surname:      first.Surname,
		GivenName:    first.GivenName,
		Active:       true,
	}
	for _, p := range punches {
		if emp.Department == nil && p.Department != nil && *p.Department != "" {
			emp.Department = p.Department
		}
		if emp.RosterNumber == nil && p.RosterNumber != nil {
			emp.RosterNumber = p.RosterNumber
		}
	}
	return emp
}

func skippedRows(results []punch.RowResult) []importing.SkippedRow {
	out := []importing.SkippedRow{}
	for _, r := range results {
		if r.Skipped() {
			// 1-based data row; the header is not counted.
			out = append(out, importing.SkippedRow{Row: r.Index + 1, Reason: r.Reason})
		}
	}
	return out
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func formatOptionalTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}

func ToImportResponse(imp importing.Import) importing.ImportResponse {
	return importing.ImportResponse{
		ID:           imp.ID,
		FileName:     imp.FileName,
		Format:       string(imp.Format),
		Mode:         string(imp.Mode),
		Status:       string(imp.Status),
		PeriodStart:  formatOptionalTime(imp.PeriodStart, dateLayout),
		PeriodEnd:    formatOptionalTime(imp.PeriodEnd, dateLayout),
		Stats:        imp.Stats,
		ErrorMessage: imp.ErrorMessage,
		CreatedAt:    imp.CreatedAt.Format(time.RFC3339),
		FinishedAt:   formatOptionalTime(imp.FinishedAt, time.RFC3339),
	}
}
