package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	reportDir  = "reports"
)

type ReportServiceImpl struct {
	report.ReportRepository
	employeeRepo employee.EmployeeRepository
	dayRepo      attendance.DailyAttendanceRepository
	fileStorage  storage.FileStorage
	now          func() time.Time
}

func NewReportService(
	reportRepo report.ReportRepository,
	employeeRepo employee.EmployeeRepository,
	dayRepo attendance.DailyAttendanceRepository,
	fileStorage storage.FileStorage,
) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository: reportRepo,
		employeeRepo:     employeeRepo,
		dayRepo:          dayRepo,
		fileStorage:      fileStorage,
		now:              time.Now,
	}
}

// Generate implements report.ReportService.
func (s *ReportServiceImpl) Generate(ctx context.Context, req report.GenerateRequest) (report.GeneratedReport, error) {
	if err := req.Validate(); err != nil {
		return report.GeneratedReport{}, err
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	mode, err := attendance.ParseMode(req.Mode)
	if err != nil {
		return report.GeneratedReport{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return report.GeneratedReport{}, err
		}
		return report.GeneratedReport{}, fmt.Errorf("failed to get employee: %w", err)
	}

	days, err := s.dayRepo.ListByEmployeeRange(ctx, emp.ID, start, end)
	if err != nil {
		return report.GeneratedReport{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	data := BuildReportData(emp, days, start, end, mode, s.now())

	var buf bytes.Buffer
	if err := RenderPDF(&buf, data); err != nil {
		return report.GeneratedReport{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	fileName := FileName(emp.ExternalID, start, mode)
	path, err := s.fileStorage.Upload(ctx, bytes.NewReader(buf.Bytes()), reportDir+"/"+fileName, "application/pdf")
	if err != nil {
		return report.GeneratedReport{}, fmt.Errorf("failed to store report: %w", err)
	}

	url, err := s.fileStorage.GetURL(ctx, path, 0)
	if err != nil {
		return report.GeneratedReport{}, fmt.Errorf("failed to get report url: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return report.GeneratedReport{}, fmt.Errorf("failed to generate report id: %w", err)
	}

	record, err := s.ReportRepository.Create(ctx, report.Report{
		ID:         id.String(),
		EmployeeID: emp.ID,
		StartDate:  start,
		EndDate:    end,
		Mode:       mode,
		DaysWorked: data.DaysWorked,
		TotalHours: data.TotalHours,
		FileName:   fileName,
		FileURL:    url,
	})
	if err != nil {
		if delErr := s.fileStorage.Delete(ctx, path); delErr != nil {
			slog.Warn("Failed to remove orphaned report file", "path", path, "error", delErr)
		}
		return report.GeneratedReport{}, fmt.Errorf("failed to record report: %w", err)
	}

	slog.Info("Report generated",
		"report_id", record.ID,
		"employee_id", emp.ID,
		"mode", mode,
		"days_worked", data.DaysWorked,
		"total_hours", data.TotalHours,
	)

	return report.GeneratedReport{
		Report:   record,
		FileName: fileName,
		Content:  buf.Bytes(),
	}, nil
}

// FileName builds report_<externalID>_<start>_<mode>.pdf.
func FileName(externalID string, start time.Time, mode attendance.CalculationMode) string {
	safeID := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-':
			return r
		}
		return '_'
	}, externalID)
	return fmt.Sprintf("report_%s_%s_%s.pdf", safeID, start.Format(dateLayout), mode)
}
