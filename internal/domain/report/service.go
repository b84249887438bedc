package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// Generate renders the PDF for one employee and date range, stores it and records it
	Generate(ctx context.Context, req GenerateRequest) (GeneratedReport, error)
}
