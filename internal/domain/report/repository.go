package report

import "context"

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	Create(ctx context.Context, r Report) (Report, error)
}
