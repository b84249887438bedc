package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// Create implements report.ReportRepository.
func (r *reportRepositoryImpl) Create(ctx context.Context, rep report.Report) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reports (id, employee_id, start_date, end_date, mode, days_worked, total_hours, file_name, file_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		rep.ID, rep.EmployeeID, rep.StartDate, rep.EndDate, string(rep.Mode),
		rep.DaysWorked, rep.TotalHours, rep.FileName, rep.FileURL,
	).Scan(&rep.CreatedAt)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to create report: %w", err)
	}
	return rep, nil
}
