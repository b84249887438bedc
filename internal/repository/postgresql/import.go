package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/importing"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const importColumns = `id, file_name, format, mode, status, period_start, period_end,
	total_rows, skipped_rows, total_punches, valid_punches, invalid_punches, duplicate_punches,
	employees, employees_with_department, days_processed, days_with_errors,
	error_message, created_at, finished_at`

type importRepositoryImpl struct {
	db *database.DB
}

func NewImportRepository(db *database.DB) importing.ImportRepository {
	return &importRepositoryImpl{db: db}
}

func scanImport(row pgx.Row) (importing.Import, error) {
	var imp importing.Import
	err := row.Scan(
		&imp.ID, &imp.FileName, &imp.Format, &imp.Mode, &imp.Status, &imp.PeriodStart, &imp.PeriodEnd,
		&imp.Stats.TotalRows, &imp.Stats.SkippedRows, &imp.Stats.TotalPunches, &imp.Stats.ValidPunches,
		&imp.Stats.InvalidPunches, &imp.Stats.DuplicatePunches, &imp.Stats.Employees,
		&imp.Stats.EmployeesWithDepartment, &imp.Stats.DaysProcessed, &imp.Stats.DaysWithErrors,
		&imp.ErrorMessage, &imp.CreatedAt, &imp.FinishedAt,
	)
	return imp, err
}

// Create implements importing.ImportRepository.
func (r *importRepositoryImpl) Create(ctx context.Context, imp importing.Import) (importing.Import, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO imports (
			id, file_name, format, mode, status, period_start, period_end,
			total_rows, skipped_rows, total_punches, valid_punches, invalid_punches, duplicate_punches,
			employees, employees_with_department
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + importColumns

	s := imp.Stats
	created, err := scanImport(q.QueryRow(ctx, query,
		imp.ID, imp.FileName, string(imp.Format), string(imp.Mode), string(imp.Status), imp.PeriodStart, imp.PeriodEnd,
		s.TotalRows, s.SkippedRows, s.TotalPunches, s.ValidPunches, s.InvalidPunches, s.DuplicatePunches,
		s.Employees, s.EmployeesWithDepartment,
	))
	if err != nil {
		return importing.Import{}, fmt.Errorf("failed to create import: %w", err)
	}
	return created, nil
}

// Finish implements importing.ImportRepository.
func (r *importRepositoryImpl) Finish(ctx context.Context, imp importing.Import) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE imports SET
			status = $2,
			days_processed = $3,
			days_with_errors = $4,
			error_message = $5,
			finished_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, imp.ID, string(imp.Status), imp.Stats.DaysProcessed, imp.Stats.DaysWithErrors, imp.ErrorMessage)
	if err != nil {
		return fmt.Errorf("failed to finish import %s: %w", imp.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import %s not found", imp.ID)
	}
	return nil
}

// List implements importing.ImportRepository.
func (r *importRepositoryImpl) List(ctx context.Context, limit int) ([]importing.Import, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+importColumns+` FROM imports ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var imports []importing.Import
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return imports, nil
}
