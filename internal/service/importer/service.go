package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/importing"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/service/normalizer"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// EmployeeProcessor turns one employee's punches into stored days and rollups.
type EmployeeProcessor interface {
	ProcessEmployee(ctx context.Context, employeeID string, punches []punch.Canonical, mode attendance.CalculationMode) ([]attendance.DailyAttendance, error)
}

type ImportServiceImpl struct {
	importing.ImportRepository
	punch.RawRepository
	employee.EmployeeRepository
	attendance.TxRunner

	processor   EmployeeProcessor
	workers     int
	defaultMode attendance.CalculationMode
}

// run is the common tail of Import and ImportDual once punches are normalized.
type run struct {
	fileName    string
	schema      punch.Schema
	mode        attendance.CalculationMode
	periodStart *time.Time
	periodEnd   *time.Time
	totalRows   int
	results     []punch.RowResult
	punches     []punch.Canonical
}

// Import implements importing.ImportService.
func (s *ImportServiceImpl) Import(ctx context.Context, req importing.ImportRequest) (importing.ImportResult, error) {
	if err := req.Validate(); err != nil {
		return importing.ImportResult{}, err
	}

	schema, err := normalizer.Prepare(req.Rows, "")
	if err != nil {
		return importing.ImportResult{}, err
	}
	slog.Info("Time clock format detected", "file", req.FileName, "format", schema, "rows", len(req.Rows))

	results := normalizer.NormalizeRows(req.Rows, schema)

	return s.process(ctx, run{
		fileName:    req.FileName,
		schema:      schema,
		mode:        s.resolveMode(req.Mode),
		periodStart: parseOptionalDate(req.PeriodStart),
		periodEnd:   parseOptionalDate(req.PeriodEnd),
		totalRows:   len(req.Rows),
		results:     results,
		punches:     normalizer.Punches(results),
	})
}

// ImportDual implements importing.ImportService.
func (s *ImportServiceImpl) ImportDual(ctx context.Context, req importing.DualImportRequest) (importing.ImportResult, error) {
	if err := req.Validate(); err != nil {
		return importing.ImportResult{}, err
	}

	lookupSchema, err := normalizer.Prepare(req.WithoutErrorsRows, "")
	if err != nil {
		return importing.ImportResult{}, fmt.Errorf("%s: %w", req.WithoutErrorsFileName, err)
	}
	if lookupSchema != punch.SchemaWithoutErrors {
		return importing.ImportResult{}, fmt.Errorf("%w: %s is %s", importing.ErrDualSchemaMismatch, req.WithoutErrorsFileName, lookupSchema)
	}

	schema, err := normalizer.Prepare(req.WithErrorsRows, "")
	if err != nil {
		return importing.ImportResult{}, fmt.Errorf("%s: %w", req.WithErrorsFileName, err)
	}
	if schema != punch.SchemaWithErrors {
		return importing.ImportResult{}, fmt.Errorf("%w: %s is %s", importing.ErrDualSchemaMismatch, req.WithErrorsFileName, schema)
	}

	lookup := normalizer.BuildDepartmentLookup(
		normalizer.Punches(normalizer.NormalizeRows(req.WithoutErrorsRows, lookupSchema)),
	)
	slog.Info("Department lookup built", "file", req.WithoutErrorsFileName, "employees", len(lookup))

	results := normalizer.NormalizeRows(req.WithErrorsRows, schema)
	punches := normalizer.MergeDepartments(normalizer.Punches(results), lookup)

	return s.process(ctx, run{
		fileName:    fmt.Sprintf("DUAL: %s + %s", req.WithoutErrorsFileName, req.WithErrorsFileName),
		schema:      schema,
		mode:        s.resolveMode(req.Mode),
		periodStart: parseOptionalDate(req.PeriodStart),
		periodEnd:   parseOptionalDate(req.PeriodEnd),
		totalRows:   len(req.WithErrorsRows),
		results:     results,
		punches:     punches,
	})
}

func (s *ImportServiceImpl) process(ctx context.Context, r run) (importing.ImportResult, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return importing.ImportResult{}, fmt.Errorf("failed to generate import id: %w", err)
	}

	imp := importing.Import{
		ID:          id.String(),
		FileName:    r.fileName,
		Format:      r.schema,
		Mode:        r.mode,
		Status:      importing.StatusProcessing,
		PeriodStart: r.periodStart,
		PeriodEnd:   r.periodEnd,
		Stats:       ComputeStats(r.totalRows, r.punches),
	}

	imp, err = s.ImportRepository.Create(ctx, imp)
	if err != nil {
		return importing.ImportResult{}, fmt.Errorf("failed to create import record: %w", err)
	}

	if _, err := s.RawRepository.BulkCreate(ctx, imp.ID, r.punches); err != nil {
		return importing.ImportResult{}, s.fail(ctx, imp, fmt.Errorf("failed to store raw punches: %w", err))
	}

	days, withErrors, err := s.processEmployees(ctx, r.punches, r.mode)
	if err != nil {
		return importing.ImportResult{}, s.fail(ctx, imp, err)
	}

	imp.Stats.DaysProcessed = days
	imp.Stats.DaysWithErrors = withErrors
	imp.Status = importing.StatusCompleted
	if err := s.ImportRepository.Finish(ctx, imp); err != nil {
		return importing.ImportResult{}, fmt.Errorf("failed to finish import record: %w", err)
	}

	slog.Info("Import completed",
		"import_id", imp.ID,
		"file", imp.FileName,
		"format", imp.Format,
		"mode", imp.Mode,
		"punches", imp.Stats.TotalPunches,
		"skipped", imp.Stats.SkippedRows,
		"employees", imp.Stats.Employees,
		"days", days,
	)

	return importing.ImportResult{
		Import:  ToImportResponse(imp),
		Schema:  r.schema,
		Stats:   imp.Stats,
		Skipped: skippedRows(r.results),
		Message: fmt.Sprintf("Processed %d punches from %d employees (format: %s)",
			imp.Stats.TotalPunches, imp.Stats.Employees, r.schema),
	}, nil
}

// processEmployees runs employees concurrently, bounded by the worker count. The punches
// of one employee are handled by a single goroutine inside one transaction.
func (s *ImportServiceImpl) processEmployees(ctx context.Context, punches []punch.Canonical, mode attendance.CalculationMode) (int, int, error) {
	groups := normalizer.GroupByEmployee(punches)
	externalIDs := make([]string, 0, len(groups))
	for id := range groups {
		externalIDs = append(externalIDs, id)
	}
	sort.Strings(externalIDs)

	var (
		mu         sync.Mutex
		days       int
		withErrors int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, externalID := range externalIDs {
		group := groups[externalID]
		g.Go(func() error {
			saved, err := s.processEmployee(gctx, group, mode)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			days += len(saved)
			for _, d := range saved {
				if d.HasErrors {
					withErrors++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return days, withErrors, nil
}

func (s *ImportServiceImpl) processEmployee(ctx context.Context, punches []punch.Canonical, mode attendance.CalculationMode) ([]attendance.DailyAttendance, error) {
	emp := EmployeeFromPunches(punches)

	var saved []attendance.DailyAttendance
	err := s.TxRunner.RunInTx(ctx, func(ctx context.Context) error {
		stored, err := s.EmployeeRepository.Upsert(ctx, emp)
		if err != nil {
			return fmt.Errorf("failed to upsert employee %s: %w", emp.ExternalID, err)
		}

		saved, err = s.processor.ProcessEmployee(ctx, stored.ID, punches, mode)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *ImportServiceImpl) fail(ctx context.Context, imp importing.Import, cause error) error {
	msg := cause.Error()
	imp.Status = importing.StatusFailed
	imp.ErrorMessage = &msg

	slog.Error("Import failed", "import_id", imp.ID, "file", imp.FileName, "error", cause)
	if err := s.ImportRepository.Finish(context.WithoutCancel(ctx), imp); err != nil {
		slog.Error("Failed to mark import as failed", "import_id", imp.ID, "error", err)
	}
	return cause
}

func (s *ImportServiceImpl) resolveMode(mode string) attendance.CalculationMode {
	if mode == "" {
		return s.defaultMode
	}
	return attendance.CalculationMode(mode)
}

// ListImports implements importing.ImportService.
func (s *ImportServiceImpl) ListImports(ctx context.Context, filter importing.ImportFilter) ([]importing.ImportResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	imports, err := s.ImportRepository.List(ctx, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}

	out := make([]importing.ImportResponse, 0, len(imports))
	for _, imp := range imports {
		out = append(out, ToImportResponse(imp))
	}
	return out, nil
}

func NewImportService(
	importRepo importing.ImportRepository,
	rawRepo punch.RawRepository,
	employeeRepo employee.EmployeeRepository,
	txRunner attendance.TxRunner,
	processor EmployeeProcessor,
	workers int,
	defaultMode attendance.CalculationMode,
) importing.ImportService {
	if workers < 1 {
		workers = 1
	}
	if !defaultMode.IsValid() {
		defaultMode = attendance.ModeTolerant
	}
	return &ImportServiceImpl{
		ImportRepository:   importRepo,
		RawRepository:      rawRepo,
		EmployeeRepository: employeeRepo,
		TxRunner:           txRunner,
		processor:          processor,
		workers:            workers,
		defaultMode:        defaultMode,
	}
}
