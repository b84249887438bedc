package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/importing"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()

	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, err)
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

func strPtr(s string) *string { return &s }

func at(day, hour, minute int) *time.Time {
	t := time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestEmployeeRepository_UpsertKeepsDepartment(t *testing.T) {
	setup := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	created, err := repo.Upsert(ctx, employee.Employee{
		ExternalID: "12345678",
		Surname:    "Perez",
		GivenName:  "Juan",
		Department: strPtr("Ventas"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)

	updated, err := repo.Upsert(ctx, employee.Employee{
		ExternalID:   "12345678",
		RosterNumber: strPtr("7"),
		Surname:      "Perez",
		GivenName:    "Juan Carlos",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Juan Carlos", updated.GivenName)
	require.NotNil(t, updated.Department)
	assert.Equal(t, "Ventas", *updated.Department)
	require.NotNil(t, updated.RosterNumber)
	assert.Equal(t, "7", *updated.RosterNumber)

	byExternal, err := repo.GetByExternalID(ctx, "12345678")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byExternal.ID)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, employee.ErrEmployeeNotFound))

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDailyAttendanceAndRollupRepositories(t *testing.T) {
	setup := setupDB(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	days := postgresql.NewDailyAttendanceRepository(setup.DB)
	rollups := postgresql.NewMonthlyRollupRepository(setup.DB)

	emp, err := employees.Upsert(ctx, employee.Employee{ExternalID: "1", Surname: "Gomez", GivenName: "Ana"})
	require.NoError(t, err)

	day := attendance.DailyAttendance{
		EmployeeID:  emp.ID,
		Date:        time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Entry1:      at(1, 8, 0),
		Exit1:       at(1, 17, 0),
		WorkedHours: 9,
		RawPairs: []attendance.PunchPair{
			{Entry: at(1, 8, 0), Exit: at(1, 17, 0), Hours: 9, Complete: true},
		},
		Mode: attendance.ModeTolerant,
	}

	first, err := days.Upsert(ctx, day)
	require.NoError(t, err)

	// Re-import with different hours overwrites the same row.
	day.WorkedHours = 8.5
	day.HasErrors = true
	day.ErrorKinds = "duplicate"
	second, err := days.Upsert(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 8.5, second.WorkedHours)
	require.Len(t, second.RawPairs, 1)
	assert.True(t, second.RawPairs[0].Complete)

	month, err := days.ListByEmployeeMonth(ctx, emp.ID, 2024, 3)
	require.NoError(t, err)
	require.Len(t, month, 1)
	assert.True(t, month[0].Entry1.Equal(*at(1, 8, 0)))

	listed, err := days.List(ctx, attendance.AttendanceFilter{EmployeeID: &emp.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].EmployeeName)
	assert.Equal(t, "Gomez, Ana", *listed[0].EmployeeName)

	withErrors, err := days.CountWithErrors(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), withErrors)

	_, err = rollups.Upsert(ctx, attendance.MonthlyRollup{EmployeeID: emp.ID, Year: 2024, Month: 3, DaysWorked: 1, TotalHours: 9})
	require.NoError(t, err)
	saved, err := rollups.Upsert(ctx, attendance.MonthlyRollup{EmployeeID: emp.ID, Year: 2024, Month: 3, DaysWorked: 1, TotalHours: 8.5, DaysWithErrors: 1})
	require.NoError(t, err)
	assert.Equal(t, 8.5, saved.TotalHours)

	year := 2024
	list, err := rollups.List(ctx, attendance.RollupFilter{Year: &year})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].DaysWithErrors)

	withStats, err := employees.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, withStats, 1)
	assert.Equal(t, 8.5, withStats[0].TotalHours)
}

func TestImportRawPunchAndReportRepositories(t *testing.T) {
	setup := setupDB(t)
	ctx := context.Background()
	imports := postgresql.NewImportRepository(setup.DB)
	raw := postgresql.NewRawPunchRepository(setup.DB)
	reports := postgresql.NewReportRepository(setup.DB)
	employees := postgresql.NewEmployeeRepository(setup.DB)

	id, err := uuid.NewV7()
	require.NoError(t, err)

	imp, err := imports.Create(ctx, importing.Import{
		ID:       id.String(),
		FileName: "export.xls",
		Format:   punch.SchemaWithErrors,
		Mode:     attendance.ModeTolerant,
		Status:   importing.StatusProcessing,
		Stats:    importing.Stats{TotalRows: 2, TotalPunches: 2, ValidPunches: 2, Employees: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, importing.StatusProcessing, imp.Status)

	n, err := raw.BulkCreate(ctx, imp.ID, []punch.Canonical{
		{ExternalID: "1", Surname: "Gomez", GivenName: "Ana", Timestamp: *at(1, 8, 0), Direction: punch.DirectionEntry, Classification: punch.ClassificationValid},
		{ExternalID: "1", Surname: "Gomez", GivenName: "Ana", Timestamp: *at(1, 17, 0), Direction: punch.DirectionExit, Classification: punch.ClassificationValid},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := raw.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	imp.Status = importing.StatusCompleted
	imp.Stats.DaysProcessed = 1
	require.NoError(t, imports.Finish(ctx, imp))

	listed, err := imports.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, importing.StatusCompleted, listed[0].Status)
	assert.Equal(t, 1, listed[0].Stats.DaysProcessed)
	assert.NotNil(t, listed[0].FinishedAt)

	emp, err := employees.Upsert(ctx, employee.Employee{ExternalID: "1", Surname: "Gomez", GivenName: "Ana"})
	require.NoError(t, err)

	reportID, err := uuid.NewV7()
	require.NoError(t, err)
	rep, err := reports.Create(ctx, report.Report{
		ID:         reportID.String(),
		EmployeeID: emp.ID,
		StartDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Mode:       attendance.ModeStrict,
		FileName:   "report_1_2024-03-01_strict.pdf",
		FileURL:    "http://localhost/files/reports/report_1_2024-03-01_strict.pdf",
	})
	require.NoError(t, err)
	assert.False(t, rep.CreatedAt.IsZero())
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	setup := setupDB(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	runner := postgresql.NewTxRunner(setup.DB)

	boom := errors.New("boom")
	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := employees.Upsert(ctx, employee.Employee{ExternalID: "99", Surname: "X", GivenName: "Y"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = employees.GetByExternalID(ctx, "99")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
