package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedService(t *testing.T) (attendance.AttendanceService, employee.Employee) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	dept := "Ops"
	emp, err := store.Employees().Upsert(ctx, employee.Employee{ExternalID: "E1", Surname: "Soto", GivenName: "Ana", Department: &dept})
	require.NoError(t, err)

	punches := []punch.Canonical{
		punchAt(dt(2024, 6, 3, 8, 0), punch.DirectionEntry),
		punchAt(dt(2024, 6, 3, 17, 0), punch.DirectionExit),
		punchAt(dt(2024, 6, 4, 8, 0), punch.DirectionEntry),
		punchAt(dt(2024, 7, 1, 8, 0), punch.DirectionEntry),
		punchAt(dt(2024, 7, 1, 12, 0), punch.DirectionExit),
	}
	_, err = store.RawPunches().BulkCreate(ctx, "imp-1", punches)
	require.NoError(t, err)
	_, err = NewAggregator(store.Days(), store.Rollups()).ProcessEmployee(ctx, emp.ID, punches, attendance.ModeTolerant)
	require.NoError(t, err)

	return NewAttendanceService(store.Days(), store.Rollups(), store.Employees(), store.RawPunches()), emp
}

func TestAttendanceService_ListAttendance(t *testing.T) {
	svc, emp := seedService(t)
	ctx := context.Background()

	all, err := svc.ListAttendance(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-07-01", all[0].Date)
	assert.Equal(t, "E1", *all[0].ExternalID)
	assert.Equal(t, "Soto, Ana", *all[0].EmployeeName)
	assert.Equal(t, "2024-07-01 08:00:00", *all[0].Entry1)
	assert.Equal(t, 4.0, all[0].WorkedHours)

	start, end := "2024-06-01", "2024-06-30"
	june, err := svc.ListAttendance(ctx, attendance.AttendanceFilter{EmployeeID: &emp.ID, StartDate: &start, EndDate: &end, Limit: 1})
	require.NoError(t, err)
	require.Len(t, june, 1)
	assert.Equal(t, "2024-06-04", june[0].Date)
	assert.True(t, june[0].HasErrors)
	assert.Equal(t, "entry_without_exit", june[0].ErrorKinds)
	assert.Nil(t, june[0].Exit1)
	require.Len(t, june[0].Pairs, 1)
}

func TestAttendanceService_ListAttendance_InvalidFilter(t *testing.T) {
	svc, _ := seedService(t)
	bad := "06/01/2024"

	_, err := svc.ListAttendance(context.Background(), attendance.AttendanceFilter{StartDate: &bad, Limit: 5000})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestAttendanceService_ListSummaries(t *testing.T) {
	svc, emp := seedService(t)
	ctx := context.Background()

	month := 6
	summaries, err := svc.ListSummaries(ctx, attendance.RollupFilter{EmployeeID: &emp.ID, Month: &month})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].DaysWorked)
	assert.Equal(t, 17.0, summaries[0].TotalHours)
	assert.Equal(t, 1, summaries[0].DaysWithErrors)
	_, err = time.Parse(time.RFC3339, summaries[0].UpdatedAt)
	assert.NoError(t, err)

	bad := 13
	_, err = svc.ListSummaries(ctx, attendance.RollupFilter{Month: &bad})
	assert.Error(t, err)
}

func TestAttendanceService_Stats(t *testing.T) {
	svc, _ := seedService(t)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalEmployees)
	assert.Equal(t, int64(5), stats.TotalPunches)
	assert.Equal(t, int64(1), stats.DaysWithErrors)
}
