package attendance

import (
	"context"
)

// AttendanceService exposes the stored attendance facts to listing endpoints
type AttendanceService interface {
	// ListAttendance retrieves daily records, newest first
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)

	// ListSummaries retrieves monthly rollups
	ListSummaries(ctx context.Context, filter RollupFilter) ([]RollupResponse, error)

	// Stats returns dashboard totals
	Stats(ctx context.Context) (StatsResponse, error)
}
