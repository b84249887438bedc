package punch

import "context"

// RawRepository keeps the audit copy of every imported punch.
type RawRepository interface {
	// BulkCreate stores the punches under the given import and returns the row count
	BulkCreate(ctx context.Context, importID string, punches []Canonical) (int64, error)

	Count(ctx context.Context) (int64, error)
}
