package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

var rawPunchColumns = []string{
	"import_id", "external_id", "full_name", "punched_at", "direction", "classification", "new_status", "operation",
}

type rawPunchRepositoryImpl struct {
	db *database.DB
}

func NewRawPunchRepository(db *database.DB) punch.RawRepository {
	return &rawPunchRepositoryImpl{db: db}
}

// BulkCreate implements punch.RawRepository using the COPY protocol.
func (r *rawPunchRepositoryImpl) BulkCreate(ctx context.Context, importID string, punches []punch.Canonical) (int64, error) {
	if len(punches) == 0 {
		return 0, nil
	}

	q := GetQuerier(ctx, r.db)

	n, err := q.CopyFrom(ctx, pgx.Identifier{"raw_punches"}, rawPunchColumns,
		pgx.CopyFromSlice(len(punches), func(i int) ([]any, error) {
			p := punches[i]
			return []any{
				importID, p.ExternalID, p.FullName(), p.Timestamp,
				string(p.Direction), string(p.Classification), p.NewStatus, p.Operation,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy raw punches: %w", err)
	}
	return n, nil
}

// Count implements punch.RawRepository.
func (r *rawPunchRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM raw_punches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count raw punches: %w", err)
	}
	return count, nil
}
