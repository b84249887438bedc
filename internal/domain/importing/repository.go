package importing

import "context"

type ImportRepository interface {
	Create(ctx context.Context, imp Import) (Import, error)

	// Finish stores the final status, statistics and error message of the import
	Finish(ctx context.Context, imp Import) error

	// List returns the most recent imports first
	List(ctx context.Context, limit int) ([]Import, error)
}
