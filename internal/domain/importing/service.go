package importing

import "context"

type ImportService interface {
	// Import processes one export of either layout
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)

	// ImportDual enriches a with-errors export with departments from a without-errors export
	ImportDual(ctx context.Context, req DualImportRequest) (ImportResult, error)

	ListImports(ctx context.Context, filter ImportFilter) ([]ImportResponse, error)
}
