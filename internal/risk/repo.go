package risk

import "context"

// AnalysesRepo stores risk analyses. Rows are append-only.
type AnalysesRepo interface {
	Create(ctx context.Context, a Analysis) error
	Latest(ctx context.Context, userID string) (Analysis, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error)
}
