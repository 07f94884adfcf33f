package investments

import "context"

// HoldingsRepo persists the latest imported portfolio per user.
type HoldingsRepo interface {
	Get(ctx context.Context, userID string) (Portfolio, error)
	Replace(ctx context.Context, p Portfolio) error
}
