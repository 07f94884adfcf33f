package risk

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory AnalysesRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Analysis
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Analysis)}
}

func (r *MemoryRepo) Create(ctx context.Context, a Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[a.UserID] = append(r.data[a.UserID], a)
	return nil
}

func (r *MemoryRepo) Latest(ctx context.Context, userID string) (Analysis, error) {
	list, err := r.ListByUser(ctx, userID, 1)
	if err != nil {
		return Analysis{}, err
	}
	if len(list) == 0 {
		return Analysis{}, ErrNotFound
	}
	return list[0], nil
}

// ListByUser returns analyses newest first; limit <= 0 returns all.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	stored := r.data[userID]
	out := make([]Analysis, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	r.mu.RUnlock()

	// equal timestamps keep the reversed insertion order, so the later insert wins
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
