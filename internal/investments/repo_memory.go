package investments

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory HoldingsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Portfolio
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Portfolio)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return Portfolio{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data[userID]
	if !ok {
		return Portfolio{}, ErrNotFound
	}
	p.Holdings = append([]Investment(nil), p.Holdings...)
	return p, nil
}

func (r *MemoryRepo) Replace(ctx context.Context, p Portfolio) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Holdings = append([]Investment(nil), p.Holdings...)
	r.mu.Lock()
	r.data[p.UserID] = p
	r.mu.Unlock()
	return nil
}
