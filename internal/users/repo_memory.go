package users

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo enforcing the same uniqueness rules as the database.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]User)}
}

func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflictLocked(user); err != nil {
		return err
	}
	r.byID[user.ID] = user
	return nil
}

func (r *MemoryRepo) conflictLocked(user User) error {
	for id, existing := range r.byID {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return &ConflictError{Field: "username"}
		}
		if user.Email != "" && strings.EqualFold(existing.Email, user.Email) {
			return &ConflictError{Field: "email"}
		}
	}
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.find(ctx, func(u User) bool { return u.Username == username })
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.find(ctx, func(u User) bool { return u.Email != "" && strings.EqualFold(u.Email, email) })
}

func (r *MemoryRepo) find(ctx context.Context, match func(User) bool) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if match(u) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) UpdateProfile(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[user.ID]
	if !ok {
		return ErrNotFound
	}
	if err := r.conflictLocked(user); err != nil {
		return err
	}
	existing.FullName = user.FullName
	existing.Email = user.Email
	existing.UpdatedAt = time.Now().UTC()
	r.byID[user.ID] = existing
	return nil
}

func (r *MemoryRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[userID]
	if !ok {
		return ErrNotFound
	}
	existing.PasswordHash = passwordHash
	existing.UpdatedAt = time.Now().UTC()
	r.byID[userID] = existing
	return nil
}
