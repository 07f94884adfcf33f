// Package sweeper removes stored uploads that no document row references.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"finance-backend/internal/shared/metrics"
	"finance-backend/internal/shared/storage/object"
	"finance-backend/internal/shared/telemetry"
)

const (
	DefaultGrace = time.Hour
	runTimeout   = 10 * time.Minute
)

// StorageIndex answers whether a storage key still belongs to a document.
type StorageIndex interface {
	ExistsByStorageKey(ctx context.Context, storageKey string) (bool, error)
}

// Sweeper deletes objects older than Grace that have no owning row. The grace period covers
// uploads whose row has not been written yet.
type Sweeper struct {
	Store object.ObjectStore
	Index StorageIndex
	Grace time.Duration
	Now   func() time.Time
}

func New(store object.ObjectStore, index StorageIndex, grace time.Duration) *Sweeper {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Sweeper{Store: store, Index: index, Grace: grace, Now: time.Now}
}

// Sweep runs one pass and returns how many objects were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	cutoff := now().Add(-s.Grace)

	var orphans []string
	scanned := 0
	err := s.Store.List(ctx, func(info object.ObjectInfo) error {
		scanned++
		if info.ModTime.After(cutoff) {
			return nil
		}
		exists, err := s.Index.ExistsByStorageKey(ctx, info.Key)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", info.Key, err)
		}
		if !exists {
			orphans = append(orphans, info.Key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range orphans {
		if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, object.ErrNotFound) {
			telemetry.Warn("sweeper.delete_failed", map[string]any{"storage_key": key, "error": err.Error()})
			continue
		}
		removed++
	}
	metrics.AddOrphansRemoved(removed)
	telemetry.Info("sweeper.completed", map[string]any{"scanned": scanned, "removed": removed})
	return removed, nil
}

// Start schedules Sweep on a cron spec such as "@hourly" or "0 3 * * *". An empty spec disables
// the sweep and returns a nil scheduler.
func Start(spec string, s *Sweeper) (*cron.Cron, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			telemetry.Error("sweeper.failed", map[string]any{"error": err.Error()})
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid ORPHAN_SWEEP_SCHEDULE %q: %w", spec, err)
	}
	c.Start()
	telemetry.Info("sweeper.scheduled", map[string]any{"schedule": spec, "grace": s.Grace.String()})
	return c, nil
}
