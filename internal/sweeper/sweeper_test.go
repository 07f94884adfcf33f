package sweeper

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finance-backend/internal/shared/storage/object/local"
)

type keySet map[string]bool

func (k keySet) ExistsByStorageKey(_ context.Context, key string) (bool, error) {
	return k[key], nil
}

type failingIndex struct{}

func (failingIndex) ExistsByStorageKey(context.Context, string) (bool, error) {
	return false, errors.New("db down")
}

func TestSweepRemovesOnlyOldOrphans(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	owned, _, _, err := store.Save(ctx, "user-1", "owned.csv", strings.NewReader("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	orphan, _, _, err := store.Save(ctx, "user-1", "orphan.csv", strings.NewReader("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	s := New(store, keySet{owned: true}, time.Hour)
	s.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	removed, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := store.Open(ctx, orphan); err == nil {
		t.Fatalf("expected orphan deleted")
	}
	rc, err := store.Open(ctx, owned)
	if err != nil {
		t.Fatalf("expected owned file kept: %v", err)
	}
	rc.Close()
}

func TestSweepSkipsRecentFiles(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	if _, _, _, err := store.Save(ctx, "user-1", "fresh.csv", strings.NewReader("a\n1\n")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	removed, err := New(store, keySet{}, time.Hour).Sweep(ctx)
	if err != nil || removed != 0 {
		t.Fatalf("expected recent upload kept, removed=%d err=%v", removed, err)
	}
}

func TestSweepStopsOnIndexError(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	if _, _, _, err := store.Save(ctx, "user-1", "a.csv", strings.NewReader("a\n1\n")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s := New(store, failingIndex{}, time.Minute)
	s.Now = func() time.Time { return time.Now().Add(time.Hour) }

	if _, err := s.Sweep(ctx); err == nil {
		t.Fatalf("expected index error")
	}
}

func TestStartSchedule(t *testing.T) {
	s := New(local.New(t.TempDir()), keySet{}, 0)
	if c, err := Start("", s); c != nil || err != nil {
		t.Fatalf("expected disabled sweep, got %v %v", c, err)
	}
	if _, err := Start("not a schedule", s); err == nil {
		t.Fatalf("expected invalid schedule error")
	}
	c, err := Start("@hourly", s)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Fatalf("expected one entry")
	}
	<-c.Stop().Done()
}
