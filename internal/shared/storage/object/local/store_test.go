package local

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"finance-backend/internal/shared/storage/object"
)

func TestSaveOpenDeleteList(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	key, size, mime, err := store.Save(ctx, "user-1", "holdings.csv", strings.NewReader("Name,Value\nGold ETF,1000\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("Name,Value\nGold ETF,1000\n")) {
		t.Fatalf("unexpected size %d", size)
	}
	if !strings.HasPrefix(mime, "text/") {
		t.Fatalf("expected text mime, got %s", mime)
	}
	if !strings.HasSuffix(key, "_holdings.csv") {
		t.Fatalf("unexpected key %s", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if !strings.Contains(string(data), "Gold ETF") {
		t.Fatalf("unexpected content %q", data)
	}

	var keys []string
	if err := store.List(ctx, func(info object.ObjectInfo) error {
		keys = append(keys, info.Key)
		return nil
	}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Fatalf("expected [%s], got %v", key, keys)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	path, _ := store.Path(key)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
	if err := store.Delete(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on open, got %v", err)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../etc/passwd"); err == nil {
		t.Fatalf("expected traversal key rejected")
	}
	if _, _, _, err := store.Save(context.Background(), "user-1", "../x.pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected traversal file name rejected")
	}
}

func TestListMissingBaseDir(t *testing.T) {
	store := New(t.TempDir() + "/missing")
	if err := store.List(context.Background(), func(object.ObjectInfo) error { return nil }); err != nil {
		t.Fatalf("expected missing base dir to list nothing, got %v", err)
	}
}
