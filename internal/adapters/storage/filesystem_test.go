package storage_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/carebridge/marketplace/internal/adapters/storage"
	"github.com/carebridge/marketplace/internal/domain"
)

func newStore(t *testing.T) *storage.FilesystemStore {
	t.Helper()
	store, err := storage.NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()
	key := "verification-documents/user-1/doc-1"

	if err := store.Put(ctx, key, "application/pdf", []byte("first")); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	body, contentType, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	data, _ := io.ReadAll(body)
	body.Close()
	if string(data) != "first" || contentType != "application/pdf" {
		t.Fatalf("round trip mismatch: %q %q", data, contentType)
	}

	// Overwriting the same key replaces content and content type.
	if err := store.Put(ctx, key, "image/png", []byte("second")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	body, contentType, err = store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get after overwrite failed: %v", err)
	}
	data, _ = io.ReadAll(body)
	body.Close()
	if string(data) != "second" || contentType != "image/png" {
		t.Fatalf("overwrite mismatch: %q %q", data, contentType)
	}
}

func TestRejectsKeysOutsideRoot(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()

	for _, key := range []string{"../escape", "a/../../escape", "/etc/passwd", ".", ""} {
		if err := store.Put(ctx, key, "application/pdf", []byte("x")); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("put %q: expected rejection, got %v", key, err)
		}
		if _, _, err := store.Get(ctx, key); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("get %q: expected rejection, got %v", key, err)
		}
		if err := store.Delete(ctx, key); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("delete %q: expected rejection, got %v", key, err)
		}
	}
}

func TestGetMissingKey(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	if _, _, err := store.Get(context.Background(), "missing/key"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()
	key := "verification-documents/user-1/doc-1"

	if err := store.Put(ctx, key, "application/pdf", []byte("data")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, _, err := store.Get(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second delete must be a no-op, got %v", err)
	}
}
