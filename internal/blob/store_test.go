package blob

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// storeUnderTest runs the same contract checks against any Store.
func storeUnderTest(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		data := []byte("drawing artifact bytes")

		ref, err := store.Put(ctx, data, "application/pdf")
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		if ref == "" {
			t.Fatal("expected non-empty reference")
		}

		got, err := store.Get(ctx, ref)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("Get returned %q, want %q", got, data)
		}
	})

	t.Run("identical content shares a reference", func(t *testing.T) {
		data := []byte("same bytes twice")

		first, err := store.Put(ctx, data, "application/pdf")
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		second, err := store.Put(ctx, data, "application/pdf")
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		if first != second {
			t.Errorf("expected stable reference, got %q and %q", first, second)
		}
	})

	t.Run("distinct content gets distinct references", func(t *testing.T) {
		a, err := store.Put(ctx, []byte("content a"), "application/pdf")
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		b, err := store.Put(ctx, []byte("content b"), "application/pdf")
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		if a == b {
			t.Error("different content must not collide")
		}
	})

	t.Run("missing reference", func(t *testing.T) {
		_, err := store.Get(ctx, "sha256/ab/abcdef0123456789")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestFSStore(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	storeUnderTest(t, store)
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestFSStore_RejectsEscapingReferences(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	for _, ref := range []string{"", "../../etc/passwd", "/etc/passwd", "sha256/../../../x"} {
		if _, err := store.Get(context.Background(), ref); err == nil {
			t.Errorf("Get(%q) must fail", ref)
		} else if errors.Is(err, ErrNotFound) && strings.Contains(ref, "..") {
			t.Errorf("Get(%q) must fail as invalid, not missing", ref)
		}
	}
}
