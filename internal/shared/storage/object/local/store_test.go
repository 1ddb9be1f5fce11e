package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestPutOpenDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.Put(ctx, "proj-1/abc-file.txt", "text/plain", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes written, got %d", n)
	}

	rc, err := store.Open(ctx, "proj-1/abc-file.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected hello, got %q", data)
	}

	if err := store.Delete(ctx, "proj-1/abc-file.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, "proj-1/abc-file.txt"); err == nil {
		t.Fatalf("expected open after delete to fail")
	}

	// Deleting a missing key is a no-op.
	if err := store.Delete(ctx, "proj-1/abc-file.txt"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../escape.txt", "/abs/path", "a/../../b"} {
		if _, err := store.Put(ctx, key, "text/plain", strings.NewReader("x")); err == nil {
			t.Fatalf("expected Put to reject key %q", key)
		}
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("expected Open to reject key %q", key)
		}
	}
}
