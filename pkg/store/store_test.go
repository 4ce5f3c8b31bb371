package store

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/observability"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "home"); !stderrors.Is(err, ErrNotFound) || !errors.Is(err, errors.ErrCodePageNotFound) {
		t.Fatalf("Get missing = %v, want not found", err)
	}
	for _, id := range []string{"home", "apps", "work"} {
		if err := s.Put(ctx, id, []byte("page "+id)); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}
	if err := s.Put(ctx, "home", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "home")
	if err != nil || string(got) != "v2" {
		t.Errorf("Get home = %q %v", got, err)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"apps", "home", "work"}, ids); diff != "" {
		t.Errorf("List (-want +got):\n%s", diff)
	}

	if err := s.Delete(ctx, "apps"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "apps"); err != nil {
		t.Errorf("second delete = %v", err)
	}
	if _, err := s.Get(ctx, "apps"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Get deleted = %v", err)
	}
	if err := s.Put(ctx, "../escape", nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Put bad id = %v, want INVALID_INPUT", err)
	}
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exercise(t, s)
}

func TestMemoryCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	buf := []byte("abc")
	if err := s.Put(ctx, "p", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'x'
	got, _ := s.Get(ctx, "p")
	if string(got) != "abc" {
		t.Errorf("stored bytes aliased caller buffer: %q", got)
	}
}

func TestDisk(t *testing.T) {
	s, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestDiskReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewDisk(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "home", []byte("x")); err != nil {
		t.Fatal(err)
	}
	s2, err := NewDisk(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, err := s2.Get(ctx, "home"); err != nil || string(got) != "x" {
		t.Errorf("reopened Get = %q %v", got, err)
	}
}

func TestNull(t *testing.T) {
	ctx := context.Background()
	s := NewNull()
	if err := s.Put(ctx, "home", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "home"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Null.Get = %v, want not found", err)
	}
	if ids, _ := s.List(ctx); len(ids) != 0 {
		t.Errorf("Null.List = %v", ids)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "tape"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Open = %v, want INVALID_INPUT", err)
	}
}

type countingHooks struct {
	observability.NoopStoreHooks
	mu                sync.Mutex
	hits, miss, bytes int
}

func (h *countingHooks) OnStoreHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *countingHooks) OnStoreMiss(context.Context, string) {
	h.mu.Lock()
	h.miss++
	h.mu.Unlock()
}

func (h *countingHooks) OnStoreSet(_ context.Context, _ string, size int) {
	h.mu.Lock()
	h.bytes += size
	h.mu.Unlock()
}

func TestOpenReportsToHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetStoreHooks(h)
	defer observability.Reset()

	ctx := context.Background()
	s, err := Open(ctx, Config{Backend: BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = s.Get(ctx, "home")
	_ = s.Put(ctx, "home", []byte("12345"))
	_, _ = s.Get(ctx, "home")

	if h.hits != 1 || h.miss != 1 || h.bytes != 5 {
		t.Errorf("hooks saw hits=%d miss=%d bytes=%d", h.hits, h.miss, h.bytes)
	}
}
