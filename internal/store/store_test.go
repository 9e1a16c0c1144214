package store_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/nerrad567/point-relay/internal/infrastructure/config"
	"github.com/nerrad567/point-relay/internal/store"
)

// newBackend starts a fake VictoriaMetrics endpoint and counts /health
// probes, one per store connection.
func newBackend(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var connects atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		connects.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/write", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &connects
}

func TestAcquire_LazyAndIdempotent(t *testing.T) {
	srv, connects := newBackend(t)
	resolver := store.NewResolver(config.StoreConfig{
		Backend: config.BackendVictoriaMetrics,
		URL:     srv.URL,
	})
	defer resolver.Release()

	// No connection before first use
	if got := connects.Load(); got != 0 {
		t.Fatalf("connections before Acquire = %d, want 0", got)
	}

	first, err := resolver.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	second, err := resolver.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if first != second {
		t.Error("repeated Acquire() returned a different handle")
	}
	if got := connects.Load(); got != 1 {
		t.Errorf("connections after two Acquires = %d, want 1", got)
	}
}

func TestRelease_ForcesReconnect(t *testing.T) {
	srv, connects := newBackend(t)
	resolver := store.NewResolver(config.StoreConfig{
		Backend: config.BackendVictoriaMetrics,
		URL:     srv.URL,
	})
	defer resolver.Release()

	if _, err := resolver.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	resolver.Release()

	if _, err := resolver.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() after Release error = %v", err)
	}
	if got := connects.Load(); got != 2 {
		t.Errorf("connections = %d, want 2 after Release", got)
	}
}

func TestRelease_WithoutHandle(t *testing.T) {
	resolver := store.NewResolver(config.StoreConfig{
		Backend: config.BackendVictoriaMetrics,
		URL:     "http://127.0.0.1:1",
	})

	// Must not panic
	resolver.Release()
}

func TestAcquire_UnknownBackend(t *testing.T) {
	resolver := store.NewResolver(config.StoreConfig{Backend: "carbon"})

	_, err := resolver.Acquire(context.Background())
	if !errors.Is(err, store.ErrConfiguration) {
		t.Errorf("Acquire() error = %v, want ErrConfiguration", err)
	}
}

func TestAcquire_RetriesAfterFailure(t *testing.T) {
	resolver := store.NewResolver(config.StoreConfig{
		Backend: config.BackendVictoriaMetrics,
		URL:     "http://127.0.0.1:1",
	})

	if _, err := resolver.Acquire(context.Background()); err == nil {
		t.Fatal("Acquire() against dead endpoint should fail")
	}

	// A failed attempt leaves nothing cached; the next call tries again
	// and fails the same way rather than returning a stale handle.
	if _, err := resolver.Acquire(context.Background()); !errors.Is(err, store.ErrConfiguration) {
		t.Errorf("second Acquire() error = %v, want ErrConfiguration", err)
	}
}
