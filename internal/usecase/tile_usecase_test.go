package usecase

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/missionmap/tileserver/internal/repository/store"
	"github.com/missionmap/tileserver/internal/upstream"
	"github.com/missionmap/tileserver/pkg/config"
	"github.com/missionmap/tileserver/pkg/logger"
)

func newTestTileUseCase(t *testing.T, upstreamURL string) (*TileUseCase, *store.TileStore) {
	t.Helper()

	st, err := store.New(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	f := upstream.New(st, config.Upstream{Timeout: 5 * time.Second}, logger.NewNop())
	f.Register("TOPO", upstream.Provider{URLTemplate: upstreamURL + "/{z}/{x}/{y}.png"})

	uc := NewTileUseCase(st, f, config.Cache{
		HotMaxTiles:     64,
		HotItemsToPrune: 8,
		HotTTL:          time.Minute,
	}, logger.NewNop())

	return uc, st
}

func TestGetTileMissFetchesOnceThenServesFromCache(t *testing.T) {
	var calls int64
	body := []byte("png-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write(body)
	}))
	defer srv.Close()

	uc, st := newTestTileUseCase(t, srv.URL)
	k := store.NewKey("TOPO", 14, 1234, 5678)

	got, err := uc.GetTile(context.Background(), k)
	if err != nil {
		t.Fatalf("GetTile failed: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Error("served bytes differ from upstream body")
	}
	if !st.Exists(k) {
		t.Error("tile not persisted after miss")
	}

	got, err = uc.GetTile(context.Background(), k)
	if err != nil {
		t.Fatalf("second GetTile failed: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Error("cached bytes differ from upstream body")
	}

	if n := atomic.LoadInt64(&calls); n != 1 {
		t.Errorf("upstream called %d times, want 1", n)
	}
}

func TestGetTileServesPreexistingDiskCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be contacted for a cached tile")
	}))
	defer srv.Close()

	uc, st := newTestTileUseCase(t, srv.URL)
	k := store.NewKey("TOPO", 10, 5, 6)

	want := []byte("from an earlier run")
	if err := st.Write(k, want); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	got, err := uc.GetTile(context.Background(), k)
	if err != nil {
		t.Fatalf("GetTile failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGetTileFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	uc, st := newTestTileUseCase(t, srv.URL)
	k := store.NewKey("TOPO", 14, 1, 1)

	if _, err := uc.GetTile(context.Background(), k); err == nil {
		t.Fatal("GetTile succeeded against a failing upstream")
	}
	if st.Exists(k) {
		t.Error("failure left a file in the cache")
	}
}

func TestCacheStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	uc, _ := newTestTileUseCase(t, srv.URL)

	if _, err := uc.GetTile(context.Background(), store.NewKey("TOPO", 8, 1, 2)); err != nil {
		t.Fatalf("GetTile failed: %v", err)
	}

	stats, err := uc.CacheStats()
	if err != nil {
		t.Fatalf("CacheStats failed: %v", err)
	}
	if stats.TileCount != 1 || stats.TotalBytes != 10 {
		t.Errorf("stats = %+v, want 1 tile of 10 bytes", stats)
	}
}
