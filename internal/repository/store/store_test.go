package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/missionmap/tileserver/pkg/logger"
)

func newTestStore(t *testing.T) *TileStore {
	t.Helper()
	s, err := New(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func TestNewKeyNormalizesSource(t *testing.T) {
	lower := NewKey("topo", 14, 1234, 5678)
	upper := NewKey("TOPO", 14, 1234, 5678)

	if lower != upper {
		t.Errorf("keys differ by casing: %v vs %v", lower, upper)
	}
	if lower.Source != "TOPO" {
		t.Errorf("source not upper-cased: %q", lower.Source)
	}
}

func TestPathLayout(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "cache"), logger.NewNop())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	k := NewKey("topo", 14, 1234, 5678)
	want := filepath.Join("TOPO", "14", "1234", "5678.png")
	if got := s.Path(k); !strings.HasSuffix(got, want) {
		t.Errorf("Path(%v) = %q, want suffix %q", k, got, want)
	}
}

func TestWriteReadExists(t *testing.T) {
	s := newTestStore(t)
	k := NewKey("TOPO", 14, 1234, 5678)
	tile := []byte("png bytes")

	if s.Exists(k) {
		t.Fatal("Exists true before write")
	}

	if err := s.Write(k, tile); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !s.Exists(k) {
		t.Fatal("Exists false after write")
	}

	got, ok, err := s.Read(k)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !ok {
		t.Fatal("Read reported missing tile after write")
	}
	if !bytes.Equal(got, tile) {
		t.Errorf("Read returned %q, want %q", got, tile)
	}

	// Once present, a key stays present.
	for i := 0; i < 3; i++ {
		if !s.Exists(k) {
			t.Fatal("Exists flipped back to false")
		}
	}
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	s := newTestStore(t)
	k := NewKey("TOPO", 3, 4, 5)

	if err := s.Write(k, []byte{0x89, 0x50, 0x4e, 0x47}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if _, err := os.Stat(s.Path(k) + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind at %s", s.Path(k)+".tmp")
	}
}

func TestReadMissingTile(t *testing.T) {
	s := newTestStore(t)

	data, ok, err := s.Read(NewKey("TOPO", 1, 2, 3))
	if err != nil {
		t.Fatalf("Read of missing tile errored: %v", err)
	}
	if ok || data != nil {
		t.Errorf("Read of missing tile returned ok=%v data=%v", ok, data)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if st.TileCount != 0 || st.TotalBytes != 0 {
		t.Errorf("empty cache stats: %+v", st)
	}

	if err := s.Write(NewKey("TOPO", 1, 0, 0), make([]byte, 100)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Write(NewKey("TOPO", 1, 0, 1), make([]byte, 50)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	st, err = s.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if st.TileCount != 2 {
		t.Errorf("TileCount = %d, want 2", st.TileCount)
	}
	if st.TotalBytes != 150 {
		t.Errorf("TotalBytes = %d, want 150", st.TotalBytes)
	}
}
