// Package store persists tiles on disk under
// {root}/{SOURCE}/{z}/{x}/{y}.png. The layout is the contract between
// prefetching and serving and must survive across runs.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/missionmap/tileserver/pkg/logger"
	"github.com/missionmap/tileserver/pkg/metrics"
)

// TileKey identifies one raster tile. Construct with NewKey so the source
// tag is normalized and cache paths stay casing-stable.
type TileKey struct {
	Source string
	Z      int
	X      int
	Y      int
}

// NewKey upper-cases the source tag; "topo" and "TOPO" address the same
// cached tile.
func NewKey(source string, z, x, y int) TileKey {
	return TileKey{
		Source: strings.ToUpper(source),
		Z:      z,
		X:      x,
		Y:      y,
	}
}

func (k TileKey) String() string {
	return fmt.Sprintf("%s/%d/%d/%d", k.Source, k.Z, k.X, k.Y)
}

type TileStore struct {
	root   string
	logger logger.Logger
}

func New(root string, l logger.Logger) (*TileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &TileStore{
		root:   root,
		logger: l,
	}, nil
}

// Path returns the on-disk location for a tile.
func (s *TileStore) Path(k TileKey) string {
	return filepath.Join(s.root,
		k.Source,
		strconv.Itoa(k.Z),
		strconv.Itoa(k.X),
		strconv.Itoa(k.Y)+".png",
	)
}

func (s *TileStore) Exists(k TileKey) bool {
	_, err := os.Stat(s.Path(k))
	return err == nil
}

// Read returns the cached bytes for a tile, reporting false when absent.
func (s *TileStore) Read(k TileKey) ([]byte, bool, error) {
	data, err := os.ReadFile(s.Path(k))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read tile %s: %w", k, err)
	}
	return data, true, nil
}

// Write persists tile bytes via temp-file-then-rename so a concurrent
// reader never observes a partial tile. The in-flight dedup upstream
// guarantees a single writer per key.
func (s *TileStore) Write(k TileKey, data []byte) error {
	path := s.Path(k)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		metrics.CacheStoreErrors.Inc()
		return fmt.Errorf("failed to create tile directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		metrics.CacheStoreErrors.Inc()
		return fmt.Errorf("failed to write tile %s: %w", k, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		metrics.CacheStoreErrors.Inc()
		return fmt.Errorf("failed to rename tile %s: %w", k, err)
	}

	metrics.CacheStores.Inc()
	s.logger.Debug("tile cached", "key", k.String(), "size", len(data))
	return nil
}

// Stats walks the cache and reports tile count and total size in bytes.
type Stats struct {
	TileCount  int   `json:"tile_count"`
	TotalBytes int64 `json:"total_size_bytes"`
}

func (s *TileStore) Stats() (Stats, error) {
	var st Stats
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".png") {
			st.TileCount++
			st.TotalBytes += info.Size()
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("failed to walk cache: %w", err)
	}
	return st, nil
}
