package usecase

import (
	"context"

	"github.com/missionmap/tileserver/internal/geo"
	"github.com/missionmap/tileserver/internal/repository/store"
	"github.com/missionmap/tileserver/internal/upstream"
	"github.com/missionmap/tileserver/pkg/logger"
	"github.com/missionmap/tileserver/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Region describes one prefetch request: a square of Radius tiles around
// the center coordinate at every zoom in [ZoomMin, ZoomMax].
type Region struct {
	Source    string
	CenterLat float64
	CenterLon float64
	ZoomMin   int
	ZoomMax   int
	Radius    int
}

// PrefetchUseCase warms the disk cache ahead of user interaction. It shares
// the fetcher's in-flight set with the server, so a prefetch can never race
// an on-demand fetch for the same tile.
type PrefetchUseCase struct {
	store   *store.TileStore
	fetcher *upstream.Fetcher
	workers int
	logger  logger.Logger
}

func NewPrefetchUseCase(st *store.TileStore, f *upstream.Fetcher, workers int, l logger.Logger) *PrefetchUseCase {
	if workers < 1 {
		workers = 1
	}
	return &PrefetchUseCase{
		store:   st,
		fetcher: f,
		workers: workers,
		logger:  l,
	}
}

// EnumerateKeys expands a region into tile keys: (2r+1)^2 per zoom before
// clipping each axis to [0, 2^z-1].
func EnumerateKeys(region Region) []store.TileKey {
	var keys []store.TileKey

	lat := geo.ClampLat(region.CenterLat)
	for zoom := region.ZoomMin; zoom <= region.ZoomMax; zoom++ {
		px, py := geo.GeoToWorldPixel(lat, region.CenterLon, zoom)
		centerX, centerY := geo.WorldPixelToTile(px, py)
		maxTile := geo.MaxTileIndex(zoom)

		for x := centerX - region.Radius; x <= centerX+region.Radius; x++ {
			if x < 0 || x > maxTile {
				continue
			}
			for y := centerY - region.Radius; y <= centerY+region.Radius; y++ {
				if y < 0 || y > maxTile {
					continue
				}
				keys = append(keys, store.NewKey(region.Source, zoom, x, y))
			}
		}
	}

	return keys
}

// PrefetchRegion enumerates the region and fetches every tile not already
// on disk through a bounded worker pool. Individual fetch failures are
// logged and swallowed; a pass never aborts because one tile failed.
// Callers that do not want to wait run it on its own goroutine.
func (uc *PrefetchUseCase) PrefetchRegion(ctx context.Context, region Region) {
	keys := EnumerateKeys(region)

	uc.logger.Info("prefetch pass starting",
		"source", region.Source,
		"zoom_min", region.ZoomMin,
		"zoom_max", region.ZoomMax,
		"radius", region.Radius,
		"candidates", len(keys),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)

	submitted := 0
	for _, k := range keys {
		if uc.store.Exists(k) {
			metrics.PrefetchSkipped.Inc()
			continue
		}

		submitted++
		metrics.PrefetchTiles.Inc()
		g.Go(func() error {
			if _, err := uc.fetcher.Fetch(ctx, k); err != nil {
				uc.logger.Warn("prefetch fetch failed", "key", k.String(), "error", err)
			}
			return nil
		})
	}

	g.Wait()

	uc.logger.Info("prefetch pass finished", "submitted", submitted,
		"skipped", len(keys)-submitted)
}
