package usecase

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/missionmap/tileserver/internal/repository/store"
	"github.com/missionmap/tileserver/internal/upstream"
	"github.com/missionmap/tileserver/pkg/config"
	"github.com/missionmap/tileserver/pkg/logger"
	"github.com/missionmap/tileserver/pkg/metrics"
)

// TileUseCase resolves tile requests: in-memory hot cache, then disk, then
// a deduplicated upstream fetch.
type TileUseCase struct {
	store   *store.TileStore
	fetcher *upstream.Fetcher
	hot     *ccache.Cache[[]byte]
	hotTTL  time.Duration
	logger  logger.Logger
}

func NewTileUseCase(st *store.TileStore, f *upstream.Fetcher, cfg config.Cache, l logger.Logger) *TileUseCase {
	return &TileUseCase{
		store:   st,
		fetcher: f,
		hot: ccache.New(ccache.Configure[[]byte]().
			MaxSize(cfg.HotMaxTiles).
			ItemsToPrune(cfg.HotItemsToPrune)),
		hotTTL: cfg.HotTTL,
		logger: l,
	}
}

// GetTile returns the bytes for one tile, fetching and caching on miss.
func (uc *TileUseCase) GetTile(ctx context.Context, k store.TileKey) ([]byte, error) {
	metrics.TileRequests.Inc()

	if item := uc.hot.Get(k.String()); item != nil && !item.Expired() {
		metrics.CacheHits.Inc()
		return item.Value(), nil
	}

	data, ok, err := uc.store.Read(k)
	if err != nil {
		// Unreadable cache entry degrades to a miss.
		uc.logger.Error("cache read failed", "key", k.String(), "error", err)
	}
	if ok {
		metrics.CacheHits.Inc()
		uc.hot.Set(k.String(), data, uc.hotTTL)
		uc.logger.Debug("tile from disk cache", "key", k.String(), "size", len(data))
		return data, nil
	}

	metrics.CacheMisses.Inc()
	data, err = uc.fetcher.Fetch(ctx, k)
	if err != nil {
		return nil, err
	}

	uc.hot.Set(k.String(), data, uc.hotTTL)
	return data, nil
}

// CacheStats reports the state of the on-disk cache.
func (uc *TileUseCase) CacheStats() (store.Stats, error) {
	return uc.store.Stats()
}
