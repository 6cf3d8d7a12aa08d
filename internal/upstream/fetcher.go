// Package upstream retrieves missing tiles from remote providers,
// collapsing concurrent demand for the same tile into a single request.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/missionmap/tileserver/internal/repository/store"
	"github.com/missionmap/tileserver/pkg/config"
	"github.com/missionmap/tileserver/pkg/logger"
	"github.com/missionmap/tileserver/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnknownSource means the tile key names a provider tag that is not
	// registered. The server maps it to a 404.
	ErrUnknownSource = errors.New("unknown tile source")

	// ErrEmptyBody means the provider answered 200 with no payload.
	ErrEmptyBody = errors.New("upstream returned an empty body")
)

type Fetcher struct {
	providers map[string]Provider
	store     *store.TileStore
	client    *http.Client
	userAgent string
	logger    logger.Logger

	// inflight collapses concurrent fetches of the same key; at most one
	// request per key is ever on the wire, the result is broadcast to all
	// waiters and the key is dropped when the call completes.
	inflight singleflight.Group
}

func New(st *store.TileStore, cfg config.Upstream, l logger.Logger) *Fetcher {
	return &Fetcher{
		providers: DefaultProviders(),
		store:     st,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		logger:    l,
	}
}

// Register adds or replaces a provider for a source tag. The tag is matched
// against the upper-cased source of incoming tile keys.
func (f *Fetcher) Register(source string, p Provider) {
	f.providers[source] = p
}

// Knows reports whether a provider is registered for the key's source.
func (f *Fetcher) Knows(k store.TileKey) bool {
	_, ok := f.providers[k.Source]
	return ok
}

// Fetch downloads one tile, persists it and returns its bytes. Failures are
// never cached: the next call for the same key retries from scratch. There
// is deliberately no backoff here; each new client request is the retry
// mechanism, which can amplify load on a failing upstream.
func (f *Fetcher) Fetch(ctx context.Context, k store.TileKey) ([]byte, error) {
	v, err, shared := f.inflight.Do(k.String(), func() (any, error) {
		// A download runs to completion once started. The flight is shared
		// with later callers, so it must not die with whoever registered it
		// first; the client timeout still bounds it.
		return f.download(context.WithoutCancel(ctx), k)
	})
	if shared {
		metrics.InflightJoins.Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (f *Fetcher) download(ctx context.Context, k store.TileKey) ([]byte, error) {
	provider, ok := f.providers[k.Source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, k.Source)
	}

	url := provider.URL(k.Z, k.X, k.Y)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	metrics.UpstreamRequests.Inc()
	start := time.Now()
	resp, err := f.client.Do(req)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamFailures.Inc()
		f.logger.Error("failed to fetch tile", "key", k.String(), "url", url, "error", err)
		return nil, fmt.Errorf("failed to fetch tile from upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamFailures.Inc()
		f.logger.Warn("upstream returned non-200", "key", k.String(), "status", resp.StatusCode)
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamFailures.Inc()
		return nil, fmt.Errorf("failed to read tile data: %w", err)
	}
	if len(data) == 0 {
		metrics.UpstreamFailures.Inc()
		return nil, ErrEmptyBody
	}

	f.logger.Info("fetched tile", "key", k.String(), "size", len(data),
		"duration", time.Since(start))

	// A failed write degrades to a cache miss; the bytes are still good
	// for this request.
	if err := f.store.Write(k, data); err != nil {
		f.logger.Error("failed to cache tile", "key", k.String(), "error", err)
	}

	return data, nil
}
