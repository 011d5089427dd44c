package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/pivotmarket/pivot-client/pkg/cache"
	"github.com/pivotmarket/pivot-client/pkg/types"
)

// CachedViewer wraps a Viewer with a short-lived snapshot cache. Market
// snapshots dominate read volume (every quote and every valuation needs
// one) while positions and trades are per-user and always read fresh.
//
// After a transaction confirms the caller must Invalidate the market so the
// next read observes the post-trade state.
type CachedViewer struct {
	viewer Viewer
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedViewer creates a caching wrapper around a view client.
func NewCachedViewer(viewer Viewer, c cache.Cache, ttl time.Duration) *CachedViewer {
	return &CachedViewer{
		viewer: viewer,
		cache:  c,
		ttl:    ttl,
	}
}

func snapshotKey(marketID uint64) string {
	return fmt.Sprintf("snapshot:%d", marketID)
}

// GetMarket returns a cached snapshot when fresh, fetching otherwise.
func (c *CachedViewer) GetMarket(ctx context.Context, marketID uint64) (*types.MarketSnapshot, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(snapshotKey(marketID)); ok {
			if snap, ok := cached.(*types.MarketSnapshot); ok {
				SnapshotCacheHitsTotal.Inc()
				return snap, nil
			}
		}
		SnapshotCacheMissesTotal.Inc()
	}

	snap, err := c.viewer.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(snapshotKey(marketID), snap, c.ttl)
	}

	return snap, nil
}

// Invalidate drops a market's cached snapshot. Called after a confirmed
// transaction and on price-change stream events.
func (c *CachedViewer) Invalidate(marketID uint64) {
	if c.cache != nil {
		c.cache.Delete(snapshotKey(marketID))
	}
}

// ListMarkets passes through; the listing endpoint is already lightweight.
func (c *CachedViewer) ListMarkets(ctx context.Context, limit, offset int) ([]types.MarketSummary, error) {
	return c.viewer.ListMarkets(ctx, limit, offset)
}

// GetUserMarkets passes through uncached.
func (c *CachedViewer) GetUserMarkets(ctx context.Context, user string) ([]uint64, error) {
	return c.viewer.GetUserMarkets(ctx, user)
}

// GetUserPositions passes through uncached; position reads must observe
// just-submitted trades as soon as the ledger reflects them.
func (c *CachedViewer) GetUserPositions(ctx context.Context, user string, marketID uint64) ([]types.Position, error) {
	return c.viewer.GetUserPositions(ctx, user, marketID)
}

// GetUserTrades passes through uncached.
func (c *CachedViewer) GetUserTrades(ctx context.Context, user string, marketID uint64, limit int) ([]types.TradeRecord, error) {
	return c.viewer.GetUserTrades(ctx, user, marketID, limit)
}
