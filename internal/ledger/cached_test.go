package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivotmarket/pivot-client/internal/testutil"
	"github.com/pivotmarket/pivot-client/pkg/types"
)

// mapCache is a synchronous Cache for tests; ristretto admits writes
// asynchronously, which makes hit/miss assertions flaky.
type mapCache struct {
	entries map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]interface{})}
}

func (c *mapCache) Get(key string) (interface{}, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(key string, value interface{}, _ time.Duration) bool {
	c.entries[key] = value
	return true
}

func (c *mapCache) Delete(key string) { delete(c.entries, key) }
func (c *mapCache) Clear()            { c.entries = make(map[string]interface{}) }
func (c *mapCache) Close()            {}

func TestCachedViewerGetMarket(t *testing.T) {
	mock := testutil.NewMockViewer()
	mock.AddMarket(testutil.CreateTestSnapshot(7, 6000, 1_000_000, 500_000), nil, nil)

	cached := NewCachedViewer(mock, newMapCache(), time.Minute)

	first, err := cached.GetMarket(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCounts["get_market"])

	second, err := cached.GetMarket(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCounts["get_market"], "second read must be served from cache")
	assert.Equal(t, first, second)
}

func TestCachedViewerInvalidate(t *testing.T) {
	mock := testutil.NewMockViewer()
	mock.AddMarket(testutil.CreateTestSnapshot(7, 6000, 1_000_000, 500_000), nil, nil)

	cached := NewCachedViewer(mock, newMapCache(), time.Minute)

	_, err := cached.GetMarket(context.Background(), 7)
	require.NoError(t, err)

	cached.Invalidate(7)

	_, err = cached.GetMarket(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CallCounts["get_market"])
}

func TestCachedViewerFetchErrorNotCached(t *testing.T) {
	mock := testutil.NewMockViewer()
	mock.FailMarkets[7] = true

	cached := NewCachedViewer(mock, newMapCache(), time.Minute)

	_, err := cached.GetMarket(context.Background(), 7)
	require.Error(t, err)

	// Recover the upstream and confirm the error was not memoized.
	delete(mock.FailMarkets, 7)
	mock.AddMarket(testutil.CreateTestSnapshot(7, 6000, 1_000_000, 500_000), nil, nil)

	snap, err := cached.GetMarket(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), snap.ID)
}

func TestCachedViewerNilCache(t *testing.T) {
	mock := testutil.NewMockViewer()
	mock.AddMarket(testutil.CreateTestSnapshot(7, 6000, 1_000_000, 500_000), nil, nil)

	cached := NewCachedViewer(mock, nil, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := cached.GetMarket(context.Background(), 7)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, mock.CallCounts["get_market"])
}

func TestCachedViewerPositionsAlwaysFresh(t *testing.T) {
	mock := testutil.NewMockViewer()
	mock.AddMarket(
		testutil.CreateTestSnapshot(7, 6000, 1_000_000, 500_000),
		[]types.Position{testutil.CreateTestPosition(7, 1, "0xabc", types.OutcomeYes, 1_000_000, 5000)},
		nil,
	)

	cached := NewCachedViewer(mock, newMapCache(), time.Minute)

	for i := 0; i < 2; i++ {
		_, err := cached.GetUserPositions(context.Background(), "0xabc", 7)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, mock.CallCounts["get_user_positions"])
}
