package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/testutil"
	"github.com/pivotmarket/pivot-client/pkg/types"
)

func newTestAggregator(viewer Viewer, concurrency int64) *Aggregator {
	return NewAggregator(&AggregatorConfig{
		Viewer:      viewer,
		Logger:      zap.NewNop(),
		Concurrency: concurrency,
	})
}

func TestFetchUserDataAggregatesAllMarkets(t *testing.T) {
	mock := testutil.NewMockViewer()
	mock.AddMarket(
		testutil.CreateTestSnapshot(1, 6000, 1_000_000, 500_000),
		[]types.Position{testutil.CreateTestPosition(1, 10, "0xabc", types.OutcomeYes, 2_000_000, 4000)},
		[]types.TradeRecord{testutil.CreateTestTrade(100, 1, "0xabc", types.TradeTypeBuy, 800_000)},
	)
	mock.AddMarket(
		testutil.CreateTestSnapshot(2, 3000, 400_000, 900_000),
		[]types.Position{testutil.CreateTestPosition(2, 20, "0xabc", types.OutcomeNo, 1_000_000, 7000)},
		[]types.TradeRecord{testutil.CreateTestTrade(200, 2, "0xabc", types.TradeTypeBuy, 700_000)},
	)

	agg := newTestAggregator(mock, 4)

	data, err := agg.FetchUserData(context.Background(), "0xabc")
	require.NoError(t, err)

	require.Len(t, data.Holdings, 2)
	require.Len(t, data.Trades, 2)
	assert.Empty(t, data.FailedMarkets)

	// Sorted by market id regardless of fan-out completion order.
	assert.Equal(t, uint64(1), data.Holdings[0].Position.MarketID)
	assert.Equal(t, uint64(2), data.Holdings[1].Position.MarketID)
	assert.Equal(t, uint64(100), data.Trades[0].TradeID)
	assert.Equal(t, uint64(200), data.Trades[1].TradeID)

	// Each holding carries the snapshot of its own market.
	assert.Equal(t, data.Holdings[0].Position.MarketID, data.Holdings[0].Market.ID)
	assert.Equal(t, data.Holdings[1].Position.MarketID, data.Holdings[1].Market.ID)
}

func TestFetchUserDataIsolatesFailedMarkets(t *testing.T) {
	mock := testutil.NewMockViewer()
	mock.AddMarket(
		testutil.CreateTestSnapshot(1, 6000, 1_000_000, 500_000),
		[]types.Position{testutil.CreateTestPosition(1, 10, "0xabc", types.OutcomeYes, 2_000_000, 4000)},
		[]types.TradeRecord{testutil.CreateTestTrade(100, 1, "0xabc", types.TradeTypeBuy, 800_000)},
	)
	mock.FailMarkets[2] = true

	agg := newTestAggregator(mock, 4)

	data, err := agg.FetchUserData(context.Background(), "0xabc")
	require.NoError(t, err)

	// The healthy market still contributes.
	require.Len(t, data.Holdings, 1)
	require.Len(t, data.Trades, 1)
	assert.Equal(t, []uint64{2}, data.FailedMarkets)
}

func TestFetchUserDataMarketListFailure(t *testing.T) {
	mock := testutil.NewMockViewer()
	mock.FailMarketList = true

	agg := newTestAggregator(mock, 4)

	_, err := agg.FetchUserData(context.Background(), "0xabc")
	require.Error(t, err)
}

func TestFetchUserDataSkipsClosedPositions(t *testing.T) {
	open := testutil.CreateTestPosition(1, 10, "0xabc", types.OutcomeYes, 2_000_000, 4000)
	closed := testutil.CreateTestPosition(1, 11, "0xabc", types.OutcomeYes, 0, 4000)

	mock := testutil.NewMockViewer()
	mock.AddMarket(
		testutil.CreateTestSnapshot(1, 6000, 1_000_000, 500_000),
		[]types.Position{open, closed},
		nil,
	)

	agg := newTestAggregator(mock, 4)

	data, err := agg.FetchUserData(context.Background(), "0xabc")
	require.NoError(t, err)

	require.Len(t, data.Holdings, 1)
	assert.Equal(t, uint64(10), data.Holdings[0].Position.PositionID)
}

func TestFetchUserDataKeepsResolvedMarkets(t *testing.T) {
	mock := testutil.NewMockViewer()
	mock.AddMarket(
		testutil.CreateResolvedSnapshot(1, 9800, types.OutcomeYes),
		[]types.Position{testutil.CreateTestPosition(1, 10, "0xabc", types.OutcomeYes, 2_000_000, 4000)},
		[]types.TradeRecord{testutil.CreateTestTrade(100, 1, "0xabc", types.TradeTypeBuy, 800_000)},
	)

	agg := newTestAggregator(mock, 4)

	data, err := agg.FetchUserData(context.Background(), "0xabc")
	require.NoError(t, err)

	// Resolved markets stay in the holdings set; valuation decides what to
	// do with them, not the fetch layer.
	require.Len(t, data.Holdings, 1)
	assert.True(t, data.Holdings[0].Market.Resolved)
	assert.Equal(t, types.OutcomeYes, data.Holdings[0].Market.Outcome)
}

func TestFetchUserDataBoundedConcurrency(t *testing.T) {
	mock := testutil.NewMockViewer()
	for id := uint64(1); id <= 20; id++ {
		mock.AddMarket(
			testutil.CreateTestSnapshot(id, 5000, 1_000_000, 1_000_000),
			[]types.Position{testutil.CreateTestPosition(id, id*10, "0xabc", types.OutcomeYes, 1_000_000, 5000)},
			[]types.TradeRecord{testutil.CreateTestTrade(id*100, id, "0xabc", types.TradeTypeBuy, 500_000)},
		)
	}

	// Single-slot semaphore still drains every market.
	agg := newTestAggregator(mock, 1)

	data, err := agg.FetchUserData(context.Background(), "0xabc")
	require.NoError(t, err)

	assert.Len(t, data.Holdings, 20)
	assert.Len(t, data.Trades, 20)
	assert.Empty(t, data.FailedMarkets)

	for i := 1; i < len(data.Holdings); i++ {
		assert.Less(t, data.Holdings[i-1].Position.MarketID, data.Holdings[i].Position.MarketID)
	}
}

func TestFetchUserDataCancelledContext(t *testing.T) {
	mock := testutil.NewMockViewer()
	mock.AddMarket(testutil.CreateTestSnapshot(1, 5000, 1_000_000, 1_000_000), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := newTestAggregator(mock, 1)

	// GetUserMarkets succeeds on the mock; the semaphore acquire observes
	// the cancelled context and the market lands in FailedMarkets.
	data, err := agg.FetchUserData(ctx, "0xabc")
	require.NoError(t, err)
	assert.Empty(t, data.Holdings)
	assert.Equal(t, []uint64{1}, data.FailedMarkets)
}
