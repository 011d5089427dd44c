package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/pivotmarket/pivot-client/internal/portfolio"
	"github.com/pivotmarket/pivot-client/pkg/types"
)

// Aggregator gathers the valuation engine's inputs: one read per market per
// data kind (snapshot, positions, trades), dispatched concurrently and
// awaited as a batch.
//
// Failure handling is settle-all: a failed market is logged, counted and
// dropped, never escalated, so one slow or broken market degrades precision
// but not availability of the summary.
type Aggregator struct {
	viewer      Viewer
	logger      *zap.Logger
	concurrency int64
	tradeLimit  int
}

// AggregatorConfig holds aggregator configuration.
type AggregatorConfig struct {
	Viewer      Viewer
	Logger      *zap.Logger
	Concurrency int64 // max markets fetched in parallel
	TradeLimit  int   // per-market trade history cap, 0 = uncapped
}

// NewAggregator creates a batch aggregator.
func NewAggregator(cfg *AggregatorConfig) *Aggregator {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	return &Aggregator{
		viewer:      cfg.Viewer,
		logger:      cfg.Logger,
		concurrency: concurrency,
		tradeLimit:  cfg.TradeLimit,
	}
}

// UserData is one settled batch of a user's cross-market state.
type UserData struct {
	Holdings      []portfolio.Holding
	Trades        []types.TradeRecord
	FailedMarkets []uint64
}

// marketData is the per-market fan-out result.
type marketData struct {
	marketID uint64
	holdings []portfolio.Holding
	trades   []types.TradeRecord
	err      error
}

// FetchUserData reads the user's positions and trade history across every
// market they have activity in. Market order is not significant; the
// valuation is commutative over it, but results are sorted by market id so
// repeated fetches of unchanged state compare equal.
func (a *Aggregator) FetchUserData(ctx context.Context, user string) (*UserData, error) {
	start := time.Now()
	defer func() {
		AggregationDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	marketIDs, err := a.viewer.GetUserMarkets(ctx, user)
	if err != nil {
		// Without the market list there is nothing to degrade to.
		return nil, err
	}

	sem := semaphore.NewWeighted(a.concurrency)
	results := make([]marketData, len(marketIDs))

	var wg sync.WaitGroup
	for i, marketID := range marketIDs {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = marketData{marketID: marketID, err: err}
			continue
		}

		wg.Add(1)
		go func(slot int, id uint64) {
			defer wg.Done()
			defer sem.Release(1)
			results[slot] = a.fetchMarket(ctx, user, id)
		}(i, marketID)
	}
	wg.Wait()

	data := &UserData{}
	for i := range results {
		res := &results[i]
		if res.err != nil {
			MarketsDroppedTotal.Inc()
			a.logger.Warn("market-read-failed",
				zap.Uint64("market-id", res.marketID),
				zap.String("user", user),
				zap.Error(res.err))
			data.FailedMarkets = append(data.FailedMarkets, res.marketID)
			continue
		}
		data.Holdings = append(data.Holdings, res.holdings...)
		data.Trades = append(data.Trades, res.trades...)
	}

	sort.Slice(data.Holdings, func(i, j int) bool {
		hi, hj := &data.Holdings[i], &data.Holdings[j]
		if hi.Position.MarketID != hj.Position.MarketID {
			return hi.Position.MarketID < hj.Position.MarketID
		}
		return hi.Position.PositionID < hj.Position.PositionID
	})
	sort.Slice(data.Trades, func(i, j int) bool {
		return data.Trades[i].TradeID < data.Trades[j].TradeID
	})

	return data, nil
}

// fetchMarket reads all three data kinds for one market. Any failure taints
// the whole market: a snapshot without positions (or vice versa) would skew
// the valuation.
func (a *Aggregator) fetchMarket(ctx context.Context, user string, marketID uint64) marketData {
	res := marketData{marketID: marketID}

	snap, err := a.viewer.GetMarket(ctx, marketID)
	if err != nil {
		res.err = err
		return res
	}

	positions, err := a.viewer.GetUserPositions(ctx, user, marketID)
	if err != nil {
		res.err = err
		return res
	}

	trades, err := a.viewer.GetUserTrades(ctx, user, marketID, a.tradeLimit)
	if err != nil {
		res.err = err
		return res
	}

	for i := range positions {
		if positions[i].Closed() {
			continue
		}
		res.holdings = append(res.holdings, portfolio.Holding{
			Position: positions[i],
			Market:   snap,
		})
	}
	res.trades = trades

	return res
}
