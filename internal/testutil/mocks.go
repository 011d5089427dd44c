package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/pivotmarket/pivot-client/pkg/types"
)

// MockViewer is an in-memory ledger view client for tests. Per-market
// failures can be injected to exercise the settle-all aggregation path.
type MockViewer struct {
	mu sync.RWMutex

	Snapshots map[uint64]*types.MarketSnapshot
	Positions map[uint64][]types.Position    // keyed by market id
	Trades    map[uint64][]types.TradeRecord // keyed by market id
	Summaries []types.MarketSummary

	// FailMarkets lists market ids whose reads return an error.
	FailMarkets map[uint64]bool

	// FailMarketList makes GetUserMarkets itself fail.
	FailMarketList bool

	// CallCounts records view-call counts by method.
	CallCounts map[string]int
}

// NewMockViewer creates an empty mock viewer.
func NewMockViewer() *MockViewer {
	return &MockViewer{
		Snapshots:   make(map[uint64]*types.MarketSnapshot),
		Positions:   make(map[uint64][]types.Position),
		Trades:      make(map[uint64][]types.TradeRecord),
		FailMarkets: make(map[uint64]bool),
		CallCounts:  make(map[string]int),
	}
}

// AddMarket registers a snapshot with optional positions and trades.
func (m *MockViewer) AddMarket(snap *types.MarketSnapshot, positions []types.Position, trades []types.TradeRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Snapshots[snap.ID] = snap
	m.Positions[snap.ID] = positions
	m.Trades[snap.ID] = trades
}

func (m *MockViewer) count(method string) {
	m.CallCounts[method]++
}

// GetMarket implements ledger.Viewer.
func (m *MockViewer) GetMarket(_ context.Context, marketID uint64) (*types.MarketSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("get_market")

	if m.FailMarkets[marketID] {
		return nil, fmt.Errorf("injected failure for market %d", marketID)
	}

	snap, ok := m.Snapshots[marketID]
	if !ok {
		return nil, fmt.Errorf("market %d not found", marketID)
	}
	return snap, nil
}

// ListMarkets implements ledger.Viewer.
func (m *MockViewer) ListMarkets(_ context.Context, limit, offset int) ([]types.MarketSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("list_markets")

	if offset >= len(m.Summaries) {
		return nil, nil
	}

	end := len(m.Summaries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return m.Summaries[offset:end], nil
}

// GetUserMarkets implements ledger.Viewer.
func (m *MockViewer) GetUserMarkets(_ context.Context, _ string) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("get_user_markets")

	if m.FailMarketList {
		return nil, fmt.Errorf("injected market list failure")
	}

	ids := make([]uint64, 0, len(m.Snapshots))
	for id := range m.Snapshots {
		ids = append(ids, id)
	}
	for id := range m.FailMarkets {
		if _, known := m.Snapshots[id]; !known {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// GetUserPositions implements ledger.Viewer.
func (m *MockViewer) GetUserPositions(_ context.Context, _ string, marketID uint64) ([]types.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("get_user_positions")

	if m.FailMarkets[marketID] {
		return nil, fmt.Errorf("injected failure for market %d", marketID)
	}
	return m.Positions[marketID], nil
}

// GetUserTrades implements ledger.Viewer.
func (m *MockViewer) GetUserTrades(_ context.Context, _ string, marketID uint64, limit int) ([]types.TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("get_user_trades")

	if m.FailMarkets[marketID] {
		return nil, fmt.Errorf("injected failure for market %d", marketID)
	}

	trades := m.Trades[marketID]
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}
