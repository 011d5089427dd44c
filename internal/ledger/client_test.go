package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/pkg/types"
)

func newGateway(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(server.Close)

	return server
}

func validMarketPayload() marketPayload {
	return marketPayload{
		ID:               "7",
		Question:         "Will it ship by Friday?",
		YesPrice:         "6000",
		NoPrice:          "4000",
		TotalYesShares:   "1000000",
		TotalNoShares:    "500000",
		Resolved:         false,
		EndTime:          "1767225600",
		CreationTime:     "1766620800",
		TotalValueLocked: "1500000",
		TotalLiquidity:   "750000",
	}
}

func TestGetMarket(t *testing.T) {
	server := newGateway(t, map[string]any{
		"/v1/markets/7": validMarketPayload(),
	})

	client := NewClient(server.URL, zap.NewNop())

	snap, err := client.GetMarket(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), snap.ID)
	assert.Equal(t, int64(6000), snap.YesPriceBps)
	assert.Equal(t, int64(4000), snap.NoPriceBps)
	assert.Equal(t, int64(1_000_000), snap.TotalYesShares)
	assert.Equal(t, int64(500_000), snap.TotalNoShares)
	assert.False(t, snap.Resolved)
	assert.Equal(t, int64(1767225600), snap.EndTime.Unix())
}

func TestGetMarketResolvedOutcome(t *testing.T) {
	payload := validMarketPayload()
	payload.Resolved = true
	payload.Outcome = "1"

	server := newGateway(t, map[string]any{"/v1/markets/7": payload})
	client := NewClient(server.URL, zap.NewNop())

	snap, err := client.GetMarket(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, snap.Resolved)
	assert.Equal(t, types.OutcomeYes, snap.Outcome)
}

func TestGetMarketMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*marketPayload)
	}{
		{
			name:   "non-numeric-price",
			mutate: func(p *marketPayload) { p.YesPrice = "sixty" },
		},
		{
			name:   "price-above-bps-range",
			mutate: func(p *marketPayload) { p.YesPrice = "10001" },
		},
		{
			name:   "negative-shares",
			mutate: func(p *marketPayload) { p.TotalYesShares = "-1" },
		},
		{
			name:   "shares-exceed-int64",
			mutate: func(p *marketPayload) { p.TotalYesShares = "99999999999999999999" },
		},
		{
			name:   "bad-outcome-code",
			mutate: func(p *marketPayload) { p.Resolved = true; p.Outcome = "3" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validMarketPayload()
			tt.mutate(&payload)

			server := newGateway(t, map[string]any{"/v1/markets/7": payload})
			client := NewClient(server.URL, zap.NewNop())

			_, err := client.GetMarket(context.Background(), 7)
			require.Error(t, err)
		})
	}
}

func TestGetMarketGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.GetMarket(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGetUserPositions(t *testing.T) {
	server := newGateway(t, map[string]any{
		"/v1/users/0xabc/markets/7/positions": []string{"11", "12"},
		"/v1/users/0xabc/markets/7/positions/11": positionPayload{
			MarketID: "7", PositionID: "11", User: "0xabc",
			Outcome: "1", Shares: "2000000", AvgPrice: "4000", Timestamp: "1766620800",
		},
		"/v1/users/0xabc/markets/7/positions/12": positionPayload{
			MarketID: "7", PositionID: "12", User: "0xabc",
			Outcome: "2", Shares: "500000", AvgPrice: "5500", Timestamp: "1766707200",
		},
	})

	client := NewClient(server.URL, zap.NewNop())

	positions, err := client.GetUserPositions(context.Background(), "0xabc", 7)
	require.NoError(t, err)
	require.Len(t, positions, 2)

	assert.Equal(t, types.OutcomeYes, positions[0].Outcome)
	assert.Equal(t, int64(2_000_000), positions[0].Shares)
	assert.Equal(t, int64(4000), positions[0].AvgPriceBps)
	assert.Equal(t, types.OutcomeNo, positions[1].Outcome)
}

func TestGetUserTrades(t *testing.T) {
	server := newGateway(t, map[string]any{
		"/v1/users/0xabc/markets/7/trades": []tradePayload{
			{
				TradeID: "1", MarketID: "7", User: "0xabc", TradeType: "buy",
				Outcome: "1", Amount: "10000000", Shares: "16666666", Price: "6000",
				YesPriceBefore: "6000", YesPriceAfter: "9724",
				NoPriceBefore: "4000", NoPriceAfter: "276",
				Timestamp: "1766620800",
			},
			{
				TradeID: "2", MarketID: "7", User: "0xabc", TradeType: "add-liquidity",
				Amount: "5000000", Price: "5000",
				YesPriceBefore: "6000", YesPriceAfter: "6000",
				NoPriceBefore: "4000", NoPriceAfter: "4000",
				Timestamp: "1766707200",
			},
		},
	})

	client := NewClient(server.URL, zap.NewNop())

	trades, err := client.GetUserTrades(context.Background(), "0xabc", 7, 0)
	require.NoError(t, err)
	require.Len(t, trades, 2)

	assert.Equal(t, types.TradeTypeBuy, trades[0].Type)
	assert.Equal(t, types.OutcomeYes, trades[0].Outcome)
	assert.Equal(t, int64(10_000_000), trades[0].Amount)

	// Liquidity trades carry no outcome.
	assert.Equal(t, types.TradeTypeAddLiquidity, trades[1].Type)
	assert.Equal(t, types.OutcomeUnknown, trades[1].Outcome)
}

func TestGetUserMarkets(t *testing.T) {
	server := newGateway(t, map[string]any{
		"/v1/users/0xabc/markets": []string{"7", "9", "23"},
	})

	client := NewClient(server.URL, zap.NewNop())

	ids, err := client.GetUserMarkets(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, []uint64{7, 9, 23}, ids)
}

func TestListMarketsSkipsMalformedRows(t *testing.T) {
	server := newGateway(t, map[string]any{
		"/v1/markets": []marketSummaryPayload{
			{ID: "1", Question: "A?", YesPrice: "5000", TotalValueLocked: "1000000", Participants: "3", EndTime: "1767225600"},
			{ID: "2", Question: "B?", YesPrice: "garbage", TotalValueLocked: "1000000", Participants: "3", EndTime: "1767225600"},
			{ID: "3", Question: "C?", YesPrice: "7000", TotalValueLocked: "2000000", Participants: "9", EndTime: "1767225600"},
		},
	})

	client := NewClient(server.URL, zap.NewNop())

	summaries, err := client.ListMarkets(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, uint64(1), summaries[0].ID)
	assert.Equal(t, uint64(3), summaries[1].ID)
}
