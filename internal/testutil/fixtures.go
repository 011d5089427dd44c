package testutil

import (
	"time"

	"github.com/pivotmarket/pivot-client/pkg/types"
)

// CreateTestSnapshot creates an unresolved test market snapshot with the
// given YES price; the NO price is the complement.
func CreateTestSnapshot(id uint64, yesPriceBps, yesShares, noShares int64) *types.MarketSnapshot {
	return &types.MarketSnapshot{
		ID:               id,
		Question:         "Test market?",
		YesPriceBps:      yesPriceBps,
		NoPriceBps:       types.BpsScale - yesPriceBps,
		TotalYesShares:   yesShares,
		TotalNoShares:    noShares,
		EndTime:          time.Now().Add(7 * 24 * time.Hour).UTC(),
		CreationTime:     time.Now().Add(-24 * time.Hour).UTC(),
		TotalValueLocked: yesShares + noShares,
		TotalLiquidity:   (yesShares + noShares) / 2,
	}
}

// CreateResolvedSnapshot creates a resolved test snapshot.
func CreateResolvedSnapshot(id uint64, yesPriceBps int64, outcome types.Outcome) *types.MarketSnapshot {
	snap := CreateTestSnapshot(id, yesPriceBps, 1_000_000, 1_000_000)
	snap.Resolved = true
	snap.Outcome = outcome
	return snap
}

// CreateTestPosition creates an open test position.
func CreateTestPosition(marketID, positionID uint64, user string, outcome types.Outcome, shares, avgPriceBps int64) types.Position {
	return types.Position{
		MarketID:    marketID,
		PositionID:  positionID,
		User:        user,
		Outcome:     outcome,
		Shares:      shares,
		AvgPriceBps: avgPriceBps,
		Timestamp:   time.Now().Add(-48 * time.Hour).UTC(),
	}
}

// CreateTestTrade creates a test trade record.
func CreateTestTrade(tradeID, marketID uint64, user string, tradeType types.TradeType, amount int64) types.TradeRecord {
	return types.TradeRecord{
		TradeID:           tradeID,
		MarketID:          marketID,
		User:              user,
		Type:              tradeType,
		Outcome:           types.OutcomeYes,
		Amount:            amount,
		PriceBps:          5000,
		YesPriceBeforeBps: 5000,
		YesPriceAfterBps:  5100,
		NoPriceBeforeBps:  5000,
		NoPriceAfterBps:   4900,
		Timestamp:         time.Now().Add(-24 * time.Hour).UTC(),
	}
}
