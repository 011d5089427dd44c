package types

import "time"

// Position is a user's holding of one outcome in one market, as read from
// the ledger program. Shares use the 6-decimal fixed-point scale;
// AvgPriceBps is the volume-weighted cost basis in basis points.
//
// Positions are created and mutated exclusively by the ledger; the client
// treats them as read-only and eventually consistent.
type Position struct {
	MarketID    uint64
	PositionID  uint64
	User        string
	Outcome     Outcome
	Shares      int64
	AvgPriceBps int64
	Timestamp   time.Time
}

// Closed reports whether the position has been fully exited.
// Closed positions must not appear in portfolio aggregation.
func (p *Position) Closed() bool {
	return p.Shares == 0
}

// SharesHuman returns the share count in human units.
func (p *Position) SharesHuman() float64 {
	return FixedToFloat(p.Shares)
}

// CostBasis returns the value paid for the currently held shares, in
// human currency units.
func (p *Position) CostBasis() float64 {
	return p.SharesHuman() * BpsToFraction(p.AvgPriceBps)
}
