package types

import "time"

// Outcome identifies one side of a binary market.
// Codes match the ledger program's discriminator (YES=1, NO=2).
type Outcome uint8

const (
	OutcomeUnknown Outcome = 0
	OutcomeYes     Outcome = 1
	OutcomeNo      Outcome = 2
)

// String returns the human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeYes:
		return "YES"
	case OutcomeNo:
		return "NO"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the other side of a binary market.
func (o Outcome) Opposite() Outcome {
	switch o {
	case OutcomeYes:
		return OutcomeNo
	case OutcomeNo:
		return OutcomeYes
	default:
		return OutcomeUnknown
	}
}

// ParseOutcome parses a user-facing outcome name ("yes"/"no", case-insensitive).
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "yes", "Yes", "YES":
		return OutcomeYes, nil
	case "no", "No", "NO":
		return OutcomeNo, nil
	default:
		return OutcomeUnknown, &InvalidInputError{Field: "outcome", Reason: "must be yes or no"}
	}
}

// MarketSnapshot is a point-in-time read of one market from the ledger
// program's view functions. Snapshots are immutable; after submitting a
// transaction the caller must re-fetch to observe the new state.
//
// Prices are basis points on [0, 10000]; share and value fields are
// fixed-point integers with an implicit 6-decimal scale.
type MarketSnapshot struct {
	ID               uint64
	Question         string
	YesPriceBps      int64
	NoPriceBps       int64
	TotalYesShares   int64
	TotalNoShares    int64
	Resolved         bool
	Outcome          Outcome // valid only when Resolved is true
	EndTime          time.Time
	CreationTime     time.Time
	TotalValueLocked int64
	TotalLiquidity   int64
}

// PriceBps returns the quoted price for one side in basis points.
func (m *MarketSnapshot) PriceBps(side Outcome) int64 {
	if side == OutcomeYes {
		return m.YesPriceBps
	}
	return m.NoPriceBps
}

// SideShares returns (shares for side, shares for the opposite side).
func (m *MarketSnapshot) SideShares(side Outcome) (int64, int64) {
	if side == OutcomeYes {
		return m.TotalYesShares, m.TotalNoShares
	}
	return m.TotalNoShares, m.TotalYesShares
}

// MarketSummary is the lighter-weight listing read.
type MarketSummary struct {
	ID               uint64
	Question         string
	YesPriceBps      int64
	TotalValueLocked int64
	Participants     int64
	Resolved         bool
	EndTime          time.Time
}
