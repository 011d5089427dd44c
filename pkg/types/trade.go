package types

import "time"

// TradeType enumerates the ledger program's trade record kinds.
// Codes match the on-ledger discriminator.
type TradeType uint8

const (
	TradeTypeUnknown         TradeType = 0
	TradeTypeBuy             TradeType = 1
	TradeTypeSell            TradeType = 2
	TradeTypeAddLiquidity    TradeType = 3
	TradeTypeRemoveLiquidity TradeType = 4
	TradeTypeClaim           TradeType = 5
	TradeTypeResolve         TradeType = 6
)

// String returns the trade type name used in gateway payloads and logs.
func (t TradeType) String() string {
	switch t {
	case TradeTypeBuy:
		return "buy"
	case TradeTypeSell:
		return "sell"
	case TradeTypeAddLiquidity:
		return "add-liquidity"
	case TradeTypeRemoveLiquidity:
		return "remove-liquidity"
	case TradeTypeClaim:
		return "claim"
	case TradeTypeResolve:
		return "resolve"
	default:
		return "unknown"
	}
}

// TradeRecord is an immutable historical event from the ledger program.
// Records are append-only and are the sole source of realized cash-flow
// history for portfolio valuation.
//
// Amount and Shares use the 6-decimal fixed-point scale; prices are basis
// points. Outcome is OutcomeUnknown for liquidity operations.
type TradeRecord struct {
	TradeID           uint64
	MarketID          uint64
	User              string
	Type              TradeType
	Outcome           Outcome
	Amount            int64
	Shares            int64
	PriceBps          int64
	YesPriceBeforeBps int64
	YesPriceAfterBps  int64
	NoPriceBeforeBps  int64
	NoPriceAfterBps   int64
	Timestamp         time.Time
}

// IsInflow reports whether the trade returned cash to the user
// (sell, remove-liquidity, claim).
func (t *TradeRecord) IsInflow() bool {
	switch t.Type {
	case TradeTypeSell, TradeTypeRemoveLiquidity, TradeTypeClaim:
		return true
	default:
		return false
	}
}

// IsOutflow reports whether the trade committed the user's cash
// (buy, add-liquidity).
func (t *TradeRecord) IsOutflow() bool {
	switch t.Type {
	case TradeTypeBuy, TradeTypeAddLiquidity:
		return true
	default:
		return false
	}
}
