package stream

import (
	"fmt"
	"strconv"

	"github.com/pivotmarket/pivot-client/pkg/types"
)

// PriceEvent is one market price update pushed by the gateway. Numeric
// fields travel as decimal strings, matching the view API.
type PriceEvent struct {
	MarketID    string `json:"market_id"`
	YesPrice    string `json:"yes_price"`
	NoPrice     string `json:"no_price"`
	Resolved    bool   `json:"resolved"`
	EventType   string `json:"event_type"`
	LedgerEpoch string `json:"ledger_epoch,omitempty"`
}

// PriceUpdate is the decoded, validated form of a PriceEvent.
type PriceUpdate struct {
	MarketID    uint64
	YesPriceBps int64
	NoPriceBps  int64
	Resolved    bool
}

// Decode validates a wire event and converts its decimal strings.
func (e *PriceEvent) Decode() (*PriceUpdate, error) {
	marketID, err := strconv.ParseUint(e.MarketID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse market id %q: %w", e.MarketID, err)
	}

	yesBps, err := types.ParseBps(e.YesPrice)
	if err != nil {
		return nil, fmt.Errorf("parse yes price: %w", err)
	}

	noBps, err := types.ParseBps(e.NoPrice)
	if err != nil {
		return nil, fmt.Errorf("parse no price: %w", err)
	}

	return &PriceUpdate{
		MarketID:    marketID,
		YesPriceBps: yesBps,
		NoPriceBps:  noBps,
		Resolved:    e.Resolved,
	}, nil
}
