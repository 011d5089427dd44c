// Package portfolio reconstructs a coherent portfolio valuation from the
// per-market position and trade records scattered across a user's markets.
// The engine is a pure function over explicitly supplied snapshots; it holds
// no cache and no state between invocations, so a caller always gets a
// deterministic result for whatever inputs it gathered.
package portfolio

import (
	"time"

	"github.com/pivotmarket/pivot-client/pkg/types"
)

// Holding pairs an open position with the current snapshot of its market.
type Holding struct {
	Position types.Position
	Market   *types.MarketSnapshot
}

// PositionValuation is the per-position display tuple.
type PositionValuation struct {
	MarketID     uint64
	PositionID   uint64
	Question     string
	Outcome      types.Outcome
	Shares       float64
	AvgPriceBps  int64
	CurrentValue float64
	CostBasis    float64
	PnLValue     float64
	PnLPercent   float64
	Resolved     bool
	Won          bool
	HoldDays     float64
}

// Summary is the point-in-time portfolio summary.
type Summary struct {
	NetWorth       float64
	PositionsValue float64
	Invested       float64
	ProfitLoss     float64
	RealizedProfit float64
	UnrealizedPnL  float64
	Wins           int
	Losses         int
	WinRate        float64
	ROI            float64
	AvgHoldDays    float64
	OpenPositions  int
	ComputedAt     time.Time
}

// Input carries everything the engine needs for one user. WalletBalance is
// the spendable collateral balance in human currency units; Holdings and
// Trades span every market the caller managed to read.
type Input struct {
	WalletBalance float64
	Holdings      []Holding
	Trades        []types.TradeRecord
}

// Compute derives the portfolio summary and per-position valuations.
//
// Realized profit accounting: inflows are cash recovered (sell,
// remove-liquidity, claim); outflows are cash committed (buy,
// add-liquidity). The portion of outflows still tied up in open positions
// (totalInvested at cost basis) is excluded from the realized figure and
// shows up in unrealized PnL instead, so
//
//	realized = inflows - (outflows - totalInvested)
//
// Invested is reported as the outflow total so it reflects all capital ever
// committed, including capital since recovered. When buy history has been
// pruned for positions still held, outflows are floored at the open cost
// basis so invested is never understated.
func Compute(in Input, now time.Time) (Summary, []PositionValuation) {
	start := time.Now()

	var (
		positionsValue float64
		totalInvested  float64
		unrealizedPnL  float64
		wins, losses   int
		holdDaysSum    float64
		open           int
	)

	valuations := make([]PositionValuation, 0, len(in.Holdings))

	for _, h := range in.Holdings {
		pos := h.Position
		if pos.Closed() || h.Market == nil {
			continue
		}

		shares := pos.SharesHuman()
		// Resolved markets keep their live quoted price here rather than
		// snapping to the binary payoff. See DESIGN.md.
		currentPrice := types.BpsToFraction(h.Market.PriceBps(pos.Outcome))
		currentValue := shares * currentPrice
		costBasis := pos.CostBasis()
		pnl := currentValue - costBasis

		pnlPercent := 0.0
		if costBasis > 0 {
			pnlPercent = pnl / costBasis * 100
		}

		holdDays := now.Sub(pos.Timestamp).Hours() / 24
		if holdDays < 0 {
			holdDays = 0
		}

		v := PositionValuation{
			MarketID:     pos.MarketID,
			PositionID:   pos.PositionID,
			Question:     h.Market.Question,
			Outcome:      pos.Outcome,
			Shares:       shares,
			AvgPriceBps:  pos.AvgPriceBps,
			CurrentValue: currentValue,
			CostBasis:    costBasis,
			PnLValue:     pnl,
			PnLPercent:   pnlPercent,
			Resolved:     h.Market.Resolved,
			HoldDays:     holdDays,
		}

		if h.Market.Resolved {
			if pos.Outcome == h.Market.Outcome {
				v.Won = true
				wins++
			} else {
				losses++
			}
		}

		positionsValue += currentValue
		totalInvested += costBasis
		unrealizedPnL += pnl
		holdDaysSum += holdDays
		open++

		valuations = append(valuations, v)
	}

	var inflows, outflows float64
	for i := range in.Trades {
		tr := &in.Trades[i]
		switch {
		case tr.IsInflow():
			inflows += types.FixedToFloat(tr.Amount)
		case tr.IsOutflow():
			outflows += types.FixedToFloat(tr.Amount)
		}
	}

	// Cost-basis fallback: open positions whose buy trades fell out of the
	// retained history would otherwise understate invested capital.
	if outflows < totalInvested {
		outflows = totalInvested
	}

	realized := inflows - (outflows - totalInvested)
	profitLoss := realized + unrealizedPnL

	summary := Summary{
		NetWorth:       in.WalletBalance + positionsValue,
		PositionsValue: positionsValue,
		Invested:       outflows,
		ProfitLoss:     profitLoss,
		RealizedProfit: realized,
		UnrealizedPnL:  unrealizedPnL,
		Wins:           wins,
		Losses:         losses,
		OpenPositions:  open,
		ComputedAt:     now,
	}

	if wins+losses > 0 {
		summary.WinRate = float64(wins) / float64(wins+losses)
	}

	if outflows > 0 {
		summary.ROI = profitLoss / outflows
	}

	if open > 0 {
		summary.AvgHoldDays = holdDaysSum / float64(open)
	}

	ComputationsTotal.Inc()
	ComputeDurationSeconds.Observe(time.Since(start).Seconds())
	observeSummary(&summary)

	return summary, valuations
}
