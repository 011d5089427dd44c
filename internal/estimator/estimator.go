// Package estimator computes price-impact projections and slippage-tolerance
// bounds for prospective trades. It is pure computation over a market
// snapshot: no I/O, no hidden state, safe to call on every keystroke of a
// stake-amount input.
package estimator

import (
	"math"
	"math/big"

	"github.com/pivotmarket/pivot-client/pkg/types"
)

const (
	// ColdStartSlippageBps is the tolerance applied to the first trade on a
	// market with no prior trading. With no history the first trade can move
	// price arbitrarily within the AMM's bounds; a tight bound would make it
	// fail deterministically.
	ColdStartSlippageBps = 5000

	// SlippageMarginBps is the fixed safety margin added on top of the
	// projected price impact to absorb concurrent trades between quote time
	// and execution time.
	SlippageMarginBps = 50

	// MinSlippageBps is the floor for the warm-market tolerance.
	MinSlippageBps = 100
)

// Quote is the estimator's output: how many shares the trade would mint and
// the maximum slippage bound to attach to the signed transaction. The bound
// is passed through unmodified; the ledger program aborts the trade at
// execution time if price has moved beyond it.
type Quote struct {
	Side              types.Outcome
	StakeScaled       int64
	CurrentPriceBps   int64
	ProjectedPriceBps int64
	PriceImpactBps    int64
	ProjectedShares   int64
	MaxSlippageBps    int64
}

// Estimate projects the outcome of buying `stake` (human currency units) of
// one side of a market at the given snapshot.
//
// Arithmetic runs through big.Int: share totals are 6-decimal fixed-point
// integers and the intermediate stake*10000 products can exceed int64 on
// large markets.
func Estimate(side types.Outcome, stake float64, snap *types.MarketSnapshot) (*Quote, error) {
	if side != types.OutcomeYes && side != types.OutcomeNo {
		QuotesRejectedTotal.WithLabelValues("invalid_side").Inc()
		return nil, &types.InvalidInputError{Field: "side", Reason: "must be YES or NO"}
	}

	if math.IsNaN(stake) || math.IsInf(stake, 0) || stake <= 0 {
		QuotesRejectedTotal.WithLabelValues("invalid_stake").Inc()
		return nil, &types.InvalidInputError{Field: "stake", Reason: "must be a positive finite amount"}
	}

	currentPriceBps := snap.PriceBps(side)
	if currentPriceBps <= 0 {
		QuotesRejectedTotal.WithLabelValues("unpriced_market").Inc()
		return nil, types.ErrUnpricedMarket
	}

	stakeScaled := types.FloatToFixed(stake)
	if stakeScaled <= 0 {
		QuotesRejectedTotal.WithLabelValues("invalid_stake").Inc()
		return nil, &types.InvalidInputError{Field: "stake", Reason: "amount rounds to zero at the ledger scale"}
	}

	// projectedShares = floor(stakeScaled * 10000 / currentPriceBps)
	projected := new(big.Int).SetInt64(stakeScaled)
	projected.Mul(projected, big.NewInt(types.BpsScale))
	projected.Quo(projected, big.NewInt(currentPriceBps))
	projectedShares := projected.Int64()

	sideShares, oppositeShares := snap.SideShares(side)

	quote := &Quote{
		Side:              side,
		StakeScaled:       stakeScaled,
		CurrentPriceBps:   currentPriceBps,
		ProjectedPriceBps: currentPriceBps,
		ProjectedShares:   projectedShares,
	}

	if sideShares == 0 && oppositeShares == 0 {
		// Cold start: freshly created market with no prior trading.
		quote.MaxSlippageBps = ColdStartSlippageBps
		QuotesComputedTotal.WithLabelValues("cold").Inc()
		QuoteSlippageBps.Observe(float64(quote.MaxSlippageBps))
		return quote, nil
	}

	// newPriceBps = floor((sideShares + projectedShares) * 10000 /
	//                     (sideShares + oppositeShares + projectedShares))
	// The share totals stay in big.Int too: two near-max sides would
	// overflow a plain int64 sum.
	num := new(big.Int).SetInt64(sideShares)
	num.Add(num, big.NewInt(projectedShares))
	num.Mul(num, big.NewInt(types.BpsScale))

	den := new(big.Int).SetInt64(sideShares)
	den.Add(den, big.NewInt(oppositeShares))
	den.Add(den, big.NewInt(projectedShares))

	newPriceBps := new(big.Int).Quo(num, den).Int64()

	impact := newPriceBps - currentPriceBps
	if impact < 0 {
		impact = -impact
	}

	maxSlippage := impact + SlippageMarginBps
	if maxSlippage < MinSlippageBps {
		maxSlippage = MinSlippageBps
	}
	if maxSlippage > types.BpsScale {
		// 10000 bps already accepts any execution price; anything above
		// it would be rejected at submission.
		maxSlippage = types.BpsScale
	}

	quote.ProjectedPriceBps = newPriceBps
	quote.PriceImpactBps = impact
	quote.MaxSlippageBps = maxSlippage

	QuotesComputedTotal.WithLabelValues("warm").Inc()
	QuotePriceImpactBps.Observe(float64(impact))
	QuoteSlippageBps.Observe(float64(maxSlippage))

	return quote, nil
}
