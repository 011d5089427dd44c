package ledger

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pivotmarket/pivot-client/pkg/types"
)

func parseID(field, s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s %q: %w", field, s, err)
	}
	return id, nil
}

func parseUnixSeconds(field, s string) (time.Time, error) {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed %s %q: %w", field, s, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}

func parseOutcomeCode(s string) (types.Outcome, error) {
	switch s {
	case "", "0":
		return types.OutcomeUnknown, nil
	case "1":
		return types.OutcomeYes, nil
	case "2":
		return types.OutcomeNo, nil
	default:
		return types.OutcomeUnknown, fmt.Errorf("unknown outcome code %q", s)
	}
}

func parseTradeType(s string) (types.TradeType, error) {
	switch s {
	case "buy", "1":
		return types.TradeTypeBuy, nil
	case "sell", "2":
		return types.TradeTypeSell, nil
	case "add-liquidity", "3":
		return types.TradeTypeAddLiquidity, nil
	case "remove-liquidity", "4":
		return types.TradeTypeRemoveLiquidity, nil
	case "claim", "5":
		return types.TradeTypeClaim, nil
	case "resolve", "6":
		return types.TradeTypeResolve, nil
	default:
		return types.TradeTypeUnknown, fmt.Errorf("unknown trade type %q", s)
	}
}

func (p *marketPayload) toDomain() (*types.MarketSnapshot, error) {
	id, err := parseID("market id", p.ID)
	if err != nil {
		return nil, err
	}

	yesPrice, err := types.ParseBps(p.YesPrice)
	if err != nil {
		return nil, fmt.Errorf("yes_price: %w", err)
	}

	noPrice, err := types.ParseBps(p.NoPrice)
	if err != nil {
		return nil, fmt.Errorf("no_price: %w", err)
	}

	yesShares, err := types.ParseFixed(p.TotalYesShares)
	if err != nil {
		return nil, fmt.Errorf("total_yes_shares: %w", err)
	}

	noShares, err := types.ParseFixed(p.TotalNoShares)
	if err != nil {
		return nil, fmt.Errorf("total_no_shares: %w", err)
	}

	tvl, err := types.ParseFixed(p.TotalValueLocked)
	if err != nil {
		return nil, fmt.Errorf("total_value_locked: %w", err)
	}

	liquidity, err := types.ParseFixed(p.TotalLiquidity)
	if err != nil {
		return nil, fmt.Errorf("total_liquidity: %w", err)
	}

	endTime, err := parseUnixSeconds("end_time", p.EndTime)
	if err != nil {
		return nil, err
	}

	creationTime, err := parseUnixSeconds("creation_time", p.CreationTime)
	if err != nil {
		return nil, err
	}

	outcome := types.OutcomeUnknown
	if p.Resolved {
		outcome, err = parseOutcomeCode(p.Outcome)
		if err != nil {
			return nil, err
		}
	}

	return &types.MarketSnapshot{
		ID:               id,
		Question:         p.Question,
		YesPriceBps:      yesPrice,
		NoPriceBps:       noPrice,
		TotalYesShares:   yesShares,
		TotalNoShares:    noShares,
		Resolved:         p.Resolved,
		Outcome:          outcome,
		EndTime:          endTime,
		CreationTime:     creationTime,
		TotalValueLocked: tvl,
		TotalLiquidity:   liquidity,
	}, nil
}

func (p *marketSummaryPayload) toDomain() (*types.MarketSummary, error) {
	id, err := parseID("market id", p.ID)
	if err != nil {
		return nil, err
	}

	yesPrice, err := types.ParseBps(p.YesPrice)
	if err != nil {
		return nil, fmt.Errorf("yes_price: %w", err)
	}

	tvl, err := types.ParseFixed(p.TotalValueLocked)
	if err != nil {
		return nil, fmt.Errorf("total_value_locked: %w", err)
	}

	participants, err := types.ParseFixed(p.Participants)
	if err != nil {
		return nil, fmt.Errorf("participants: %w", err)
	}

	endTime, err := parseUnixSeconds("end_time", p.EndTime)
	if err != nil {
		return nil, err
	}

	return &types.MarketSummary{
		ID:               id,
		Question:         p.Question,
		YesPriceBps:      yesPrice,
		TotalValueLocked: tvl,
		Participants:     participants,
		Resolved:         p.Resolved,
		EndTime:          endTime,
	}, nil
}

func (p *positionPayload) toDomain() (*types.Position, error) {
	marketID, err := parseID("market id", p.MarketID)
	if err != nil {
		return nil, err
	}

	positionID, err := parseID("position id", p.PositionID)
	if err != nil {
		return nil, err
	}

	outcome, err := parseOutcomeCode(p.Outcome)
	if err != nil {
		return nil, err
	}
	if outcome == types.OutcomeUnknown {
		return nil, fmt.Errorf("position %s has no outcome", p.PositionID)
	}

	shares, err := types.ParseFixed(p.Shares)
	if err != nil {
		return nil, fmt.Errorf("shares: %w", err)
	}

	avgPrice, err := types.ParseBps(p.AvgPrice)
	if err != nil {
		return nil, fmt.Errorf("avg_price: %w", err)
	}

	ts, err := parseUnixSeconds("timestamp", p.Timestamp)
	if err != nil {
		return nil, err
	}

	return &types.Position{
		MarketID:    marketID,
		PositionID:  positionID,
		User:        p.User,
		Outcome:     outcome,
		Shares:      shares,
		AvgPriceBps: avgPrice,
		Timestamp:   ts,
	}, nil
}

func (p *tradePayload) toDomain() (*types.TradeRecord, error) {
	tradeID, err := parseID("trade id", p.TradeID)
	if err != nil {
		return nil, err
	}

	marketID, err := parseID("market id", p.MarketID)
	if err != nil {
		return nil, err
	}

	tradeType, err := parseTradeType(p.TradeType)
	if err != nil {
		return nil, err
	}

	// Outcome is absent for liquidity operations.
	outcome, err := parseOutcomeCode(p.Outcome)
	if err != nil {
		return nil, err
	}

	amount, err := types.ParseFixed(p.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	var shares int64
	if p.Shares != "" {
		shares, err = types.ParseFixed(p.Shares)
		if err != nil {
			return nil, fmt.Errorf("shares: %w", err)
		}
	}

	price, err := types.ParseBps(p.Price)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}

	yesBefore, err := types.ParseBps(p.YesPriceBefore)
	if err != nil {
		return nil, fmt.Errorf("yes_price_before: %w", err)
	}

	yesAfter, err := types.ParseBps(p.YesPriceAfter)
	if err != nil {
		return nil, fmt.Errorf("yes_price_after: %w", err)
	}

	noBefore, err := types.ParseBps(p.NoPriceBefore)
	if err != nil {
		return nil, fmt.Errorf("no_price_before: %w", err)
	}

	noAfter, err := types.ParseBps(p.NoPriceAfter)
	if err != nil {
		return nil, fmt.Errorf("no_price_after: %w", err)
	}

	ts, err := parseUnixSeconds("timestamp", p.Timestamp)
	if err != nil {
		return nil, err
	}

	return &types.TradeRecord{
		TradeID:           tradeID,
		MarketID:          marketID,
		User:              p.User,
		Type:              tradeType,
		Outcome:           outcome,
		Amount:            amount,
		Shares:            shares,
		PriceBps:          price,
		YesPriceBeforeBps: yesBefore,
		YesPriceAfterBps:  yesAfter,
		NoPriceBeforeBps:  noBefore,
		NoPriceAfterBps:   noAfter,
		Timestamp:         ts,
	}, nil
}
