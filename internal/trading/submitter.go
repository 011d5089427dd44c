package trading

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/estimator"
	"github.com/pivotmarket/pivot-client/pkg/types"
)

// Kind is the entry-function family of a trade request.
type Kind int

const (
	KindBuy Kind = iota + 1
	KindSell
	KindClaim
)

// String returns the ledger entry-function name for the kind.
func (k Kind) String() string {
	switch k {
	case KindBuy:
		return "buy_shares"
	case KindSell:
		return "sell_shares"
	case KindClaim:
		return "claim_winnings"
	default:
		return "unknown"
	}
}

// Request is one trade ready for submission. Amounts are 6-decimal
// fixed-point integers; slippage is in basis points.
type Request struct {
	ID             string
	MarketID       uint64
	Side           types.Outcome
	Kind           Kind
	AmountScaled   int64 // collateral stake (buy) or shares (sell)
	MaxSlippageBps int64
	CreatedAt      time.Time
}

// Receipt is the submission outcome.
type Receipt struct {
	RequestID   string
	TxHash      string
	SubmittedAt time.Time
}

// Submitter submits trade requests for on-ledger execution.
type Submitter interface {
	Submit(ctx context.Context, req *Request) (*Receipt, error)
}

// NewBuyRequest builds a buy request from an estimator quote. The quote's
// slippage cap rides along so the ledger rejects the trade instead of
// filling it at a worse price than the user previewed.
func NewBuyRequest(marketID uint64, quote *estimator.Quote) *Request {
	return &Request{
		ID:             uuid.New().String(),
		MarketID:       marketID,
		Side:           quote.Side,
		Kind:           KindBuy,
		AmountScaled:   quote.StakeScaled,
		MaxSlippageBps: quote.MaxSlippageBps,
		CreatedAt:      time.Now().UTC(),
	}
}

// NewSellRequest builds a sell request for a share amount.
func NewSellRequest(marketID uint64, side types.Outcome, sharesScaled, maxSlippageBps int64) *Request {
	return &Request{
		ID:             uuid.New().String(),
		MarketID:       marketID,
		Side:           side,
		Kind:           KindSell,
		AmountScaled:   sharesScaled,
		MaxSlippageBps: maxSlippageBps,
		CreatedAt:      time.Now().UTC(),
	}
}

// NewClaimRequest builds a winnings claim for a resolved market.
func NewClaimRequest(marketID uint64) *Request {
	return &Request{
		ID:        uuid.New().String(),
		MarketID:  marketID,
		Kind:      KindClaim,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the request is well formed before submission.
func (r *Request) Validate() error {
	if r.MarketID == 0 {
		return &types.InvalidInputError{Field: "market_id", Reason: "must be non-zero"}
	}

	switch r.Kind {
	case KindBuy, KindSell:
		if r.Side != types.OutcomeYes && r.Side != types.OutcomeNo {
			return &types.InvalidInputError{Field: "side", Reason: "must be YES or NO"}
		}
		if r.AmountScaled <= 0 {
			return &types.InvalidInputError{Field: "amount", Reason: "must be positive"}
		}
		if r.MaxSlippageBps < 0 || r.MaxSlippageBps > types.BpsScale {
			return &types.InvalidInputError{Field: "max_slippage_bps", Reason: "must be within [0, 10000]"}
		}
	case KindClaim:
		// Claims carry no amount; the ledger pays out the full position.
	default:
		return &types.InvalidInputError{Field: "kind", Reason: "unknown trade kind"}
	}

	return nil
}

// args returns the entry-function arguments in wire order, as decimal strings.
func (r *Request) args() []string {
	switch r.Kind {
	case KindClaim:
		return []string{strconv.FormatUint(r.MarketID, 10)}
	default:
		return []string{
			strconv.FormatUint(r.MarketID, 10),
			strconv.FormatInt(int64(r.Side), 10),
			strconv.FormatInt(r.AmountScaled, 10),
			strconv.FormatInt(r.MaxSlippageBps, 10),
		}
	}
}

// ConsoleSubmitter logs trades instead of submitting them. Used in paper
// mode and as the fallback when no relayer is configured.
type ConsoleSubmitter struct {
	logger *zap.Logger
}

// NewConsoleSubmitter creates a paper-mode submitter.
func NewConsoleSubmitter(logger *zap.Logger) *ConsoleSubmitter {
	return &ConsoleSubmitter{logger: logger}
}

// Submit logs the trade and fabricates a receipt.
func (s *ConsoleSubmitter) Submit(_ context.Context, req *Request) (*Receipt, error) {
	if err := req.Validate(); err != nil {
		SubmissionsTotal.WithLabelValues("paper", "rejected").Inc()
		return nil, err
	}

	now := time.Now().UTC()

	s.logger.Info("paper-trade-submitted",
		zap.String("request-id", req.ID),
		zap.String("function", req.Kind.String()),
		zap.Uint64("market-id", req.MarketID),
		zap.String("side", req.Side.String()),
		zap.Int64("amount-scaled", req.AmountScaled),
		zap.Int64("max-slippage-bps", req.MaxSlippageBps))

	SubmissionsTotal.WithLabelValues("paper", "success").Inc()

	return &Receipt{
		RequestID:   req.ID,
		TxHash:      fmt.Sprintf("paper-%s", req.ID),
		SubmittedAt: now,
	}, nil
}
