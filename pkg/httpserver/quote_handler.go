package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/estimator"
	"github.com/pivotmarket/pivot-client/pkg/types"
)

// MarketGetter is the slice of the view client the quote handler needs.
type MarketGetter interface {
	GetMarket(ctx context.Context, marketID uint64) (*types.MarketSnapshot, error)
}

// QuoteHandler handles HTTP requests for buy previews.
type QuoteHandler struct {
	viewer MarketGetter
	logger *zap.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(viewer MarketGetter, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		viewer: viewer,
		logger: logger,
	}
}

// QuoteResponse is the HTTP response for a buy preview.
type QuoteResponse struct {
	MarketID          uint64  `json:"market_id"`
	Question          string  `json:"question"`
	Side              string  `json:"side"`
	Stake             float64 `json:"stake"`
	CurrentPriceBps   int64   `json:"current_price_bps"`
	ProjectedPriceBps int64   `json:"projected_price_bps"`
	PriceImpactBps    int64   `json:"price_impact_bps"`
	ProjectedShares   float64 `json:"projected_shares"`
	MaxSlippageBps    int64   `json:"max_slippage_bps"`
	ColdStart         bool    `json:"cold_start"`
}

// HandleQuote handles GET /api/quote?market_id=<id>&side=<yes|no>&stake=<usd>.
func (h *QuoteHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	marketID, err := strconv.ParseUint(r.URL.Query().Get("market_id"), 10, 64)
	if err != nil {
		writeError(w, h.logger, "invalid or missing query parameter: market_id", http.StatusBadRequest)
		return
	}

	side, err := types.ParseOutcome(r.URL.Query().Get("side"))
	if err != nil {
		writeError(w, h.logger, "invalid or missing query parameter: side", http.StatusBadRequest)
		return
	}

	stake, err := strconv.ParseFloat(r.URL.Query().Get("stake"), 64)
	if err != nil {
		writeError(w, h.logger, "invalid or missing query parameter: stake", http.StatusBadRequest)
		return
	}

	h.logger.Debug("quote-request-received",
		zap.Uint64("market-id", marketID),
		zap.String("side", side.String()),
		zap.Float64("stake", stake))

	snap, err := h.viewer.GetMarket(r.Context(), marketID)
	if err != nil {
		h.logger.Error("market-fetch-failed", zap.Uint64("market-id", marketID), zap.Error(err))
		writeError(w, h.logger, "market not found", http.StatusNotFound)
		return
	}

	quote, err := estimator.Estimate(side, stake, snap)
	if err != nil {
		switch {
		case types.IsInvalidInput(err):
			writeError(w, h.logger, err.Error(), http.StatusBadRequest)
		case errors.Is(err, types.ErrUnpricedMarket):
			writeError(w, h.logger, "market has no quoted price for that side", http.StatusConflict)
		default:
			writeError(w, h.logger, "quote failed", http.StatusInternalServerError)
		}
		return
	}

	response := QuoteResponse{
		MarketID:          marketID,
		Question:          snap.Question,
		Side:              quote.Side.String(),
		Stake:             stake,
		CurrentPriceBps:   quote.CurrentPriceBps,
		ProjectedPriceBps: quote.ProjectedPriceBps,
		PriceImpactBps:    quote.PriceImpactBps,
		ProjectedShares:   types.FixedToFloat(quote.ProjectedShares),
		MaxSlippageBps:    quote.MaxSlippageBps,
		ColdStart:         snap.TotalYesShares+snap.TotalNoShares == 0,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}
