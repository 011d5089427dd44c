package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/ledger"
	"github.com/pivotmarket/pivot-client/internal/portfolio"
	"github.com/pivotmarket/pivot-client/pkg/wallet"
)

// UserDataFetcher is the slice of the batch aggregator the handler needs.
type UserDataFetcher interface {
	FetchUserData(ctx context.Context, user string) (*ledger.UserData, error)
}

// BalanceFetcher reads on-chain wallet balances.
type BalanceFetcher interface {
	GetBalances(ctx context.Context, address common.Address) (*wallet.Balances, error)
}

// PortfolioHandler handles HTTP requests for portfolio valuations.
type PortfolioHandler struct {
	fetcher     UserDataFetcher
	wallet      BalanceFetcher // optional; net worth omits wallet cash when nil
	defaultUser string
	logger      *zap.Logger
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(fetcher UserDataFetcher, balances BalanceFetcher, defaultUser string, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		fetcher:     fetcher,
		wallet:      balances,
		defaultUser: defaultUser,
		logger:      logger,
	}
}

// PositionResponse is the per-position row of the portfolio response.
type PositionResponse struct {
	MarketID     uint64  `json:"market_id"`
	PositionID   uint64  `json:"position_id"`
	Question     string  `json:"question"`
	Outcome      string  `json:"outcome"`
	Shares       float64 `json:"shares"`
	AvgPriceBps  int64   `json:"avg_price_bps"`
	CurrentValue float64 `json:"current_value"`
	CostBasis    float64 `json:"cost_basis"`
	PnLValue     float64 `json:"pnl_value"`
	PnLPercent   float64 `json:"pnl_percent"`
	Resolved     bool    `json:"resolved"`
	Won          bool    `json:"won"`
	HoldDays     float64 `json:"hold_days"`
}

// PortfolioResponse is the HTTP response for portfolio queries.
type PortfolioResponse struct {
	User           string             `json:"user"`
	NetWorth       float64            `json:"net_worth"`
	WalletBalance  float64            `json:"wallet_balance"`
	PositionsValue float64            `json:"positions_value"`
	Invested       float64            `json:"invested"`
	ProfitLoss     float64            `json:"profit_loss"`
	RealizedProfit float64            `json:"realized_profit"`
	UnrealizedPnL  float64            `json:"unrealized_pnl"`
	Wins           int                `json:"wins"`
	Losses         int                `json:"losses"`
	WinRate        float64            `json:"win_rate"`
	ROI            float64            `json:"roi"`
	AvgHoldDays    float64            `json:"avg_hold_days"`
	OpenPositions  int                `json:"open_positions"`
	Positions      []PositionResponse `json:"positions"`
	FailedMarkets  []uint64           `json:"failed_markets,omitempty"`
	ComputedAt     time.Time          `json:"computed_at"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandlePortfolio handles GET /api/portfolio?user=<address> requests.
func (h *PortfolioHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		user = h.defaultUser
	}
	if user == "" {
		writeError(w, h.logger, "missing required query parameter: user", http.StatusBadRequest)
		return
	}

	h.logger.Debug("portfolio-request-received", zap.String("user", user))

	data, err := h.fetcher.FetchUserData(r.Context(), user)
	if err != nil {
		h.logger.Error("user-data-fetch-failed", zap.String("user", user), zap.Error(err))
		writeError(w, h.logger, "failed to fetch user data", http.StatusBadGateway)
		return
	}

	walletBalance := 0.0
	if h.wallet != nil && common.IsHexAddress(user) {
		balances, balErr := h.wallet.GetBalances(r.Context(), common.HexToAddress(user))
		if balErr != nil {
			// Positions still render; net worth just omits wallet cash.
			h.logger.Warn("wallet-balance-unavailable", zap.String("user", user), zap.Error(balErr))
		} else {
			walletBalance = balances.CollateralFloat()
		}
	}

	summary, valuations := portfolio.Compute(portfolio.Input{
		WalletBalance: walletBalance,
		Holdings:      data.Holdings,
		Trades:        data.Trades,
	}, time.Now().UTC())

	positions := make([]PositionResponse, 0, len(valuations))
	for _, v := range valuations {
		positions = append(positions, PositionResponse{
			MarketID:     v.MarketID,
			PositionID:   v.PositionID,
			Question:     v.Question,
			Outcome:      v.Outcome.String(),
			Shares:       v.Shares,
			AvgPriceBps:  v.AvgPriceBps,
			CurrentValue: v.CurrentValue,
			CostBasis:    v.CostBasis,
			PnLValue:     v.PnLValue,
			PnLPercent:   v.PnLPercent,
			Resolved:     v.Resolved,
			Won:          v.Won,
			HoldDays:     v.HoldDays,
		})
	}

	response := PortfolioResponse{
		User:           user,
		NetWorth:       summary.NetWorth,
		WalletBalance:  walletBalance,
		PositionsValue: summary.PositionsValue,
		Invested:       summary.Invested,
		ProfitLoss:     summary.ProfitLoss,
		RealizedProfit: summary.RealizedProfit,
		UnrealizedPnL:  summary.UnrealizedPnL,
		Wins:           summary.Wins,
		Losses:         summary.Losses,
		WinRate:        summary.WinRate,
		ROI:            summary.ROI,
		AvgHoldDays:    summary.AvgHoldDays,
		OpenPositions:  summary.OpenPositions,
		Positions:      positions,
		FailedMarkets:  data.FailedMarkets,
		ComputedAt:     summary.ComputedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, logger *zap.Logger, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		logger.Error("failed-to-encode-error-response", zap.Error(err))
	}
}
