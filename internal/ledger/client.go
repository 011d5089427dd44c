// Package ledger reads market, position and trade state from the ledger
// gateway, the HTTP facade over the ledger program's read-only view
// functions. All numeric fields cross this boundary as decimal-string
// integers in the fixed-point/basis-point scales of pkg/types and are
// validated before use.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/pkg/types"
)

// Viewer is the read-only view-call surface consumed by the aggregation
// layer and the HTTP handlers. Both Client and test mocks implement it.
type Viewer interface {
	// GetMarket returns the full snapshot for one market.
	GetMarket(ctx context.Context, marketID uint64) (*types.MarketSnapshot, error)

	// ListMarkets returns lightweight market summaries for listing.
	ListMarkets(ctx context.Context, limit, offset int) ([]types.MarketSummary, error)

	// GetUserMarkets returns the ids of markets a user has activity in.
	GetUserMarkets(ctx context.Context, user string) ([]uint64, error)

	// GetUserPositions returns the user's positions in one market.
	GetUserPositions(ctx context.Context, user string, marketID uint64) ([]types.Position, error)

	// GetUserTrades returns the user's trade records in one market,
	// capped at limit when limit > 0.
	GetUserTrades(ctx context.Context, user string, marketID uint64, limit int) ([]types.TradeRecord, error)
}

// Client is an HTTP client for the ledger gateway view API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new gateway view client.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// marketPayload is the wire shape of a market view result.
type marketPayload struct {
	ID               string `json:"id"`
	Question         string `json:"question"`
	YesPrice         string `json:"yes_price"`
	NoPrice          string `json:"no_price"`
	TotalYesShares   string `json:"total_yes_shares"`
	TotalNoShares    string `json:"total_no_shares"`
	Resolved         bool   `json:"resolved"`
	Outcome          string `json:"outcome,omitempty"`
	EndTime          string `json:"end_time"`
	CreationTime     string `json:"creation_time"`
	TotalValueLocked string `json:"total_value_locked"`
	TotalLiquidity   string `json:"total_liquidity"`
}

type marketSummaryPayload struct {
	ID               string `json:"id"`
	Question         string `json:"question"`
	YesPrice         string `json:"yes_price"`
	TotalValueLocked string `json:"total_value_locked"`
	Participants     string `json:"participants"`
	Resolved         bool   `json:"resolved"`
	EndTime          string `json:"end_time"`
}

type positionPayload struct {
	MarketID   string `json:"market_id"`
	PositionID string `json:"position_id"`
	User       string `json:"user"`
	Outcome    string `json:"outcome"`
	Shares     string `json:"shares"`
	AvgPrice   string `json:"avg_price"`
	Timestamp  string `json:"timestamp"`
}

type tradePayload struct {
	TradeID        string `json:"trade_id"`
	MarketID       string `json:"market_id"`
	User           string `json:"user"`
	TradeType      string `json:"trade_type"`
	Outcome        string `json:"outcome,omitempty"`
	Amount         string `json:"amount"`
	Shares         string `json:"shares,omitempty"`
	Price          string `json:"price"`
	YesPriceBefore string `json:"yes_price_before"`
	YesPriceAfter  string `json:"yes_price_after"`
	NoPriceBefore  string `json:"no_price_before"`
	NoPriceAfter   string `json:"no_price_after"`
	Timestamp      string `json:"timestamp"`
}

// GetMarket fetches and validates the full snapshot for one market.
func (c *Client) GetMarket(ctx context.Context, marketID uint64) (*types.MarketSnapshot, error) {
	var payload marketPayload

	endpoint := fmt.Sprintf("%s/v1/markets/%d", c.baseURL, marketID)
	err := c.getJSON(ctx, "get_market", endpoint, &payload)
	if err != nil {
		return nil, fmt.Errorf("get market %d: %w", marketID, err)
	}

	snap, err := payload.toDomain()
	if err != nil {
		ViewCallErrorsTotal.WithLabelValues("get_market", "malformed").Inc()
		return nil, fmt.Errorf("market %d: %w", marketID, err)
	}

	return snap, nil
}

// ListMarkets fetches market summaries for listing.
func (c *Client) ListMarkets(ctx context.Context, limit, offset int) ([]types.MarketSummary, error) {
	params := url.Values{}
	params.Add("limit", strconv.Itoa(limit))
	params.Add("offset", strconv.Itoa(offset))

	var payloads []marketSummaryPayload

	endpoint := fmt.Sprintf("%s/v1/markets?%s", c.baseURL, params.Encode())
	err := c.getJSON(ctx, "list_markets", endpoint, &payloads)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}

	summaries := make([]types.MarketSummary, 0, len(payloads))
	for i := range payloads {
		s, err := payloads[i].toDomain()
		if err != nil {
			// One malformed row degrades the listing, not the whole read.
			ViewCallErrorsTotal.WithLabelValues("list_markets", "malformed").Inc()
			c.logger.Warn("malformed-market-summary",
				zap.String("market-id", payloads[i].ID),
				zap.Error(err))
			continue
		}
		summaries = append(summaries, *s)
	}

	return summaries, nil
}

// GetUserMarkets fetches the ids of markets the user has activity in.
func (c *Client) GetUserMarkets(ctx context.Context, user string) ([]uint64, error) {
	var raw []string

	endpoint := fmt.Sprintf("%s/v1/users/%s/markets", c.baseURL, url.PathEscape(user))
	err := c.getJSON(ctx, "get_user_markets", endpoint, &raw)
	if err != nil {
		return nil, fmt.Errorf("get user markets: %w", err)
	}

	ids := make([]uint64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			ViewCallErrorsTotal.WithLabelValues("get_user_markets", "malformed").Inc()
			return nil, fmt.Errorf("malformed market id %q: %w", s, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// GetUserPositions fetches the user's position ids in a market, then the
// per-position details.
func (c *Client) GetUserPositions(ctx context.Context, user string, marketID uint64) ([]types.Position, error) {
	var ids []string

	endpoint := fmt.Sprintf("%s/v1/users/%s/markets/%d/positions",
		c.baseURL, url.PathEscape(user), marketID)
	err := c.getJSON(ctx, "get_user_positions", endpoint, &ids)
	if err != nil {
		return nil, fmt.Errorf("get position ids (market %d): %w", marketID, err)
	}

	positions := make([]types.Position, 0, len(ids))
	for _, id := range ids {
		var payload positionPayload

		detail := fmt.Sprintf("%s/%s", endpoint, url.PathEscape(id))
		err := c.getJSON(ctx, "get_position", detail, &payload)
		if err != nil {
			return nil, fmt.Errorf("get position %s (market %d): %w", id, marketID, err)
		}

		pos, err := payload.toDomain()
		if err != nil {
			ViewCallErrorsTotal.WithLabelValues("get_position", "malformed").Inc()
			return nil, fmt.Errorf("position %s (market %d): %w", id, marketID, err)
		}

		positions = append(positions, *pos)
	}

	return positions, nil
}

// GetUserTrades fetches the user's trade history in a market.
func (c *Client) GetUserTrades(ctx context.Context, user string, marketID uint64, limit int) ([]types.TradeRecord, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s/markets/%d/trades",
		c.baseURL, url.PathEscape(user), marketID)
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	var payloads []tradePayload
	err := c.getJSON(ctx, "get_user_trades", endpoint, &payloads)
	if err != nil {
		return nil, fmt.Errorf("get user trades (market %d): %w", marketID, err)
	}

	trades := make([]types.TradeRecord, 0, len(payloads))
	for i := range payloads {
		tr, err := payloads[i].toDomain()
		if err != nil {
			ViewCallErrorsTotal.WithLabelValues("get_user_trades", "malformed").Inc()
			return nil, fmt.Errorf("trade %s (market %d): %w", payloads[i].TradeID, marketID, err)
		}
		trades = append(trades, *tr)
	}

	return trades, nil
}

// getJSON performs an instrumented GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, method, endpoint string, out any) error {
	start := time.Now()
	defer func() {
		ViewCallDurationSeconds.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		ViewCallErrorsTotal.WithLabelValues(method, "transport").Inc()
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ViewCallErrorsTotal.WithLabelValues(method, "status").Inc()
		return fmt.Errorf("gateway error: status %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		ViewCallErrorsTotal.WithLabelValues(method, "decode").Inc()
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
