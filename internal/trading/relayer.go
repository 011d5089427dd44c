package trading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RelayerSubmitter submits trades through the transaction relayer, which
// wraps each request in a ledger entry-function call, signs it with the
// custodial key and returns the transaction hash once accepted.
type RelayerSubmitter struct {
	baseURL    string
	sender     string
	httpClient *http.Client
	logger     *zap.Logger
}

// RelayerConfig holds relayer submitter configuration.
type RelayerConfig struct {
	BaseURL string
	Sender  string // wallet address the relayer signs for
	Logger  *zap.Logger
}

// NewRelayerSubmitter creates a relayer-backed submitter.
func NewRelayerSubmitter(cfg *RelayerConfig) *RelayerSubmitter {
	return &RelayerSubmitter{
		baseURL: cfg.BaseURL,
		sender:  cfg.Sender,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: cfg.Logger,
	}
}

// transactionRequest is the relayer wire format. Numeric arguments travel
// as decimal strings, matching the gateway's view responses.
type transactionRequest struct {
	Sender   string   `json:"sender"`
	Function string   `json:"function"`
	Args     []string `json:"args"`
}

type transactionResponse struct {
	TxHash string `json:"tx_hash"`
	Status string `json:"status"`
}

// Submit posts the trade to the relayer and waits for acceptance.
func (s *RelayerSubmitter) Submit(ctx context.Context, req *Request) (*Receipt, error) {
	if err := req.Validate(); err != nil {
		SubmissionsTotal.WithLabelValues("relayer", "rejected").Inc()
		return nil, err
	}

	start := time.Now()

	body, err := json.Marshal(transactionRequest{
		Sender:   s.sender,
		Function: req.Kind.String(),
		Args:     req.args(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal transaction: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		SubmissionsTotal.WithLabelValues("relayer", "error").Inc()
		return nil, fmt.Errorf("submit transaction: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		SubmissionsTotal.WithLabelValues("relayer", "error").Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		SubmissionsTotal.WithLabelValues("relayer", "error").Inc()
		return nil, fmt.Errorf("relayer error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var txResp transactionResponse
	if err := json.Unmarshal(respBody, &txResp); err != nil {
		SubmissionsTotal.WithLabelValues("relayer", "error").Inc()
		return nil, fmt.Errorf("parse response: %w", err)
	}

	SubmissionsTotal.WithLabelValues("relayer", "success").Inc()
	SubmissionDurationSeconds.Observe(time.Since(start).Seconds())

	s.logger.Info("trade-submitted",
		zap.String("request-id", req.ID),
		zap.String("function", req.Kind.String()),
		zap.Uint64("market-id", req.MarketID),
		zap.String("tx-hash", txResp.TxHash),
		zap.Duration("duration", time.Since(start)))

	return &Receipt{
		RequestID:   req.ID,
		TxHash:      txResp.TxHash,
		SubmittedAt: time.Now().UTC(),
	}, nil
}
