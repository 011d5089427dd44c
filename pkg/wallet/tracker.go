package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Tracker periodically fetches wallet balances and updates Prometheus metrics.
type Tracker struct {
	client       *Client
	address      common.Address
	pollInterval time.Duration
	logger       *zap.Logger
}

// Config holds tracker configuration.
type Config struct {
	RPCEndpoint  string
	Token        common.Address
	Hub          common.Address
	Address      common.Address
	PollInterval time.Duration
	Logger       *zap.Logger
}

// New creates a new wallet tracker.
func New(cfg *Config) (*Tracker, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.RPCEndpoint == "" {
		return nil, errors.New("RPC endpoint cannot be empty")
	}

	if cfg.PollInterval <= 0 {
		return nil, errors.New("poll interval must be positive")
	}

	client, err := NewClient(&ClientConfig{
		RPCURL: cfg.RPCEndpoint,
		Token:  cfg.Token,
		Hub:    cfg.Hub,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &Tracker{
		client:       client,
		address:      cfg.Address,
		pollInterval: cfg.PollInterval,
		logger:       cfg.Logger,
	}, nil
}

// Client returns the underlying wallet client.
func (t *Tracker) Client() *Client {
	return t.client
}

// Run starts the tracker polling loop (blocking).
func (t *Tracker) Run(ctx context.Context) error {
	t.logger.Info("wallet-tracker-starting",
		zap.Duration("poll-interval", t.pollInterval),
		zap.String("address", t.address.Hex()))

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	// Initial poll
	if err := t.poll(ctx); err != nil {
		t.logger.Error("initial-poll-failed", zap.Error(err))
		UpdateErrorsTotal.Inc()
	}

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("wallet-tracker-stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := t.poll(ctx); err != nil {
				t.logger.Error("poll-failed", zap.Error(err))
				UpdateErrorsTotal.Inc()
			}
		}
	}
}

// poll performs a single polling cycle.
func (t *Tracker) poll(ctx context.Context) error {
	start := time.Now()
	defer func() {
		UpdateDuration.Observe(time.Since(start).Seconds())
	}()

	balCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	balances, err := t.client.GetBalances(balCtx, t.address)
	if err != nil {
		return fmt.Errorf("get balances: %w", err)
	}

	t.updateMetrics(balances)
	LastUpdateTimestamp.Set(float64(time.Now().Unix()))

	t.logger.Debug("poll-complete",
		zap.Float64("collateral", balances.CollateralFloat()),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// updateMetrics updates Prometheus gauges with wallet balances.
func (t *Tracker) updateMetrics(balances *Balances) {
	gasVal, _ := new(big.Float).Quo(
		new(big.Float).SetInt(balances.Gas),
		big.NewFloat(1e18)).Float64()
	GasBalance.Set(gasVal)

	CollateralBalance.Set(balances.CollateralFloat())

	allowanceVal, _ := new(big.Float).Quo(
		new(big.Float).SetInt(balances.Allowance),
		big.NewFloat(1e6)).Float64()
	CollateralAllowance.Set(allowanceVal)
}
