// Package reporter periodically values a user's portfolio and persists the
// summary through the configured storage backend.
package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/ledger"
	"github.com/pivotmarket/pivot-client/internal/portfolio"
	"github.com/pivotmarket/pivot-client/internal/storage"
	"github.com/pivotmarket/pivot-client/pkg/wallet"
)

// UserDataFetcher is the slice of the batch aggregator the reporter needs.
type UserDataFetcher interface {
	FetchUserData(ctx context.Context, user string) (*ledger.UserData, error)
}

// BalanceFetcher reads on-chain wallet balances.
type BalanceFetcher interface {
	GetBalances(ctx context.Context, address common.Address) (*wallet.Balances, error)
}

// Config holds reporter configuration.
type Config struct {
	Fetcher  UserDataFetcher
	Wallet   BalanceFetcher // optional; net worth omits wallet cash when nil
	Storage  storage.Storage
	User     string
	Interval time.Duration
	Logger   *zap.Logger
}

// Reporter periodically computes and stores portfolio summaries.
type Reporter struct {
	fetcher  UserDataFetcher
	wallet   BalanceFetcher
	storage  storage.Storage
	user     string
	interval time.Duration
	logger   *zap.Logger
}

// New creates a new portfolio reporter.
func New(cfg *Config) (*Reporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher cannot be nil")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive")
	}

	return &Reporter{
		fetcher:  cfg.Fetcher,
		wallet:   cfg.Wallet,
		storage:  cfg.Storage,
		user:     cfg.User,
		interval: cfg.Interval,
		logger:   cfg.Logger,
	}, nil
}

// Run starts the reporting loop. It blocks until the context is cancelled.
// One snapshot is taken immediately, then one per interval.
func (r *Reporter) Run(ctx context.Context) error {
	r.logger.Info("reporter-starting",
		zap.String("user", r.user),
		zap.Duration("interval", r.interval))

	err := r.snapshot(ctx)
	if err != nil {
		r.logger.Error("snapshot-failed", zap.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reporter-stopping")
			return ctx.Err()
		case <-ticker.C:
			err := r.snapshot(ctx)
			if err != nil {
				r.logger.Error("snapshot-failed", zap.Error(err))
			}
		}
	}
}

// Snapshot values the portfolio once and persists the summary.
func (r *Reporter) Snapshot(ctx context.Context) error {
	return r.snapshot(ctx)
}

func (r *Reporter) snapshot(ctx context.Context) error {
	start := time.Now()

	data, err := r.fetcher.FetchUserData(ctx, r.user)
	if err != nil {
		SnapshotsTotal.WithLabelValues("fetch_error").Inc()
		return fmt.Errorf("fetch user data: %w", err)
	}

	walletBalance := 0.0
	if r.wallet != nil && common.IsHexAddress(r.user) {
		balances, balErr := r.wallet.GetBalances(ctx, common.HexToAddress(r.user))
		if balErr != nil {
			// Positions still get valued; net worth just omits wallet cash.
			r.logger.Warn("wallet-balance-unavailable", zap.Error(balErr))
		} else {
			walletBalance = balances.CollateralFloat()
		}
	}

	summary, _ := portfolio.Compute(portfolio.Input{
		WalletBalance: walletBalance,
		Holdings:      data.Holdings,
		Trades:        data.Trades,
	}, time.Now().UTC())

	err = r.storage.StoreSummary(ctx, r.user, &summary)
	if err != nil {
		SnapshotsTotal.WithLabelValues("store_error").Inc()
		return fmt.Errorf("store summary: %w", err)
	}

	SnapshotsTotal.WithLabelValues("success").Inc()
	SnapshotDurationSeconds.Observe(time.Since(start).Seconds())
	LastSnapshotTimestamp.SetToCurrentTime()

	r.logger.Info("portfolio-snapshot-stored",
		zap.String("user", r.user),
		zap.Float64("net-worth", summary.NetWorth),
		zap.Float64("profit-loss", summary.ProfitLoss),
		zap.Int("open-positions", summary.OpenPositions),
		zap.Int("failed-markets", len(data.FailedMarkets)))

	return nil
}
