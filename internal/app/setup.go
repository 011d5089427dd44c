package app

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/ledger"
	"github.com/pivotmarket/pivot-client/internal/reporter"
	"github.com/pivotmarket/pivot-client/internal/storage"
	"github.com/pivotmarket/pivot-client/pkg/cache"
	"github.com/pivotmarket/pivot-client/pkg/config"
	"github.com/pivotmarket/pivot-client/pkg/healthprobe"
	"github.com/pivotmarket/pivot-client/pkg/httpserver"
	"github.com/pivotmarket/pivot-client/pkg/stream"
	"github.com/pivotmarket/pivot-client/pkg/wallet"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	user := opts.User
	if user == "" {
		user = cfg.WalletAddress
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := setupHealthChecker()

	snapshotCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	viewer := setupViewer(cfg, logger, snapshotCache)
	aggregator := setupAggregator(cfg, logger, viewer)

	walletTracker, err := setupWalletTracker(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup wallet tracker: %w", err)
	}

	summaryStorage, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	summaryReporter, err := setupReporter(cfg, logger, aggregator, walletTracker, summaryStorage, user)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup reporter: %w", err)
	}

	subscriber := setupSubscriber(cfg, logger)

	httpServer := setupHTTPServer(cfg, logger, healthChecker, aggregator, walletTracker, viewer, user)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		viewer:        viewer,
		aggregator:    aggregator,
		walletTracker: walletTracker,
		subscriber:    subscriber,
		reporter:      summaryReporter,
		storage:       summaryStorage,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000, // 10x expected max items (1000 markets)
		MaxCost:     1000,  // Maximum 1000 items in cache
		BufferItems: 64,    // Buffer size for Get operations
		Logger:      logger,
	})
}

func setupViewer(cfg *config.Config, logger *zap.Logger, snapshotCache cache.Cache) *ledger.CachedViewer {
	client := ledger.NewClient(cfg.GatewayBaseURL, logger)
	return ledger.NewCachedViewer(client, snapshotCache, cfg.SnapshotTTL)
}

func setupAggregator(cfg *config.Config, logger *zap.Logger, viewer ledger.Viewer) *ledger.Aggregator {
	return ledger.NewAggregator(&ledger.AggregatorConfig{
		Viewer:      viewer,
		Logger:      logger,
		Concurrency: cfg.FetchConcurrency,
		TradeLimit:  cfg.TradeLimit,
	})
}

func setupWalletTracker(cfg *config.Config, logger *zap.Logger) (*wallet.Tracker, error) {
	if cfg.RPCURL == "" || cfg.WalletAddress == "" {
		logger.Info("wallet-tracking-disabled",
			zap.String("note", "RPC_URL or WALLET_ADDRESS not set, net worth omits wallet cash"))
		return nil, nil
	}

	if !common.IsHexAddress(cfg.WalletAddress) {
		return nil, fmt.Errorf("invalid wallet address %q", cfg.WalletAddress)
	}

	return wallet.New(&wallet.Config{
		RPCEndpoint:  cfg.RPCURL,
		Token:        common.HexToAddress(cfg.CollateralToken),
		Hub:          common.HexToAddress(cfg.MarketHub),
		Address:      common.HexToAddress(cfg.WalletAddress),
		PollInterval: cfg.WalletPollInterval,
		Logger:       logger,
	})
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupReporter(
	cfg *config.Config,
	logger *zap.Logger,
	aggregator *ledger.Aggregator,
	walletTracker *wallet.Tracker,
	summaryStorage storage.Storage,
	user string,
) (*reporter.Reporter, error) {
	if user == "" {
		logger.Info("reporter-disabled",
			zap.String("note", "no tracked user configured, summaries served on demand only"))
		return nil, nil
	}

	reporterCfg := &reporter.Config{
		Fetcher:  aggregator,
		Storage:  summaryStorage,
		User:     user,
		Interval: cfg.SummaryInterval,
		Logger:   logger,
	}
	if walletTracker != nil {
		reporterCfg.Wallet = walletTracker.Client()
	}

	return reporter.New(reporterCfg)
}

func setupSubscriber(cfg *config.Config, logger *zap.Logger) *stream.Subscriber {
	if cfg.StreamWSURL == "" {
		logger.Info("price-stream-disabled",
			zap.String("note", "STREAM_WS_URL not set, snapshots expire by TTL only"))
		return nil
	}

	return stream.New(stream.Config{
		URL:                   cfg.StreamWSURL,
		DialTimeout:           cfg.WSDialTimeout,
		PongTimeout:           cfg.WSPongTimeout,
		PingInterval:          cfg.WSPingInterval,
		ReconnectInitialDelay: cfg.WSReconnectInitialDelay,
		ReconnectMaxDelay:     cfg.WSReconnectMaxDelay,
		ReconnectBackoffMult:  cfg.WSReconnectBackoffMult,
		EventBufferSize:       cfg.WSMessageBufferSize,
		Logger:                logger,
	})
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	aggregator *ledger.Aggregator,
	walletTracker *wallet.Tracker,
	viewer *ledger.CachedViewer,
	user string,
) *httpserver.Server {
	var balances httpserver.BalanceFetcher
	if walletTracker != nil {
		balances = walletTracker.Client()
	}

	return httpserver.New(&httpserver.Config{
		Port:             cfg.HTTPPort,
		Logger:           logger,
		HealthChecker:    healthChecker,
		PortfolioHandler: httpserver.NewPortfolioHandler(aggregator, balances, user, logger),
		QuoteHandler:     httpserver.NewQuoteHandler(viewer, logger),
	})
}
