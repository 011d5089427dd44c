package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/ledger"
	"github.com/pivotmarket/pivot-client/internal/trading"
	"github.com/pivotmarket/pivot-client/pkg/config"
)

// loadEnvironment loads .env, config and a logger for one-shot commands.
func loadEnvironment() (*config.Config, *zap.Logger, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, logger, nil
}

// newViewer creates a gateway view client for one-shot commands. One-shot
// reads skip the snapshot cache; there is nothing to amortize across.
func newViewer(cfg *config.Config, logger *zap.Logger) *ledger.Client {
	return ledger.NewClient(cfg.GatewayBaseURL, logger)
}

// newSubmitter picks the trade submitter for the configured trade mode.
func newSubmitter(cfg *config.Config, logger *zap.Logger) trading.Submitter {
	if cfg.TradeMode == "live" {
		return trading.NewRelayerSubmitter(&trading.RelayerConfig{
			BaseURL: cfg.RelayerURL,
			Sender:  cfg.WalletAddress,
			Logger:  logger,
		})
	}

	return trading.NewConsoleSubmitter(logger)
}
