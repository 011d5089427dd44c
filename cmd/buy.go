package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/circuitbreaker"
	"github.com/pivotmarket/pivot-client/internal/estimator"
	"github.com/pivotmarket/pivot-client/internal/trading"
	"github.com/pivotmarket/pivot-client/pkg/config"
	"github.com/pivotmarket/pivot-client/pkg/types"
	"github.com/pivotmarket/pivot-client/pkg/wallet"
)

//nolint:gochecknoglobals // Cobra boilerplate
var buyCmd = &cobra.Command{
	Use:   "buy <market-id> <yes|no> <stake>",
	Short: "Buy shares of one side of a market",
	Long: `Quotes the buy, derives the slippage tolerance from the projected price
impact, and submits the transaction. In paper mode (the default) the
request is logged instead of submitted; set TRADE_MODE=live and
RELAYER_URL to trade for real.

Live buys are gated by the balance circuit breaker: when the collateral
balance cannot cover a few more stakes of this size, the buy is refused.

Examples:
  # Paper-trade a $10 YES buy on market 7
  pivot-client buy 7 yes 10

  # Live trade (TRADE_MODE=live, RELAYER_URL set)
  pivot-client buy 7 no 250`,
	Args: cobra.ExactArgs(3),
	RunE: runBuy,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(buyCmd)
}

func runBuy(cmd *cobra.Command, args []string) error {
	marketID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid market id %q", args[0])
	}

	side, err := types.ParseOutcome(args[1])
	if err != nil {
		return fmt.Errorf("invalid side %q: must be yes or no", args[1])
	}

	stake, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid stake %q", args[2])
	}

	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	viewer := newViewer(cfg, logger)

	ctx := context.Background()
	snap, err := viewer.GetMarket(ctx, marketID)
	if err != nil {
		return fmt.Errorf("get market: %w", err)
	}

	if snap.Resolved {
		return fmt.Errorf("market %d is resolved, nothing to buy", marketID)
	}

	quote, err := estimator.Estimate(side, stake, snap)
	if err != nil {
		return fmt.Errorf("estimate: %w", err)
	}

	displayQuote(snap, quote, stake)
	fmt.Println()

	err = checkBalanceGate(ctx, cfg, logger, stake)
	if err != nil {
		return err
	}

	submitter := newSubmitter(cfg, logger)

	receipt, err := submitter.Submit(ctx, trading.NewBuyRequest(marketID, quote))
	if err != nil {
		return fmt.Errorf("submit buy: %w", err)
	}

	fmt.Printf("✅ Buy submitted: %s\n", receipt.TxHash)

	return nil
}

// checkBalanceGate runs a one-shot circuit breaker check before a live buy.
// Paper trades and setups without chain access skip the gate.
func checkBalanceGate(ctx context.Context, cfg *config.Config, logger *zap.Logger, stake float64) error {
	if cfg.TradeMode != "live" || cfg.RPCURL == "" || !common.IsHexAddress(cfg.WalletAddress) {
		return nil
	}

	client, err := wallet.NewClient(&wallet.ClientConfig{
		RPCURL: cfg.RPCURL,
		Token:  common.HexToAddress(cfg.CollateralToken),
		Hub:    common.HexToAddress(cfg.MarketHub),
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("create wallet client: %w", err)
	}

	breaker, err := circuitbreaker.New(&circuitbreaker.Config{
		CheckInterval:   cfg.BreakerCheckInterval,
		StakeMultiplier: cfg.BreakerStakeMultiplier,
		MinAbsolute:     cfg.BreakerMinAbsolute,
		HysteresisRatio: cfg.BreakerHysteresis,
		WalletClient:    client,
		Address:         common.HexToAddress(cfg.WalletAddress),
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("create circuit breaker: %w", err)
	}

	breaker.RecordStake(stake)

	err = breaker.CheckBalance(ctx)
	if err != nil {
		return fmt.Errorf("check balance: %w", err)
	}

	if !breaker.IsEnabled() {
		status := breaker.GetStatus()
		return fmt.Errorf("balance circuit breaker open: balance $%.2f below disable threshold $%.2f",
			status.LastBalance, status.DisableThreshold)
	}

	return nil
}
