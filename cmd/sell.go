package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pivotmarket/pivot-client/internal/trading"
	"github.com/pivotmarket/pivot-client/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var sellCmd = &cobra.Command{
	Use:   "sell <market-id> <yes|no> <shares>",
	Short: "Sell shares of one side of a market",
	Long: `Submits a sell of <shares> shares. In paper mode (the default) the
request is logged instead of submitted.

Examples:
  # Sell 16.5 YES shares on market 7
  pivot-client sell 7 yes 16.5

  # Sell with a tighter slippage bound
  pivot-client sell 7 yes 16.5 --max-slippage-bps 50`,
	Args: cobra.ExactArgs(3),
	RunE: runSell,
}

//nolint:gochecknoglobals // Cobra boilerplate
var sellMaxSlippageBps int64

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(sellCmd)
	sellCmd.Flags().Int64Var(&sellMaxSlippageBps, "max-slippage-bps", 100, "Maximum slippage tolerance in basis points")
}

func runSell(cmd *cobra.Command, args []string) error {
	marketID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid market id %q", args[0])
	}

	side, err := types.ParseOutcome(args[1])
	if err != nil {
		return fmt.Errorf("invalid side %q: must be yes or no", args[1])
	}

	shares, err := strconv.ParseFloat(args[2], 64)
	if err != nil || shares <= 0 {
		return fmt.Errorf("invalid share amount %q", args[2])
	}

	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	submitter := newSubmitter(cfg, logger)

	req := trading.NewSellRequest(marketID, side, types.FloatToFixed(shares), sellMaxSlippageBps)

	receipt, err := submitter.Submit(context.Background(), req)
	if err != nil {
		return fmt.Errorf("submit sell: %w", err)
	}

	fmt.Printf("✅ Sell submitted: %s\n", receipt.TxHash)

	return nil
}
