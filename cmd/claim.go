package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pivotmarket/pivot-client/internal/trading"
)

//nolint:gochecknoglobals // Cobra boilerplate
var claimCmd = &cobra.Command{
	Use:   "claim <market-id>",
	Short: "Claim winnings from a resolved market",
	Long: `Submits a claim for the payout of a winning position on a resolved
market. In paper mode (the default) the request is logged instead of
submitted.

Example:
  pivot-client claim 7`,
	Args: cobra.ExactArgs(1),
	RunE: runClaim,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(claimCmd)
}

func runClaim(cmd *cobra.Command, args []string) error {
	marketID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid market id %q", args[0])
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

	if !snap.Resolved {
		return fmt.Errorf("market %d is not resolved yet", marketID)
	}

	submitter := newSubmitter(cfg, logger)

	receipt, err := submitter.Submit(ctx, trading.NewClaimRequest(marketID))
	if err != nil {
		return fmt.Errorf("submit claim: %w", err)
	}

	fmt.Printf("✅ Claim submitted for market %d (%s outcome: %s): %s\n",
		marketID, snap.Question, snap.Outcome, receipt.TxHash)

	return nil
}
