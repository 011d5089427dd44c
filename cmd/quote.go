package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pivotmarket/pivot-client/internal/estimator"
	"github.com/pivotmarket/pivot-client/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var quoteCmd = &cobra.Command{
	Use:   "quote <market-id> <yes|no> <stake>",
	Short: "Preview a buy: projected shares, price impact and slippage bound",
	Long: `Fetches the market snapshot and projects the outcome of buying <stake>
currency units of one side: how many shares the trade would mint, where the
price lands afterwards, and the maximum slippage tolerance the transaction
should carry.

Examples:
  # Preview a $10 YES buy on market 7
  pivot-client quote 7 yes 10

  # Preview a $250 NO buy
  pivot-client quote 7 no 250`,
	Args: cobra.ExactArgs(3),
	RunE: runQuote,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
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

	quote, err := estimator.Estimate(side, stake, snap)
	if err != nil {
		return fmt.Errorf("estimate: %w", err)
	}

	displayQuote(snap, quote, stake)

	return nil
}

func displayQuote(snap *types.MarketSnapshot, quote *estimator.Quote, stake float64) {
	fmt.Printf("Market #%d: %s\n", snap.ID, snap.Question)
	fmt.Println("================================================================================")
	fmt.Printf("Buy %s with $%.2f\n", quote.Side, stake)
	fmt.Println()
	fmt.Printf("Current price:     %.2f%% (%d bps)\n", float64(quote.CurrentPriceBps)/100, quote.CurrentPriceBps)
	fmt.Printf("Projected shares:  %.6f\n", types.FixedToFloat(quote.ProjectedShares))
	fmt.Printf("Projected price:   %.2f%% (%d bps)\n", float64(quote.ProjectedPriceBps)/100, quote.ProjectedPriceBps)
	fmt.Printf("Price impact:      %d bps\n", quote.PriceImpactBps)
	fmt.Printf("Max slippage:      %d bps\n", quote.MaxSlippageBps)

	if snap.TotalYesShares+snap.TotalNoShares == 0 {
		fmt.Println()
		fmt.Println("⚠️  Cold start: no prior trading on this market, wide slippage bound applied")
	}
}
