package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pivotmarket/pivot-client/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List markets from the ledger gateway",
	Long: `Lists markets with their current YES price, locked value and
participant count.

Examples:
  # First 20 markets
  pivot-client markets

  # Page through
  pivot-client markets --limit 50 --offset 100

  # JSON output
  pivot-client markets --format json`,
	RunE: runMarkets,
}

//nolint:gochecknoglobals // Cobra boilerplate
var (
	marketsLimit  int
	marketsOffset int
	marketsFormat string
)

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(marketsCmd)

	marketsCmd.Flags().IntVar(&marketsLimit, "limit", 20, "Maximum markets to list")
	marketsCmd.Flags().IntVar(&marketsOffset, "offset", 0, "Listing offset for paging")
	marketsCmd.Flags().StringVar(&marketsFormat, "format", "table", "Output format: table, json")
}

func runMarkets(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	viewer := newViewer(cfg, logger)

	markets, err := viewer.ListMarkets(context.Background(), marketsLimit, marketsOffset)
	if err != nil {
		return fmt.Errorf("list markets: %w", err)
	}

	switch marketsFormat {
	case "table":
		displayMarketsTable(markets)
		return nil
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(markets)
	default:
		return fmt.Errorf("invalid format: %s (valid: table, json)", marketsFormat)
	}
}

func displayMarketsTable(markets []types.MarketSummary) {
	if len(markets) == 0 {
		fmt.Println("No markets found")
		return
	}

	fmt.Printf("%-6s %-50s %8s %12s %8s %s\n", "ID", "QUESTION", "YES", "TVL", "USERS", "STATUS")
	fmt.Println("--------------------------------------------------------------------------------")

	for _, m := range markets {
		question := m.Question
		if len(question) > 48 {
			question = question[:45] + "..."
		}

		status := "open"
		if m.Resolved {
			status = "resolved"
		}

		fmt.Printf("%-6d %-50s %7.2f%% %12.2f %8d %s\n",
			m.ID,
			question,
			float64(m.YesPriceBps)/100,
			types.FixedToFloat(m.TotalValueLocked),
			m.Participants,
			status)
	}

	fmt.Println()
	fmt.Printf("%d market(s)\n", len(markets))
}
