package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/ledger"
	"github.com/pivotmarket/pivot-client/internal/portfolio"
	"github.com/pivotmarket/pivot-client/pkg/config"
	"github.com/pivotmarket/pivot-client/pkg/wallet"
)

//nolint:gochecknoglobals // Cobra boilerplate
var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Value a user's portfolio across all their markets",
	Long: `Fetches the user's positions and trade history from every market they
have activity in, values open positions at current prices and derives the
portfolio summary: net worth, invested capital, realized and unrealized
P&L, win rate, ROI and average hold time.

Examples:
  # Value the configured wallet (default table format)
  pivot-client portfolio

  # Value another address
  pivot-client portfolio --user 0xabc...

  # Show only resolved positions
  pivot-client portfolio --resolved-only

  # Export to JSON
  pivot-client portfolio --format json > portfolio.json

  # Export to CSV, most profitable first
  pivot-client portfolio --format csv --sort-by-pnl > portfolio.csv`,
	RunE: runPortfolio,
}

//nolint:gochecknoglobals // Cobra boilerplate
var (
	portfolioUser   string
	resolvedOnly    bool
	openOnly        bool
	portfolioFormat string
	sortByPnL       bool
)

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(portfolioCmd)

	portfolioCmd.Flags().StringVarP(&portfolioUser, "user", "u", "", "Address to value (defaults to WALLET_ADDRESS)")
	portfolioCmd.Flags().BoolVar(&resolvedOnly, "resolved-only", false, "Show only positions on resolved markets")
	portfolioCmd.Flags().BoolVar(&openOnly, "open-only", false, "Show only positions on unresolved markets")
	portfolioCmd.Flags().StringVar(&portfolioFormat, "format", "table", "Output format: table, json, csv")
	portfolioCmd.Flags().BoolVar(&sortByPnL, "sort-by-pnl", false, "Sort positions by P&L (highest first)")
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	err := validatePortfolioFlags()
	if err != nil {
		return err
	}

	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	user := portfolioUser
	if user == "" {
		user = cfg.WalletAddress
	}
	if user == "" {
		return fmt.Errorf("no user: set WALLET_ADDRESS or pass --user")
	}

	aggregator := ledger.NewAggregator(&ledger.AggregatorConfig{
		Viewer:      newViewer(cfg, logger),
		Logger:      logger,
		Concurrency: cfg.FetchConcurrency,
		TradeLimit:  cfg.TradeLimit,
	})

	ctx := context.Background()
	data, err := aggregator.FetchUserData(ctx, user)
	if err != nil {
		return fmt.Errorf("fetch user data: %w", err)
	}

	walletBalance := fetchWalletBalance(ctx, cfg, logger, user)

	summary, valuations := portfolio.Compute(portfolio.Input{
		WalletBalance: walletBalance,
		Holdings:      data.Holdings,
		Trades:        data.Trades,
	}, time.Now().UTC())

	valuations = filterValuations(valuations)
	sortValuations(valuations)

	switch portfolioFormat {
	case "table":
		displayPortfolioTable(user, &summary, valuations, data.FailedMarkets)
		return nil
	case "json":
		return displayPortfolioJSON(user, &summary, valuations)
	case "csv":
		return displayPortfolioCSV(valuations)
	default:
		return fmt.Errorf("unknown format: %s", portfolioFormat)
	}
}

func validatePortfolioFlags() error {
	if resolvedOnly && openOnly {
		return fmt.Errorf("cannot use both --resolved-only and --open-only")
	}

	validFormats := map[string]bool{"table": true, "json": true, "csv": true}
	if !validFormats[portfolioFormat] {
		return fmt.Errorf("invalid format: %s (valid: table, json, csv)", portfolioFormat)
	}

	return nil
}

// fetchWalletBalance reads the on-chain collateral balance when chain access
// is configured. Failures degrade to a zero balance; positions still value.
func fetchWalletBalance(ctx context.Context, cfg *config.Config, logger *zap.Logger, user string) float64 {
	if cfg.RPCURL == "" || !common.IsHexAddress(user) {
		return 0
	}

	client, err := wallet.NewClient(&wallet.ClientConfig{
		RPCURL: cfg.RPCURL,
		Token:  common.HexToAddress(cfg.CollateralToken),
		Hub:    common.HexToAddress(cfg.MarketHub),
		Logger: logger,
	})
	if err != nil {
		logger.Warn("wallet-client-unavailable", zap.Error(err))
		return 0
	}

	balances, err := client.GetBalances(ctx, common.HexToAddress(user))
	if err != nil {
		logger.Warn("wallet-balance-unavailable", zap.Error(err))
		return 0
	}

	return balances.CollateralFloat()
}

func filterValuations(valuations []portfolio.PositionValuation) []portfolio.PositionValuation {
	if !resolvedOnly && !openOnly {
		return valuations
	}

	filtered := make([]portfolio.PositionValuation, 0, len(valuations))
	for _, v := range valuations {
		if resolvedOnly && !v.Resolved {
			continue
		}
		if openOnly && v.Resolved {
			continue
		}
		filtered = append(filtered, v)
	}

	return filtered
}

func sortValuations(valuations []portfolio.PositionValuation) {
	if sortByPnL {
		sort.Slice(valuations, func(i, j int) bool {
			return valuations[i].PnLValue > valuations[j].PnLValue
		})
		return
	}

	// Default: open positions first, then by P&L within each group
	sort.Slice(valuations, func(i, j int) bool {
		if valuations[i].Resolved != valuations[j].Resolved {
			return !valuations[i].Resolved
		}
		return valuations[i].PnLValue > valuations[j].PnLValue
	})
}

func displayPortfolioTable(
	user string,
	summary *portfolio.Summary,
	valuations []portfolio.PositionValuation,
	failedMarkets []uint64,
) {
	fmt.Printf("Portfolio for %s\n", user)
	fmt.Println("================================================================================")
	fmt.Println()

	if len(valuations) == 0 {
		fmt.Println("No open positions")
	}

	for _, v := range valuations {
		displayValuation(v)
	}

	fmt.Println("SUMMARY")
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Printf("Net Worth:     $%.2f\n", summary.NetWorth)
	fmt.Printf("Positions:     $%.2f across %d markets\n", summary.PositionsValue, summary.OpenPositions)
	fmt.Printf("Invested:      $%.2f\n", summary.Invested)

	pnlSign := ""
	if summary.ProfitLoss > 0 {
		pnlSign = "+"
	}
	fmt.Printf("P&L:           %s$%.2f (realized %s$%.2f, unrealized %s$%.2f)\n",
		pnlSign, summary.ProfitLoss,
		signOf(summary.RealizedProfit), summary.RealizedProfit,
		signOf(summary.UnrealizedPnL), summary.UnrealizedPnL)
	fmt.Printf("ROI:           %.1f%%\n", summary.ROI*100)

	if summary.Wins+summary.Losses > 0 {
		fmt.Printf("Record:        %d wins 🏆, %d losses 💀 (%.0f%% win rate)\n",
			summary.Wins, summary.Losses, summary.WinRate*100)
	}
	fmt.Printf("Avg Hold:      %.1f days\n", summary.AvgHoldDays)

	if len(failedMarkets) > 0 {
		fmt.Println()
		fmt.Printf("⚠️  %d market(s) could not be read and are excluded: %v\n",
			len(failedMarkets), failedMarkets)
	}
}

func displayValuation(v portfolio.PositionValuation) {
	status := "🟢"
	if v.Resolved {
		if v.Won {
			status = "🏆"
		} else {
			status = "💀"
		}
	}

	fmt.Printf("%s Market #%d: %s\n", status, v.MarketID, v.Question)
	fmt.Printf("   Outcome: %s\n", v.Outcome)
	fmt.Printf("   Shares: %.6f @ %d bps avg price\n", v.Shares, v.AvgPriceBps)
	fmt.Printf("   Value: $%.2f (cost: $%.2f)\n", v.CurrentValue, v.CostBasis)
	fmt.Printf("   P&L: %s$%.2f (%.1f%%)\n", signOf(v.PnLValue), v.PnLValue, v.PnLPercent)
	fmt.Printf("   Held: %.1f days\n", v.HoldDays)
	fmt.Println()
}

func signOf(v float64) string {
	if v > 0 {
		return "+"
	}
	return ""
}

func displayPortfolioJSON(
	user string,
	summary *portfolio.Summary,
	valuations []portfolio.PositionValuation,
) error {
	type jsonOutput struct {
		User      string                        `json:"user"`
		Summary   *portfolio.Summary            `json:"summary"`
		Positions []portfolio.PositionValuation `json:"positions"`
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(jsonOutput{
		User:      user,
		Summary:   summary,
		Positions: valuations,
	})
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	return nil
}

func displayPortfolioCSV(valuations []portfolio.PositionValuation) error {
	writer := csv.NewWriter(os.Stdout)
	defer writer.Flush()

	err := writer.Write([]string{
		"MarketID",
		"Question",
		"Outcome",
		"Shares",
		"AvgPriceBps",
		"Value",
		"Cost",
		"PnL",
		"PnL%",
		"Resolved",
		"Won",
		"HoldDays",
	})
	if err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, v := range valuations {
		err = writer.Write([]string{
			fmt.Sprintf("%d", v.MarketID),
			v.Question,
			v.Outcome.String(),
			fmt.Sprintf("%.6f", v.Shares),
			fmt.Sprintf("%d", v.AvgPriceBps),
			fmt.Sprintf("%.2f", v.CurrentValue),
			fmt.Sprintf("%.2f", v.CostBasis),
			fmt.Sprintf("%.2f", v.PnLValue),
			fmt.Sprintf("%.2f", v.PnLPercent),
			fmt.Sprintf("%t", v.Resolved),
			fmt.Sprintf("%t", v.Won),
			fmt.Sprintf("%.1f", v.HoldDays),
		})
		if err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	return nil
}
