package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/portfolio"
)

// ConsoleStorage implements Storage by pretty-printing to console.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreSummary pretty-prints a portfolio summary to console.
func (c *ConsoleStorage) StoreSummary(_ context.Context, user string, summary *portfolio.Summary) error {
	fmt.Println("\n" + "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📈 PORTFOLIO SUMMARY\n")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("User:     %s\n", user)
	fmt.Printf("Time:     %s\n", summary.ComputedAt.Format("2006-01-02 15:04:05"))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("💰 VALUATION\n")
	fmt.Printf("  Net Worth:       $%.2f\n", summary.NetWorth)
	fmt.Printf("  Positions:       $%.2f (%d open)\n", summary.PositionsValue, summary.OpenPositions)
	fmt.Printf("  Invested:        $%.2f\n", summary.Invested)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📊 PERFORMANCE\n")
	fmt.Printf("  P&L:             $%.2f\n", summary.ProfitLoss)
	fmt.Printf("  Realized:        $%.2f\n", summary.RealizedProfit)
	fmt.Printf("  Unrealized:      $%.2f\n", summary.UnrealizedPnL)
	fmt.Printf("  Win Rate:        %.1f%% (%d W / %d L)\n", summary.WinRate*100, summary.Wins, summary.Losses)
	fmt.Printf("  ROI:             %.1f%%\n", summary.ROI*100)
	fmt.Printf("  Avg Hold:        %.1f days\n", summary.AvgHoldDays)
	if summary.ProfitLoss >= 0 {
		fmt.Printf("  ✅ In profit\n")
	} else {
		fmt.Printf("  ❌ At a loss\n")
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
