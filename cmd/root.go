package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "pivot-client",
	Short: "Prediction market browser client",
	Long: `Browser-style client for a binary-outcome prediction market ledger.

Reads market state through the ledger gateway's view API, previews trades
with price-impact and slippage estimates, values portfolios across every
market a user touched, and submits buy/sell/claim transactions through the
relayer in live mode (paper mode logs them instead).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
