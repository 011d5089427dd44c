package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/pivotmarket/pivot-client/pkg/wallet"
)

//nolint:gochecknoglobals // Cobra boilerplate
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show on-chain gas, collateral and allowance balances",
	Long: `Reads the wallet's gas balance, collateral token balance and the
allowance granted to the market hub contract.

Requires RPC_URL, COLLATERAL_TOKEN and MARKET_HUB. The address defaults
to WALLET_ADDRESS.

Example:
  pivot-client balance --address 0xabc...`,
	RunE: runBalance,
}

//nolint:gochecknoglobals // Cobra boilerplate
var balanceAddress string

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "Address to query (defaults to WALLET_ADDRESS)")
}

func runBalance(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	address := balanceAddress
	if address == "" {
		address = cfg.WalletAddress
	}
	if !common.IsHexAddress(address) {
		return fmt.Errorf("no valid address: set WALLET_ADDRESS or pass --address")
	}

	if cfg.RPCURL == "" {
		return fmt.Errorf("RPC_URL is required")
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

	balances, err := client.GetBalances(context.Background(), common.HexToAddress(address))
	if err != nil {
		return fmt.Errorf("get balances: %w", err)
	}

	fmt.Printf("Balances for %s\n", address)
	fmt.Println("================================================================================")
	fmt.Printf("Gas:        %s wei\n", balances.Gas.String())
	fmt.Printf("Collateral: $%.6f\n", balances.CollateralFloat())
	fmt.Printf("Allowance:  %s\n", formatAllowance(balances.Allowance))

	return nil
}

func formatAllowance(allowance *big.Int) string {
	if allowance.Sign() == 0 {
		return "none (approve the market hub before trading)"
	}
	return fmt.Sprintf("$%.6f", wallet.CollateralToFloat(allowance))
}
