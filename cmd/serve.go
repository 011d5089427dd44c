package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pivotmarket/pivot-client/internal/app"
	"github.com/pivotmarket/pivot-client/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portfolio service",
	Long: `Starts the long-running portfolio service, which will:
1. Serve portfolio valuations and trade previews over HTTP
2. Track on-chain wallet balances when RPC_URL is configured
3. Subscribe to the gateway's price stream and keep snapshots fresh
4. Persist periodic portfolio summaries to the configured storage

Use --user to track a different address than WALLET_ADDRESS.`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("user", "u", "", "Address to track (defaults to WALLET_ADDRESS)")
}

func runServe(cmd *cobra.Command, args []string) error {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	user, _ := cmd.Flags().GetString("user")

	application, err := app.New(cfg, logger, &app.Options{User: user})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
