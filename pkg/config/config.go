package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Ledger gateway
	GatewayBaseURL string
	RelayerURL     string

	// Chain
	RPCURL          string
	CollateralToken string
	MarketHub       string
	WalletAddress   string

	// Price stream
	StreamWSURL             string
	WSDialTimeout           time.Duration
	WSPongTimeout           time.Duration
	WSPingInterval          time.Duration
	WSReconnectInitialDelay time.Duration
	WSReconnectMaxDelay     time.Duration
	WSReconnectBackoffMult  float64
	WSMessageBufferSize     int

	// Portfolio aggregation
	SnapshotTTL      time.Duration
	FetchConcurrency int64
	TradeLimit       int
	SummaryInterval  time.Duration

	// Trading
	TradeMode              string // "paper" or "live"
	BreakerCheckInterval   time.Duration
	BreakerStakeMultiplier float64
	BreakerMinAbsolute     float64
	BreakerHysteresis      float64

	// Wallet tracking
	WalletPollInterval time.Duration

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Ledger gateway defaults
		GatewayBaseURL: getEnvOrDefault("GATEWAY_BASE_URL", "https://gateway.pivotmarket.io"),
		RelayerURL:     os.Getenv("RELAYER_URL"),

		// Chain defaults
		RPCURL:          os.Getenv("RPC_URL"),
		CollateralToken: os.Getenv("COLLATERAL_TOKEN"),
		MarketHub:       os.Getenv("MARKET_HUB"),
		WalletAddress:   os.Getenv("WALLET_ADDRESS"),

		// Price stream defaults
		StreamWSURL:             getEnvOrDefault("STREAM_WS_URL", "wss://gateway.pivotmarket.io/ws/prices"),
		WSDialTimeout:           getDurationOrDefault("WS_DIAL_TIMEOUT", 10*time.Second),
		WSPongTimeout:           getDurationOrDefault("WS_PONG_TIMEOUT", 15*time.Second),
		WSPingInterval:          getDurationOrDefault("WS_PING_INTERVAL", 10*time.Second),
		WSReconnectInitialDelay: getDurationOrDefault("WS_RECONNECT_INITIAL_DELAY", 1*time.Second),
		WSReconnectMaxDelay:     getDurationOrDefault("WS_RECONNECT_MAX_DELAY", 30*time.Second),
		WSReconnectBackoffMult:  getFloat64OrDefault("WS_RECONNECT_BACKOFF_MULTIPLIER", 2.0),
		WSMessageBufferSize:     getIntOrDefault("WS_MESSAGE_BUFFER_SIZE", 1000),

		// Portfolio aggregation defaults
		SnapshotTTL:      getDurationOrDefault("SNAPSHOT_TTL", 5*time.Second),
		FetchConcurrency: int64(getIntOrDefault("FETCH_CONCURRENCY", 8)),
		TradeLimit:       getIntOrDefault("TRADE_LIMIT", 500),
		SummaryInterval:  getDurationOrDefault("SUMMARY_INTERVAL", 1*time.Minute),

		// Trading defaults
		TradeMode:              getEnvOrDefault("TRADE_MODE", "paper"),
		BreakerCheckInterval:   getDurationOrDefault("BREAKER_CHECK_INTERVAL", 1*time.Minute),
		BreakerStakeMultiplier: getFloat64OrDefault("BREAKER_STAKE_MULTIPLIER", 3.0),
		BreakerMinAbsolute:     getFloat64OrDefault("BREAKER_MIN_ABSOLUTE", 5.0),
		BreakerHysteresis:      getFloat64OrDefault("BREAKER_HYSTERESIS_RATIO", 1.5),

		// Wallet tracking defaults
		WalletPollInterval: getDurationOrDefault("WALLET_POLL_INTERVAL", 1*time.Minute),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "pivot"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "pivot123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "pivot_client"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.GatewayBaseURL == "" {
		return fmt.Errorf("GATEWAY_BASE_URL cannot be empty")
	}

	if c.SnapshotTTL < 0 {
		return fmt.Errorf("SNAPSHOT_TTL cannot be negative, got %s", c.SnapshotTTL)
	}

	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive, got %d", c.FetchConcurrency)
	}

	if c.TradeMode != "paper" && c.TradeMode != "live" {
		return fmt.Errorf("TRADE_MODE must be 'paper' or 'live', got %q", c.TradeMode)
	}

	if c.TradeMode == "live" && c.RelayerURL == "" {
		return fmt.Errorf("RELAYER_URL is required when TRADE_MODE is 'live'")
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
