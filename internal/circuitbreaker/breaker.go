package circuitbreaker

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/pkg/wallet"
)

// BalanceFetcher is an interface for fetching wallet balances.
// Both wallet.Client and test mocks can implement this interface.
type BalanceFetcher interface {
	GetBalances(ctx context.Context, address common.Address) (*wallet.Balances, error)
}

// BalanceCircuitBreaker monitors collateral balance and gates buy
// submissions. Thresholds track recent stake sizes, with hysteresis so a
// balance hovering near the threshold does not flap the gate.
type BalanceCircuitBreaker struct {
	enabled atomic.Bool // Atomic for lock-free reads

	checkInterval   time.Duration
	walletClient    BalanceFetcher
	address         common.Address
	logger          *zap.Logger
	stakeMultiplier float64 // Multiplier for avg stake size
	minAbsolute     float64 // Absolute minimum balance
	hysteresisRatio float64 // Re-enable at ratio * disable threshold

	// Protected by mutex
	mu               sync.RWMutex
	lastBalance      float64   // Last checked collateral balance (USD)
	lastCheck        time.Time // When we last checked
	recentStakes     []float64 // Rolling window of stake sizes
	disableThreshold float64   // Current disable threshold
	enableThreshold  float64   // Current enable threshold
}

// Config holds circuit breaker configuration.
type Config struct {
	CheckInterval   time.Duration
	StakeMultiplier float64
	MinAbsolute     float64
	HysteresisRatio float64
	WalletClient    BalanceFetcher
	Address         common.Address
	Logger          *zap.Logger
}

// Status holds current circuit breaker status for debugging.
type Status struct {
	Enabled          bool
	LastBalance      float64
	LastCheck        time.Time
	DisableThreshold float64
	EnableThreshold  float64
	AvgStakeSize     float64
	RecentStakeCount int
}

// New creates a new circuit breaker with the given configuration.
func New(cfg *Config) (*BalanceCircuitBreaker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.WalletClient == nil {
		return nil, fmt.Errorf("wallet client cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.CheckInterval <= 0 {
		return nil, fmt.Errorf("check interval must be positive")
	}
	if cfg.StakeMultiplier <= 0 {
		return nil, fmt.Errorf("stake multiplier must be positive")
	}
	if cfg.MinAbsolute <= 0 {
		return nil, fmt.Errorf("min absolute must be positive")
	}
	if cfg.HysteresisRatio < 1.0 {
		return nil, fmt.Errorf("hysteresis ratio must be >= 1.0")
	}

	breaker := &BalanceCircuitBreaker{
		checkInterval:    cfg.CheckInterval,
		walletClient:     cfg.WalletClient,
		address:          cfg.Address,
		logger:           cfg.Logger,
		stakeMultiplier:  cfg.StakeMultiplier,
		minAbsolute:      cfg.MinAbsolute,
		hysteresisRatio:  cfg.HysteresisRatio,
		recentStakes:     make([]float64, 0, 20),
		disableThreshold: cfg.MinAbsolute, // Start with minimum
		enableThreshold:  cfg.MinAbsolute * cfg.HysteresisRatio,
	}

	// Start enabled by default
	breaker.enabled.Store(true)

	CircuitBreakerEnabled.Set(1)
	CircuitBreakerDisableThreshold.Set(breaker.disableThreshold)
	CircuitBreakerEnableThreshold.Set(breaker.enableThreshold)
	CircuitBreakerAvgStakeSize.Set(0)

	return breaker, nil
}

// IsEnabled returns true if buys should be submitted.
// This is lock-free and safe to call from hot paths.
func (b *BalanceCircuitBreaker) IsEnabled() bool {
	return b.enabled.Load()
}

// RecordStake adds a stake to the rolling window and recalculates
// thresholds. Call this after a successful buy submission.
func (b *BalanceCircuitBreaker) RecordStake(stakeSize float64) {
	if stakeSize <= 0 {
		b.logger.Warn("invalid-stake-size",
			zap.Float64("size", stakeSize))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Keep last 20 stakes
	b.recentStakes = append(b.recentStakes, stakeSize)
	if len(b.recentStakes) > 20 {
		b.recentStakes = b.recentStakes[1:]
	}

	sum := 0.0
	for _, size := range b.recentStakes {
		sum += size
	}
	avgStakeSize := sum / float64(len(b.recentStakes))

	b.disableThreshold = math.Max(avgStakeSize*b.stakeMultiplier, b.minAbsolute)
	b.enableThreshold = b.disableThreshold * b.hysteresisRatio

	CircuitBreakerAvgStakeSize.Set(avgStakeSize)
	CircuitBreakerDisableThreshold.Set(b.disableThreshold)
	CircuitBreakerEnableThreshold.Set(b.enableThreshold)

	b.logger.Debug("thresholds-updated",
		zap.Float64("avg_stake_size", avgStakeSize),
		zap.Int("stake_count", len(b.recentStakes)),
		zap.Float64("disable_threshold", b.disableThreshold),
		zap.Float64("enable_threshold", b.enableThreshold))
}

// CheckBalance checks current collateral balance and updates the gate.
func (b *BalanceCircuitBreaker) CheckBalance(ctx context.Context) error {
	start := time.Now()
	defer func() {
		CircuitBreakerCheckDuration.Observe(time.Since(start).Seconds())
	}()

	balances, err := b.walletClient.GetBalances(ctx, b.address)
	if err != nil {
		b.logger.Error("failed-to-check-balance",
			zap.Error(err),
			zap.String("address", b.address.Hex()))
		return fmt.Errorf("get balances: %w", err)
	}

	balance := balances.CollateralFloat()

	b.mu.RLock()
	disableThreshold := b.disableThreshold
	enableThreshold := b.enableThreshold
	b.mu.RUnlock()

	currentlyEnabled := b.enabled.Load()

	b.mu.Lock()
	b.lastBalance = balance
	b.lastCheck = time.Now()
	b.mu.Unlock()

	CircuitBreakerBalance.Set(balance)

	// State transition logic with hysteresis
	shouldDisable := currentlyEnabled && balance < disableThreshold
	shouldEnable := !currentlyEnabled && balance >= enableThreshold

	if shouldDisable {
		b.enabled.Store(false)
		CircuitBreakerEnabled.Set(0)
		CircuitBreakerStateChanges.Inc()

		b.logger.Warn("circuit-breaker-disabled",
			zap.Float64("balance", balance),
			zap.Float64("disable_threshold", disableThreshold),
			zap.Float64("enable_threshold", enableThreshold))
	} else if shouldEnable {
		b.enabled.Store(true)
		CircuitBreakerEnabled.Set(1)
		CircuitBreakerStateChanges.Inc()

		b.logger.Info("circuit-breaker-enabled",
			zap.Float64("balance", balance),
			zap.Float64("disable_threshold", disableThreshold),
			zap.Float64("enable_threshold", enableThreshold))
	} else {
		b.logger.Debug("balance-checked",
			zap.Float64("balance", balance),
			zap.Bool("enabled", currentlyEnabled),
			zap.Float64("disable_threshold", disableThreshold),
			zap.Float64("enable_threshold", enableThreshold))
	}

	return nil
}

// Start begins the background monitoring loop that periodically checks
// balance. This runs until the context is cancelled.
func (b *BalanceCircuitBreaker) Start(ctx context.Context) {
	b.logger.Info("circuit-breaker-started",
		zap.Duration("check_interval", b.checkInterval),
		zap.Float64("stake_multiplier", b.stakeMultiplier),
		zap.Float64("min_absolute", b.minAbsolute),
		zap.Float64("hysteresis_ratio", b.hysteresisRatio))

	// Check balance immediately on startup
	if err := b.CheckBalance(ctx); err != nil {
		b.logger.Error("initial-balance-check-failed", zap.Error(err))
	}

	go b.monitorLoop(ctx)
}

// monitorLoop is the background goroutine that periodically checks balance.
func (b *BalanceCircuitBreaker) monitorLoop(ctx context.Context) {
	ticker := time.NewTicker(b.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("circuit-breaker-stopped")
			return
		case <-ticker.C:
			if err := b.CheckBalance(ctx); err != nil {
				// Log error but continue monitoring
				b.logger.Error("balance-check-error", zap.Error(err))
			}
		}
	}
}

// GetStatus returns current circuit breaker status for debugging and HTTP
// endpoints.
func (b *BalanceCircuitBreaker) GetStatus() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sum := 0.0
	for _, size := range b.recentStakes {
		sum += size
	}
	avgStakeSize := 0.0
	if len(b.recentStakes) > 0 {
		avgStakeSize = sum / float64(len(b.recentStakes))
	}

	return Status{
		Enabled:          b.enabled.Load(),
		LastBalance:      b.lastBalance,
		LastCheck:        b.lastCheck,
		DisableThreshold: b.disableThreshold,
		EnableThreshold:  b.enableThreshold,
		AvgStakeSize:     avgStakeSize,
		RecentStakeCount: len(b.recentStakes),
	}
}
