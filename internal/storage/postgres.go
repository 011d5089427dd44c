package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/portfolio"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Test connection
	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// StoreSummary inserts a portfolio summary row.
func (p *PostgresStorage) StoreSummary(ctx context.Context, user string, summary *portfolio.Summary) error {
	query := `
		INSERT INTO portfolio_summaries (
			id, user_address, computed_at, net_worth, positions_value,
			invested, profit_loss, realized_profit, unrealized_pnl,
			wins, losses, win_rate, roi, avg_hold_days, open_positions
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		uuid.New().String(),
		user,
		summary.ComputedAt,
		summary.NetWorth,
		summary.PositionsValue,
		summary.Invested,
		summary.ProfitLoss,
		summary.RealizedProfit,
		summary.UnrealizedPnL,
		summary.Wins,
		summary.Losses,
		summary.WinRate,
		summary.ROI,
		summary.AvgHoldDays,
		summary.OpenPositions,
	)

	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	p.logger.Debug("summary-stored",
		zap.String("user", user),
		zap.Float64("net-worth", summary.NetWorth),
		zap.Int("open-positions", summary.OpenPositions))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
