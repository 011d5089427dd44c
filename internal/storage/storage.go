package storage

import (
	"context"

	"github.com/pivotmarket/pivot-client/internal/portfolio"
)

// Storage is the interface for persisting portfolio summaries. Each stored
// row is one point in the user's net-worth history.
type Storage interface {
	// StoreSummary stores a computed portfolio summary.
	StoreSummary(ctx context.Context, user string, summary *portfolio.Summary) error

	// Close closes the storage connection.
	Close() error
}
