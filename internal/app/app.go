package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/ledger"
	"github.com/pivotmarket/pivot-client/internal/reporter"
	"github.com/pivotmarket/pivot-client/internal/storage"
	"github.com/pivotmarket/pivot-client/pkg/config"
	"github.com/pivotmarket/pivot-client/pkg/healthprobe"
	"github.com/pivotmarket/pivot-client/pkg/httpserver"
	"github.com/pivotmarket/pivot-client/pkg/stream"
	"github.com/pivotmarket/pivot-client/pkg/wallet"
)

// App is the main application orchestrator for serve mode.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	viewer        *ledger.CachedViewer
	aggregator    *ledger.Aggregator
	walletTracker *wallet.Tracker // nil when chain access is not configured
	subscriber    *stream.Subscriber
	reporter      *reporter.Reporter // nil when no wallet address is configured
	storage       storage.Storage
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	User string // overrides WALLET_ADDRESS as the tracked user
}
