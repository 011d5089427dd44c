package app

import (
	"go.uber.org/zap"
)

// startPriceStream connects the price stream, subscribes to the tracked
// user's markets and starts the event consumer. Pushed price changes
// invalidate the cached market snapshots, so the next view read is fresh
// instead of waiting out the TTL.
func (a *App) startPriceStream() error {
	if a.subscriber == nil {
		return nil
	}

	err := a.subscriber.Start()
	if err != nil {
		return err
	}

	a.subscribeUserMarkets()

	a.wg.Add(1)
	go a.consumePriceEvents()

	return nil
}

func (a *App) subscribeUserMarkets() {
	user := a.cfg.WalletAddress
	if user == "" {
		a.logger.Info("no-tracked-user-for-stream",
			zap.String("note", "markets subscribe lazily as events arrive"))
		return
	}

	marketIDs, err := a.viewer.GetUserMarkets(a.ctx, user)
	if err != nil {
		a.logger.Warn("user-market-list-failed", zap.Error(err))
		return
	}

	err = a.subscriber.Subscribe(a.ctx, marketIDs)
	if err != nil {
		a.logger.Error("market-subscribe-failed",
			zap.Int("count", len(marketIDs)),
			zap.Error(err))
		return
	}

	a.logger.Info("subscribed-to-user-markets",
		zap.String("user", user),
		zap.Int("count", len(marketIDs)))
}

func (a *App) consumePriceEvents() {
	defer a.wg.Done()

	for {
		select {
		case <-a.ctx.Done():
			return
		case event, ok := <-a.subscriber.EventChan():
			if !ok {
				return
			}

			update, err := event.Decode()
			if err != nil {
				a.logger.Warn("price-event-decode-failed",
					zap.String("market-id", event.MarketID),
					zap.Error(err))
				continue
			}

			a.viewer.Invalidate(update.MarketID)

			a.logger.Debug("price-update-applied",
				zap.Uint64("market-id", update.MarketID),
				zap.Int64("yes-price-bps", update.YesPriceBps),
				zap.Bool("resolved", update.Resolved))
		}
	}
}
