package stream

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Subscriber manages a single WebSocket connection to the gateway's price
// stream. Market ids are sent as decimal strings, matching the view API.
type Subscriber struct {
	url             string
	conn            *websocket.Conn
	logger          *zap.Logger
	reconnectMgr    *ReconnectManager
	config          Config
	eventChan       chan *PriceEvent
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	mu              sync.RWMutex
	subscribed      map[uint64]bool
	connected       atomic.Bool
	lastPongTime    atomic.Int64
	connectionStart atomic.Int64 // Unix timestamp of connection start
}

// Config holds price stream subscriber configuration.
type Config struct {
	URL                   string
	DialTimeout           time.Duration
	PongTimeout           time.Duration
	PingInterval          time.Duration
	ReconnectInitialDelay time.Duration
	ReconnectMaxDelay     time.Duration
	ReconnectBackoffMult  float64
	EventBufferSize       int
	Logger                *zap.Logger
}

// New creates a new price stream subscriber.
func New(cfg Config) *Subscriber {
	ctx, cancel := context.WithCancel(context.Background())

	reconnectCfg := ReconnectConfig{
		InitialDelay:      cfg.ReconnectInitialDelay,
		MaxDelay:          cfg.ReconnectMaxDelay,
		BackoffMultiplier: cfg.ReconnectBackoffMult,
		JitterPercent:     0.2,
	}

	return &Subscriber{
		url:          cfg.URL,
		logger:       cfg.Logger,
		reconnectMgr: NewReconnectManager(reconnectCfg, cfg.Logger),
		config:       cfg,
		eventChan:    make(chan *PriceEvent, cfg.EventBufferSize),
		ctx:          ctx,
		cancel:       cancel,
		subscribed:   make(map[uint64]bool),
	}
}

// Start connects to the gateway and starts the read, ping and reconnect loops.
func (s *Subscriber) Start() error {
	s.logger.Info("price-stream-starting", zap.String("url", s.url))

	err := s.connect(s.ctx)
	if err != nil {
		return fmt.Errorf("initial connection: %w", err)
	}

	s.wg.Add(3)
	go s.readLoop()
	go s.pingLoop()
	go s.reconnectLoop()

	return nil
}

// connect establishes a WebSocket connection.
func (s *Subscriber) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: s.config.DialTimeout,
	}

	s.logger.Info("connecting-to-price-stream", zap.String("url", s.url))

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	conn.SetPongHandler(func(string) error {
		s.lastPongTime.Store(time.Now().Unix())
		return nil
	})

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	now := time.Now()
	s.connected.Store(true)
	s.lastPongTime.Store(now.Unix())
	s.connectionStart.Store(now.Unix())
	ActiveConnections.Set(1)

	s.logger.Info("price-stream-connected")

	return nil
}

// Subscribe subscribes to price updates for a list of market ids.
func (s *Subscriber) Subscribe(ctx context.Context, marketIDs []uint64) error {
	if len(marketIDs) == 0 {
		return nil
	}

	// Build subscription message and update state under lock
	s.mu.Lock()

	newMarkets := make([]uint64, 0, len(marketIDs))
	for _, marketID := range marketIDs {
		if !s.subscribed[marketID] {
			newMarkets = append(newMarkets, marketID)
			s.subscribed[marketID] = true
		}
	}

	if len(newMarkets) == 0 {
		s.mu.Unlock()
		s.logger.Debug("all-markets-already-subscribed")
		return nil
	}

	// The first subscription on a connection declares the stream type;
	// later ones are incremental operations.
	var subscribeMsg map[string]interface{}
	isInitialSubscription := len(s.subscribed) == len(newMarkets)

	if isInitialSubscription {
		subscribeMsg = map[string]interface{}{
			"market_ids": encodeMarketIDs(newMarkets),
			"type":       "prices",
		}
	} else {
		subscribeMsg = map[string]interface{}{
			"market_ids": encodeMarketIDs(newMarkets),
			"operation":  "subscribe",
		}
	}

	totalSubscribed := len(s.subscribed)
	s.mu.Unlock()

	// Network I/O WITHOUT holding the lock
	err := s.conn.WriteJSON(subscribeMsg)
	if err != nil {
		// Rollback subscription state on failure
		s.mu.Lock()
		for _, marketID := range newMarkets {
			delete(s.subscribed, marketID)
		}
		totalSubscribed = len(s.subscribed)
		s.mu.Unlock()

		SubscriptionCount.Set(float64(totalSubscribed))
		return fmt.Errorf("write subscribe message: %w", err)
	}

	SubscriptionCount.Set(float64(totalSubscribed))

	s.logger.Info("subscribed-to-markets",
		zap.Int("new-count", len(newMarkets)),
		zap.Int("total-count", totalSubscribed))

	return nil
}

// Unsubscribe stops price updates for a list of market ids.
func (s *Subscriber) Unsubscribe(ctx context.Context, marketIDs []uint64) (err error) {
	if len(marketIDs) == 0 {
		return nil
	}

	s.mu.Lock()

	marketsToUnsubscribe := make([]uint64, 0, len(marketIDs))
	for _, marketID := range marketIDs {
		if s.subscribed[marketID] {
			marketsToUnsubscribe = append(marketsToUnsubscribe, marketID)
			delete(s.subscribed, marketID)
		}
	}

	if len(marketsToUnsubscribe) == 0 {
		s.mu.Unlock()
		s.logger.Debug("no-markets-to-unsubscribe")
		return nil
	}

	unsubscribeMsg := map[string]interface{}{
		"market_ids": encodeMarketIDs(marketsToUnsubscribe),
		"operation":  "unsubscribe",
	}

	totalSubscribed := len(s.subscribed)
	s.mu.Unlock()

	// Send unsubscribe message (without holding lock)
	err = s.conn.WriteJSON(unsubscribeMsg)
	if err != nil {
		// Rollback: re-add markets to subscribed map
		s.mu.Lock()
		for _, marketID := range marketsToUnsubscribe {
			s.subscribed[marketID] = true
		}
		totalSubscribed = len(s.subscribed)
		s.mu.Unlock()

		SubscriptionCount.Set(float64(totalSubscribed))
		return fmt.Errorf("write unsubscribe message: %w", err)
	}

	SubscriptionCount.Set(float64(totalSubscribed))
	UnsubscriptionsTotal.Inc()

	s.logger.Info("unsubscribed-from-markets",
		zap.Int("count", len(marketsToUnsubscribe)),
		zap.Int("remaining-count", totalSubscribed))

	return nil
}

// readLoop reads price events from the WebSocket.
func (s *Subscriber) readLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		s.mu.RLock()
		conn := s.conn
		s.mu.RUnlock()

		if conn == nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			s.logger.Warn("read-error", zap.Error(err))

			// Observe connection duration before marking as disconnected
			startTime := s.connectionStart.Load()
			if startTime > 0 {
				duration := time.Since(time.Unix(startTime, 0)).Seconds()
				ConnectionDuration.Observe(duration)
			}

			s.connected.Store(false)
			ActiveConnections.Set(0)
			return
		}

		// The gateway pushes an array of events per frame
		var events []PriceEvent
		err = json.Unmarshal(message, &events)
		if err != nil {
			messageStr := string(message)

			// Heartbeat/keepalive frames are empty arrays or near-empty
			if messageStr == "[]" || messageStr == "" || len(message) < 10 {
				s.logger.Debug("stream-heartbeat-received",
					zap.Int("bytes", len(message)))
				continue
			}

			// Subscription confirmations and other control messages
			var controlMsg map[string]interface{}
			if json.Unmarshal(message, &controlMsg) == nil {
				if msgType, ok := controlMsg["type"].(string); ok {
					s.logger.Debug("stream-control-message",
						zap.String("type", msgType),
						zap.Int("bytes", len(message)))
					continue
				}
			}

			previewLen := len(messageStr)
			if previewLen > 100 {
				previewLen = 100
			}
			s.logger.Debug("stream-unparseable-message",
				zap.Error(err),
				zap.Int("bytes", len(message)),
				zap.String("preview", messageStr[:previewLen]))
			continue
		}

		for i := range events {
			start := time.Now()
			event := &events[i]

			EventsReceivedTotal.WithLabelValues(event.EventType).Inc()

			// Send to channel (non-blocking)
			select {
			case s.eventChan <- event:
			default:
				s.logger.Warn("event-channel-full", zap.String("market-id", event.MarketID))
				EventsDroppedTotal.WithLabelValues("channel_full").Inc()
			}

			EventLatencySeconds.Observe(time.Since(start).Seconds())
		}
	}
}

// pingLoop sends periodic PING messages.
func (s *Subscriber) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if !s.connected.Load() {
				continue
			}

			s.mu.RLock()
			conn := s.conn
			s.mu.RUnlock()

			if conn == nil {
				continue
			}

			err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(time.Second))
			if err != nil {
				s.logger.Warn("ping-error", zap.Error(err))
			}
		}
	}
}

// reconnectLoop handles reconnection when the connection drops.
func (s *Subscriber) reconnectLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		// Wait for disconnection
		if s.connected.Load() {
			time.Sleep(time.Second)
			continue
		}

		s.logger.Warn("connection-lost-initiating-reconnect")

		err := s.reconnectMgr.Reconnect(s.ctx, s.connect)
		if err != nil {
			if err == context.Canceled {
				return
			}
			s.logger.Error("reconnection-failed", zap.Error(err))
			continue
		}

		err = s.resubscribeAll(s.ctx)
		if err != nil {
			s.logger.Error("resubscribe-failed", zap.Error(err))
			s.connected.Store(false)
			continue
		}

		s.logger.Info("reconnection-complete-restarting-read-loop")

		s.wg.Add(1)
		go s.readLoop()
	}
}

// resubscribeAll resubscribes to all previously subscribed markets.
func (s *Subscriber) resubscribeAll(ctx context.Context) error {
	s.mu.RLock()
	marketIDs := make([]uint64, 0, len(s.subscribed))
	for marketID := range s.subscribed {
		marketIDs = append(marketIDs, marketID)
	}
	s.mu.RUnlock()

	if len(marketIDs) == 0 {
		return nil
	}

	// Fresh connection, so this is an initial subscribe message again
	subscribeMsg := map[string]interface{}{
		"market_ids": encodeMarketIDs(marketIDs),
		"type":       "prices",
	}

	s.mu.RLock()
	err := s.conn.WriteJSON(subscribeMsg)
	s.mu.RUnlock()

	if err != nil {
		return fmt.Errorf("write resubscribe message: %w", err)
	}

	s.logger.Info("resubscribed-to-all-markets", zap.Int("count", len(marketIDs)))

	return nil
}

// EventChan returns the channel for receiving price events.
func (s *Subscriber) EventChan() <-chan *PriceEvent {
	return s.eventChan
}

// Close gracefully closes the subscriber.
func (s *Subscriber) Close() error {
	s.logger.Info("closing-price-stream")

	s.cancel()

	s.mu.RLock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.mu.RUnlock()

	s.wg.Wait()

	close(s.eventChan)

	ActiveConnections.Set(0)

	s.logger.Info("price-stream-closed")

	return nil
}

func encodeMarketIDs(ids []uint64) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.FormatUint(id, 10))
	}
	return out
}
