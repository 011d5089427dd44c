package stream

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testConfig() Config {
	logger, _ := zap.NewDevelopment()
	return Config{
		URL:                   "wss://stream.pivotmarket.io/v1/prices",
		DialTimeout:           10 * time.Second,
		PongTimeout:           15 * time.Second,
		PingInterval:          10 * time.Second,
		ReconnectInitialDelay: 1 * time.Second,
		ReconnectMaxDelay:     30 * time.Second,
		ReconnectBackoffMult:  2.0,
		EventBufferSize:       1000,
		Logger:                logger,
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig()
	sub := New(cfg)

	if sub == nil {
		t.Fatal("expected non-nil subscriber")
	}

	if sub.url != cfg.URL {
		t.Errorf("expected URL %q, got %q", cfg.URL, sub.url)
	}

	if sub.reconnectMgr == nil {
		t.Error("expected non-nil reconnect manager")
	}

	if sub.eventChan == nil {
		t.Error("expected non-nil event channel")
	}

	if cap(sub.eventChan) != cfg.EventBufferSize {
		t.Errorf("expected event channel capacity %d, got %d", cfg.EventBufferSize, cap(sub.eventChan))
	}

	if sub.subscribed == nil {
		t.Error("expected non-nil subscribed map")
	}
}

func TestSubscribe_EmptyMarkets(t *testing.T) {
	sub := New(testConfig())
	ctx := context.Background()

	err := sub.Subscribe(ctx, []uint64{})
	if err != nil {
		t.Errorf("expected no error for empty market list, got %v", err)
	}
}

func TestSubscribe_DuplicateMarkets(t *testing.T) {
	sub := New(testConfig())

	// Manually mark markets as subscribed
	sub.mu.Lock()
	sub.subscribed[7] = true
	sub.subscribed[9] = true
	sub.mu.Unlock()

	ctx := context.Background()

	// Try to subscribe to already subscribed markets
	err := sub.Subscribe(ctx, []uint64{7, 9})
	if err != nil {
		t.Errorf("expected no error for duplicate markets, got %v", err)
	}

	sub.mu.RLock()
	count := len(sub.subscribed)
	sub.mu.RUnlock()

	if count != 2 {
		t.Errorf("expected 2 subscribed markets, got %d", count)
	}
}

func TestEventChan(t *testing.T) {
	sub := New(testConfig())

	eventChan := sub.EventChan()
	if eventChan == nil {
		t.Fatal("expected non-nil event channel")
	}

	if eventChan != (<-chan *PriceEvent)(sub.eventChan) {
		t.Error("EventChan() returned different channel")
	}
}

func TestSubscriber_ConcurrentSubscribe(t *testing.T) {
	sub := New(testConfig())

	// Test concurrent subscription tracking with pre-subscribed markets.
	// We're testing for race conditions, not actual network operations.
	ctx := context.Background()
	var wg sync.WaitGroup

	sub.mu.Lock()
	for i := uint64(1); i <= 10; i++ {
		sub.subscribed[i] = true
	}
	sub.mu.Unlock()

	for i := uint64(1); i <= 10; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			// These return early since the markets are already subscribed
			_ = sub.Subscribe(ctx, []uint64{id})
		}(i)
	}

	wg.Wait()

	sub.mu.RLock()
	count := len(sub.subscribed)
	sub.mu.RUnlock()

	if count != 10 {
		t.Errorf("expected 10 subscribed markets, got %d", count)
	}
}

func TestSubscriber_ConnectionState(t *testing.T) {
	sub := New(testConfig())

	if sub.connected.Load() {
		t.Error("expected subscriber to not be connected initially")
	}

	sub.connected.Store(true)
	if !sub.connected.Load() {
		t.Error("expected subscriber to be connected after setting state")
	}

	sub.connected.Store(false)
	if sub.connected.Load() {
		t.Error("expected subscriber to be disconnected after clearing state")
	}
}

func TestSubscriber_SubscribedTracking(t *testing.T) {
	sub := New(testConfig())

	markets := []uint64{7, 9, 23}

	sub.mu.Lock()
	for _, id := range markets {
		sub.subscribed[id] = true
	}
	sub.mu.Unlock()

	sub.mu.RLock()
	for _, id := range markets {
		if !sub.subscribed[id] {
			t.Errorf("expected market %d to be tracked", id)
		}
	}

	if len(sub.subscribed) != len(markets) {
		t.Errorf("expected %d subscribed markets, got %d", len(markets), len(sub.subscribed))
	}
	sub.mu.RUnlock()
}

func TestSubscriber_Close(t *testing.T) {
	sub := New(testConfig())

	// Close should not panic even without Start()
	err := sub.Close()
	if err != nil {
		t.Errorf("expected no error on close, got %v", err)
	}

	_, ok := <-sub.eventChan
	if ok {
		t.Error("expected event channel to be closed")
	}
}

func TestResubscribeAll_EmptySubscriptions(t *testing.T) {
	sub := New(testConfig())
	ctx := context.Background()

	err := sub.resubscribeAll(ctx)
	if err != nil {
		t.Errorf("expected no error with empty subscriptions, got %v", err)
	}
}

func TestSubscriber_EventBuffering(t *testing.T) {
	cfg := testConfig()
	cfg.EventBufferSize = 10
	sub := New(cfg)

	for i := 0; i < 10; i++ {
		event := &PriceEvent{
			MarketID:  "7",
			YesPrice:  "6000",
			NoPrice:   "4000",
			EventType: "price_change",
		}

		select {
		case sub.eventChan <- event:
			// Success
		default:
			t.Errorf("event channel full at %d events (capacity %d)", i, cap(sub.eventChan))
		}
	}

	// 11th event should not block
	event := &PriceEvent{MarketID: "7", EventType: "price_change"}

	select {
	case sub.eventChan <- event:
		t.Error("expected event channel to be full")
	default:
		// Expected - channel is full
	}
}

func TestEncodeMarketIDs(t *testing.T) {
	got := encodeMarketIDs([]uint64{7, 9, 23})

	want := []string{"7", "9", "23"}
	if len(got) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(got))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected id %q at index %d, got %q", want[i], i, got[i])
		}
	}
}

func TestPriceEventDecode(t *testing.T) {
	event := &PriceEvent{
		MarketID: "7",
		YesPrice: "6123",
		NoPrice:  "3877",
		Resolved: false,
	}

	update, err := event.Decode()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if update.MarketID != 7 {
		t.Errorf("expected market id 7, got %d", update.MarketID)
	}

	if update.YesPriceBps != 6123 {
		t.Errorf("expected yes price 6123, got %d", update.YesPriceBps)
	}

	if update.NoPriceBps != 3877 {
		t.Errorf("expected no price 3877, got %d", update.NoPriceBps)
	}

	if update.Resolved {
		t.Error("expected unresolved update")
	}
}

func TestPriceEventDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		event PriceEvent
	}{
		{name: "bad-market-id", event: PriceEvent{MarketID: "abc", YesPrice: "6000", NoPrice: "4000"}},
		{name: "bad-yes-price", event: PriceEvent{MarketID: "7", YesPrice: "0.61", NoPrice: "4000"}},
		{name: "bad-no-price", event: PriceEvent{MarketID: "7", YesPrice: "6000", NoPrice: ""}},
		{name: "price-above-range", event: PriceEvent{MarketID: "7", YesPrice: "10001", NoPrice: "4000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.event.Decode()
			if err == nil {
				t.Error("expected decode error")
			}
		})
	}
}
