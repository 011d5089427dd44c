package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestReconnectManager_Config(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	cfg := ReconnectConfig{
		InitialDelay:      1 * time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		JitterPercent:     0.2,
	}

	rm := NewReconnectManager(cfg, logger)

	if rm == nil {
		t.Fatal("expected non-nil reconnect manager")
	}

	if rm.config.InitialDelay != cfg.InitialDelay {
		t.Errorf("expected InitialDelay %v, got %v", cfg.InitialDelay, rm.config.InitialDelay)
	}

	if rm.config.MaxDelay != cfg.MaxDelay {
		t.Errorf("expected MaxDelay %v, got %v", cfg.MaxDelay, rm.config.MaxDelay)
	}

	if rm.config.BackoffMultiplier != cfg.BackoffMultiplier {
		t.Errorf("expected BackoffMultiplier %v, got %v", cfg.BackoffMultiplier, rm.config.BackoffMultiplier)
	}
}

func TestReconnectManager_BackoffProgression(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	cfg := ReconnectConfig{
		InitialDelay:      10 * time.Millisecond,
		MaxDelay:          80 * time.Millisecond,
		BackoffMultiplier: 2.0,
		JitterPercent:     0,
	}

	rm := NewReconnectManager(cfg, logger)

	// 10 -> 20 -> 40 -> 80, then capped at 80
	expected := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		80 * time.Millisecond,
		80 * time.Millisecond,
	}

	for i, want := range expected {
		got := rm.nextBackoff()
		if got != want {
			t.Errorf("step %d: expected backoff %v, got %v", i, want, got)
		}
		rm.incrementBackoff()
	}
}

func TestReconnectManager_RetriesUntilSuccess(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	cfg := ReconnectConfig{
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2.0,
		JitterPercent:     0,
	}

	rm := NewReconnectManager(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	attempts := 0
	connectFunc := func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("dial refused")
		}
		return nil
	}

	err := rm.Reconnect(ctx, connectFunc)
	if err != nil {
		t.Fatalf("expected successful reconnection, got %v", err)
	}

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}

	// Success resets the backoff to the initial delay
	rm.mu.Lock()
	current := rm.currentBackoff
	rm.mu.Unlock()

	if current != cfg.InitialDelay {
		t.Errorf("expected backoff reset to %v, got %v", cfg.InitialDelay, current)
	}
}

func TestReconnectManager_ContextCancellation(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	cfg := ReconnectConfig{
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2.0,
		JitterPercent:     0,
	}

	rm := NewReconnectManager(cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	connectFunc := func(_ context.Context) error {
		attempts++
		if attempts >= 4 {
			cancel()
		}
		return errors.New("dial refused")
	}

	done := make(chan error, 1)
	go func() {
		done <- rm.Reconnect(ctx, connectFunc)
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("reconnection test timed out")
	}

	if attempts < 4 {
		t.Errorf("expected at least 4 attempts, got %d", attempts)
	}
}

func TestReconnectManager_JitterBounds(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	cfg := ReconnectConfig{
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          time.Second,
		BackoffMultiplier: 2.0,
		JitterPercent:     0.2,
	}

	rm := NewReconnectManager(cfg, logger)

	for i := 0; i < 50; i++ {
		backoff := rm.nextBackoff()
		if backoff < cfg.InitialDelay {
			t.Errorf("backoff %v below initial delay %v", backoff, cfg.InitialDelay)
		}
		if backoff > time.Duration(float64(cfg.InitialDelay)*1.2) {
			t.Errorf("backoff %v above jitter ceiling", backoff)
		}
	}
}
