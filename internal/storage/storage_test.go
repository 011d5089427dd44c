package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"

	"github.com/pivotmarket/pivot-client/internal/portfolio"
)

func testSummary() *portfolio.Summary {
	return &portfolio.Summary{
		NetWorth:       125.50,
		PositionsValue: 25.50,
		Invested:       20.00,
		ProfitLoss:     8.25,
		RealizedProfit: 2.75,
		UnrealizedPnL:  5.50,
		Wins:           3,
		Losses:         1,
		WinRate:        0.75,
		ROI:            0.4125,
		AvgHoldDays:    4.2,
		OpenPositions:  2,
		ComputedAt:     time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func TestConsoleStorage_New(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	storage := NewConsoleStorage(logger)

	if storage == nil {
		t.Fatal("expected non-nil storage")
	}

	if storage.logger == nil {
		t.Error("expected non-nil logger")
	}
}

func TestConsoleStorage_StoreSummary(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	storage := NewConsoleStorage(logger)

	summary := testSummary()
	ctx := context.Background()

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := storage.StoreSummary(ctx, "0xabc", summary)

	// Restore stdout
	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)
	output := buf.String()

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if !bytes.Contains([]byte(output), []byte("PORTFOLIO SUMMARY")) {
		t.Error("expected output to contain 'PORTFOLIO SUMMARY'")
	}

	if !bytes.Contains([]byte(output), []byte("0xabc")) {
		t.Error("expected output to contain user address")
	}

	if !bytes.Contains([]byte(output), []byte("$125.50")) {
		t.Error("expected output to contain net worth")
	}
}

func TestConsoleStorage_Close(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	storage := NewConsoleStorage(logger)

	err := storage.Close()
	if err != nil {
		t.Errorf("expected no error on close, got %v", err)
	}
}

func TestPostgresStorage_StoreSummary(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: logger,
	}

	summary := testSummary()
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO portfolio_summaries").
		WithArgs(
			sqlmock.AnyArg(), // id (generated uuid)
			"0xabc",
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
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = storage.StoreSummary(ctx, "0xabc", summary)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStorage_StoreSummary_Error(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: logger,
	}

	summary := testSummary()
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO portfolio_summaries").
		WillReturnError(sqlmock.ErrCancelled)

	err = storage.StoreSummary(ctx, "0xabc", summary)
	if err == nil {
		t.Error("expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStorage_Close(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	storage := &PostgresStorage{
		db:     db,
		logger: logger,
	}

	mock.ExpectClose()

	err = storage.Close()
	if err != nil {
		t.Errorf("expected no error on close, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStorage_Interface(t *testing.T) {
	// Verify both implementations satisfy the Storage interface
	logger, _ := zap.NewDevelopment()

	var _ Storage = NewConsoleStorage(logger)

	db, _, _ := sqlmock.New()
	defer db.Close()

	var _ Storage = &PostgresStorage{db: db, logger: logger}
}
