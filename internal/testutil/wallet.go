package testutil

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pivotmarket/pivot-client/pkg/wallet"
)

// MockWalletClient is an in-memory stand-in for the on-chain wallet client.
type MockWalletClient struct {
	mu         sync.RWMutex
	gas        *big.Int
	collateral *big.Int
	allowance  *big.Int
	err        error
}

// NewMockWalletClient creates a mock wallet with zero balances.
func NewMockWalletClient() *MockWalletClient {
	return &MockWalletClient{
		gas:        big.NewInt(0),
		collateral: big.NewInt(0),
		allowance:  big.NewInt(0),
	}
}

// NewCollateralBigInt converts dollars to 6-decimal collateral units.
func NewCollateralBigInt(usd float64) *big.Int {
	return big.NewInt(int64(usd * 1e6))
}

// SetCollateralBalance sets the collateral balance returned by GetBalances.
func (m *MockWalletClient) SetCollateralBalance(balance *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collateral = balance
}

// SetGetBalancesError makes GetBalances fail.
func (m *MockWalletClient) SetGetBalancesError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetBalances implements circuitbreaker.BalanceFetcher.
func (m *MockWalletClient) GetBalances(_ context.Context, _ common.Address) (*wallet.Balances, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	return &wallet.Balances{
		Gas:        new(big.Int).Set(m.gas),
		Collateral: new(big.Int).Set(m.collateral),
		Allowance:  new(big.Int).Set(m.allowance),
	}, nil
}
