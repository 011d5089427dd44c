package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient(&ClientConfig{
		RPCURL: "https://rpc.example.com",
		Token:  common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"),
		Hub:    common.HexToAddress("0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *ClientConfig
	}{
		{
			name: "empty-rpc-url",
			cfg:  &ClientConfig{Logger: zap.NewNop()},
		},
		{
			name: "nil-logger",
			cfg:  &ClientConfig{RPCURL: "https://rpc.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			require.Error(t, err)
		})
	}
}

func TestCollateralFloat(t *testing.T) {
	tests := []struct {
		name       string
		collateral *big.Int
		want       float64
	}{
		{name: "zero", collateral: big.NewInt(0), want: 0},
		{name: "one-dollar", collateral: big.NewInt(1_000_000), want: 1.0},
		{name: "fractional", collateral: big.NewInt(2_500_000), want: 2.5},
		{name: "large", collateral: big.NewInt(123_456_789_000), want: 123456.789},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Balances{Collateral: tt.collateral}
			assert.InDelta(t, tt.want, b.CollateralFloat(), 1e-9)
		})
	}
}
