package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFixed(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  int64
		expectErr bool
	}{
		{
			name:     "zero",
			input:    "0",
			expected: 0,
		},
		{
			name:     "one-human-share",
			input:    "1000000",
			expected: 1_000_000,
		},
		{
			name:     "large-share-count",
			input:    "9223372036854775807",
			expected: 9223372036854775807,
		},
		{
			name:      "exceeds-int64",
			input:     "9223372036854775808",
			expectErr: true,
		},
		{
			name:      "negative",
			input:     "-5",
			expectErr: true,
		},
		{
			name:      "empty",
			input:     "",
			expectErr: true,
		},
		{
			name:      "not-a-number",
			input:     "12abc",
			expectErr: true,
		},
		{
			name:      "float-string",
			input:     "1.5",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseFixed(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestParseBps(t *testing.T) {
	v, err := ParseBps("6000")
	require.NoError(t, err)
	assert.Equal(t, int64(6000), v)

	_, err = ParseBps("10001")
	require.Error(t, err)

	v, err = ParseBps("10000")
	require.NoError(t, err)
	assert.Equal(t, int64(BpsScale), v)
}

func TestFixedConversions(t *testing.T) {
	assert.InDelta(t, 2.0, FixedToFloat(2_000_000), 1e-9)
	assert.Equal(t, int64(10_000_000), FloatToFixed(10.0))
	assert.InDelta(t, 0.6, BpsToFraction(6000), 1e-9)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeNo, OutcomeYes.Opposite())
	assert.Equal(t, OutcomeYes, OutcomeNo.Opposite())
	assert.Equal(t, "YES", OutcomeYes.String())

	o, err := ParseOutcome("no")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNo, o)

	_, err = ParseOutcome("maybe")
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
}

func TestTradeRecordFlows(t *testing.T) {
	buy := TradeRecord{Type: TradeTypeBuy}
	sell := TradeRecord{Type: TradeTypeSell}
	claim := TradeRecord{Type: TradeTypeClaim}
	addLiq := TradeRecord{Type: TradeTypeAddLiquidity}
	resolve := TradeRecord{Type: TradeTypeResolve}

	assert.True(t, buy.IsOutflow())
	assert.False(t, buy.IsInflow())
	assert.True(t, sell.IsInflow())
	assert.True(t, claim.IsInflow())
	assert.True(t, addLiq.IsOutflow())
	assert.False(t, resolve.IsInflow())
	assert.False(t, resolve.IsOutflow())
}
