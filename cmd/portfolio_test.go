package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivotmarket/pivot-client/internal/portfolio"
)

func resetPortfolioFlags() {
	portfolioUser = ""
	resolvedOnly = false
	openOnly = false
	portfolioFormat = "table"
	sortByPnL = false
}

func TestValidatePortfolioFlags(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func()
		wantErr string
	}{
		{name: "defaults", mutate: func() {}},
		{name: "json-format", mutate: func() { portfolioFormat = "json" }},
		{name: "csv-format", mutate: func() { portfolioFormat = "csv" }},
		{
			name:    "conflicting-filters",
			mutate:  func() { resolvedOnly = true; openOnly = true },
			wantErr: "cannot use both",
		},
		{
			name:    "bad-format",
			mutate:  func() { portfolioFormat = "xml" },
			wantErr: "invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetPortfolioFlags()
			defer resetPortfolioFlags()
			tt.mutate()

			err := validatePortfolioFlags()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func testValuations() []portfolio.PositionValuation {
	return []portfolio.PositionValuation{
		{MarketID: 1, Resolved: true, Won: true, PnLValue: 5.0},
		{MarketID: 2, Resolved: false, PnLValue: -1.0},
		{MarketID: 3, Resolved: false, PnLValue: 2.5},
		{MarketID: 4, Resolved: true, Won: false, PnLValue: -3.0},
	}
}

func TestFilterValuations(t *testing.T) {
	t.Run("no-filter", func(t *testing.T) {
		resetPortfolioFlags()
		assert.Len(t, filterValuations(testValuations()), 4)
	})

	t.Run("resolved-only", func(t *testing.T) {
		resetPortfolioFlags()
		defer resetPortfolioFlags()
		resolvedOnly = true

		filtered := filterValuations(testValuations())
		require.Len(t, filtered, 2)
		for _, v := range filtered {
			assert.True(t, v.Resolved)
		}
	})

	t.Run("open-only", func(t *testing.T) {
		resetPortfolioFlags()
		defer resetPortfolioFlags()
		openOnly = true

		filtered := filterValuations(testValuations())
		require.Len(t, filtered, 2)
		for _, v := range filtered {
			assert.False(t, v.Resolved)
		}
	})
}

func TestSortValuations(t *testing.T) {
	t.Run("default-open-first-then-pnl", func(t *testing.T) {
		resetPortfolioFlags()

		valuations := testValuations()
		sortValuations(valuations)

		ids := []uint64{valuations[0].MarketID, valuations[1].MarketID, valuations[2].MarketID, valuations[3].MarketID}
		assert.Equal(t, []uint64{3, 2, 1, 4}, ids)
	})

	t.Run("by-pnl", func(t *testing.T) {
		resetPortfolioFlags()
		defer resetPortfolioFlags()
		sortByPnL = true

		valuations := testValuations()
		sortValuations(valuations)

		ids := []uint64{valuations[0].MarketID, valuations[1].MarketID, valuations[2].MarketID, valuations[3].MarketID}
		assert.Equal(t, []uint64{1, 3, 2, 4}, ids)
	})
}
