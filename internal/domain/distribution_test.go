package domain

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPortfolioDistribution_Validate(t *testing.T) {
	t.Run("default distribution is valid", func(t *testing.T) {
		d := DefaultDistribution()
		require.NoError(t, d.Validate())
		require.Equal(t, []string{"VTI", "VEA", "VWO", "VIG", "BND"}, d.Tickers())
		require.InDelta(t, 1.0, d.WeightSum(), 0.000001)
	})

	t.Run("weights do not need to sum to one", func(t *testing.T) {
		d := PortfolioDistribution{
			Stocks: []StockProportion{
				{Ticker: "A", Percentage: 0.2},
				{Ticker: "B", Percentage: 0.3},
			},
		}
		require.NoError(t, d.Validate())
	})

	t.Run("empty", func(t *testing.T) {
		err := PortfolioDistribution{}.Validate()
		require.Error(t, err)
	})

	t.Run("duplicate ticker", func(t *testing.T) {
		d := PortfolioDistribution{
			Stocks: []StockProportion{
				{Ticker: "A", Percentage: 0.5},
				{Ticker: "A", Percentage: 0.5},
			},
		}
		require.ErrorContains(t, d.Validate(), "duplicate ticker A")
	})

	t.Run("negative weight", func(t *testing.T) {
		d := PortfolioDistribution{
			Stocks: []StockProportion{
				{Ticker: "A", Percentage: -0.5},
			},
		}
		require.ErrorContains(t, d.Validate(), "cannot be negative")
	})

	t.Run("non-finite weight", func(t *testing.T) {
		for _, w := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			d := PortfolioDistribution{
				Stocks: []StockProportion{
					{Ticker: "A", Percentage: w},
				},
			}
			require.ErrorContains(t, d.Validate(), "weights must be finite")
		}
	})

	t.Run("blank ticker", func(t *testing.T) {
		d := PortfolioDistribution{
			Stocks: []StockProportion{
				{Ticker: " ", Percentage: 1},
			},
		}
		require.Error(t, d.Validate())
	})
}

func TestParseDistribution(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		d, err := ParseDistribution("vti=0.6, BND=0.4")
		require.NoError(t, err)
		require.Equal(
			t,
			"",
			cmp.Diff(
				PortfolioDistribution{
					Stocks: []StockProportion{
						{Ticker: "VTI", Percentage: 0.6},
						{Ticker: "BND", Percentage: 0.4},
					},
				},
				d,
			),
		)
		require.Equal(t, map[string]float64{"VTI": 0.6, "BND": 0.4}, d.DesiredPercentages())
	})

	t.Run("missing weight", func(t *testing.T) {
		_, err := ParseDistribution("VTI")
		require.ErrorContains(t, err, "expected TICKER=WEIGHT")
	})

	t.Run("non numeric weight", func(t *testing.T) {
		_, err := ParseDistribution("VTI=abc")
		require.Error(t, err)
	})

	t.Run("NaN and Inf are rejected", func(t *testing.T) {
		for _, in := range []string{"VTI=NaN", "VTI=Inf", "VTI=0.5,BND=-Inf"} {
			_, err := ParseDistribution(in)
			require.ErrorContains(t, err, "weights must be finite", in)
		}
	})

	t.Run("empty string", func(t *testing.T) {
		_, err := ParseDistribution("")
		require.Error(t, err)
	})
}
