package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPortfolio_TotalValue(t *testing.T) {
	t.Run("sums quantity times price", func(t *testing.T) {
		p := Portfolio{
			Stocks: []StockQuantity{
				{Ticker: "A", Quantity: 5, Price: decimal.NewFromFloat(10.5)},
				{Ticker: "B", Quantity: 3, Price: decimal.NewFromInt(20)},
			},
		}
		require.True(t, p.TotalValue().Equal(decimal.NewFromFloat(112.5)))
		require.Equal(t, "0.4666666666666667", p.Percentage(0).String())
	})

	t.Run("zero total does not divide", func(t *testing.T) {
		p := Portfolio{
			Stocks: []StockQuantity{
				{Ticker: "A", Quantity: 0, Price: decimal.NewFromInt(10)},
			},
		}
		require.True(t, p.TotalValue().IsZero())
		require.True(t, p.Percentage(0).IsZero())
	})
}

func TestPriceTable_Get(t *testing.T) {
	prices := map[string]decimal.Decimal{
		"A": decimal.NewFromInt(10),
	}
	pt := NewPriceTable(prices)

	// the table keeps its own copy
	prices["A"] = decimal.NewFromInt(99)

	price, err := pt.Get("A")
	require.NoError(t, err)
	require.True(t, price.Equal(decimal.NewFromInt(10)))

	_, err = pt.Get("B")
	require.True(t, errors.Is(err, ErrMissingPrice))
	require.ErrorContains(t, err, "B")
}
