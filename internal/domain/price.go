package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrMissingPrice = errors.New("price table missing ticker")

// PriceTable holds the latest price per ticker for a single run.
// It is populated once and never modified afterwards
type PriceTable struct {
	prices map[string]decimal.Decimal
}

func NewPriceTable(prices map[string]decimal.Decimal) PriceTable {
	copied := make(map[string]decimal.Decimal, len(prices))
	for symbol, price := range prices {
		copied[symbol] = price
	}
	return PriceTable{
		prices: copied,
	}
}

func (pt PriceTable) Get(ticker string) (decimal.Decimal, error) {
	price, ok := pt.prices[ticker]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w %s", ErrMissingPrice, ticker)
	}
	return price, nil
}

// ToMap returns a copy so callers cannot mutate the table
func (pt PriceTable) ToMap() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(pt.prices))
	for symbol, price := range pt.prices {
		out[symbol] = price
	}
	return out
}
