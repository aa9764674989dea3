package domain

import (
	"github.com/shopspring/decimal"
)

// StockQuantity is a whole number of shares of a ticker, along
// with the price used when the quantity was computed
type StockQuantity struct {
	Ticker   string          `json:"ticker"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (s StockQuantity) Value() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(s.Quantity))
}

type Portfolio struct {
	Stocks []StockQuantity `json:"stocks"`
}

func NewPortfolio() *Portfolio {
	return &Portfolio{
		Stocks: []StockQuantity{},
	}
}

func (p Portfolio) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.Stocks {
		total = total.Add(s.Value())
	}
	return total
}

// Percentage returns the fraction of the total value held in
// the i-th stock. A portfolio with no value returns 0 for every
// stock instead of dividing by zero
func (p Portfolio) Percentage(i int) decimal.Decimal {
	total := p.TotalValue()
	if total.IsZero() {
		return decimal.Zero
	}
	return p.Stocks[i].Value().Div(total)
}
