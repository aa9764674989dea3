package integration_tests

import (
	"context"
	"fmt"
	"investmentproportions/internal/domain"
	"investmentproportions/internal/repository"

	"github.com/shopspring/decimal"
)

// NewMockQuoteRepositoryForTests serves fixed quotes for the default
// distribution so full runs can happen without a network
func NewMockQuoteRepositoryForTests() repository.QuoteRepository {
	return mockQuotesForTestsHandler{
		prices: map[string]decimal.Decimal{
			"VTI": decimal.NewFromFloat(291.57),
			"VEA": decimal.NewFromFloat(51.2),
			"VWO": decimal.NewFromFloat(44.91),
			"VIG": decimal.NewFromFloat(196.03),
			"BND": decimal.NewFromFloat(72.1),
		},
	}
}

type mockQuotesForTestsHandler struct {
	prices map[string]decimal.Decimal
}

func (m mockQuotesForTestsHandler) GetLatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, symbol := range symbols {
		price, ok := m.prices[symbol]
		if !ok {
			return nil, fmt.Errorf("%w: no test quote for %s", domain.ErrMissingPrice, symbol)
		}
		out[symbol] = price
	}
	return out, nil
}
