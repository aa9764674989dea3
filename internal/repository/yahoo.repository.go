package repository

import (
	"context"
	"fmt"
	"investmentproportions/internal/logger"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

type yahooQuoteRepositoryHandler struct{}

func NewYahooQuoteRepository() QuoteRepository {
	return yahooQuoteRepositoryHandler{}
}

// GetLatestPrices requests every symbol in a single batched
// quote call
func (h yahooQuoteRepositoryHandler) GetLatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	log := logger.FromContext(ctx)

	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	out := map[string]decimal.Decimal{}
	iter := quote.List(symbols)
	for iter.Next() {
		q := iter.Quote()
		out[q.Symbol] = decimal.NewFromFloat(q.RegularMarketPrice)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get yahoo quotes for %v: %w", symbols, err)
	}

	log.Debugw("fetched yahoo quotes", "symbols", symbols, "count", len(out))

	if err := checkAllPriced("yahoo", symbols, out); err != nil {
		return nil, err
	}

	return out, nil
}
