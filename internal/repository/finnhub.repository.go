package repository

import (
	"context"
	"investmentproportions/internal/logger"
	"investmentproportions/pkg/finnhub"

	"github.com/shopspring/decimal"
)

type finnhubQuoteRepositoryHandler struct {
	Client finnhub.Client
}

func NewFinnhubQuoteRepository(client finnhub.Client) QuoteRepository {
	return finnhubQuoteRepositoryHandler{
		Client: client,
	}
}

// GetLatestPrices issues one request per symbol since finnhub has
// no batch quote endpoint. The first failure aborts the whole fetch
func (h finnhubQuoteRepositoryHandler) GetLatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	log := logger.FromContext(ctx)

	out := map[string]decimal.Decimal{}
	for _, symbol := range symbols {
		q, err := h.Client.GetQuote(ctx, symbol)
		if err != nil {
			return nil, err
		}
		out[symbol] = decimal.NewFromFloat(q.Current)
	}

	log.Debugw("fetched finnhub quotes", "symbols", symbols)

	if err := checkAllPriced("finnhub", symbols, out); err != nil {
		return nil, err
	}

	return out, nil
}
