package repository

import (
	"context"
	"fmt"
	"investmentproportions/internal/logger"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

type alpacaQuoteRepositoryHandler struct {
	MdClient *marketdata.Client
}

func NewAlpacaQuoteRepository(apiKey, apiSecret string, endpoint string) QuoteRepository {
	mdClient := marketdata.NewClient(marketdata.ClientOpts{
		BaseURL:   endpoint,
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &alpacaQuoteRepositoryHandler{
		MdClient: mdClient,
	}
}

func (h alpacaQuoteRepositoryHandler) GetLatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	log := logger.FromContext(ctx)

	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	results, err := h.MdClient.GetLatestQuotes(symbols, marketdata.GetLatestQuoteRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to get alpaca quotes for %v: %w", symbols, err)
	}

	out := map[string]decimal.Decimal{}
	for symbol, result := range results {
		price := result.BidPrice
		if price == 0 {
			// thin books sometimes only have one side
			log.Warnf("alpaca bid price for %s is 0, using ask price %f", symbol, result.AskPrice)
			price = result.AskPrice
		}
		out[symbol] = decimal.NewFromFloat(price)
	}

	if err := checkAllPriced("alpaca", symbols, out); err != nil {
		return nil, err
	}

	return out, nil
}
