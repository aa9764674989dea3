package repository

import (
	"context"
	"fmt"
	"investmentproportions/internal/domain"
	"investmentproportions/internal/util"
	"investmentproportions/pkg/finnhub"
	"strings"

	"github.com/shopspring/decimal"
)

// QuoteRepository is the boundary to whatever knows current
// prices. Implementations return a price for every requested
// symbol or an error
type QuoteRepository interface {
	GetLatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

const (
	ProviderYahoo   = "yahoo"
	ProviderAlpaca  = "alpaca"
	ProviderFinnhub = "finnhub"
	ProviderFile    = "file"
)

// NewQuoteRepository picks the quote provider named in config
func NewQuoteRepository(config util.Config) (QuoteRepository, error) {
	switch strings.ToLower(config.Provider) {
	case "", ProviderYahoo:
		return NewYahooQuoteRepository(), nil
	case ProviderAlpaca:
		if config.Alpaca.ApiKey == "" || config.Alpaca.ApiSecret == "" {
			return nil, fmt.Errorf("alpaca provider requires an api key and secret")
		}
		return NewAlpacaQuoteRepository(config.Alpaca.ApiKey, config.Alpaca.ApiSecret, config.Alpaca.DataUrl), nil
	case ProviderFinnhub:
		if config.Finnhub.ApiKey == "" {
			return nil, fmt.Errorf("finnhub provider requires an api key")
		}
		return NewFinnhubQuoteRepository(finnhub.NewClient(config.Finnhub.BaseUrl, config.Finnhub.ApiKey)), nil
	case ProviderFile:
		if config.PricesFile == "" {
			return nil, fmt.Errorf("file provider requires a prices file")
		}
		return NewFileQuoteRepository(config.PricesFile), nil
	}
	return nil, fmt.Errorf("unknown quote provider %q", config.Provider)
}

// missingSymbols lists the requested symbols that have no usable
// price in out
func missingSymbols(symbols []string, out map[string]decimal.Decimal) []string {
	missing := []string{}
	for _, symbol := range symbols {
		price, ok := out[symbol]
		if !ok || !price.IsPositive() {
			missing = append(missing, symbol)
		}
	}
	return missing
}

func checkAllPriced(provider string, symbols []string, out map[string]decimal.Decimal) error {
	if missing := missingSymbols(symbols, out); len(missing) > 0 {
		return fmt.Errorf("%w: %s returned no price for %s", domain.ErrMissingPrice, provider, strings.Join(missing, ", "))
	}
	return nil
}
