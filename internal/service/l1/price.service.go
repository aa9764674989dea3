package l1_service

import (
	"context"
	"fmt"
	"investmentproportions/internal/domain"
	"investmentproportions/internal/logger"
	"investmentproportions/internal/repository"
	"time"

	"github.com/shopspring/decimal"
)

/**

behavior - the price fetch is kicked off as soon as we know which
tickers we need, so the network round trip overlaps with whatever
the caller does next (usually waiting on the user to type an amount).
the caller joins on the result the first time it actually needs a
price. one fetch, one result, no retries.

*/

type PriceService interface {
	FetchAsync(ctx context.Context, tickers []string) *PriceFuture
	Fetch(ctx context.Context, tickers []string) (domain.PriceTable, error)
}

type priceServiceHandler struct {
	QuoteRepository repository.QuoteRepository
}

func NewPriceService(quoteRepository repository.QuoteRepository) PriceService {
	return priceServiceHandler{
		QuoteRepository: quoteRepository,
	}
}

// PriceFuture is the pending result of a single background fetch.
// The result is written exactly once, before done is closed
type PriceFuture struct {
	done   chan struct{}
	prices domain.PriceTable
	err    error
}

// Get blocks until the fetch finishes. Every call returns the same
// cached result. Cancelling ctx only stops the wait
func (f *PriceFuture) Get(ctx context.Context) (domain.PriceTable, error) {
	select {
	case <-f.done:
		return f.prices, f.err
	case <-ctx.Done():
		return domain.PriceTable{}, fmt.Errorf("stopped waiting for prices: %w", ctx.Err())
	}
}

// Done reports whether the fetch has finished, without blocking
func (f *PriceFuture) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (h priceServiceHandler) FetchAsync(ctx context.Context, tickers []string) *PriceFuture {
	f := &PriceFuture{
		done: make(chan struct{}),
	}
	go func() {
		defer close(f.done)
		f.prices, f.err = h.Fetch(ctx, tickers)
	}()
	return f
}

// Fetch makes one provider call and fails unless every ticker came
// back with a positive price
func (h priceServiceHandler) Fetch(ctx context.Context, tickers []string) (domain.PriceTable, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	prices, err := h.QuoteRepository.GetLatestPrices(ctx, tickers)
	if err != nil {
		return domain.PriceTable{}, fmt.Errorf("failed to fetch prices: %w", err)
	}

	out := map[string]decimal.Decimal{}
	for _, ticker := range tickers {
		price, ok := prices[ticker]
		if !ok {
			return domain.PriceTable{}, fmt.Errorf("failed to fetch prices: %w %s", domain.ErrMissingPrice, ticker)
		}
		if !price.IsPositive() {
			return domain.PriceTable{}, fmt.Errorf("failed to fetch prices: got non-positive price %s for %s", price.String(), ticker)
		}
		out[ticker] = price
	}

	log.Infow("fetched prices", "tickers", tickers, "elapsedMs", time.Since(start).Milliseconds())

	return domain.NewPriceTable(out), nil
}
