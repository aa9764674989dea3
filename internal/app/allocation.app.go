package app

import (
	"context"
	"fmt"
	"investmentproportions/internal/domain"
	"investmentproportions/internal/logger"
	"investmentproportions/internal/repository"
	l1_service "investmentproportions/internal/service/l1"
	l2_service "investmentproportions/internal/service/l2"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountReader supplies the max investment once the user has
// decided on it, usually from a prompt
type AmountReader interface {
	ReadAmount(ctx context.Context) (decimal.Decimal, error)
}

type AllocationHandler struct {
	PriceService      l1_service.PriceService
	AllocationService l2_service.AllocationService
	ReportService     l1_service.ReportService
}

type RunInput struct {
	Distribution domain.PortfolioDistribution
	AmountReader AmountReader
	Format       string
	Out          io.Writer
	// written as csv after a successful fetch when set
	SavePricesPath string
}

// Run is one interactive allocation. Prices start downloading before
// the amount is read, and the search only blocks on them once the
// amount is known
func (h AllocationHandler) Run(ctx context.Context, in RunInput) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runID := uuid.New()
	log := logger.FromContext(ctx).With("runID", runID.String())
	ctx = logger.NewContext(ctx, log)

	profile, endProfile := domain.NewProfile()
	ctx = domain.NewCtxWithProfile(ctx, profile)
	defer func() {
		endProfile()
		if bytes, err := profile.ToJsonBytes(); err == nil {
			log.Debugw("run profile", "profile", string(bytes))
		}
	}()

	if err := in.Distribution.Validate(); err != nil {
		return fmt.Errorf("invalid distribution: %w", err)
	}
	if sum := in.Distribution.WeightSum(); sum < 0.999 || sum > 1.001 {
		log.Warnf("distribution weights add up to %f, not 1", sum)
	}

	prices := h.PriceService.FetchAsync(ctx, in.Distribution.Tickers())

	_, endSpan := profile.StartNewSpan("awaitAmount")
	amount, err := in.AmountReader.ReadAmount(ctx)
	endSpan()
	if err != nil {
		return err
	}
	log.Debugw("read amount", "amount", amount.String())

	_, endSpan = profile.StartNewSpan("computePortfolio")
	result, err := h.AllocationService.ComputePortfolio(ctx, in.Distribution, prices, amount)
	endSpan()
	if err != nil {
		return err
	}

	if in.SavePricesPath != "" {
		if err := savePrices(ctx, prices, in.SavePricesPath); err != nil {
			return err
		}
		log.Infow("saved prices", "path", in.SavePricesPath)
	}

	_, endSpan = profile.StartNewSpan("report")
	err = h.ReportService.Print(in.Out, *result.Portfolio, in.Format)
	endSpan()
	if err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	return nil
}

func savePrices(ctx context.Context, prices l2_service.PriceSource, path string) error {
	priceTable, err := prices.Get(ctx)
	if err != nil {
		return err
	}
	if err := repository.NewFileQuoteRepository(path).Save(priceTable.ToMap()); err != nil {
		return fmt.Errorf("failed to save prices: %w", err)
	}
	return nil
}

// Allocate is the non-interactive path used by the api, where the
// amount is known up front
func (h AllocationHandler) Allocate(ctx context.Context, distribution domain.PortfolioDistribution, maxInvestment decimal.Decimal) (*l2_service.ComputePortfolioResponse, error) {
	if err := distribution.Validate(); err != nil {
		return nil, fmt.Errorf("invalid distribution: %w", err)
	}
	prices := h.PriceService.FetchAsync(ctx, distribution.Tickers())
	return h.AllocationService.ComputePortfolio(ctx, distribution, prices, maxInvestment)
}
