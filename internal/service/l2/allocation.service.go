package l2_service

import (
	"context"
	"errors"
	"fmt"
	"investmentproportions/internal/domain"
	"investmentproportions/internal/logger"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

var ErrInvestmentTooSmall = errors.New("investment is too small to buy a single share")

// lowerBoundRatio is how far below the max investment the search goes
var lowerBoundRatio = decimal.NewFromFloat(0.9)

type ComputePortfolioInput struct {
	Distribution  domain.PortfolioDistribution
	Prices        domain.PriceTable
	MaxInvestment decimal.Decimal
}

type DeviationStats struct {
	Min  float64 `json:"min"`
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
}

type ComputePortfolioResponse struct {
	Portfolio           *domain.Portfolio
	Deviation           float64
	Investment          decimal.Decimal
	CandidatesEvaluated int
	// only covers candidates with a non-zero total
	DeviationStats DeviationStats
}

// ComputePortfolio tries every whole-dollar total from 90% of the max
// up to the max and keeps the share quantities whose realized weights
// are closest (L1) to the desired weights. A later candidate only wins
// on a strictly smaller deviation, so ties go to the lower total.
// The search stops early if ctx is cancelled
func ComputePortfolio(ctx context.Context, in ComputePortfolioInput) (*ComputePortfolioResponse, error) {
	if !in.MaxInvestment.IsPositive() {
		return nil, fmt.Errorf("max investment must be positive, got %s", in.MaxInvestment.String())
	}
	if err := in.Distribution.Validate(); err != nil {
		return nil, err
	}

	var best *domain.Portfolio
	bestDeviation := math.Inf(1)
	bestTotal := decimal.Zero
	deviations := []float64{}
	evaluated := 0

	candidates := newCandidateTotals(in.MaxInvestment)
	for t, ok := candidates.Next(); ok; t, ok = candidates.Next() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("stopped after %d candidates: %w", evaluated, err)
		}
		evaluated++

		candidate, err := portfolioForInvestment(in.Distribution, in.Prices, t)
		if err != nil {
			return nil, err
		}
		deviation := computeDeviation(in.Distribution, candidate)
		if !math.IsInf(deviation, 1) {
			deviations = append(deviations, deviation)
		}
		if deviation < bestDeviation {
			best = candidate
			bestDeviation = deviation
			bestTotal = t
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: max investment %s", ErrInvestmentTooSmall, in.MaxInvestment.String())
	}

	deviationStats, err := summarizeDeviations(deviations)
	if err != nil {
		return nil, err
	}

	return &ComputePortfolioResponse{
		Portfolio:           best,
		Deviation:           bestDeviation,
		Investment:          bestTotal,
		CandidatesEvaluated: evaluated,
		DeviationStats:      deviationStats,
	}, nil
}

// candidateTotals walks round(0.9*max) through max in steps of 1. When
// rounding pushes the lower bound past max, max is the only candidate
type candidateTotals struct {
	next    decimal.Decimal
	max     decimal.Decimal
	onlyMax bool
	done    bool
}

func newCandidateTotals(maxInvestment decimal.Decimal) *candidateTotals {
	lower := maxInvestment.Mul(lowerBoundRatio).Round(0)
	return &candidateTotals{
		next:    lower,
		max:     maxInvestment,
		onlyMax: lower.GreaterThan(maxInvestment),
	}
}

func (c *candidateTotals) Next() (decimal.Decimal, bool) {
	if c.done {
		return decimal.Zero, false
	}
	if c.onlyMax {
		c.done = true
		return c.max, true
	}
	if c.next.GreaterThan(c.max) {
		c.done = true
		return decimal.Zero, false
	}
	t := c.next
	c.next = c.next.Add(decimal.NewFromInt(1))
	return t, true
}

// portfolioForInvestment buys round(weight * total / price) shares of
// each ticker, in distribution order
func portfolioForInvestment(distribution domain.PortfolioDistribution, prices domain.PriceTable, total decimal.Decimal) (*domain.Portfolio, error) {
	out := domain.NewPortfolio()
	for _, s := range distribution.Stocks {
		price, err := prices.Get(s.Ticker)
		if err != nil {
			return nil, err
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("cannot buy %s at non-positive price %s", s.Ticker, price.String())
		}

		quantity := decimal.NewFromFloat(s.Percentage).
			Mul(total).
			Div(price).
			Round(0)

		out.Stocks = append(out.Stocks, domain.StockQuantity{
			Ticker:   s.Ticker,
			Quantity: quantity.IntPart(),
			Price:    price,
		})
	}
	return out, nil
}

// computeDeviation is the L1 distance between the desired weights and
// the realized weights. A portfolio with no value is infinitely far
// from any distribution
func computeDeviation(distribution domain.PortfolioDistribution, portfolio *domain.Portfolio) float64 {
	if portfolio.TotalValue().IsZero() {
		return math.Inf(1)
	}

	desired := distribution.DesiredPercentages()
	deviation := decimal.Zero
	for i, s := range portfolio.Stocks {
		target := decimal.NewFromFloat(desired[s.Ticker])
		deviation = deviation.Add(target.Sub(portfolio.Percentage(i)).Abs())
	}

	return deviation.InexactFloat64()
}

func summarizeDeviations(deviations []float64) (DeviationStats, error) {
	if len(deviations) == 0 {
		return DeviationStats{}, nil
	}
	lowest, err := stats.Min(deviations)
	if err != nil {
		return DeviationStats{}, fmt.Errorf("failed to compute min deviation: %w", err)
	}
	mean, err := stats.Mean(deviations)
	if err != nil {
		return DeviationStats{}, fmt.Errorf("failed to compute mean deviation: %w", err)
	}
	highest, err := stats.Max(deviations)
	if err != nil {
		return DeviationStats{}, fmt.Errorf("failed to compute max deviation: %w", err)
	}
	return DeviationStats{
		Min:  lowest,
		Mean: mean,
		Max:  highest,
	}, nil
}

// PriceSource hands out the price table for a run. The allocation
// service only asks for it once it is about to search
type PriceSource interface {
	Get(ctx context.Context) (domain.PriceTable, error)
}

type AllocationService interface {
	ComputePortfolio(ctx context.Context, distribution domain.PortfolioDistribution, prices PriceSource, maxInvestment decimal.Decimal) (*ComputePortfolioResponse, error)
}

type allocationServiceHandler struct{}

func NewAllocationService() AllocationService {
	return allocationServiceHandler{}
}

func (h allocationServiceHandler) ComputePortfolio(ctx context.Context, distribution domain.PortfolioDistribution, prices PriceSource, maxInvestment decimal.Decimal) (*ComputePortfolioResponse, error) {
	log := logger.FromContext(ctx)

	if !maxInvestment.IsPositive() {
		return nil, fmt.Errorf("max investment must be positive, got %s", maxInvestment.String())
	}

	priceTable, err := prices.Get(ctx)
	if err != nil {
		return nil, err
	}

	result, err := ComputePortfolio(ctx, ComputePortfolioInput{
		Distribution:  distribution,
		Prices:        priceTable,
		MaxInvestment: maxInvestment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute portfolio: %w", err)
	}

	log.Infow(
		"computed portfolio",
		"maxInvestment", maxInvestment.String(),
		"investment", result.Investment.String(),
		"deviation", result.Deviation,
		"candidates", result.CandidatesEvaluated,
	)

	return result, nil
}
