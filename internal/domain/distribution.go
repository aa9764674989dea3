package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StockProportion is the desired fraction (0-1) of the
// investment that should go to a single ticker
type StockProportion struct {
	Ticker     string  `json:"ticker"`
	Percentage float64 `json:"percentage"`
}

// PortfolioDistribution is the target allocation. Order is
// preserved all the way through to the report
type PortfolioDistribution struct {
	Stocks []StockProportion `json:"stocks"`
}

func DefaultDistribution() PortfolioDistribution {
	return PortfolioDistribution{
		Stocks: []StockProportion{
			{Ticker: "VTI", Percentage: .36},
			{Ticker: "VEA", Percentage: .25},
			{Ticker: "VWO", Percentage: .19},
			{Ticker: "VIG", Percentage: .10},
			{Ticker: "BND", Percentage: .10},
		},
	}
}

func (d PortfolioDistribution) Tickers() []string {
	tickers := []string{}
	for _, s := range d.Stocks {
		tickers = append(tickers, s.Ticker)
	}
	return tickers
}

func (d PortfolioDistribution) DesiredPercentages() map[string]float64 {
	out := map[string]float64{}
	for _, s := range d.Stocks {
		out[s.Ticker] = s.Percentage
	}
	return out
}

func (d PortfolioDistribution) WeightSum() float64 {
	sum := 0.0
	for _, s := range d.Stocks {
		sum += s.Percentage
	}
	return sum
}

// Validate checks the things downstream lookups depend on. Weights
// are intentionally not required to add up to 1
func (d PortfolioDistribution) Validate() error {
	if len(d.Stocks) == 0 {
		return fmt.Errorf("distribution must contain at least one ticker")
	}
	seen := map[string]bool{}
	for _, s := range d.Stocks {
		if strings.TrimSpace(s.Ticker) == "" {
			return fmt.Errorf("distribution contains an empty ticker")
		}
		if seen[s.Ticker] {
			return fmt.Errorf("distribution contains duplicate ticker %s", s.Ticker)
		}
		seen[s.Ticker] = true
		if math.IsNaN(s.Percentage) || math.IsInf(s.Percentage, 0) {
			return fmt.Errorf("invalid weight %f for %s: weights must be finite", s.Percentage, s.Ticker)
		}
		if s.Percentage < 0 {
			return fmt.Errorf("invalid weight %f for %s: weights cannot be negative", s.Percentage, s.Ticker)
		}
	}
	return nil
}

// ParseDistribution reads the compact form used by flags and env
// vars, e.g. "VTI=0.36,VEA=0.25,BND=0.39"
func ParseDistribution(in string) (PortfolioDistribution, error) {
	out := PortfolioDistribution{
		Stocks: []StockProportion{},
	}
	for _, part := range strings.Split(in, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ticker, weightStr, ok := strings.Cut(part, "=")
		if !ok {
			return PortfolioDistribution{}, fmt.Errorf("invalid distribution entry %q: expected TICKER=WEIGHT", part)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
		if err != nil {
			return PortfolioDistribution{}, fmt.Errorf("invalid weight for %s: %w", ticker, err)
		}
		out.Stocks = append(out.Stocks, StockProportion{
			Ticker:     strings.ToUpper(strings.TrimSpace(ticker)),
			Percentage: weight,
		})
	}

	if err := out.Validate(); err != nil {
		return PortfolioDistribution{}, err
	}

	return out, nil
}
