package api

import (
	"errors"
	"fmt"
	"investmentproportions/internal/domain"
	l1_service "investmentproportions/internal/service/l1"
	l2_service "investmentproportions/internal/service/l2"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// maxAllowedInvestment bounds the search, which tries one candidate per
// dollar in the top 10% of the request
var maxAllowedInvestment = decimal.NewFromInt(1_000_000)

type allocateRequest struct {
	MaxInvestment decimal.Decimal          `json:"maxInvestment"`
	Distribution  []domain.StockProportion `json:"distribution"`
}

type allocateResponse struct {
	l1_service.Report
	Investment          decimal.Decimal           `json:"investment"`
	Deviation           float64                   `json:"deviation"`
	CandidatesEvaluated int                       `json:"candidatesEvaluated"`
	DeviationStats      l2_service.DeviationStats `json:"deviationStats"`
}

func (h ApiHandler) allocate(c *gin.Context) {
	var requestBody allocateRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid request body: %w", err), c, 400)
		return
	}

	if !requestBody.MaxInvestment.IsPositive() {
		returnErrorJsonCode(fmt.Errorf("maxInvestment must be positive, got %s", requestBody.MaxInvestment.String()), c, 400)
		return
	}
	if requestBody.MaxInvestment.GreaterThan(maxAllowedInvestment) {
		returnErrorJsonCode(fmt.Errorf("maxInvestment must be at most %s, got %s", maxAllowedInvestment.String(), requestBody.MaxInvestment.String()), c, 400)
		return
	}

	distribution := h.Distribution
	if len(requestBody.Distribution) > 0 {
		stocks := []domain.StockProportion{}
		for _, s := range requestBody.Distribution {
			stocks = append(stocks, domain.StockProportion{
				Ticker:     strings.ToUpper(strings.TrimSpace(s.Ticker)),
				Percentage: s.Percentage,
			})
		}
		distribution = domain.PortfolioDistribution{Stocks: stocks}
	}
	if err := distribution.Validate(); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	result, err := h.AllocationHandler.Allocate(c.Request.Context(), distribution, requestBody.MaxInvestment)
	if errors.Is(err, l2_service.ErrInvestmentTooSmall) || errors.Is(err, domain.ErrMissingPrice) {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, allocateResponse{
		Report:              l1_service.NewReport(*result.Portfolio),
		Investment:          result.Investment,
		Deviation:           result.Deviation,
		CandidatesEvaluated: result.CandidatesEvaluated,
		DeviationStats:      result.DeviationStats,
	})
}
