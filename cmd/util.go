package cmd

import (
	"fmt"
	"investmentproportions/api"
	integration_tests "investmentproportions/integration-tests"
	"investmentproportions/internal/app"
	"investmentproportions/internal/repository"
	l1_service "investmentproportions/internal/service/l1"
	l2_service "investmentproportions/internal/service/l2"
	"investmentproportions/internal/util"
	"strings"

	"go.uber.org/zap"
)

// InitializeDependencies wires the quote provider named in config
// through to the api handler. The cli uses the same handler's
// AllocationHandler
func InitializeDependencies(config util.Config) (*api.ApiHandler, error) {
	quoteRepository, err := repository.NewQuoteRepository(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote repository: %w", err)
	}

	if strings.EqualFold(config.Env, "test") && !strings.EqualFold(config.Provider, repository.ProviderFile) {
		zap.S().Warn("INVEST_ENV=test, using static quotes")
		quoteRepository = integration_tests.NewMockQuoteRepositoryForTests()
	}

	apiHandler := &api.ApiHandler{
		AllocationHandler: app.AllocationHandler{
			PriceService:      l1_service.NewPriceService(quoteRepository),
			AllocationService: l2_service.NewAllocationService(),
			ReportService:     l1_service.NewReportService(),
		},
		Distribution: config.PortfolioDistribution(),
	}

	return apiHandler, nil
}
