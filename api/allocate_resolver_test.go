package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"investmentproportions/internal/app"
	"investmentproportions/internal/domain"
	mock_repository "investmentproportions/internal/repository/mocks"
	l1_service "investmentproportions/internal/service/l1"
	l2_service "investmentproportions/internal/service/l2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestApiHandler(t *testing.T, prices map[string]decimal.Decimal, err error) ApiHandler {
	ctrl := gomock.NewController(t)
	quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)
	quoteRepository.EXPECT().
		GetLatestPrices(gomock.Any(), gomock.Any()).
		Return(prices, err).
		AnyTimes()

	return ApiHandler{
		AllocationHandler: app.AllocationHandler{
			PriceService:      l1_service.NewPriceService(quoteRepository),
			AllocationService: l2_service.NewAllocationService(),
			ReportService:     l1_service.NewReportService(),
		},
		Distribution: domain.PortfolioDistribution{
			Stocks: []domain.StockProportion{
				{Ticker: "A", Percentage: 0.5},
				{Ticker: "B", Percentage: 0.5},
			},
		},
	}
}

func doRequest(h ApiHandler, method, path, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.InitializeRouterEngine().ServeHTTP(w, req)
	return w
}

func Test_allocate(t *testing.T) {
	abPrices := map[string]decimal.Decimal{
		"A": decimal.NewFromInt(10),
		"B": decimal.NewFromInt(20),
	}

	t.Run("happy path", func(t *testing.T) {
		w := doRequest(newTestApiHandler(t, abPrices, nil), http.MethodPost, "/allocate", `{"maxInvestment": 100}`)
		require.Equal(t, 200, w.Code, w.Body.String())
		require.NotEmpty(t, w.Header().Get("X-Request-ID"))

		response := allocateResponse{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.True(t, response.TotalInvestment.Equal(decimal.NewFromInt(110)))
		require.True(t, response.Investment.Equal(decimal.NewFromInt(100)))
		require.Equal(t, 11, response.CandidatesEvaluated)
		require.Len(t, response.Stocks, 2)
		require.Equal(t, int64(5), response.Stocks[0].Quantity)
		require.Equal(t, int64(3), response.Stocks[1].Quantity)
	})

	t.Run("request distribution overrides the default", func(t *testing.T) {
		w := doRequest(
			newTestApiHandler(t, abPrices, nil),
			http.MethodPost,
			"/allocate",
			`{"maxInvestment": "50", "distribution": [{"ticker": "b", "percentage": 1}]}`,
		)
		require.Equal(t, 200, w.Code, w.Body.String())

		response := allocateResponse{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Stocks, 1)
		require.Equal(t, "B", response.Stocks[0].Ticker)
	})

	t.Run("bad input is a 400", func(t *testing.T) {
		for _, body := range []string{
			`{"maxInvestment": 0}`,
			`{"maxInvestment": -10}`,
			`{}`,
			`not json`,
			`{"maxInvestment": 100, "distribution": [{"ticker": "A", "percentage": -1}]}`,
			`{"maxInvestment": 1000001}`,
		} {
			w := doRequest(newTestApiHandler(t, abPrices, nil), http.MethodPost, "/allocate", body)
			require.Equal(t, 400, w.Code, body)
			require.Contains(t, w.Body.String(), `"error"`)
		}
	})

	t.Run("too small to buy anything is a 400", func(t *testing.T) {
		w := doRequest(newTestApiHandler(t, abPrices, nil), http.MethodPost, "/allocate", `{"maxInvestment": 1}`)
		require.Equal(t, 400, w.Code, w.Body.String())
	})

	t.Run("max investment above the cap is a 400", func(t *testing.T) {
		w := doRequest(newTestApiHandler(t, abPrices, nil), http.MethodPost, "/allocate", `{"maxInvestment": 1e12}`)
		require.Equal(t, 400, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), "maxInvestment must be at most 1000000")
	})

	t.Run("unknown ticker in the request is a 400", func(t *testing.T) {
		w := doRequest(
			newTestApiHandler(t, abPrices, nil),
			http.MethodPost,
			"/allocate",
			`{"maxInvestment": 100, "distribution": [{"ticker": "ZZZZ", "percentage": 1}]}`,
		)
		require.Equal(t, 400, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), "ZZZZ")
	})

	t.Run("provider without a price for the ticker is a 400", func(t *testing.T) {
		w := doRequest(
			newTestApiHandler(t, nil, fmt.Errorf("%w: yahoo returned no price for ZZZZ", domain.ErrMissingPrice)),
			http.MethodPost,
			"/allocate",
			`{"maxInvestment": 100, "distribution": [{"ticker": "ZZZZ", "percentage": 1}]}`,
		)
		require.Equal(t, 400, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), "yahoo returned no price for ZZZZ")
	})

	t.Run("quote failure is a 500", func(t *testing.T) {
		w := doRequest(newTestApiHandler(t, nil, errors.New("provider down")), http.MethodPost, "/allocate", `{"maxInvestment": 100}`)
		require.Equal(t, 500, w.Code)
		require.Contains(t, w.Body.String(), "provider down")
	})
}

func Test_welcome(t *testing.T) {
	w := doRequest(newTestApiHandler(t, nil, nil), http.MethodGet, "/", "")
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "welcome")
}
