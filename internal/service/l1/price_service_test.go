package l1_service

import (
	"context"
	"errors"
	"investmentproportions/internal/domain"
	mock_repository "investmentproportions/internal/repository/mocks"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func decimalComparer() cmp.Option {
	return cmp.Comparer(func(d1, d2 decimal.Decimal) bool {
		return d1.Equal(d2)
	})
}

func Test_priceServiceHandler_FetchAsync(t *testing.T) {
	t.Run("fetches once and caches the result", func(t *testing.T) {
		ctx := context.Background()
		ctrl := gomock.NewController(t)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)

		handler := priceServiceHandler{
			QuoteRepository: quoteRepository,
		}

		quoteRepository.EXPECT().
			GetLatestPrices(gomock.Any(), []string{"A", "B"}).
			Return(map[string]decimal.Decimal{
				"A": decimal.NewFromInt(10),
				"B": decimal.NewFromInt(20),
				// extra symbols are dropped
				"C": decimal.NewFromInt(30),
			}, nil).
			Times(1)

		future := handler.FetchAsync(ctx, []string{"A", "B"})

		first, err := future.Get(ctx)
		require.NoError(t, err)
		require.True(t, future.Done())

		second, err := future.Get(ctx)
		require.NoError(t, err)

		require.Equal(
			t,
			"",
			cmp.Diff(
				map[string]decimal.Decimal{
					"A": decimal.NewFromInt(10),
					"B": decimal.NewFromInt(20),
				},
				first.ToMap(),
				decimalComparer(),
			),
		)
		require.Equal(t, "", cmp.Diff(first.ToMap(), second.ToMap(), decimalComparer()))
	})

	t.Run("provider error is returned to every waiter", func(t *testing.T) {
		ctx := context.Background()
		ctrl := gomock.NewController(t)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)

		quoteRepository.EXPECT().
			GetLatestPrices(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		future := NewPriceService(quoteRepository).FetchAsync(ctx, []string{"A"})

		_, err := future.Get(ctx)
		require.ErrorContains(t, err, "connection refused")
		_, err = future.Get(ctx)
		require.ErrorContains(t, err, "connection refused")
	})

	t.Run("stops waiting when the context is cancelled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)

		release := make(chan struct{})
		defer close(release)

		quoteRepository.EXPECT().
			GetLatestPrices(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
				<-release
				return map[string]decimal.Decimal{"A": decimal.NewFromInt(1)}, nil
			}).
			AnyTimes()

		future := NewPriceService(quoteRepository).FetchAsync(context.Background(), []string{"A"})
		require.False(t, future.Done())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := future.Get(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func Test_priceServiceHandler_Fetch(t *testing.T) {
	t.Run("missing ticker is fatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)

		quoteRepository.EXPECT().
			GetLatestPrices(gomock.Any(), gomock.Any()).
			Return(map[string]decimal.Decimal{
				"A": decimal.NewFromInt(10),
			}, nil)

		_, err := NewPriceService(quoteRepository).Fetch(context.Background(), []string{"A", "B"})
		require.ErrorIs(t, err, domain.ErrMissingPrice)
		require.ErrorContains(t, err, "B")
	})

	t.Run("zero price is fatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)

		quoteRepository.EXPECT().
			GetLatestPrices(gomock.Any(), gomock.Any()).
			Return(map[string]decimal.Decimal{
				"A": decimal.Zero,
			}, nil)

		_, err := NewPriceService(quoteRepository).Fetch(context.Background(), []string{"A"})
		require.ErrorContains(t, err, "non-positive price 0 for A")
	})
}
