package repository

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// PriceRow is one line of a saved price table
type PriceRow struct {
	Symbol string  `csv:"symbol"`
	Price  float64 `csv:"price"`
}

// FileQuoteRepository serves prices from a local csv file with a
// symbol,price header. Useful offline and for replaying a run
type FileQuoteRepository interface {
	QuoteRepository
	Save(prices map[string]decimal.Decimal) error
}

type fileQuoteRepositoryHandler struct {
	Path string
}

func NewFileQuoteRepository(path string) FileQuoteRepository {
	return fileQuoteRepositoryHandler{
		Path: path,
	}
}

func (h fileQuoteRepositoryHandler) GetLatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open prices file: %w", err)
	}
	defer f.Close()

	rows := []PriceRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse prices file %s: %w", h.Path, err)
	}

	all := map[string]decimal.Decimal{}
	for _, row := range rows {
		all[row.Symbol] = decimal.NewFromFloat(row.Price)
	}

	out := map[string]decimal.Decimal{}
	for _, symbol := range symbols {
		if price, ok := all[symbol]; ok {
			out[symbol] = price
		}
	}

	if err := checkAllPriced(h.Path, symbols, out); err != nil {
		return nil, err
	}

	return out, nil
}

// Save overwrites the file with the given prices, sorted by symbol
func (h fileQuoteRepositoryHandler) Save(prices map[string]decimal.Decimal) error {
	rows := []PriceRow{}
	for symbol, price := range prices {
		rows = append(rows, PriceRow{
			Symbol: symbol,
			Price:  price.InexactFloat64(),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Symbol < rows[j].Symbol
	})

	f, err := os.Create(h.Path)
	if err != nil {
		return fmt.Errorf("failed to create prices file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write prices file %s: %w", h.Path, err)
	}

	return nil
}
