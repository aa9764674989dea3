package l1_service

import (
	"encoding/json"
	"fmt"
	"investmentproportions/internal/domain"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

const (
	ReportFormatText  = "text"
	ReportFormatTable = "table"
	ReportFormatJson  = "json"
)

type ReportService interface {
	Print(w io.Writer, portfolio domain.Portfolio, format string) error
}

type reportServiceHandler struct{}

func NewReportService() ReportService {
	return reportServiceHandler{}
}

type ReportRow struct {
	Ticker     string          `json:"ticker"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

type Report struct {
	TotalInvestment decimal.Decimal `json:"totalInvestment"`
	Stocks          []ReportRow     `json:"stocks"`
}

// NewReport recomputes the total from the portfolio itself. With a
// zero total every percentage is reported as 0
func NewReport(portfolio domain.Portfolio) Report {
	out := Report{
		TotalInvestment: portfolio.TotalValue().Round(2),
		Stocks:          []ReportRow{},
	}
	for i, s := range portfolio.Stocks {
		out.Stocks = append(out.Stocks, ReportRow{
			Ticker:     s.Ticker,
			Price:      s.Price,
			Quantity:   s.Quantity,
			Value:      s.Value().Round(2),
			Percentage: portfolio.Percentage(i).Mul(decimal.NewFromInt(100)).Round(2),
		})
	}
	return out
}

func (h reportServiceHandler) Print(w io.Writer, portfolio domain.Portfolio, format string) error {
	report := NewReport(portfolio)

	switch format {
	case "", ReportFormatText:
		return printText(w, report)
	case ReportFormatTable:
		return printTable(w, report)
	case ReportFormatJson:
		bytes, err := json.MarshalIndent(report, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(bytes))
		return err
	}

	return fmt.Errorf("unknown report format %q", format)
}

func printText(w io.Writer, report Report) error {
	if _, err := fmt.Fprintf(w, "Total investment: %s\n", report.TotalInvestment.StringFixed(2)); err != nil {
		return err
	}
	for _, s := range report.Stocks {
		_, err := fmt.Fprintf(
			w,
			"%-6s %-6s x %d (%s%%)\n",
			s.Ticker,
			s.Price.StringFixed(2),
			s.Quantity,
			s.Percentage.StringFixed(2),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	totalStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

func printTable(w io.Writer, report Report) error {
	rows := [][]string{}
	for _, s := range report.Stocks {
		rows = append(rows, []string{
			s.Ticker,
			s.Price.StringFixed(2),
			strconv.FormatInt(s.Quantity, 10),
			s.Value.StringFixed(2),
			s.Percentage.StringFixed(2) + "%",
		})
	}
	rows = append(rows, []string{"Total", "", "", report.TotalInvestment.StringFixed(2), ""})
	lastRow := len(rows) - 1

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Ticker", "Price", "Quantity", "Value", "Percent").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == lastRow:
				return totalStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
