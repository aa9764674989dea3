package finnhub

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	HttpClient *resty.Client
	ApiKey     string
}

func NewClient(baseUrl, apiKey string) Client {
	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetTimeout(30 * time.Second)

	return Client{
		HttpClient: client,
		ApiKey:     apiKey,
	}
}

// Quote mirrors the /quote response. Prices are in the
// listing currency
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetQuote fetches the real-time quote for one symbol. Finnhub
// answers unknown symbols with 200 and an all-zero body, so that
// case is turned into an error here
func (c Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	result := Quote{}
	errResult := errorResponse{}

	resp, err := c.HttpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"token":  c.ApiKey,
		}).
		SetResult(&result).
		SetError(&errResult).
		Get("/quote")
	if err != nil {
		return nil, fmt.Errorf("failed to get finnhub quote for %s: %w", symbol, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finnhub quote for %s failed with status code %d: %s", symbol, resp.StatusCode(), errResult.Error)
	}
	if result.Current == 0 && result.Timestamp == 0 {
		return nil, fmt.Errorf("finnhub has no quote for %s", symbol)
	}

	return &result, nil
}
