package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"investmentproportions/internal/domain"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string                  `json:"env"`
	LogLevel     string                  `json:"logLevel"`
	Provider     string                  `json:"provider"`
	PricesFile   string                  `json:"pricesFile"`
	ReportFormat string                  `json:"reportFormat"`
	Distribution []domain.StockProportion `json:"distribution"`
	Alpaca       AlpacaSecrets           `json:"alpaca"`
	Finnhub      FinnhubSecrets          `json:"finnhub"`
	Api          ApiConfig               `json:"api"`
}

type AlpacaSecrets struct {
	ApiKey    string `json:"apiKey"`
	ApiSecret string `json:"apiSecret"`
	DataUrl   string `json:"dataUrl"`
}

type FinnhubSecrets struct {
	ApiKey  string `json:"apiKey"`
	BaseUrl string `json:"baseUrl"`
}

type ApiConfig struct {
	Port int `json:"port"`
}

func (c Config) PortfolioDistribution() domain.PortfolioDistribution {
	return domain.PortfolioDistribution{
		Stocks: c.Distribution,
	}
}

func NewDefaultConfig() *Config {
	return &Config{
		Env:          "prod",
		LogLevel:     "warn",
		Provider:     "yahoo",
		ReportFormat: "text",
		Distribution: domain.DefaultDistribution().Stocks,
		Alpaca: AlpacaSecrets{
			DataUrl: "https://data.alpaca.markets",
		},
		Finnhub: FinnhubSecrets{
			BaseUrl: "https://finnhub.io/api/v1",
		},
		Api: ApiConfig{
			Port: 3009,
		},
	}
}

func defaultConfigFile() string {
	switch os.Getenv("INVEST_ENV") {
	case "dev":
		return "config-dev.json"
	case "test":
		return "config-test.json"
	}
	return "config.json"
}

// LoadConfig layers defaults, the json config file and env vars,
// in that order. An explicit path must exist; the default one may
// be missing
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := NewDefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile()
	}

	f, err := os.ReadFile(path)
	if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("could not open config file %s: %w", path, err)
	}
	if err == nil {
		if err := json.Unmarshal(f, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := config.PortfolioDistribution().Validate(); err != nil {
		return nil, fmt.Errorf("invalid distribution in config: %w", err)
	}

	return config, nil
}

func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("INVEST_ENV"); v != "" {
		config.Env = v
	}
	if v := os.Getenv("INVEST_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("INVEST_QUOTE_PROVIDER"); v != "" {
		config.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("INVEST_PRICES_FILE"); v != "" {
		config.PricesFile = v
	}
	if v := os.Getenv("INVEST_WEIGHTS"); v != "" {
		d, err := domain.ParseDistribution(v)
		if err != nil {
			return fmt.Errorf("invalid INVEST_WEIGHTS: %w", err)
		}
		config.Distribution = d.Stocks
	}
	if v := os.Getenv("INVEST_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid INVEST_API_PORT %q: %w", v, err)
		}
		config.Api.Port = port
	}

	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		config.Alpaca.ApiKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		config.Alpaca.ApiSecret = v
	}
	if v := os.Getenv("APCA_API_DATA_URL"); v != "" {
		config.Alpaca.DataUrl = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		config.Finnhub.ApiKey = v
	}

	return nil
}
