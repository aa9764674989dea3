package cmd

import (
	"fmt"
	"investmentproportions/internal/app"
	"investmentproportions/internal/domain"
	"investmentproportions/internal/logger"
	"investmentproportions/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootFlags struct {
	configPath string
	provider   string
	pricesFile string
	weights    string
	amount     string
	format     string
	savePrices string
	verbose    bool
}

// NewRootCmd builds the allocate command. With no flags it behaves
// like the plain prompt-and-print tool
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "allocate",
		Short: "Split an investment into whole shares that track a target allocation",
		Long: `allocate fetches current prices for a set of tickers, asks how much you
are investing, and prints the share counts whose value is closest to the
target weights.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(flags)
			if err != nil {
				return err
			}

			lg := newLogger(config, flags.verbose)
			defer lg.Sync()
			ctx := logger.NewContext(cmd.Context(), lg)

			apiHandler, err := InitializeDependencies(*config)
			if err != nil {
				return err
			}

			var amountReader app.AmountReader = newAmountPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
			if flags.amount != "" {
				amountReader = fixedAmount(flags.amount)
			}

			return apiHandler.AllocationHandler.Run(ctx, app.RunInput{
				Distribution:   config.PortfolioDistribution(),
				AmountReader:   amountReader,
				Format:         config.ReportFormat,
				Out:            cmd.OutOrStdout(),
				SavePricesPath: flags.savePrices,
			})
		},
	}

	rootCmd.AddCommand(newServeCmd(flags))

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.provider, "provider", "", "Quote provider: yahoo, alpaca, finnhub or file")
	rootCmd.PersistentFlags().StringVar(&flags.pricesFile, "prices-file", "", "CSV of symbol,price used by the file provider")
	rootCmd.PersistentFlags().StringVar(&flags.weights, "weights", "", "Target distribution, e.g. VTI=0.36,VEA=0.25,VWO=0.19,VIG=0.10,BND=0.10")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.Flags().StringVar(&flags.amount, "amount", "", "Max investment; skips the prompt")
	rootCmd.Flags().StringVar(&flags.format, "format", "", "Report format: text, table or json")
	rootCmd.Flags().StringVar(&flags.savePrices, "save-prices", "", "Write the fetched prices to this CSV file")

	return rootCmd
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve allocations over http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(flags)
			if err != nil {
				return err
			}
			lg := newLogger(config, flags.verbose)
			defer lg.Sync()

			if port != 0 {
				config.Api.Port = port
			}

			apiHandler, err := InitializeDependencies(*config)
			if err != nil {
				return err
			}
			lg.Infow("starting api", "port", config.Api.Port)
			return apiHandler.StartApi(config.Api.Port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on")
	return cmd
}

// loadConfig layers flags on top of util.LoadConfig
func loadConfig(flags *rootFlags) (*util.Config, error) {
	config, err := util.LoadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.provider != "" {
		config.Provider = flags.provider
	}
	if flags.pricesFile != "" {
		config.PricesFile = flags.pricesFile
	}
	if flags.format != "" {
		config.ReportFormat = flags.format
	}
	if flags.weights != "" {
		distribution, err := domain.ParseDistribution(flags.weights)
		if err != nil {
			return nil, fmt.Errorf("invalid --weights: %w", err)
		}
		config.Distribution = distribution.Stocks
	}

	return config, nil
}

func newLogger(config *util.Config, verbose bool) *zap.SugaredLogger {
	level := config.LogLevel
	if verbose {
		level = "debug"
	}
	lg := logger.New(config.Env, level)
	zap.ReplaceGlobals(lg.Desugar())
	return lg
}
