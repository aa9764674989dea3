package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Output always goes to stderr so
// stdout stays reserved for the allocation report
func New(env string, level string) *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zapcore.WarnLevel
	}

	if strings.ToLower(env) == "dev" {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		logger, err = cfg.Build(opts...)
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		opts = append(opts, zap.Fields(zap.String("INVEST_ENV", env)))
		logger, err = cfg.Build(opts...)
	}

	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return logger.Sugar()
}

type contextKey string

const ContextKey contextKey = "LOGGER"

func NewContext(ctx context.Context, lg *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ContextKey, lg)
}

func FromContext(ctx context.Context) *zap.SugaredLogger {
	lg, ok := ctx.Value(ContextKey).(*zap.SugaredLogger)
	if !ok {
		lg = zap.S()
	}
	return lg
}

func init() {
	lg := New(os.Getenv("INVEST_ENV"), os.Getenv("INVEST_LOG_LEVEL"))
	zap.ReplaceGlobals(lg.Desugar())
}
