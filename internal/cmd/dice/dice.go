// Package dice parses dice service flags and launches the service.
package dice

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/diceroll/internal/platform/cmd"
	server "github.com/louisbranch/diceroll/internal/services/dice/app"
)

// Config holds dice command configuration.
type Config struct {
	Port     int `env:"PORT" envDefault:"8095"`
	MaxSteps int `env:"MAX_STEPS" envDefault:"10000"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The dice gRPC server port")
	fs.IntVar(&cfg.MaxSteps, "max-steps", cfg.MaxSteps, "Evaluation steps allowed per roll (0 for unbounded)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.MaxSteps < 0 {
		return Config{}, fmt.Errorf("max steps must not be negative: %d", cfg.MaxSteps)
	}
	return cfg, nil
}

// Run starts the dice gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDice, func(ctx context.Context) error {
		return server.Run(ctx, cfg.Port, server.Options{MaxSteps: cfg.MaxSteps})
	})
}
