// Package mcp parses MCP command flags and starts the stdio MCP bridge.
package mcp

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/diceroll/internal/platform/cmd"
	"github.com/louisbranch/diceroll/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	Addr      string `env:"MCP_GRPC_ADDR"  envDefault:"localhost:8095"`
	Transport string `env:"MCP_TRANSPORT"  envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "dice gRPC server address")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return service.Run(ctx, service.Config{
			GRPCAddr:  cfg.Addr,
			Transport: service.TransportKind(cfg.Transport),
		})
	})
}
