// Package luadice parses luadice flags and runs a Lua script with the dice
// host loaded.
package luadice

import (
	"context"
	"errors"
	"flag"

	"github.com/louisbranch/diceroll/internal/luahost"
	entrypoint "github.com/louisbranch/diceroll/internal/platform/cmd"
)

// ErrNoScript indicates neither a script path nor an inline chunk was given.
var ErrNoScript = errors.New("a script path or -e chunk is required")

// Config holds luadice command configuration.
type Config struct {
	MaxSteps int `env:"LUA_MAX_STEPS" envDefault:"10000"`
	Chunk    string
	Script   string
}

// ParseConfig parses environment and flags into Config. The first
// positional argument is the script path.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.MaxSteps, "max-steps", cfg.MaxSteps, "Evaluation steps allowed per roll (0 for unbounded)")
	fs.StringVar(&cfg.Chunk, "e", "", "Lua chunk to run instead of a script file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Script = fs.Arg(0)
	if cfg.Chunk == "" && cfg.Script == "" {
		return Config{}, ErrNoScript
	}
	return cfg, nil
}

// Run executes the configured script and waits for its async rolls.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceLua, func(ctx context.Context) error {
		host := luahost.New(ctx, luahost.Options{MaxSteps: cfg.MaxSteps})
		defer host.Close()

		if cfg.Chunk != "" {
			return host.DoString(cfg.Chunk)
		}
		return host.DoFile(cfg.Script)
	})
}
