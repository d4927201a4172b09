// Package roll parses roll command flags and evaluates dice sources locally.
package roll

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/diceroll/internal/dice"
	"github.com/louisbranch/diceroll/internal/marshal"
	"github.com/louisbranch/diceroll/internal/notify"
	entrypoint "github.com/louisbranch/diceroll/internal/platform/cmd"
	"github.com/louisbranch/diceroll/internal/random"
	"github.com/louisbranch/diceroll/internal/roller"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrNoSources indicates the command was run without dice sources.
var ErrNoSources = errors.New("at least one dice source is required")

// Config holds roll command configuration.
type Config struct {
	MaxSteps int    `env:"ROLL_MAX_STEPS" envDefault:"10000"`
	Key      string `env:"ROLL_KEY"`
	Term     bool
	Async    bool
	Sources  []string
}

// ParseConfig parses environment and flags into Config. Positional
// arguments are dice sources.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.MaxSteps, "max-steps", cfg.MaxSteps, "Evaluation steps allowed per roll (0 for unbounded)")
	fs.StringVar(&cfg.Key, "key", cfg.Key, "Hex-encoded 32-byte session key for reproducible rolls")
	fs.BoolVar(&cfg.Term, "term", false, "Treat every source as a single term")
	fs.BoolVar(&cfg.Async, "async", false, "Roll every source concurrently through tickets")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Sources = fs.Args()
	if len(cfg.Sources) == 0 {
		return Config{}, ErrNoSources
	}
	if cfg.MaxSteps < 0 {
		return Config{}, fmt.Errorf("max steps must not be negative: %d", cfg.MaxSteps)
	}
	return cfg, nil
}

// Run rolls every source and writes one JSON document per line to out, in
// source order.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoll, func(ctx context.Context) error {
		session, err := newSession(cfg.Key)
		if err != nil {
			return err
		}
		defer session.Wait()

		var results []*structpb.ListValue
		if cfg.Async {
			results, err = rollAsync(ctx, session, cfg)
		} else {
			results, err = rollSync(ctx, session, cfg)
		}
		if err != nil {
			return err
		}
		for _, result := range results {
			data, err := marshal.ToJSON(result)
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			if _, err := fmt.Fprintln(out, string(data)); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
		}
		return nil
	})
}

func newSession(key string) (*roller.Session, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return roller.NewSession(), nil
	}
	raw, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("decode session key: %w", err)
	}
	if len(raw) != random.KeySize {
		return nil, fmt.Errorf("session key must be %d bytes, got %d", random.KeySize, len(raw))
	}
	var seed [random.KeySize]byte
	copy(seed[:], raw)
	return roller.NewSessionWithSource(random.NewSeedSourceFromKey(seed)), nil
}

// target is a parsed source ready to roll in either mode.
type target struct {
	expr *dice.Expression
	term *dice.Term
}

func parseSources(cfg Config) ([]target, error) {
	targets := make([]target, 0, len(cfg.Sources))
	for _, source := range cfg.Sources {
		if cfg.Term {
			term, err := dice.ParseTerm(source)
			if err != nil {
				return nil, err
			}
			targets = append(targets, target{term: term})
			continue
		}
		expr, err := dice.ParseExpression(source)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target{expr: expr})
	}
	return targets, nil
}

func keepGoing(ctx context.Context, maxSteps int) dice.KeepGoing {
	if maxSteps > 0 {
		return dice.All(dice.UntilDone(ctx), dice.MaxSteps(maxSteps))
	}
	return dice.UntilDone(ctx)
}

func rollSync(ctx context.Context, session *roller.Session, cfg Config) ([]*structpb.ListValue, error) {
	targets, err := parseSources(cfg)
	if err != nil {
		return nil, err
	}
	results := make([]*structpb.ListValue, 0, len(targets))
	for _, t := range targets {
		var value *structpb.ListValue
		if t.term != nil {
			value, err = session.RollTerm(ctx, t.term, keepGoing(ctx, cfg.MaxSteps))
		} else {
			value, err = session.RollExpression(ctx, t.expr, keepGoing(ctx, cfg.MaxSteps))
		}
		if err != nil {
			return nil, err
		}
		results = append(results, value)
	}
	return results, nil
}

// rollAsync dispatches every source before collecting any result; results
// are awaited concurrently and reported in source order.
func rollAsync(ctx context.Context, session *roller.Session, cfg Config) ([]*structpb.ListValue, error) {
	targets, err := parseSources(cfg)
	if err != nil {
		return nil, err
	}
	registry := notify.NewRegistry(0)
	tickets := make([]notify.Ticket, len(targets))
	for i, t := range targets {
		// Step counters are stateful, so every roll gets its own.
		budget := dice.Always()
		if cfg.MaxSteps > 0 {
			budget = dice.MaxSteps(cfg.MaxSteps)
		}
		if t.term != nil {
			tickets[i], err = session.RollTermAsync(ctx, t.term, budget, registry)
		} else {
			tickets[i], err = session.RollExpressionAsync(ctx, t.expr, budget, registry)
		}
		if err != nil {
			return nil, err
		}
	}

	results := make([]*structpb.ListValue, len(tickets))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, ticket := range tickets {
		group.Go(func() error {
			value, err := registry.Await(groupCtx, ticket)
			if err != nil {
				return fmt.Errorf("roll %q: %w", cfg.Sources[i], err)
			}
			results[i] = value
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
