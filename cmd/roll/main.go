// Package main rolls dice sources from the command line and prints JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	rollcmd "github.com/louisbranch/diceroll/internal/cmd/roll"
	"github.com/louisbranch/diceroll/internal/platform/config"
)

func main() {
	cfg, err := rollcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if errors.Is(err, rollcmd.ErrNoSources) {
		config.ExitUsagef(flag.CommandLine, "roll: %v", err)
	}
	if err != nil {
		config.Exitf("roll: parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rollcmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("roll: %v", err)
	}
}
