// Package main runs Lua dice scripts.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	luadicecmd "github.com/louisbranch/diceroll/internal/cmd/luadice"
	"github.com/louisbranch/diceroll/internal/platform/config"
)

func main() {
	cfg, err := luadicecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if errors.Is(err, luadicecmd.ErrNoScript) {
		config.ExitUsagef(flag.CommandLine, "luadice: %v", err)
	}
	if err != nil {
		config.Exitf("luadice: parse flags: %v", err)
	}
	log.SetPrefix("[LUADICE] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := luadicecmd.Run(ctx, cfg); err != nil {
		config.Exitf("luadice: %v", err)
	}
}
