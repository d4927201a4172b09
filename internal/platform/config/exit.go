package config

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Exit status codes used by command entry points.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Exitf writes a formatted error message to stderr and exits with
// ExitFailure.
func Exitf(format string, args ...any) {
	writeLine(os.Stderr, format, args...)
	os.Exit(ExitFailure)
}

// ExitUsagef writes a formatted message and the flag set's usage to stderr,
// then exits with ExitUsage.
func ExitUsagef(fs *flag.FlagSet, format string, args ...any) {
	writeLine(os.Stderr, format, args...)
	if fs != nil {
		fs.SetOutput(os.Stderr)
		fs.Usage()
	}
	os.Exit(ExitUsage)
}

func writeLine(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
