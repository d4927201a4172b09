package dice

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("dice", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8095 {
		t.Fatalf("port = %d, want 8095", cfg.Port)
	}
	if cfg.MaxSteps != 10000 {
		t.Fatalf("max steps = %d, want 10000", cfg.MaxSteps)
	}
}

func TestParseConfigEnvThenFlags(t *testing.T) {
	t.Setenv("DICEROLL_PORT", "9001")
	t.Setenv("DICEROLL_MAX_STEPS", "50")

	fs := flag.NewFlagSet("dice", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-max-steps", "75"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("port = %d, want 9001", cfg.Port)
	}
	if cfg.MaxSteps != 75 {
		t.Fatalf("max steps = %d, want 75", cfg.MaxSteps)
	}
}

func TestParseConfigRejectsNegativeBudget(t *testing.T) {
	fs := flag.NewFlagSet("dice", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-max-steps", "-1"}); err == nil {
		t.Fatal("expected error for negative max steps")
	}
}
