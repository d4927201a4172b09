package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port     int    `env:"TEST_PORT" envDefault:"123"`
	Endpoint string `env:"TEST_ENDPOINT"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvUsesPrefix(t *testing.T) {
	t.Setenv("TEST_ENDPOINT", "unprefixed")
	t.Setenv("DICEROLL_TEST_ENDPOINT", "prefixed")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Endpoint != "prefixed" {
		t.Fatalf("expected prefixed value, got %q", cfg.Endpoint)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DICEROLL_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
