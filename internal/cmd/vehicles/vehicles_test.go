package vehicles

import (
	"flag"
	"path/filepath"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("AUTOFIX_VEHICLES_PORT", "")
	t.Setenv("AUTOFIX_VEHICLES_DB_PATH", "")
	t.Setenv("AUTOFIX_NATS_URL", "")

	fs := flag.NewFlagSet("vehicles", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8090 {
		t.Fatalf("expected default port 8090, got %d", cfg.Port)
	}
	if cfg.DBPath != filepath.Join("data", "vehicles.db") {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.NATSURL != "" {
		t.Fatalf("expected empty nats url, got %q", cfg.NATSURL)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("AUTOFIX_VEHICLES_PORT", "9001")
	t.Setenv("AUTOFIX_VEHICLES_DB_PATH", "env.db")
	t.Setenv("AUTOFIX_NATS_URL", "nats://env:4222")
	t.Setenv("AUTOFIX_SERVICE_TOKEN_SECRET", "env-secret-value-long")
	t.Setenv("AUTOFIX_SHOP_TIMEZONE", "UTC")

	fs := flag.NewFlagSet("vehicles", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9002", "-db", "flag.db", "-timezone", "America/Santiago"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9002 {
		t.Fatalf("expected flag port, got %d", cfg.Port)
	}
	if cfg.DBPath != "flag.db" {
		t.Fatalf("expected flag db path, got %q", cfg.DBPath)
	}
	if cfg.NATSURL != "nats://env:4222" {
		t.Fatalf("expected env nats url, got %q", cfg.NATSURL)
	}
	if cfg.TokenSecret != "env-secret-value-long" {
		t.Fatalf("expected env token secret, got %q", cfg.TokenSecret)
	}
	if cfg.Timezone != "America/Santiago" {
		t.Fatalf("expected flag timezone, got %q", cfg.Timezone)
	}
}

func TestParseConfigRejectsInvalidPort(t *testing.T) {
	t.Setenv("AUTOFIX_VEHICLES_PORT", "")

	fs := flag.NewFlagSet("vehicles", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-port", "0"}); err == nil {
		t.Fatal("expected error for port 0")
	}
}
