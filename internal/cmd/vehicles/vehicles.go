// Package vehicles parses vehicles API flags and launches the service.
package vehicles

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"

	entrypoint "github.com/louisbranch/autofix/internal/platform/cmd"
	"github.com/louisbranch/autofix/internal/platform/discovery"
	server "github.com/louisbranch/autofix/internal/services/vehicles"
)

// Config holds vehicles command configuration.
type Config struct {
	Port        int    `env:"AUTOFIX_VEHICLES_PORT"`
	DBPath      string `env:"AUTOFIX_VEHICLES_DB_PATH"`
	NATSURL     string `env:"AUTOFIX_NATS_URL"`
	TokenSecret string `env:"AUTOFIX_SERVICE_TOKEN_SECRET"`
	Timezone    string `env:"AUTOFIX_SHOP_TIMEZONE"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Port == 0 {
		cfg.Port = discovery.HTTPPort(discovery.ServiceVehicles)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "vehicles.db")
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The vehicles HTTP API port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the vehicles SQLite database")
	fs.StringVar(&cfg.NATSURL, "nats-url", cfg.NATSURL, "NATS server URL for change events (empty disables)")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "Shop IANA time zone for weekday discounts (empty uses the local zone)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

// Run starts the vehicles API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceVehicles, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	srv, err := server.NewServer(ctx, server.Config{
		Addr:        ":" + strconv.Itoa(cfg.Port),
		DBPath:      cfg.DBPath,
		NATSURL:     cfg.NATSURL,
		TokenSecret: cfg.TokenSecret,
		Timezone:    cfg.Timezone,
	})
	if err != nil {
		return fmt.Errorf("init vehicles server: %w", err)
	}
	defer srv.Close()

	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve vehicles: %w", err)
	}
	return nil
}
