// Package admin parses admin UI flags and launches the service.
package admin

import (
	"context"
	"flag"
	"fmt"
	"strings"

	entrypoint "github.com/louisbranch/autofix/internal/platform/cmd"
	"github.com/louisbranch/autofix/internal/platform/discovery"
	"github.com/louisbranch/autofix/internal/services/admin"
)

var (
	defaultHTTPAddr    = discovery.ListenAddr(discovery.ServiceAdmin)
	defaultVehiclesURL = discovery.LocalBaseURL(discovery.ServiceVehicles)
)

// Config holds the admin command configuration.
type Config struct {
	HTTPAddr    string
	VehiclesURL string
	TokenSecret string
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		HTTPAddr:    envOrDefault(lookup, []string{"AUTOFIX_ADMIN_ADDR"}, defaultHTTPAddr),
		VehiclesURL: envOrDefault(lookup, []string{"AUTOFIX_VEHICLES_API_URL", "AUTOFIX_VEHICLES_URL"}, defaultVehiclesURL),
		TokenSecret: envOrDefault(lookup, []string{"AUTOFIX_SERVICE_TOKEN_SECRET"}, ""),
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.VehiclesURL, "vehicles-url", cfg.VehiclesURL, "vehicles API base URL")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Run starts the admin server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAdmin, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	server, err := admin.NewServer(ctx, admin.Config{
		HTTPAddr:    cfg.HTTPAddr,
		VehiclesURL: cfg.VehiclesURL,
		TokenSecret: cfg.TokenSecret,
	})
	if err != nil {
		return fmt.Errorf("init admin server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve admin: %w", err)
	}
	return nil
}

func envOrDefault(lookup EnvLookup, keys []string, fallback string) string {
	for _, key := range keys {
		if lookup == nil {
			break
		}
		value, ok := lookup(key)
		if ok {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}
