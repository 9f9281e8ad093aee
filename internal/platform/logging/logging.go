// Package logging configures the process-wide logrus logger for service
// commands: level, console formatting, a service field on every entry, and an
// optional rotating file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/louisbranch/autofix/internal/platform/config"
)

const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 30
)

// Config holds logging settings read from the environment.
type Config struct {
	Level      string `env:"AUTOFIX_LOG_LEVEL" envDefault:"info"`
	File       string `env:"AUTOFIX_LOG_FILE"`
	MaxAgeDays int    `env:"AUTOFIX_LOG_MAX_AGE_DAYS" envDefault:"30"`
}

// LoadConfig reads logging settings from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Configure applies cfg to the standard logrus logger and tags every entry
// with the service name.
func Configure(service string, cfg Config) error {
	return configureLogger(log.StandardLogger(), os.Stdout, service, cfg)
}

func configureLogger(logger *log.Logger, console io.Writer, service string, cfg Config) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger.SetOutput(console)

	if service = strings.TrimSpace(service); service != "" {
		logger.AddHook(serviceHook{service: service})
	}

	path := strings.TrimSpace(cfg.File)
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	maxAge := cfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 30
	}
	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAge:     maxAge,
		Compress:   true,
	}
	logger.AddHook(lfshook.NewHook(lfshook.WriterMap{
		log.PanicLevel: rotating,
		log.FatalLevel: rotating,
		log.ErrorLevel: rotating,
		log.WarnLevel:  rotating,
		log.InfoLevel:  rotating,
		log.DebugLevel: rotating,
		log.TraceLevel: rotating,
	}, &log.TextFormatter{DisableColors: true, FullTimestamp: true}))
	return nil
}

func parseLevel(raw string) (log.Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(raw)
	if err != nil {
		return 0, fmt.Errorf("parse log level %q: %w", raw, err)
	}
	return level, nil
}

// serviceHook stamps the service name on each entry.
type serviceHook struct {
	service string
}

func (h serviceHook) Levels() []log.Level {
	return log.AllLevels
}

func (h serviceHook) Fire(entry *log.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = h.service
	}
	return nil
}
