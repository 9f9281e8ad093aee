// Package main starts the vehicles REST API process lifecycle.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	vehiclescmd "github.com/louisbranch/autofix/internal/cmd/vehicles"
	"github.com/louisbranch/autofix/internal/platform/config"
)

func main() {
	cfg, err := vehiclescmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := vehiclescmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
