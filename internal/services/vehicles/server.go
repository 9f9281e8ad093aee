// Package vehicles hosts the vehicles REST API process.
package vehicles

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/autofix/internal/platform/servicetoken"
	"github.com/louisbranch/autofix/internal/platform/timeouts"
	"github.com/louisbranch/autofix/internal/services/vehicles/api"
	"github.com/louisbranch/autofix/internal/services/vehicles/app"
	"github.com/louisbranch/autofix/internal/services/vehicles/events"
	"github.com/louisbranch/autofix/internal/services/vehicles/storage/sqlite"
)

// TokenIssuer is the issuer the vehicles API accepts service tokens from.
const TokenIssuer = "autofix-admin"

// Config defines the inputs for the vehicles API process.
type Config struct {
	Addr        string
	DBPath      string
	NATSURL     string
	TokenSecret string
	// Timezone is the shop's IANA zone for the weekday discount. Empty
	// means the process local zone.
	Timezone string
}

// Server owns the HTTP listener, the store and the event publisher.
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	store      *sqlite.Store
	publisher  events.Publisher
}

// NewServer opens storage, connects the publisher and binds the listener.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	addr := strings.TrimSpace(config.Addr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}

	var opts api.Options
	if strings.TrimSpace(config.TokenSecret) != "" {
		tokenCfg, err := servicetoken.NewConfig(config.TokenSecret, TokenIssuer)
		if err != nil {
			return nil, fmt.Errorf("service token: %w", err)
		}
		opts.Token = tokenCfg
	}

	loc := time.Local
	if tz := strings.TrimSpace(config.Timezone); tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("shop timezone: %w", err)
		}
	}

	store, err := sqlite.Open(ctx, config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open vehicles store: %w", err)
	}

	publisher, err := events.Connect(config.NATSURL)
	if err != nil {
		log.Warnf("vehicles events disabled: %v", err)
		publisher = events.Noop{}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		_ = publisher.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	repairs := app.NewRepairService(store, loc)
	opts.Repairs = repairs
	opts.Catalog = app.NewCatalogService(store)
	opts.Reports = app.NewReportService(store, repairs)

	return &Server{
		addr:     listener.Addr().String(),
		listener: listener,
		httpServer: &http.Server{
			Handler:           api.NewRouter(app.NewService(store, publisher), opts),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:     store,
		publisher: publisher,
	}, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// ListenAndServe serves until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("vehicles server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	log.Printf("vehicles listening on %s", s.addr)
	group.Go(func() error {
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// Close releases the publisher and the store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			log.Printf("close vehicles publisher: %v", err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close vehicles store: %v", err)
		}
	}
}
