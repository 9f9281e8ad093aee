package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	platformotel "github.com/louisbranch/autofix/internal/platform/otel"
	"github.com/louisbranch/autofix/internal/platform/servicetoken"
	"github.com/louisbranch/autofix/internal/platform/timeouts"
	"github.com/louisbranch/autofix/internal/services/admin/integration/vehiclesapi"
)

// TokenIssuer names the admin process in the service tokens it mints.
const TokenIssuer = "autofix-admin"

// defaultPingRetryDelay sets the initial wait time between readiness checks.
const defaultPingRetryDelay = 500 * time.Millisecond

// maxPingRetryDelay caps the backoff between readiness checks.
const maxPingRetryDelay = 10 * time.Second

// Config defines the inputs for the admin process.
type Config struct {
	HTTPAddr    string
	VehiclesURL string
	// TokenSecret signs calls to the vehicles API when set.
	TokenSecret string
}

// Server hosts the admin UI.
type Server struct {
	httpAddr   string
	vehicles   *vehiclesapi.Client
	httpServer *http.Server
}

// pinger is the readiness check used while waiting for the vehicles API.
type pinger interface {
	Ping(ctx context.Context) error
	BaseURL() string
}

// NewServer builds a configured admin server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts vehiclesapi.Options
	if strings.TrimSpace(config.TokenSecret) != "" {
		tokenCfg, err := servicetoken.NewConfig(config.TokenSecret, TokenIssuer)
		if err != nil {
			return nil, fmt.Errorf("service token: %w", err)
		}
		opts.Token = tokenCfg
	}
	client, err := vehiclesapi.New(config.VehiclesURL, opts)
	if err != nil {
		return nil, err
	}

	// The UI serves while the API is still coming up; list failures are
	// reported per request.
	go pingWithRetry(ctx, client)

	handler := NewHandler(client, HandlerOptions{
		Tracer: platformotel.Tracer("autofix/admin"),
	})
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		httpAddr:   httpAddr,
		vehicles:   client,
		httpServer: httpServer,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("admin server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	log.WithField("vehicles_api", s.vehicles.BaseURL()).Infof("admin listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases idle connections to the vehicles API.
func (s *Server) Close() {
	if s == nil || s.vehicles == nil {
		return
	}
	s.vehicles.CloseIdleConnections()
}

// pingWithRetry pings the vehicles API until it answers or the context ends.
func pingWithRetry(ctx context.Context, client pinger) bool {
	if client == nil {
		return false
	}
	retryDelay := defaultPingRetryDelay
	for {
		if ctx.Err() != nil {
			return false
		}
		err := client.Ping(ctx)
		if err == nil {
			log.Infof("admin connected to vehicles api at %s", client.BaseURL())
			return true
		}
		log.Warnf("vehicles api not ready: %v", err)
		timer := time.NewTimer(retryDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return false
		}
		if retryDelay < maxPingRetryDelay {
			retryDelay *= 2
			if retryDelay > maxPingRetryDelay {
				retryDelay = maxPingRetryDelay
			}
		}
	}
}
