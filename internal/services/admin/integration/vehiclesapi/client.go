// Package vehiclesapi is the admin client of the vehicles REST API.
package vehiclesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
	platformotel "github.com/louisbranch/autofix/internal/platform/otel"
	"github.com/louisbranch/autofix/internal/platform/servicetoken"
	"github.com/louisbranch/autofix/internal/platform/timeouts"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

const (
	vehiclesPath = "/api/vehicles"
	healthPath   = "/healthz"
	tokenSubject = "admin"
	maxErrorBody = 8 << 10
)

// Options configures a Client.
type Options struct {
	// HTTPClient defaults to a client without its own timeout; each call
	// carries a deadline instead.
	HTTPClient *http.Client
	// Token signs outgoing requests when its secret is set.
	Token servicetoken.Config
	// Tracer defaults to the global provider's tracer.
	Tracer trace.Tracer
}

// Client talks to the vehicles REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   servicetoken.Config
	tracer  trace.Tracer
}

// New validates baseURL and builds a Client.
func New(baseURL string, opts Options) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse vehicles api url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("vehicles api url must be http or https, got %q", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("vehicles api url host is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = platformotel.Tracer("autofix/admin/vehiclesapi")
	}
	return &Client{baseURL: parsed, http: httpClient, token: opts.Token, tracer: tracer}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// CloseIdleConnections closes kept-alive connections to the API.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// Ping checks the API health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.VehiclesPing)
	defer cancel()
	return c.do(ctx, "vehicles.ping", http.MethodGet, healthPath, nil, nil, false)
}

// GetAll fetches every vehicle in server order.
func (c *Client) GetAll(ctx context.Context) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	if err := c.call(ctx, "vehicles.get_all", http.MethodGet, vehiclesPath, nil, &vehicles); err != nil {
		return nil, err
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	return vehicles, nil
}

// Get fetches one vehicle.
func (c *Client) Get(ctx context.Context, id int64) (domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := c.call(ctx, "vehicles.get", http.MethodGet, vehiclePath(id), nil, &vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	return vehicle, nil
}

// Create stores a new vehicle and returns the stored record.
func (c *Client) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	var created domain.Vehicle
	if err := c.call(ctx, "vehicles.create", http.MethodPost, vehiclesPath, v, &created); err != nil {
		return domain.Vehicle{}, err
	}
	return created, nil
}

// Update replaces the vehicle with id.
func (c *Client) Update(ctx context.Context, id int64, v domain.Vehicle) (domain.Vehicle, error) {
	v.ID = id
	var updated domain.Vehicle
	if err := c.call(ctx, "vehicles.update", http.MethodPut, vehiclePath(id), v, &updated); err != nil {
		return domain.Vehicle{}, err
	}
	return updated, nil
}

// Remove deletes the vehicle with id.
func (c *Client) Remove(ctx context.Context, id int64) error {
	return c.call(ctx, "vehicles.remove", http.MethodDelete, vehiclePath(id), nil, nil)
}

func vehiclePath(id int64) string {
	return vehiclesPath + "/" + domain.FormatID(id)
}

func (c *Client) call(ctx context.Context, op, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.VehiclesRequest)
	defer cancel()
	return c.do(ctx, op, method, path, in, out, true)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any, authenticate bool) (err error) {
	ctx, span := c.tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticate && len(c.token.Secret) > 0 {
		token, err := servicetoken.Mint(c.token, tokenSubject)
		if err != nil {
			return fmt.Errorf("mint service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
	Key   string `json:"key"`
}

func responseError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		message = body.Error
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return apperrors.Error{
		Kind:    apperrors.KindFromStatus(resp.StatusCode),
		Key:     body.Key,
		Message: fmt.Sprintf("%s: %s (status %d)", op, message, resp.StatusCode),
		Err:     &StatusError{Code: resp.StatusCode},
	}
}

// StatusError records the HTTP status of a failed call.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}
