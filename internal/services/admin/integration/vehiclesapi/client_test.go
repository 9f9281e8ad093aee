package vehiclesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
	"github.com/louisbranch/autofix/internal/platform/servicetoken"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		Body:   string(body),
	})
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeAPI) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{handler: handler}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	client, err := New(srv.URL+"/", opts)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, api
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestNewValidatesURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "localhost:8090", "ftp://host", "http://"} {
		if _, err := New(raw, Options{}); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
	client, err := New(" http://localhost:8090/ ", Options{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.BaseURL() != "http://localhost:8090" {
		t.Fatalf("base url = %q", client.BaseURL())
	}
}

func TestGetAllPreservesServerOrder(t *testing.T) {
	t.Parallel()

	want := []domain.Vehicle{
		{ID: 3, LicensePlateNumber: "CCC333", Brand: "Fiat"},
		{ID: 1, LicensePlateNumber: "AAA111", Brand: "Ford"},
	}
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, want)
	}, Options{})

	got, err := client.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 1 {
		t.Fatalf("unexpected vehicles: %+v", got)
	}
	reqs := api.recorded()
	if len(reqs) != 1 || reqs[0].Method != http.MethodGet || reqs[0].Path != "/api/vehicles" {
		t.Fatalf("unexpected requests: %+v", reqs)
	}
	if reqs[0].Auth != "" {
		t.Fatalf("expected no auth header, got %q", reqs[0].Auth)
	}
}

func TestGetAllNullBodyIsEmptyList(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nil)
	}, Options{})

	got, err := client.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestRemoveSendsDelete(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, Options{})

	if err := client.Remove(context.Background(), 42); err != nil {
		t.Fatalf("remove: %v", err)
	}
	reqs := api.recorded()
	if len(reqs) != 1 || reqs[0].Method != http.MethodDelete || reqs[0].Path != "/api/vehicles/42" {
		t.Fatalf("unexpected requests: %+v", reqs)
	}
}

func TestCreateAndUpdateSendJSON(t *testing.T) {
	t.Parallel()

	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var v domain.Vehicle
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Method == http.MethodPost {
			v.ID = 7
			writeJSON(w, http.StatusCreated, v)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}, Options{})

	created, err := client.Create(context.Background(), domain.Vehicle{LicensePlateNumber: "AB123CD"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("created id = %d", created.ID)
	}
	updated, err := client.Update(context.Background(), 7, domain.Vehicle{LicensePlateNumber: "ZZ999"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != 7 || updated.LicensePlateNumber != "ZZ999" {
		t.Fatalf("unexpected update: %+v", updated)
	}
	reqs := api.recorded()
	if reqs[1].Method != http.MethodPut || reqs[1].Path != "/api/vehicles/7" {
		t.Fatalf("unexpected update request: %+v", reqs[1])
	}
	if !strings.Contains(reqs[1].Body, `"vehicleId":7`) {
		t.Fatalf("expected id in update body, got %s", reqs[1].Body)
	}
}

func TestErrorStatusesBecomeTypedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		kind   apperrors.Kind
		key    string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"error":"vehicle not found","key":"vehicles.error.not_found"}`, kind: apperrors.KindNotFound, key: "vehicles.error.not_found"},
		{name: "conflict", status: http.StatusConflict, body: `{"error":"taken","key":"vehicles.error.plate_taken"}`, kind: apperrors.KindConflict, key: "vehicles.error.plate_taken"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"nope"}`, kind: apperrors.KindUnauthorized},
		{name: "server error plain text", status: http.StatusInternalServerError, body: "boom", kind: apperrors.KindUnknown},
		{name: "unavailable", status: http.StatusServiceUnavailable, kind: apperrors.KindUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, Options{})

			err := client.Remove(context.Background(), 1)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.KindOf(err); got != tc.kind {
				t.Fatalf("kind = %q, want %q", got, tc.kind)
			}
			if got := apperrors.LocalizationKey(err); got != tc.key {
				t.Fatalf("key = %q, want %q", got, tc.key)
			}
			if got := StatusCode(err); got != tc.status {
				t.Fatalf("status = %d, want %d", got, tc.status)
			}
		})
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := New(url, Options{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.GetAll(context.Background()); !apperrors.IsKind(err, apperrors.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if err := client.Ping(context.Background()); !apperrors.IsKind(err, apperrors.KindUnavailable) {
		t.Fatalf("expected unavailable ping, got %v", err)
	}
}

func TestServiceTokenIsAttachedToAPICalls(t *testing.T) {
	t.Parallel()

	cfg, err := servicetoken.NewConfig("0123456789abcdef-shared", "autofix-admin")
	if err != nil {
		t.Fatalf("token config: %v", err)
	}
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Vehicle{})
	}, Options{Token: cfg})

	if _, err := client.GetAll(context.Background()); err != nil {
		t.Fatalf("get all: %v", err)
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	reqs := api.recorded()
	token, ok := strings.CutPrefix(reqs[0].Auth, "Bearer ")
	if !ok {
		t.Fatalf("expected bearer header, got %q", reqs[0].Auth)
	}
	claims, err := servicetoken.Verify(cfg, token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if reqs[1].Path != "/healthz" || reqs[1].Auth != "" {
		t.Fatalf("expected unauthenticated health check, got %+v", reqs[1])
	}
}

func TestCallsRecordClientSpans(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, []domain.Vehicle{})
	}, Options{Tracer: provider.Tracer("test")})

	if _, err := client.GetAll(context.Background()); err != nil {
		t.Fatalf("get all: %v", err)
	}
	if err := client.Remove(context.Background(), 9); err == nil {
		t.Fatal("expected remove error")
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "vehicles.get_all" || spans[1].Name() != "vehicles.remove" {
		t.Fatalf("unexpected span names %q %q", spans[0].Name(), spans[1].Name())
	}
	if len(spans[1].Events()) == 0 {
		t.Fatal("expected recorded error event on failed remove")
	}
}
