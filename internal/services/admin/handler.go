package admin

import (
	"context"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/autofix/internal/services/admin/i18n"
	vehiclesmodule "github.com/louisbranch/autofix/internal/services/admin/module/vehicles"
	routepath "github.com/louisbranch/autofix/internal/services/admin/routepath"
	"github.com/louisbranch/autofix/internal/services/admin/static"
	"github.com/louisbranch/autofix/internal/services/admin/templates"
	"github.com/louisbranch/autofix/internal/services/admin/transport/httpmux"
	"github.com/louisbranch/autofix/internal/services/shared/httpx"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

// VehiclesClient is the vehicles API surface the admin screens use.
type VehiclesClient interface {
	vehiclesmodule.VehicleService
	Get(ctx context.Context, id int64) (domain.Vehicle, error)
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	Update(ctx context.Context, id int64, v domain.Vehicle) (domain.Vehicle, error)
}

// HandlerOptions configures optional handler collaborators.
type HandlerOptions struct {
	// Reporter receives list view outcomes; defaults to logging.
	Reporter vehiclesmodule.Reporter
	// Tracer starts a span per request when set.
	Tracer trace.Tracer
	// StaticFS overrides the embedded assets.
	StaticFS fs.FS
}

// Handler serves the admin UI.
type Handler struct {
	client   VehiclesClient
	reporter vehiclesmodule.Reporter
}

// NewHandler builds the HTTP handler for the admin server.
func NewHandler(client VehiclesClient, opts HandlerOptions) http.Handler {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = vehiclesmodule.LogReporter{}
	}
	staticFS := opts.StaticFS
	if staticFS == nil {
		staticFS = static.FS
	}
	handler := &Handler{client: client, reporter: reporter}
	return httpx.Chain(handler.routes(staticFS),
		httpx.RequestID(),
		httpx.Trace(opts.Tracer),
		httpx.RecoverPanic(),
		httpx.AccessLog(),
	)
}

// routes wires the HTTP routes for the admin handler.
func (h *Handler) routes(staticFS fs.FS) http.Handler {
	mux := http.NewServeMux()
	httpmux.MountStatic(mux, staticFS)
	httpmux.MountRoot(mux, routepath.Vehicles)
	vehiclesmodule.RegisterRoutes(mux, h)
	return mux
}

func (h *Handler) localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	return i18n.Printer(tag), tag.String()
}

func (h *Handler) pageContext(lang string, loc *message.Printer, r *http.Request) templates.PageContext {
	return templates.PageContext{
		Lang:         lang,
		Loc:          loc,
		CurrentPath:  r.URL.Path,
		CurrentQuery: r.URL.RawQuery,
		Languages:    i18n.LanguageOptions(language.Make(lang)),
	}
}

func requireSameOrigin(w http.ResponseWriter, r *http.Request) bool {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return false
	}
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		if !sameOrigin(origin, r) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return false
		}
		return true
	}
	if referer := strings.TrimSpace(r.Referer()); referer != "" {
		if !sameOrigin(referer, r) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return false
		}
		return true
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	return false
}

func sameOrigin(rawURL string, r *http.Request) bool {
	if rawURL == "" || rawURL == "null" || r == nil {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	if !strings.EqualFold(parsed.Host, r.Host) {
		return false
	}
	if parsed.Scheme != "" {
		return strings.EqualFold(parsed.Scheme, requestScheme(r))
	}
	return true
}

func requestScheme(r *http.Request) string {
	if r == nil {
		return "http"
	}
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		parts := strings.Split(proto, ",")
		return strings.ToLower(strings.TrimSpace(parts[0]))
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
