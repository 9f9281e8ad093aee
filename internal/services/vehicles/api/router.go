// Package api serves the vehicles REST API.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
	"github.com/louisbranch/autofix/internal/platform/requestctx"
	"github.com/louisbranch/autofix/internal/platform/servicetoken"
	"github.com/louisbranch/autofix/internal/services/shared/httpx"
	"github.com/louisbranch/autofix/internal/services/vehicles/app"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
	"github.com/louisbranch/autofix/internal/services/vehicles/pricing"
)

// VehicleService is the use-case surface the handlers depend on.
type VehicleService interface {
	List(ctx context.Context) ([]domain.Vehicle, error)
	Get(ctx context.Context, id int64) (domain.Vehicle, error)
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	Update(ctx context.Context, id int64, v domain.Vehicle) (domain.Vehicle, error)
	Delete(ctx context.Context, id int64) error
}

// RepairService is the repair and billing surface.
type RepairService interface {
	ListTypes(ctx context.Context) ([]domain.RepairType, error)
	List(ctx context.Context) ([]domain.Repair, error)
	ListForVehicle(ctx context.Context, vehicleID int64) ([]domain.Repair, error)
	Get(ctx context.Context, id int64) (domain.Repair, error)
	Create(ctx context.Context, r domain.Repair) (domain.Repair, error)
	Update(ctx context.Context, id int64, r domain.Repair) (domain.Repair, error)
	Delete(ctx context.Context, id int64) error
	Bill(ctx context.Context, id int64) (pricing.Bill, error)
	Pricing(ctx context.Context, vehicleID int64) (app.VehiclePricing, error)
}

// CatalogService manages flat charges and discounts.
type CatalogService interface {
	ListCharges(ctx context.Context) ([]domain.Charge, error)
	GetCharge(ctx context.Context, id int64) (domain.Charge, error)
	CreateCharge(ctx context.Context, c domain.Charge) (domain.Charge, error)
	UpdateCharge(ctx context.Context, id int64, c domain.Charge) (domain.Charge, error)
	DeleteCharge(ctx context.Context, id int64) error
	ListDiscounts(ctx context.Context) ([]domain.Discount, error)
	GetDiscount(ctx context.Context, id int64) (domain.Discount, error)
	CreateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error)
	UpdateDiscount(ctx context.Context, id int64, d domain.Discount) (domain.Discount, error)
	DeleteDiscount(ctx context.Context, id int64) error
}

// ReportService serves the shop reports.
type ReportService interface {
	RepairTypes(ctx context.Context) ([]domain.RepairTypeSummary, error)
	AverageRepairTime(ctx context.Context) ([]domain.AverageRepairTime, error)
	RepairTypesByEngine(ctx context.Context) ([]domain.RepairTypeEngineSummary, error)
	RepairCosts(ctx context.Context) ([]domain.RepairCostReport, error)
}

// Options configures the router. Nil services leave their routes unmounted.
type Options struct {
	// Token enables bearer authentication on /api/ routes when its secret is set.
	Token   servicetoken.Config
	Repairs RepairService
	Catalog CatalogService
	Reports ReportService
}

// NewRouter wires the REST routes.
func NewRouter(service VehicleService, opts Options) http.Handler {
	h := &handlers{service: service}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSONError(w, apperrors.E(apperrors.KindNotFound, "route not found"))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := httpx.WriteJSON(w, http.StatusMethodNotAllowed, httpx.ErrorBody{Error: http.StatusText(http.StatusMethodNotAllowed)}); err != nil {
			log.Printf("write method not allowed: %v", err)
		}
	})
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	protected := func(prefix string) *mux.Router {
		sub := router.PathPrefix(prefix).Subrouter()
		if len(opts.Token.Secret) > 0 {
			sub.Use(requireServiceToken(opts.Token))
		}
		return sub
	}

	vehicles := protected("/api/vehicles")
	vehicles.HandleFunc("", h.list).Methods(http.MethodGet)
	vehicles.HandleFunc("", h.create).Methods(http.MethodPost)
	vehicles.HandleFunc("/{id}", h.get).Methods(http.MethodGet)
	vehicles.HandleFunc("/{id}", h.update).Methods(http.MethodPut)
	vehicles.HandleFunc("/{id}", h.remove).Methods(http.MethodDelete)

	if opts.Repairs != nil {
		rh := &repairHandlers{service: opts.Repairs}
		vehicles.HandleFunc("/{id}/repairs", rh.listForVehicle).Methods(http.MethodGet)
		vehicles.HandleFunc("/{id}/pricing", rh.pricing).Methods(http.MethodGet)

		protected("/api/repair-types").HandleFunc("", rh.listTypes).Methods(http.MethodGet)

		repairs := protected("/api/repairs")
		repairs.HandleFunc("", rh.list).Methods(http.MethodGet)
		repairs.HandleFunc("", rh.create).Methods(http.MethodPost)
		repairs.HandleFunc("/{id}", rh.get).Methods(http.MethodGet)
		repairs.HandleFunc("/{id}", rh.update).Methods(http.MethodPut)
		repairs.HandleFunc("/{id}", rh.remove).Methods(http.MethodDelete)
		repairs.HandleFunc("/{id}/cost", rh.bill).Methods(http.MethodGet)
	}

	if opts.Catalog != nil {
		ch := &catalogHandlers{service: opts.Catalog}
		charges := protected("/api/charges")
		charges.HandleFunc("", ch.listCharges).Methods(http.MethodGet)
		charges.HandleFunc("", ch.createCharge).Methods(http.MethodPost)
		charges.HandleFunc("/{id}", ch.getCharge).Methods(http.MethodGet)
		charges.HandleFunc("/{id}", ch.updateCharge).Methods(http.MethodPut)
		charges.HandleFunc("/{id}", ch.deleteCharge).Methods(http.MethodDelete)

		discounts := protected("/api/discounts")
		discounts.HandleFunc("", ch.listDiscounts).Methods(http.MethodGet)
		discounts.HandleFunc("", ch.createDiscount).Methods(http.MethodPost)
		discounts.HandleFunc("/{id}", ch.getDiscount).Methods(http.MethodGet)
		discounts.HandleFunc("/{id}", ch.updateDiscount).Methods(http.MethodPut)
		discounts.HandleFunc("/{id}", ch.deleteDiscount).Methods(http.MethodDelete)
	}

	if opts.Reports != nil {
		reports := protected("/api/reports")
		reports.HandleFunc("/repair-types", serveList(opts.Reports.RepairTypes)).Methods(http.MethodGet)
		reports.HandleFunc("/average-repair-time", serveList(opts.Reports.AverageRepairTime)).Methods(http.MethodGet)
		reports.HandleFunc("/repair-types-by-engine", serveList(opts.Reports.RepairTypesByEngine)).Methods(http.MethodGet)
		reports.HandleFunc("/repair-costs", serveList(opts.Reports.RepairCosts)).Methods(http.MethodGet)
	}

	return httpx.Chain(router, httpx.RequestID(), httpx.RecoverPanic(), httpx.AccessLog())
}

func requireServiceToken(cfg servicetoken.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				httpx.WriteJSONError(w, apperrors.E(apperrors.KindUnauthorized, "bearer token is required"))
				return
			}
			claims, err := servicetoken.Verify(cfg, token)
			if err != nil {
				log.WithField("request_id", httpx.RequestIDFromContext(r.Context())).Warnf("reject service token: %v", err)
				if !apperrors.IsKind(err, apperrors.KindUnauthorized) {
					err = apperrors.Wrap(apperrors.KindUnauthorized, "service token rejected", err)
				}
				httpx.WriteJSONError(w, err)
				return
			}
			log.WithFields(log.Fields{"subject": claims.Subject, "issuer": claims.Issuer}).Debug("service token accepted")
			next.ServeHTTP(w, r.WithContext(requestctx.WithCaller(r.Context(), claims.Subject)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
