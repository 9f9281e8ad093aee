package vehicles

import (
	"net/http"

	routepath "github.com/louisbranch/autofix/internal/services/admin/routepath"
)

// Service defines vehicle route handlers consumed by this route module.
type Service interface {
	HandleVehiclesPage(w http.ResponseWriter, r *http.Request)
	HandleVehiclesAction(w http.ResponseWriter, r *http.Request)
	HandleCreateForm(w http.ResponseWriter, r *http.Request)
	HandleCreateSubmit(w http.ResponseWriter, r *http.Request)
	HandleEditForm(w http.ResponseWriter, r *http.Request)
	HandleEditSubmit(w http.ResponseWriter, r *http.Request)
	HandleDeleteConfirm(w http.ResponseWriter, r *http.Request)
	HandleDeleteResolve(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires vehicle routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.PatternVehicles, service.HandleVehiclesPage)
	mux.HandleFunc(routepath.PatternVehiclesAction, service.HandleVehiclesAction)
	mux.HandleFunc(routepath.PatternCreateForm, service.HandleCreateForm)
	mux.HandleFunc(routepath.PatternCreateSubmit, service.HandleCreateSubmit)
	mux.HandleFunc(routepath.PatternEditForm, service.HandleEditForm)
	mux.HandleFunc(routepath.PatternEditSubmit, service.HandleEditSubmit)
	mux.HandleFunc(routepath.PatternDeleteConfirm, service.HandleDeleteConfirm)
	mux.HandleFunc(routepath.PatternDeleteResolve, service.HandleDeleteResolve)
}
