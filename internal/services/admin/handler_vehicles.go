package admin

import (
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/message"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
	vehiclesmodule "github.com/louisbranch/autofix/internal/services/admin/module/vehicles"
	routepath "github.com/louisbranch/autofix/internal/services/admin/routepath"
	"github.com/louisbranch/autofix/internal/services/admin/templates"
	"github.com/louisbranch/autofix/internal/services/shared/httpx"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

// newListView mounts nothing; callers decide when to fetch. The returned
// target holds the last path the view navigated to.
func (h *Handler) newListView() (*vehiclesmodule.ListView, *string, error) {
	var target string
	view, err := vehiclesmodule.NewListView(vehiclesmodule.ListViewConfig{
		Service:   h.client,
		Navigator: vehiclesmodule.NavigatorFunc(func(path string) { target = path }),
		Reporter:  h.reporter,
	})
	if err != nil {
		return nil, nil, err
	}
	return view, &target, nil
}

// HandleVehiclesPage renders the vehicle list.
func (h *Handler) HandleVehiclesPage(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	view, _, err := h.newListView()
	if err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	defer view.Unmount()

	// Fetch failures are reported by the view; the table renders empty.
	_ = view.Mount(r.Context())
	h.renderVehicles(w, r, lang, loc, view.Rows())
}

// HandleVehiclesAction dispatches the list controls.
func (h *Handler) HandleVehiclesAction(w http.ResponseWriter, r *http.Request) {
	if !requireSameOrigin(w, r) {
		return
	}
	loc, lang := h.localizer(w, r)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, lang, loc, apperrors.Wrap(apperrors.KindInvalidInput, "parse form", err))
		return
	}
	view, target, err := h.newListView()
	if err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	defer view.Unmount()

	action := strings.TrimSpace(r.PostFormValue("action"))
	switch action {
	case templates.ActionCreate:
		view.Create()
		httpx.WriteRedirect(w, r, *target)
	case templates.ActionEdit, templates.ActionDelete:
		id, err := domain.ParseID(r.PostFormValue("vehicle_id"))
		if err != nil {
			h.renderError(w, r, lang, loc, err)
			return
		}
		if action == templates.ActionEdit {
			view.Edit(id)
			httpx.WriteRedirect(w, r, *target)
			return
		}
		h.confirmDelete(w, r, lang, loc, view, id)
	default:
		h.renderError(w, r, lang, loc, apperrors.E(apperrors.KindInvalidInput, "unknown action "+strconv.Quote(action)))
	}
}

// HandleDeleteConfirm renders the delete confirmation for a vehicle.
func (h *Handler) HandleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	id, err := domain.ParseID(r.PathValue("id"))
	if err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	view, _, err := h.newListView()
	if err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	defer view.Unmount()
	h.confirmDelete(w, r, lang, loc, view, id)
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request, lang string, loc *message.Printer, view *vehiclesmodule.ListView, id int64) {
	confirmation, err := view.RequestDelete(id)
	if err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	dialog := templates.DeleteDialogView{VehicleID: confirmation.VehicleID, PromptKey: confirmation.PromptKey}
	httpx.RenderPage(w, r, http.StatusOK,
		templates.DeleteDialog(dialog, loc),
		templates.DeletePage(h.pageContext(lang, loc, r), dialog),
	)
}

// HandleDeleteResolve applies the answer to a delete confirmation and renders
// the resulting list.
func (h *Handler) HandleDeleteResolve(w http.ResponseWriter, r *http.Request) {
	if !requireSameOrigin(w, r) {
		return
	}
	loc, lang := h.localizer(w, r)
	id, err := domain.ParseID(r.PathValue("id"))
	if err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	view, _, err := h.newListView()
	if err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	defer view.Unmount()

	_ = view.Mount(r.Context())
	if _, err := view.RequestDelete(id); err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	confirmed := strings.EqualFold(strings.TrimSpace(r.PostFormValue("confirm")), "yes")
	// A failed delete keeps the stale list; the view reports the failure.
	_ = view.ResolveDelete(r.Context(), confirmed)
	h.renderVehicles(w, r, lang, loc, view.Rows())
}

// HandleCreateForm renders an empty vehicle form.
func (h *Handler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	h.renderForm(w, r, lang, loc, http.StatusOK, templates.VehicleFormView{
		TitleKey: "vehicles.form.create_title",
		Action:   routepath.VehiclesCreate,
	})
}

// HandleCreateSubmit creates a vehicle from the submitted form.
func (h *Handler) HandleCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if !requireSameOrigin(w, r) {
		return
	}
	loc, lang := h.localizer(w, r)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, lang, loc, apperrors.Wrap(apperrors.KindInvalidInput, "parse form", err))
		return
	}
	form := formViewFromRequest(r, "vehicles.form.create_title", routepath.VehiclesCreate)
	vehicle, err := vehicleFromForm(form)
	if err == nil {
		_, err = h.client.Create(r.Context(), vehicle)
	}
	if err != nil {
		h.rejectForm(w, r, lang, loc, form, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Vehicles)
}

// HandleEditForm renders the form prefilled with the stored vehicle.
func (h *Handler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	id, err := domain.ParseID(r.PathValue("id"))
	if err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	vehicle, err := h.client.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	h.renderForm(w, r, lang, loc, http.StatusOK, templates.VehicleFormView{
		TitleKey:           "vehicles.form.edit_title",
		Action:             routepath.VehicleEdit(id),
		LicensePlateNumber: vehicle.LicensePlateNumber,
		Brand:              vehicle.Brand,
		Model:              vehicle.Model,
		Type:               vehicle.Type,
		ManufactureYear:    strconv.Itoa(vehicle.ManufactureYear),
		EngineType:         vehicle.EngineType,
		Mileage:            strconv.Itoa(vehicle.Mileage),
	})
}

// HandleEditSubmit updates a vehicle from the submitted form.
func (h *Handler) HandleEditSubmit(w http.ResponseWriter, r *http.Request) {
	if !requireSameOrigin(w, r) {
		return
	}
	loc, lang := h.localizer(w, r)
	id, err := domain.ParseID(r.PathValue("id"))
	if err != nil {
		h.renderError(w, r, lang, loc, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, lang, loc, apperrors.Wrap(apperrors.KindInvalidInput, "parse form", err))
		return
	}
	form := formViewFromRequest(r, "vehicles.form.edit_title", routepath.VehicleEdit(id))
	vehicle, err := vehicleFromForm(form)
	if err == nil {
		_, err = h.client.Update(r.Context(), id, vehicle)
	}
	if err != nil {
		h.rejectForm(w, r, lang, loc, form, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Vehicles)
}

func formViewFromRequest(r *http.Request, titleKey, action string) templates.VehicleFormView {
	return templates.VehicleFormView{
		TitleKey:           titleKey,
		Action:             action,
		LicensePlateNumber: strings.TrimSpace(r.PostFormValue("licensePlateNumber")),
		Brand:              strings.TrimSpace(r.PostFormValue("brand")),
		Model:              strings.TrimSpace(r.PostFormValue("model")),
		Type:               strings.TrimSpace(r.PostFormValue("type")),
		ManufactureYear:    strings.TrimSpace(r.PostFormValue("manufactureYear")),
		EngineType:         strings.TrimSpace(r.PostFormValue("engineType")),
		Mileage:            strings.TrimSpace(r.PostFormValue("mileage")),
	}
}

func vehicleFromForm(form templates.VehicleFormView) (domain.Vehicle, error) {
	year, err := strconv.Atoi(form.ManufactureYear)
	if err != nil {
		return domain.Vehicle{}, apperrors.EK(apperrors.KindInvalidInput, "vehicles.error.year_invalid", "manufacture year must be a number")
	}
	// A blank mileage means not recorded.
	mileage := 0
	if form.Mileage != "" {
		if mileage, err = strconv.Atoi(form.Mileage); err != nil {
			return domain.Vehicle{}, apperrors.EK(apperrors.KindInvalidInput, "vehicles.error.mileage_invalid", "mileage must be a number")
		}
	}
	return domain.Vehicle{
		LicensePlateNumber: form.LicensePlateNumber,
		Brand:              form.Brand,
		Model:              form.Model,
		Type:               form.Type,
		ManufactureYear:    year,
		EngineType:         form.EngineType,
		Mileage:            mileage,
	}, nil
}

func (h *Handler) rejectForm(w http.ResponseWriter, r *http.Request, lang string, loc *message.Printer, form templates.VehicleFormView, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError || apperrors.KindOf(err) == apperrors.KindUnavailable {
		log.WithField("path", r.URL.Path).Errorf("submit vehicle form: %v", err)
	}
	if apperrors.LocalizationKey(err) == "" && apperrors.KindOf(err) == apperrors.KindUnavailable {
		form.Error = templates.T(loc, "core.error.unavailable")
	} else {
		form.Error = templates.ErrorText(loc, err)
	}
	// htmx only swaps 2xx responses.
	if httpx.IsHTMXRequest(r) {
		status = http.StatusOK
	}
	h.renderForm(w, r, lang, loc, status, form)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, lang string, loc *message.Printer, status int, form templates.VehicleFormView) {
	httpx.RenderPage(w, r, status,
		templates.VehicleForm(form, loc),
		templates.VehicleFormPage(h.pageContext(lang, loc, r), form),
	)
}

func (h *Handler) renderVehicles(w http.ResponseWriter, r *http.Request, lang string, loc *message.Printer, vehicles []domain.Vehicle) {
	view := templates.VehiclesListView{Rows: buildVehicleRows(vehicles)}
	httpx.RenderPage(w, r, http.StatusOK,
		templates.VehiclesTable(view, loc),
		templates.VehiclesPage(h.pageContext(lang, loc, r), view),
	)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, lang string, loc *message.Printer, err error) {
	status := apperrors.HTTPStatus(err)
	messageKey := "core.error.title"
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		messageKey = "core.error.not_found"
		if key := apperrors.LocalizationKey(err); key != "" {
			messageKey = key
		}
	case apperrors.KindUnavailable:
		messageKey = "core.error.unavailable"
	default:
		if key := apperrors.LocalizationKey(err); key != "" {
			messageKey = key
		}
	}
	if status >= http.StatusInternalServerError {
		log.WithField("path", r.URL.Path).Errorf("admin request failed: %v", err)
	}
	page := templates.ErrorPage(h.pageContext(lang, loc, r), messageKey)
	httpx.RenderPage(w, r, status, nil, page)
}

func buildVehicleRows(vehicles []domain.Vehicle) []templates.VehicleRow {
	rows := make([]templates.VehicleRow, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, templates.VehicleRow{
			ID:                 v.ID,
			LicensePlateNumber: v.LicensePlateNumber,
			Brand:              v.Brand,
			Model:              v.Model,
			Type:               v.Type,
			ManufactureYear:    v.ManufactureYear,
			EngineType:         v.EngineType,
		})
	}
	return rows
}
