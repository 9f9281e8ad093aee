package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

type repairHandlers struct {
	service RepairService
}

func (h *repairHandlers) listTypes(w http.ResponseWriter, r *http.Request) {
	serveList(h.service.ListTypes)(w, r)
}

func (h *repairHandlers) list(w http.ResponseWriter, r *http.Request) {
	serveList(h.service.List)(w, r)
}

func (h *repairHandlers) listForVehicle(w http.ResponseWriter, r *http.Request) {
	serveByID(w, r, h.service.ListForVehicle)
}

func (h *repairHandlers) pricing(w http.ResponseWriter, r *http.Request) {
	serveByID(w, r, h.service.Pricing)
}

func (h *repairHandlers) get(w http.ResponseWriter, r *http.Request) {
	serveByID(w, r, h.service.Get)
}

func (h *repairHandlers) bill(w http.ResponseWriter, r *http.Request) {
	serveByID(w, r, h.service.Bill)
}

func (h *repairHandlers) create(w http.ResponseWriter, r *http.Request) {
	input, err := decodeJSON[domain.Repair](w, r, "decode repair")
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/repairs/"+domain.FormatID(created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (h *repairHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	input, err := decodeJSON[domain.Repair](w, r, "decode repair")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if input.ID != 0 && input.ID != id {
		writeError(w, r, apperrors.E(apperrors.KindInvalidInput, "repair id does not match route"))
		return
	}
	updated, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *repairHandlers) remove(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, h.service.Delete)
}

type catalogHandlers struct {
	service CatalogService
}

func (h *catalogHandlers) listCharges(w http.ResponseWriter, r *http.Request) {
	serveList(h.service.ListCharges)(w, r)
}

func (h *catalogHandlers) getCharge(w http.ResponseWriter, r *http.Request) {
	serveByID(w, r, h.service.GetCharge)
}

func (h *catalogHandlers) createCharge(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, "/api/charges/", h.service.CreateCharge, func(c domain.Charge) int64 { return c.ID })
}

func (h *catalogHandlers) updateCharge(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, h.service.UpdateCharge)
}

func (h *catalogHandlers) deleteCharge(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, h.service.DeleteCharge)
}

func (h *catalogHandlers) listDiscounts(w http.ResponseWriter, r *http.Request) {
	serveList(h.service.ListDiscounts)(w, r)
}

func (h *catalogHandlers) getDiscount(w http.ResponseWriter, r *http.Request) {
	serveByID(w, r, h.service.GetDiscount)
}

func (h *catalogHandlers) createDiscount(w http.ResponseWriter, r *http.Request) {
	serveCreate(w, r, "/api/discounts/", h.service.CreateDiscount, func(d domain.Discount) int64 { return d.ID })
}

func (h *catalogHandlers) updateDiscount(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, h.service.UpdateDiscount)
}

func (h *catalogHandlers) deleteDiscount(w http.ResponseWriter, r *http.Request) {
	serveDelete(w, r, h.service.DeleteDiscount)
}

// serveList answers GET with the rows load returns.
func serveList[T any](load func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := load(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if rows == nil {
			rows = []T{}
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func serveByID[T any](w http.ResponseWriter, r *http.Request, load func(context.Context, int64) (T, error)) {
	id, err := domain.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := load(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func serveCreate[T any](w http.ResponseWriter, r *http.Request, location string, create func(context.Context, T) (T, error), idOf func(T) int64) {
	input, err := decodeJSON[T](w, r, "decode request")
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", location+domain.FormatID(idOf(created)))
	writeJSON(w, http.StatusCreated, created)
}

func serveUpdate[T any](w http.ResponseWriter, r *http.Request, update func(context.Context, int64, T) (T, error)) {
	id, err := domain.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	input, err := decodeJSON[T](w, r, "decode request")
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := update(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func serveDelete(w http.ResponseWriter, r *http.Request, remove func(context.Context, int64) error) {
	id, err := domain.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := remove(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
