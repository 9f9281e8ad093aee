package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
	"github.com/louisbranch/autofix/internal/services/shared/httpx"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

const maxBodyBytes = 64 << 10

type handlers struct {
	service VehicleService
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	vehicle, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	input, err := decodeVehicle(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/vehicles/"+domain.FormatID(created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	input, err := decodeVehicle(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if input.ID != 0 && input.ID != id {
		writeError(w, r, apperrors.E(apperrors.KindInvalidInput, "vehicle id does not match route"))
		return
	}
	updated, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeVehicle(w http.ResponseWriter, r *http.Request) (domain.Vehicle, error) {
	return decodeJSON[domain.Vehicle](w, r, "decode vehicle")
}

func decodeJSON[T any](w http.ResponseWriter, r *http.Request, op string) (T, error) {
	var out T
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&out); err != nil {
		var zero T
		if errors.Is(err, io.EOF) {
			return zero, apperrors.E(apperrors.KindInvalidInput, "request body is required")
		}
		return zero, apperrors.Wrap(apperrors.KindInvalidInput, op, err)
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := httpx.WriteJSON(w, status, payload); err != nil {
		log.Printf("write json response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.HTTPStatus(err) >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"request_id": httpx.RequestIDFromContext(r.Context()),
			"path":       r.URL.Path,
		}).Errorf("vehicles api: %v", err)
	}
	httpx.WriteJSONError(w, err)
}
