// Package app holds the vehicles API use cases: vehicle records with change
// notification, repairs and their bills, the charge and discount catalog,
// and the shop reports.
package app

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
	"github.com/louisbranch/autofix/internal/platform/requestctx"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
	"github.com/louisbranch/autofix/internal/services/vehicles/events"
	"github.com/louisbranch/autofix/internal/services/vehicles/storage"
)

// Service applies vehicle use cases over a store.
type Service struct {
	store     storage.VehicleStore
	publisher events.Publisher
	now       func() time.Time
}

// NewService builds a Service. A nil publisher discards events.
func NewService(store storage.VehicleStore, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{store: store, publisher: publisher, now: time.Now}
}

// List returns every vehicle in ascending id order.
func (s *Service) List(ctx context.Context) ([]domain.Vehicle, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return nil, mapStoreError(err, "list vehicles")
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	return vehicles, nil
}

// Get returns one vehicle.
func (s *Service) Get(ctx context.Context, id int64) (domain.Vehicle, error) {
	vehicle, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return domain.Vehicle{}, mapStoreError(err, "get vehicle")
	}
	return vehicle, nil
}

// Create validates and stores a new vehicle. Any client-supplied id is
// ignored.
func (s *Service) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	v = domain.Normalize(v)
	v.ID = 0
	if err := domain.Validate(v, s.now()); err != nil {
		return domain.Vehicle{}, err
	}
	created, err := s.store.CreateVehicle(ctx, v)
	if err != nil {
		return domain.Vehicle{}, mapStoreError(err, "create vehicle")
	}
	s.publish(ctx, events.ActionCreated, created.ID)
	return created, nil
}

// Update replaces the stored vehicle with id.
func (s *Service) Update(ctx context.Context, id int64, v domain.Vehicle) (domain.Vehicle, error) {
	v = domain.Normalize(v)
	v.ID = id
	if err := domain.Validate(v, s.now()); err != nil {
		return domain.Vehicle{}, err
	}
	updated, err := s.store.UpdateVehicle(ctx, v)
	if err != nil {
		return domain.Vehicle{}, mapStoreError(err, "update vehicle")
	}
	s.publish(ctx, events.ActionUpdated, updated.ID)
	return updated, nil
}

// Delete removes the vehicle with id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteVehicle(ctx, id); err != nil {
		return mapStoreError(err, "delete vehicle")
	}
	s.publish(ctx, events.ActionDeleted, id)
	return nil
}

func (s *Service) publish(ctx context.Context, action events.Action, id int64) {
	change := events.Change{
		Action:    action,
		VehicleID: id,
		Actor:     requestctx.CallerFromContext(ctx),
		At:        s.now().UTC(),
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), change); err != nil {
		log.WithFields(log.Fields{"action": action, "vehicle_id": id}).Warnf("publish vehicle change: %v", err)
	}
}

func mapStoreError(err error, op string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Error{Kind: apperrors.KindNotFound, Key: "vehicles.error.not_found", Message: "vehicle not found", Err: err}
	case errors.Is(err, storage.ErrRepairNotFound):
		return apperrors.Error{Kind: apperrors.KindNotFound, Key: "repairs.error.not_found", Message: "repair not found", Err: err}
	case errors.Is(err, storage.ErrRepairTypeNotFound):
		return apperrors.Error{Kind: apperrors.KindNotFound, Key: "repairs.error.type_not_found", Message: "repair type not found", Err: err}
	case errors.Is(err, storage.ErrChargeNotFound):
		return apperrors.Error{Kind: apperrors.KindNotFound, Key: "charges.error.not_found", Message: "charge not found", Err: err}
	case errors.Is(err, storage.ErrDiscountNotFound):
		return apperrors.Error{Kind: apperrors.KindNotFound, Key: "discounts.error.not_found", Message: "discount not found", Err: err}
	case errors.Is(err, storage.ErrPlateTaken):
		return apperrors.Error{Kind: apperrors.KindConflict, Key: "vehicles.error.plate_taken", Message: "license plate already registered", Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.KindUnavailable, op, err)
	default:
		return apperrors.Wrap(apperrors.KindUnknown, op, err)
	}
}
