package app

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
	"github.com/louisbranch/autofix/internal/services/vehicles/pricing"
	"github.com/louisbranch/autofix/internal/services/vehicles/storage"
)

// RepairStore is the storage a RepairService needs.
type RepairStore interface {
	storage.VehicleStore
	storage.RepairTypeStore
	storage.RepairStore
	storage.ChargeStore
	storage.DiscountStore
}

// VehiclePricing is the rule-based rates that apply to a vehicle today.
type VehiclePricing struct {
	VehicleID                  int64 `json:"vehicleId"`
	MileageSurchargePercent    int   `json:"mileageSurchargePercent"`
	AgeSurchargePercent        int   `json:"ageSurchargePercent"`
	RepairsLastYear            int   `json:"repairsLastYear"`
	RepairCountDiscountPercent int   `json:"repairCountDiscountPercent"`
}

// RepairService applies repair use cases and bills repairs.
type RepairService struct {
	store    RepairStore
	location *time.Location
	now      func() time.Time
}

// NewRepairService builds a RepairService. loc is the shop's time zone used
// for the weekday discount; nil means time.Local.
func NewRepairService(store RepairStore, loc *time.Location) *RepairService {
	if loc == nil {
		loc = time.Local
	}
	return &RepairService{store: store, location: loc, now: time.Now}
}

// ListTypes returns the repair type catalog.
func (s *RepairService) ListTypes(ctx context.Context) ([]domain.RepairType, error) {
	types, err := s.store.ListRepairTypes(ctx)
	if err != nil {
		return nil, mapStoreError(err, "list repair types")
	}
	return types, nil
}

// List returns every repair in ascending id order.
func (s *RepairService) List(ctx context.Context) ([]domain.Repair, error) {
	repairs, err := s.store.ListRepairs(ctx)
	if err != nil {
		return nil, mapStoreError(err, "list repairs")
	}
	if repairs == nil {
		repairs = []domain.Repair{}
	}
	return repairs, nil
}

// ListForVehicle returns the repairs of one vehicle. An unknown vehicle is
// reported as not found.
func (s *RepairService) ListForVehicle(ctx context.Context, vehicleID int64) ([]domain.Repair, error) {
	if _, err := s.store.GetVehicle(ctx, vehicleID); err != nil {
		return nil, mapStoreError(err, "get vehicle")
	}
	repairs, err := s.store.ListVehicleRepairs(ctx, vehicleID)
	if err != nil {
		return nil, mapStoreError(err, "list vehicle repairs")
	}
	if repairs == nil {
		repairs = []domain.Repair{}
	}
	return repairs, nil
}

// Get returns one repair.
func (s *RepairService) Get(ctx context.Context, id int64) (domain.Repair, error) {
	repair, err := s.store.GetRepair(ctx, id)
	if err != nil {
		return domain.Repair{}, mapStoreError(err, "get repair")
	}
	return repair, nil
}

// Create validates and stores a repair. A zero cost is filled in with the
// repair type's price for the vehicle's engine.
func (s *RepairService) Create(ctx context.Context, r domain.Repair) (domain.Repair, error) {
	r, err := s.prepare(ctx, r)
	if err != nil {
		return domain.Repair{}, err
	}
	r.ID = 0
	created, err := s.store.CreateRepair(ctx, r)
	if err != nil {
		return domain.Repair{}, mapStoreError(err, "create repair")
	}
	return created, nil
}

// Update replaces the stored repair with id.
func (s *RepairService) Update(ctx context.Context, id int64, r domain.Repair) (domain.Repair, error) {
	if _, err := s.store.GetRepair(ctx, id); err != nil {
		return domain.Repair{}, mapStoreError(err, "get repair")
	}
	r, err := s.prepare(ctx, r)
	if err != nil {
		return domain.Repair{}, err
	}
	r.ID = id
	updated, err := s.store.UpdateRepair(ctx, r)
	if err != nil {
		return domain.Repair{}, mapStoreError(err, "update repair")
	}
	return updated, nil
}

// Delete removes the repair with id.
func (s *RepairService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteRepair(ctx, id); err != nil {
		return mapStoreError(err, "delete repair")
	}
	return nil
}

func (s *RepairService) prepare(ctx context.Context, r domain.Repair) (domain.Repair, error) {
	r = domain.NormalizeRepair(r)
	if err := domain.ValidateRepair(r); err != nil {
		return domain.Repair{}, err
	}
	vehicle, err := s.store.GetVehicle(ctx, r.VehicleID)
	if err != nil {
		return domain.Repair{}, mapStoreError(err, "get vehicle")
	}
	repairType, err := s.store.GetRepairType(ctx, r.RepairTypeID)
	if err != nil {
		return domain.Repair{}, mapStoreError(err, "get repair type")
	}
	engine, err := domain.ParseEngine(vehicle.EngineType)
	if err != nil {
		return domain.Repair{}, err
	}
	price, ok := repairType.PriceFor(engine)
	if !ok {
		return domain.Repair{}, apperrors.EK(apperrors.KindInvalidInput, "repairs.error.type_not_applicable",
			"repair type does not apply to this engine")
	}
	if r.RepairCost == 0 {
		r.RepairCost = price
	}
	return r, nil
}

// Bill prices the repair with id.
func (s *RepairService) Bill(ctx context.Context, id int64) (pricing.Bill, error) {
	repair, err := s.store.GetRepair(ctx, id)
	if err != nil {
		return pricing.Bill{}, mapStoreError(err, "get repair")
	}
	vehicle, err := s.store.GetVehicle(ctx, repair.VehicleID)
	if err != nil {
		return pricing.Bill{}, mapStoreError(err, "get vehicle")
	}
	return s.bill(ctx, vehicle, repair)
}

func (s *RepairService) bill(ctx context.Context, vehicle domain.Vehicle, repair domain.Repair) (pricing.Bill, error) {
	count, err := s.store.CountVehicleRepairs(ctx, vehicle.ID, repair.EntryAt.AddDate(-1, 0, 0), repair.EntryAt)
	if err != nil {
		return pricing.Bill{}, mapStoreError(err, "count repairs")
	}
	charges, err := s.store.ListCharges(ctx)
	if err != nil {
		return pricing.Bill{}, mapStoreError(err, "list charges")
	}
	discounts, err := s.store.ListDiscounts(ctx)
	if err != nil {
		return pricing.Bill{}, mapStoreError(err, "list discounts")
	}
	return pricing.Compute(pricing.Input{
		Vehicle:         vehicle,
		Repair:          repair,
		RepairsLastYear: count,
		Charges:         charges,
		Discounts:       discounts,
		Now:             s.now(),
		Location:        s.location,
	})
}

// Pricing returns the rates that apply to the vehicle with id now.
func (s *RepairService) Pricing(ctx context.Context, vehicleID int64) (VehiclePricing, error) {
	vehicle, err := s.store.GetVehicle(ctx, vehicleID)
	if err != nil {
		return VehiclePricing{}, mapStoreError(err, "get vehicle")
	}
	now := s.now()
	count, err := s.store.CountVehicleRepairs(ctx, vehicle.ID, now.AddDate(-1, 0, 0), now)
	if err != nil {
		return VehiclePricing{}, mapStoreError(err, "count repairs")
	}
	out := VehiclePricing{VehicleID: vehicle.ID, RepairsLastYear: count}
	if out.MileageSurchargePercent, err = pricing.MileageSurcharge(vehicle.Type, vehicle.Mileage); err != nil {
		return VehiclePricing{}, err
	}
	if out.AgeSurchargePercent, err = pricing.AgeSurcharge(vehicle.Type, vehicle.ManufactureYear, now); err != nil {
		return VehiclePricing{}, err
	}
	if out.RepairCountDiscountPercent, err = pricing.RepairCountDiscount(vehicle.EngineType, count); err != nil {
		return VehiclePricing{}, err
	}
	return out, nil
}

// CostReport totals the bills of every repair per vehicle. A repair that
// cannot be billed is logged and counted at zero.
func (s *RepairService) CostReport(ctx context.Context) ([]domain.RepairCostReport, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return nil, mapStoreError(err, "list vehicles")
	}
	out := make([]domain.RepairCostReport, 0, len(vehicles))
	for _, vehicle := range vehicles {
		repairs, err := s.store.ListVehicleRepairs(ctx, vehicle.ID)
		if err != nil {
			return nil, mapStoreError(err, "list vehicle repairs")
		}
		if len(repairs) == 0 {
			continue
		}
		row := domain.RepairCostReport{
			VehicleID:   vehicle.ID,
			Brand:       vehicle.Brand,
			Model:       vehicle.Model,
			RepairCount: len(repairs),
		}
		for _, repair := range repairs {
			bill, err := s.bill(ctx, vehicle, repair)
			if err != nil {
				if ctx.Err() != nil {
					return nil, mapStoreError(ctx.Err(), "bill repair")
				}
				log.WithFields(log.Fields{"vehicle_id": vehicle.ID, "repair_id": repair.ID}).Warnf("bill repair: %v", err)
				continue
			}
			row.TotalCost += bill.Total
		}
		out = append(out, row)
	}
	return out, nil
}
