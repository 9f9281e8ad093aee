// Package storage defines the persistence contract of the vehicles API.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

// ErrNotFound indicates a vehicle id with no stored record.
var ErrNotFound = errors.New("vehicle not found")

// ErrPlateTaken indicates a license plate already used by another vehicle.
var ErrPlateTaken = errors.New("license plate already registered")

// VehicleStore persists vehicle records. List returns vehicles in ascending
// id order.
type VehicleStore interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
}

// ErrRepairNotFound indicates a repair id with no stored record.
var ErrRepairNotFound = errors.New("repair not found")

// ErrRepairTypeNotFound indicates an unknown repair type id.
var ErrRepairTypeNotFound = errors.New("repair type not found")

// ErrChargeNotFound indicates a charge id with no stored record.
var ErrChargeNotFound = errors.New("charge not found")

// ErrDiscountNotFound indicates a discount id with no stored record.
var ErrDiscountNotFound = errors.New("discount not found")

// RepairTypeStore reads the repair type catalog.
type RepairTypeStore interface {
	ListRepairTypes(ctx context.Context) ([]domain.RepairType, error)
	GetRepairType(ctx context.Context, id int64) (domain.RepairType, error)
}

// RepairStore persists repairs. Deleting a vehicle deletes its repairs.
type RepairStore interface {
	ListRepairs(ctx context.Context) ([]domain.Repair, error)
	ListVehicleRepairs(ctx context.Context, vehicleID int64) ([]domain.Repair, error)
	GetRepair(ctx context.Context, id int64) (domain.Repair, error)
	CreateRepair(ctx context.Context, r domain.Repair) (domain.Repair, error)
	UpdateRepair(ctx context.Context, r domain.Repair) (domain.Repair, error)
	DeleteRepair(ctx context.Context, id int64) error
	// CountVehicleRepairs counts the repairs of vehicleID entered in
	// [from, to].
	CountVehicleRepairs(ctx context.Context, vehicleID int64, from, to time.Time) (int, error)
}

// ChargeStore persists catalog charges.
type ChargeStore interface {
	ListCharges(ctx context.Context) ([]domain.Charge, error)
	GetCharge(ctx context.Context, id int64) (domain.Charge, error)
	CreateCharge(ctx context.Context, c domain.Charge) (domain.Charge, error)
	UpdateCharge(ctx context.Context, c domain.Charge) (domain.Charge, error)
	DeleteCharge(ctx context.Context, id int64) error
}

// DiscountStore persists catalog discounts.
type DiscountStore interface {
	ListDiscounts(ctx context.Context) ([]domain.Discount, error)
	GetDiscount(ctx context.Context, id int64) (domain.Discount, error)
	CreateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error)
	UpdateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error)
	DeleteDiscount(ctx context.Context, id int64) error
}

// ReportStore aggregates repairs for the shop reports. Every report is an
// empty, non-nil slice when there is no data.
type ReportStore interface {
	RepairTypeSummary(ctx context.Context) ([]domain.RepairTypeSummary, error)
	AverageRepairTimeByBrand(ctx context.Context) ([]domain.AverageRepairTime, error)
	RepairTypeEngineSummary(ctx context.Context) ([]domain.RepairTypeEngineSummary, error)
}

// Store is the composite storage handle owned by the API server.
type Store interface {
	VehicleStore
	RepairTypeStore
	RepairStore
	ChargeStore
	DiscountStore
	ReportStore
	Close() error
}
