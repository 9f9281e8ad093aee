package domain

import (
	"strings"
	"time"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
)

// Repair statuses. Any other non-empty status is stored as given.
const (
	RepairPending   = "Pending"
	RepairCompleted = "Completed"
	RepairDelivered = "Delivered"
)

// RepairType is a catalog repair with its base price per engine family.
// A zero price means the repair does not apply to that engine.
type RepairType struct {
	ID            int64  `json:"repairTypeId"`
	Name          string `json:"name"`
	GasolinePrice int64  `json:"gasolinePrice"`
	DieselPrice   int64  `json:"dieselPrice"`
	HybridPrice   int64  `json:"hybridPrice"`
	ElectricPrice int64  `json:"electricPrice"`
}

// PriceFor returns the base price for engine, or false when the repair does
// not apply to it.
func (t RepairType) PriceFor(engine Engine) (int64, bool) {
	var price int64
	switch engine {
	case EngineGasoline:
		price = t.GasolinePrice
	case EngineDiesel:
		price = t.DieselPrice
	case EngineHybrid:
		price = t.HybridPrice
	case EngineElectric:
		price = t.ElectricPrice
	}
	return price, price > 0
}

// Repair is one shop visit of a vehicle for one repair type. Amounts are in
// whole currency units.
type Repair struct {
	ID           int64      `json:"repairId"`
	VehicleID    int64      `json:"vehicleId"`
	RepairTypeID int64      `json:"repairTypeId"`
	EntryAt      time.Time  `json:"entryAt"`
	ExitAt       *time.Time `json:"exitAt,omitempty"`
	PickupAt     *time.Time `json:"customerPickupAt,omitempty"`
	RepairCost   int64      `json:"repairCost"`
	Status       string     `json:"status"`
}

// NormalizeRepair trims the status, defaults it to RepairPending and drops
// sub-second precision from the timestamps.
func NormalizeRepair(r Repair) Repair {
	r.Status = strings.TrimSpace(r.Status)
	if r.Status == "" {
		r.Status = RepairPending
	}
	r.EntryAt = truncate(r.EntryAt)
	if r.ExitAt != nil {
		exit := truncate(*r.ExitAt)
		r.ExitAt = &exit
	}
	if r.PickupAt != nil {
		pickup := truncate(*r.PickupAt)
		r.PickupAt = &pickup
	}
	return r
}

func truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// ValidateRepair checks a normalized repair.
func ValidateRepair(r Repair) error {
	switch {
	case r.VehicleID <= 0:
		return apperrors.EK(apperrors.KindInvalidInput, "repairs.error.vehicle_required", "vehicle id is required")
	case r.RepairTypeID <= 0:
		return apperrors.EK(apperrors.KindInvalidInput, "repairs.error.type_required", "repair type id is required")
	case r.EntryAt.IsZero():
		return apperrors.EK(apperrors.KindInvalidInput, "repairs.error.entry_required", "entry time is required")
	case r.RepairCost < 0:
		return apperrors.EK(apperrors.KindInvalidInput, "repairs.error.cost_range", "repair cost must not be negative")
	case r.PickupAt != nil && r.ExitAt == nil:
		return apperrors.EK(apperrors.KindInvalidInput, "repairs.error.pickup_before_exit", "customer pickup requires an exit time")
	}
	if r.ExitAt != nil && r.ExitAt.Before(r.EntryAt) {
		return apperrors.EK(apperrors.KindInvalidInput, "repairs.error.exit_before_entry", "exit time is before entry time")
	}
	if r.PickupAt != nil && r.PickupAt.Before(*r.ExitAt) {
		return apperrors.EK(apperrors.KindInvalidInput, "repairs.error.pickup_before_exit", "customer pickup is before exit time")
	}
	return nil
}

// Charge kinds. They label a catalog charge; the rule-based surcharges are
// computed by the pricing package.
const (
	ChargeMileage    = "MILEAGE"
	ChargeAge        = "AGE"
	ChargeLatePickup = "LATE_PICKUP"
	ChargeOther      = "OTHER"
)

// Charge is a flat amount added to the repairs of vehicles of VehicleType,
// or of every vehicle when VehicleType is empty.
type Charge struct {
	ID          int64  `json:"chargeId"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Type        string `json:"type"`
	VehicleType string `json:"vehicleType"`
}

// Discount kinds.
const (
	DiscountRepairCount = "NUM_REPAIRS"
	DiscountDayOfWeek   = "DAY_OF_WEEK"
	DiscountBrandBonus  = "BRAND_BONUS"
)

// Discount is a flat amount taken off the repairs of vehicles of Brand, or
// of every vehicle when Brand is empty.
type Discount struct {
	ID          int64  `json:"discountId"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Type        string `json:"type"`
	Brand       string `json:"brand"`
}

// NormalizeCharge trims text fields and upper-cases the kind.
func NormalizeCharge(c Charge) Charge {
	c.Description = strings.TrimSpace(c.Description)
	c.Type = strings.ToUpper(strings.TrimSpace(c.Type))
	c.VehicleType = strings.TrimSpace(c.VehicleType)
	return c
}

// ValidateCharge checks a normalized charge.
func ValidateCharge(c Charge) error {
	switch {
	case c.Description == "":
		return apperrors.EK(apperrors.KindInvalidInput, "charges.error.description_required", "description is required")
	case c.Amount < 0:
		return apperrors.EK(apperrors.KindInvalidInput, "charges.error.amount_range", "amount must not be negative")
	}
	switch c.Type {
	case ChargeMileage, ChargeAge, ChargeLatePickup, ChargeOther:
		return nil
	}
	return apperrors.EK(apperrors.KindInvalidInput, "charges.error.type_unknown", "unknown charge type")
}

// NormalizeDiscount trims text fields and upper-cases the kind.
func NormalizeDiscount(d Discount) Discount {
	d.Description = strings.TrimSpace(d.Description)
	d.Type = strings.ToUpper(strings.TrimSpace(d.Type))
	d.Brand = strings.TrimSpace(d.Brand)
	return d
}

// ValidateDiscount checks a normalized discount.
func ValidateDiscount(d Discount) error {
	switch {
	case d.Description == "":
		return apperrors.EK(apperrors.KindInvalidInput, "discounts.error.description_required", "description is required")
	case d.Amount < 0:
		return apperrors.EK(apperrors.KindInvalidInput, "discounts.error.amount_range", "amount must not be negative")
	}
	switch d.Type {
	case DiscountRepairCount, DiscountDayOfWeek, DiscountBrandBonus:
		return nil
	}
	return apperrors.EK(apperrors.KindInvalidInput, "discounts.error.type_unknown", "unknown discount type")
}

// AppliesTo reports whether the charge targets vehicle.
func (c Charge) AppliesTo(vehicle Vehicle) bool {
	return c.VehicleType == "" || strings.EqualFold(c.VehicleType, vehicle.Type)
}

// AppliesTo reports whether the discount targets vehicle.
func (d Discount) AppliesTo(vehicle Vehicle) bool {
	return d.Brand == "" || strings.EqualFold(d.Brand, vehicle.Brand)
}
