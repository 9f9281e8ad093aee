package domain

import (
	"testing"
	"time"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
)

func TestNormalizeRepair(t *testing.T) {
	t.Parallel()

	local := time.FixedZone("CLT", -3*60*60)
	exit := time.Date(2026, 3, 3, 14, 0, 0, 900, local)
	got := NormalizeRepair(Repair{EntryAt: time.Date(2026, 3, 3, 7, 0, 0, 500, local), ExitAt: &exit, Status: "  "})

	if got.Status != RepairPending {
		t.Fatalf("status = %q, want %q", got.Status, RepairPending)
	}
	if want := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC); !got.EntryAt.Equal(want) || got.EntryAt.Location() != time.UTC {
		t.Fatalf("entry = %v, want %v", got.EntryAt, want)
	}
	if got.ExitAt.Nanosecond() != 0 || got.ExitAt == &exit {
		t.Fatalf("exit was not copied and truncated: %v", got.ExitAt)
	}
}

func TestValidateRepair(t *testing.T) {
	t.Parallel()

	entry := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	exit := entry.Add(7 * time.Hour)
	before := entry.Add(-time.Hour)
	valid := Repair{VehicleID: 1, RepairTypeID: 2, EntryAt: entry, ExitAt: &exit, Status: RepairCompleted}

	tests := []struct {
		name    string
		mutate  func(*Repair)
		wantKey string
	}{
		{name: "valid", mutate: func(*Repair) {}},
		{name: "open repair", mutate: func(r *Repair) { r.ExitAt = nil }},
		{name: "vehicle", mutate: func(r *Repair) { r.VehicleID = 0 }, wantKey: "repairs.error.vehicle_required"},
		{name: "type", mutate: func(r *Repair) { r.RepairTypeID = 0 }, wantKey: "repairs.error.type_required"},
		{name: "entry", mutate: func(r *Repair) { r.EntryAt = time.Time{} }, wantKey: "repairs.error.entry_required"},
		{name: "cost", mutate: func(r *Repair) { r.RepairCost = -1 }, wantKey: "repairs.error.cost_range"},
		{name: "exit before entry", mutate: func(r *Repair) { r.ExitAt = &before }, wantKey: "repairs.error.exit_before_entry"},
		{name: "pickup without exit", mutate: func(r *Repair) { r.ExitAt, r.PickupAt = nil, &exit }, wantKey: "repairs.error.pickup_before_exit"},
		{name: "pickup before exit", mutate: func(r *Repair) { r.PickupAt = &entry }, wantKey: "repairs.error.pickup_before_exit"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := valid
			tc.mutate(&r)
			err := ValidateRepair(r)
			if tc.wantKey == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := apperrors.LocalizationKey(err); got != tc.wantKey {
				t.Fatalf("key = %q, want %q (err %v)", got, tc.wantKey, err)
			}
		})
	}
}

func TestRepairTypePriceFor(t *testing.T) {
	t.Parallel()

	exhaust := RepairType{GasolinePrice: 100000, DieselPrice: 120000, HybridPrice: 450000}
	if price, ok := exhaust.PriceFor(EngineDiesel); !ok || price != 120000 {
		t.Fatalf("diesel price = %d, %v", price, ok)
	}
	if _, ok := exhaust.PriceFor(EngineElectric); ok {
		t.Fatal("exhaust repair must not apply to electric engines")
	}
}

func TestChargeAndDiscountValidation(t *testing.T) {
	t.Parallel()

	charge := NormalizeCharge(Charge{Description: " Mileage Overcharge ", Amount: 200, Type: "mileage", VehicleType: "Sedan"})
	if err := ValidateCharge(charge); err != nil {
		t.Fatalf("valid charge rejected: %v", err)
	}
	if charge.Type != ChargeMileage || charge.Description != "Mileage Overcharge" {
		t.Fatalf("charge not normalized: %+v", charge)
	}
	if got := apperrors.LocalizationKey(ValidateCharge(Charge{Description: "x", Type: "FOO"})); got != "charges.error.type_unknown" {
		t.Fatalf("unknown charge type key = %q", got)
	}
	if got := apperrors.LocalizationKey(ValidateCharge(Charge{Type: ChargeOther})); got != "charges.error.description_required" {
		t.Fatalf("missing description key = %q", got)
	}

	discount := NormalizeDiscount(Discount{Description: "Spring Special", Amount: 10, Type: "num_repairs", Brand: "Toyota"})
	if err := ValidateDiscount(discount); err != nil {
		t.Fatalf("valid discount rejected: %v", err)
	}
	if got := apperrors.LocalizationKey(ValidateDiscount(Discount{Description: "x", Type: DiscountBrandBonus, Amount: -1})); got != "discounts.error.amount_range" {
		t.Fatalf("negative amount key = %q", got)
	}
}

func TestAppliesTo(t *testing.T) {
	t.Parallel()

	vehicle := Vehicle{Brand: "Toyota", Type: "SUV"}
	if !(Charge{VehicleType: "suv"}).AppliesTo(vehicle) || !(Charge{}).AppliesTo(vehicle) {
		t.Fatal("charge should target the SUV")
	}
	if (Charge{VehicleType: "Sedan"}).AppliesTo(vehicle) {
		t.Fatal("sedan charge must not target an SUV")
	}
	if !(Discount{Brand: "TOYOTA"}).AppliesTo(vehicle) || (Discount{Brand: "Ford"}).AppliesTo(vehicle) {
		t.Fatal("discount brand matching is wrong")
	}
}

func TestParseKinds(t *testing.T) {
	t.Parallel()

	if engine, err := ParseEngine(" Híbrido "); err != nil || engine != EngineHybrid {
		t.Fatalf("ParseEngine = %q, %v", engine, err)
	}
	if body, err := ParseBodyType("Furgoneta"); err != nil || body != BodyVan {
		t.Fatalf("ParseBodyType = %q, %v", body, err)
	}
	if _, err := ParseBodyType("Tractor"); !apperrors.IsKind(err, apperrors.KindInvalidInput) {
		t.Fatalf("unknown body err = %v", err)
	}
}
