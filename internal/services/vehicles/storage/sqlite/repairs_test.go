package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
	"github.com/louisbranch/autofix/internal/services/vehicles/storage"
)

func brakeRepair(vehicleID int64, entry time.Time, hours int) domain.Repair {
	exit := entry.Add(time.Duration(hours) * time.Hour)
	return domain.Repair{
		VehicleID:    vehicleID,
		RepairTypeID: 1,
		EntryAt:      entry,
		ExitAt:       &exit,
		RepairCost:   120000,
		Status:       domain.RepairCompleted,
	}
}

func TestStoreRepairTypesAreSeeded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	types, err := store.ListRepairTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 11)

	exhaust, err := store.GetRepairType(ctx, 6)
	require.NoError(t, err)
	_, applies := exhaust.PriceFor(domain.EngineElectric)
	require.False(t, applies)

	_, err = store.GetRepairType(ctx, 99)
	require.ErrorIs(t, err, storage.ErrRepairTypeNotFound)
}

func TestStoreRepairLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	vehicle, err := store.CreateVehicle(ctx, fiesta())
	require.NoError(t, err)

	entry := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	created, err := store.CreateRepair(ctx, brakeRepair(vehicle.ID, entry, 7))
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	got, err := store.GetRepair(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	pickup := entry.Add(48 * time.Hour)
	got.PickupAt = &pickup
	got.Status = domain.RepairDelivered
	_, err = store.UpdateRepair(ctx, got)
	require.NoError(t, err)

	listed, err := store.ListVehicleRepairs(ctx, vehicle.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, domain.RepairDelivered, listed[0].Status)
	require.True(t, listed[0].PickupAt.Equal(pickup))

	require.NoError(t, store.DeleteRepair(ctx, created.ID))
	_, err = store.GetRepair(ctx, created.ID)
	require.ErrorIs(t, err, storage.ErrRepairNotFound)
	require.ErrorIs(t, store.DeleteRepair(ctx, created.ID), storage.ErrRepairNotFound)

	got.ID = 404
	_, err = store.UpdateRepair(ctx, got)
	require.ErrorIs(t, err, storage.ErrRepairNotFound)
}

func TestStoreRepairRequiresVehicle(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)

	_, err := store.CreateRepair(context.Background(), brakeRepair(42, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), 1))
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStoreDeletingVehicleDeletesRepairs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	vehicle, err := store.CreateVehicle(ctx, fiesta())
	require.NoError(t, err)
	_, err = store.CreateRepair(ctx, brakeRepair(vehicle.ID, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), 2))
	require.NoError(t, err)

	require.NoError(t, store.DeleteVehicle(ctx, vehicle.ID))
	repairs, err := store.ListRepairs(ctx)
	require.NoError(t, err)
	require.Empty(t, repairs)
}

func TestStoreCountVehicleRepairs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	vehicle, err := store.CreateVehicle(ctx, fiesta())
	require.NoError(t, err)
	for _, entry := range []time.Time{
		time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 24, 9, 0, 0, 0, time.UTC),
	} {
		_, err := store.CreateRepair(ctx, brakeRepair(vehicle.ID, entry, 1))
		require.NoError(t, err)
	}

	count, err := store.CountVehicleRepairs(ctx, vehicle.ID,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestStoreChargesAndDiscounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	charges, err := store.ListCharges(ctx)
	require.NoError(t, err)
	require.NotNil(t, charges)
	require.Empty(t, charges)

	charge, err := store.CreateCharge(ctx, domain.Charge{Description: "Recargo", Amount: 200, Type: domain.ChargeOther, VehicleType: "Sedan"})
	require.NoError(t, err)
	charge.Amount = 300
	_, err = store.UpdateCharge(ctx, charge)
	require.NoError(t, err)
	got, err := store.GetCharge(ctx, charge.ID)
	require.NoError(t, err)
	require.Equal(t, charge, got)
	require.NoError(t, store.DeleteCharge(ctx, charge.ID))
	_, err = store.GetCharge(ctx, charge.ID)
	require.ErrorIs(t, err, storage.ErrChargeNotFound)

	discount, err := store.CreateDiscount(ctx, domain.Discount{Description: "Bono", Amount: 1000, Type: domain.DiscountBrandBonus, Brand: "Toyota"})
	require.NoError(t, err)
	discounts, err := store.ListDiscounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.Discount{discount}, discounts)
	require.NoError(t, store.DeleteDiscount(ctx, discount.ID))
	require.ErrorIs(t, store.DeleteDiscount(ctx, discount.ID), storage.ErrDiscountNotFound)
	_, err = store.UpdateDiscount(ctx, discount)
	require.ErrorIs(t, err, storage.ErrDiscountNotFound)
}

func TestStoreReportsAreEmptyWithoutRepairs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	summary, err := store.RepairTypeSummary(ctx)
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.Empty(t, summary)

	hours, err := store.AverageRepairTimeByBrand(ctx)
	require.NoError(t, err)
	require.NotNil(t, hours)
	require.Empty(t, hours)

	byEngine, err := store.RepairTypeEngineSummary(ctx)
	require.NoError(t, err)
	require.NotNil(t, byEngine)
	require.Empty(t, byEngine)
}

func TestStoreReports(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	ford, err := store.CreateVehicle(ctx, fiesta())
	require.NoError(t, err)
	hilux := fiesta()
	hilux.LicensePlateNumber = "ZZ999ZZ"
	hilux.Brand = "Toyota"
	hilux.EngineType = "Diesel"
	hilux, err = store.CreateVehicle(ctx, hilux)
	require.NoError(t, err)

	entry := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	for _, r := range []domain.Repair{
		brakeRepair(ford.ID, entry, 4),
		brakeRepair(ford.ID, entry.Add(24*time.Hour), 8),
		brakeRepair(hilux.ID, entry, 2),
	} {
		_, err := store.CreateRepair(ctx, r)
		require.NoError(t, err)
	}
	open := domain.Repair{VehicleID: hilux.ID, RepairTypeID: 7, EntryAt: entry, RepairCost: 100000, Status: domain.RepairPending}
	_, err = store.CreateRepair(ctx, open)
	require.NoError(t, err)

	summary, err := store.RepairTypeSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.RepairTypeSummary{
		{RepairType: "Reparaciones del Sistema de Frenos", VehicleCount: 2, TotalAmount: 360000},
		{RepairType: "Reparación de Neumáticos y Ruedas", VehicleCount: 1, TotalAmount: 100000},
	}, summary)

	hours, err := store.AverageRepairTimeByBrand(ctx)
	require.NoError(t, err)
	require.Len(t, hours, 2)
	require.Equal(t, "Toyota", hours[0].Brand)
	require.InDelta(t, 2.0, hours[0].AverageHours, 0.001)
	require.Equal(t, "Ford", hours[1].Brand)
	require.InDelta(t, 6.0, hours[1].AverageHours, 0.001)

	byEngine, err := store.RepairTypeEngineSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.RepairTypeEngineSummary{
		{RepairType: "Reparaciones del Sistema de Frenos", EngineType: "Diesel", VehicleCount: 1, TotalAmount: 120000},
		{RepairType: "Reparaciones del Sistema de Frenos", EngineType: "Gasoline", VehicleCount: 1, TotalAmount: 240000},
		{RepairType: "Reparación de Neumáticos y Ruedas", EngineType: "Diesel", VehicleCount: 1, TotalAmount: 100000},
	}, byEngine)
}
