// Package pricing holds the shop's surcharge and discount rules and the
// repair bill built from them. Percentages are whole numbers.
package pricing

import (
	"time"

	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

const (
	// TaxPercent is the value added tax charged on every bill.
	TaxPercent = 19
	// LatePickupPercentPerDay is charged for each full day a finished
	// vehicle waits for its owner.
	LatePickupPercentPerDay = 5
	// WeekdayDiscountPercent applies to vehicles entering Monday to
	// Thursday between 09:00 and 12:00.
	WeekdayDiscountPercent = 10
)

// Inclusive upper bounds of each band; values above the last bound fall in
// the final band.
var (
	mileageLimits     = []int{5000, 12000, 25000, 40000}
	ageLimits         = []int{5, 10, 15}
	repairCountLimits = []int{0, 2, 5, 9}
)

var mileagePercents = map[domain.BodyType][]int{
	domain.BodySedan:     {0, 3, 7, 12, 20},
	domain.BodyHatchback: {0, 3, 7, 12, 20},
	domain.BodySUV:       {0, 5, 9, 12, 20},
	domain.BodyPickup:    {0, 5, 9, 12, 20},
	domain.BodyVan:       {0, 5, 9, 12, 20},
}

var agePercents = map[domain.BodyType][]int{
	domain.BodySedan:     {0, 5, 9, 15},
	domain.BodyHatchback: {0, 5, 9, 15},
	domain.BodySUV:       {0, 7, 11, 20},
	domain.BodyPickup:    {0, 7, 11, 20},
	domain.BodyVan:       {0, 7, 11, 20},
}

var repairCountPercents = map[domain.Engine][]int{
	domain.EngineGasoline: {0, 5, 10, 15, 20},
	domain.EngineDiesel:   {0, 7, 12, 17, 22},
	domain.EngineHybrid:   {0, 10, 15, 20, 25},
	domain.EngineElectric: {0, 8, 13, 18, 23},
}

func band(value int, limits []int) int {
	for i, limit := range limits {
		if value <= limit {
			return i
		}
	}
	return len(limits)
}

// MileageSurcharge returns the surcharge percentage for a vehicle type at
// mileage kilometers.
func MileageSurcharge(vehicleType string, mileage int) (int, error) {
	body, err := domain.ParseBodyType(vehicleType)
	if err != nil {
		return 0, err
	}
	if mileage < 0 {
		mileage = 0
	}
	return mileagePercents[body][band(mileage, mileageLimits)], nil
}

// AgeSurcharge returns the surcharge percentage for a vehicle type built in
// manufactureYear, with age counted in calendar years up to now.
func AgeSurcharge(vehicleType string, manufactureYear int, now time.Time) (int, error) {
	body, err := domain.ParseBodyType(vehicleType)
	if err != nil {
		return 0, err
	}
	age := now.Year() - manufactureYear
	if age < 0 {
		age = 0
	}
	return agePercents[body][band(age, ageLimits)], nil
}

// RepairCountDiscount returns the discount percentage for an engine type
// after repairs visits in the last twelve months.
func RepairCountDiscount(engineType string, repairs int) (int, error) {
	engine, err := domain.ParseEngine(engineType)
	if err != nil {
		return 0, err
	}
	if repairs < 0 {
		repairs = 0
	}
	return repairCountPercents[engine][band(repairs, repairCountLimits)], nil
}

// WeekdayDiscount returns WeekdayDiscountPercent when entry, read in loc,
// falls Monday to Thursday from 09:00 to before 12:00.
func WeekdayDiscount(entry time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	local := entry.In(loc)
	switch local.Weekday() {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
	default:
		return 0
	}
	if local.Hour() < 9 || local.Hour() >= 12 {
		return 0
	}
	return WeekdayDiscountPercent
}

// LatePickupSurcharge returns LatePickupPercentPerDay for every full day
// between exit and pickup. It is zero until the vehicle is picked up.
func LatePickupSurcharge(exit, pickup *time.Time) int {
	if exit == nil || pickup == nil || !pickup.After(*exit) {
		return 0
	}
	days := int(pickup.Sub(*exit) / (24 * time.Hour))
	return days * LatePickupPercentPerDay
}

// Input is everything a bill depends on.
type Input struct {
	Vehicle domain.Vehicle
	Repair  domain.Repair
	// RepairsLastYear counts the vehicle's repairs entered in the twelve
	// months before the billed repair, itself included.
	RepairsLastYear int
	Charges         []domain.Charge
	Discounts       []domain.Discount
	Now             time.Time
	Location        *time.Location
}

// Bill is the itemized cost of one repair.
type Bill struct {
	RepairID                   int64 `json:"repairId"`
	BaseCost                   int64 `json:"baseCost"`
	MileageSurchargePercent    int   `json:"mileageSurchargePercent"`
	AgeSurchargePercent        int   `json:"ageSurchargePercent"`
	LatePickupSurchargePercent int   `json:"latePickupSurchargePercent"`
	RepairCountDiscountPercent int   `json:"repairCountDiscountPercent"`
	WeekdayDiscountPercent     int   `json:"weekdayDiscountPercent"`
	Surcharges                 int64 `json:"surcharges"`
	Discounts                  int64 `json:"discounts"`
	FlatCharges                int64 `json:"flatCharges"`
	FlatDiscounts              int64 `json:"flatDiscounts"`
	Subtotal                   int64 `json:"subtotal"`
	Tax                        int64 `json:"tax"`
	Total                      int64 `json:"total"`
}

// Compute builds the bill of in.Repair. Percentage surcharges and discounts
// apply to the base cost; catalog charges and discounts that target the
// vehicle are added and taken off as flat amounts; tax applies last. The
// subtotal never goes below zero.
func Compute(in Input) (Bill, error) {
	mileage, err := MileageSurcharge(in.Vehicle.Type, in.Vehicle.Mileage)
	if err != nil {
		return Bill{}, err
	}
	age, err := AgeSurcharge(in.Vehicle.Type, in.Vehicle.ManufactureYear, in.Now)
	if err != nil {
		return Bill{}, err
	}
	repairCount, err := RepairCountDiscount(in.Vehicle.EngineType, in.RepairsLastYear)
	if err != nil {
		return Bill{}, err
	}

	bill := Bill{
		RepairID:                   in.Repair.ID,
		BaseCost:                   in.Repair.RepairCost,
		MileageSurchargePercent:    mileage,
		AgeSurchargePercent:        age,
		LatePickupSurchargePercent: LatePickupSurcharge(in.Repair.ExitAt, in.Repair.PickupAt),
		RepairCountDiscountPercent: repairCount,
		WeekdayDiscountPercent:     WeekdayDiscount(in.Repair.EntryAt, in.Location),
	}
	bill.Surcharges = percentOf(bill.BaseCost, bill.MileageSurchargePercent+bill.AgeSurchargePercent+bill.LatePickupSurchargePercent)
	bill.Discounts = percentOf(bill.BaseCost, bill.RepairCountDiscountPercent+bill.WeekdayDiscountPercent)
	for _, charge := range in.Charges {
		if charge.AppliesTo(in.Vehicle) {
			bill.FlatCharges += charge.Amount
		}
	}
	for _, discount := range in.Discounts {
		if discount.AppliesTo(in.Vehicle) {
			bill.FlatDiscounts += discount.Amount
		}
	}

	bill.Subtotal = bill.BaseCost + bill.Surcharges - bill.Discounts + bill.FlatCharges - bill.FlatDiscounts
	if bill.Subtotal < 0 {
		bill.Subtotal = 0
	}
	bill.Tax = percentOf(bill.Subtotal, TaxPercent)
	bill.Total = bill.Subtotal + bill.Tax
	return bill, nil
}

// percentOf rounds half up.
func percentOf(amount int64, percent int) int64 {
	return (amount*int64(percent) + 50) / 100
}
