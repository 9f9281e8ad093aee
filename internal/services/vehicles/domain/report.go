package domain

// RepairTypeSummary aggregates the repairs of one repair type.
type RepairTypeSummary struct {
	RepairType   string `json:"repairType"`
	VehicleCount int64  `json:"vehicleCount"`
	TotalAmount  int64  `json:"totalAmount"`
}

// AverageRepairTime is the mean time between entry and exit of the finished
// repairs of one brand.
type AverageRepairTime struct {
	Brand        string  `json:"brand"`
	AverageHours float64 `json:"averageHours"`
}

// RepairTypeEngineSummary aggregates the repairs of one repair type on one
// engine type.
type RepairTypeEngineSummary struct {
	RepairType   string `json:"repairType"`
	EngineType   string `json:"engineType"`
	VehicleCount int64  `json:"vehicleCount"`
	TotalAmount  int64  `json:"totalAmount"`
}

// RepairCostReport is the total billed for the repairs of one vehicle.
type RepairCostReport struct {
	VehicleID   int64  `json:"vehicleId"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	RepairCount int    `json:"repairCount"`
	TotalCost   int64  `json:"totalCost"`
}
