package templates

// VehiclesTargetID is the element swapped by the vehicle list controls.
const VehiclesTargetID = "vehicles"

// Actions posted to routepath.Vehicles by the list controls.
const (
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// VehicleRow is one rendered vehicle.
type VehicleRow struct {
	ID                 int64
	LicensePlateNumber string
	Brand              string
	Model              string
	Type               string
	ManufactureYear    int
	EngineType         string
}

// VehiclesListView provides data for the vehicle table.
type VehiclesListView struct {
	Rows []VehicleRow
}

// DeleteDialogView provides data for the delete confirmation.
type DeleteDialogView struct {
	VehicleID int64
	PromptKey string
}

// VehicleFormView provides data for the create and edit forms. Numeric
// fields keep the submitted text so a rejected form shows what was typed.
type VehicleFormView struct {
	TitleKey           string
	Action             string
	LicensePlateNumber string
	Brand              string
	Model              string
	Type               string
	ManufactureYear    string
	EngineType         string
	Mileage            string
	// Error is the localized failure of the last submit.
	Error string
}

var vehicleColumns = []string{
	"vehicles.column.plate",
	"vehicles.column.brand",
	"vehicles.column.model",
	"vehicles.column.type",
	"vehicles.column.year",
	"vehicles.column.engine",
	"vehicles.column.operations",
}

type formField struct {
	name     string
	labelKey string
	value    string
	kind     string
	required bool
}

func vehicleFormFields(view VehicleFormView) []formField {
	return []formField{
		{name: "licensePlateNumber", labelKey: "vehicles.column.plate", value: view.LicensePlateNumber, kind: "text", required: true},
		{name: "brand", labelKey: "vehicles.column.brand", value: view.Brand, kind: "text", required: true},
		{name: "model", labelKey: "vehicles.column.model", value: view.Model, kind: "text", required: true},
		{name: "type", labelKey: "vehicles.column.type", value: view.Type, kind: "text", required: true},
		{name: "manufactureYear", labelKey: "vehicles.column.year", value: view.ManufactureYear, kind: "number", required: true},
		{name: "engineType", labelKey: "vehicles.column.engine", value: view.EngineType, kind: "text", required: true},
		{name: "mileage", labelKey: "vehicles.column.mileage", value: view.Mileage, kind: "number"},
	}
}
