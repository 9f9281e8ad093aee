// Package routepath names the admin UI routes.
package routepath

import "strconv"

const (
	Root = "/"
)

const (
	StaticPrefix = "/static/"
	StaticCSS    = StaticPrefix + "app.css"
)

const (
	Vehicles       = "/vehicles"
	VehiclesCreate = "/vehicles/create"
	VehiclesEdit   = "/vehicles/edit/"
	VehiclesDelete = "/vehicles/delete/"
)

// Route patterns for http.ServeMux registration.
const (
	PatternRoot           = "GET /{$}"
	PatternVehicles       = "GET " + Vehicles
	PatternVehiclesAction = "POST " + Vehicles
	PatternCreateForm     = "GET " + VehiclesCreate
	PatternCreateSubmit   = "POST " + VehiclesCreate
	PatternEditForm       = "GET " + VehiclesEdit + "{id}"
	PatternEditSubmit     = "POST " + VehiclesEdit + "{id}"
	PatternDeleteConfirm  = "GET " + VehiclesDelete + "{id}"
	PatternDeleteResolve  = "POST " + VehiclesDelete + "{id}"
	PatternStatic         = "GET " + StaticPrefix
)

// VehicleEdit is the edit screen for a vehicle.
func VehicleEdit(id int64) string {
	return VehiclesEdit + strconv.FormatInt(id, 10)
}

// VehicleDelete is the delete confirmation for a vehicle.
func VehicleDelete(id int64) string {
	return VehiclesDelete + strconv.FormatInt(id, 10)
}
