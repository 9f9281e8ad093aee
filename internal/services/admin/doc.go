// Package admin serves the vehicle management screens.
//
// Handlers translate browser actions into list view operations and calls on
// the vehicles REST API, rendering full pages or htmx fragments.
package admin
