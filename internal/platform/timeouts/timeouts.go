// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// VehiclesRequest caps a single admin call to the vehicles API.
const VehiclesRequest = 5 * time.Second

// VehiclesPing caps one readiness check of the vehicles API.
const VehiclesPing = 2 * time.Second

// ServiceToken is the lifetime of a minted service token.
const ServiceToken = time.Minute

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// EventsDrain limits how long the event publisher waits to flush on close.
const EventsDrain = 3 * time.Second
