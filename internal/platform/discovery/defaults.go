// Package discovery centralizes service identities and their default ports.
package discovery

import (
	"strconv"
	"strings"
)

const (
	// ServiceAdmin is the admin UI service identity.
	ServiceAdmin = "admin"
	// ServiceVehicles is the vehicles REST API service identity.
	ServiceVehicles = "vehicles"
)

var httpPorts = map[string]int{
	ServiceAdmin:    8082,
	ServiceVehicles: 8090,
}

// HTTPPort returns the conventional HTTP port for a service, or 0.
func HTTPPort(service string) int {
	return httpPorts[strings.TrimSpace(service)]
}

// ListenAddr returns ":<port>" for a service, or "" when unknown.
func ListenAddr(service string) string {
	port := HTTPPort(service)
	if port <= 0 {
		return ""
	}
	return ":" + strconv.Itoa(port)
}

// LocalBaseURL returns the base URL a service is reached at on the same host.
func LocalBaseURL(service string) string {
	port := HTTPPort(service)
	if port <= 0 {
		return ""
	}
	return "http://localhost:" + strconv.Itoa(port)
}

// OrDefaultHTTPBaseURL returns value when set, otherwise LocalBaseURL.
func OrDefaultHTTPBaseURL(value, service string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	return LocalBaseURL(service)
}
