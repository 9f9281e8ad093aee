// Package domain defines the vehicle record shared by the vehicles API and
// its clients, and the rules a record must satisfy before it is stored.
package domain

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
)

// MinManufactureYear is the earliest accepted manufacture year.
const MinManufactureYear = 1900

// Vehicle is a registered vehicle as exchanged over the REST API.
type Vehicle struct {
	ID                 int64  `json:"vehicleId"`
	LicensePlateNumber string `json:"licensePlateNumber"`
	Brand              string `json:"brand"`
	Model              string `json:"model"`
	Type               string `json:"type"`
	ManufactureYear    int    `json:"manufactureYear"`
	EngineType         string `json:"engineType"`
	Mileage            int    `json:"mileage"`
}

// Normalize trims every text field and canonicalizes the plate to upper case
// without spaces.
func Normalize(v Vehicle) Vehicle {
	v.LicensePlateNumber = NormalizePlate(v.LicensePlateNumber)
	v.Brand = strings.TrimSpace(v.Brand)
	v.Model = strings.TrimSpace(v.Model)
	v.Type = strings.TrimSpace(v.Type)
	v.EngineType = strings.TrimSpace(v.EngineType)
	return v
}

// NormalizePlate upper-cases a plate and drops spaces, tabs and dashes, so
// "ab-12 cd" and "AB12CD" name the same vehicle.
func NormalizePlate(plate string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-':
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(plate)))
}

// Validate checks a normalized vehicle. now bounds the manufacture year to
// next year at most.
func Validate(v Vehicle, now time.Time) error {
	switch {
	case v.LicensePlateNumber == "":
		return apperrors.EK(apperrors.KindInvalidInput, "vehicles.error.plate_required", "license plate is required")
	case v.Brand == "":
		return apperrors.EK(apperrors.KindInvalidInput, "vehicles.error.brand_required", "brand is required")
	case v.Model == "":
		return apperrors.EK(apperrors.KindInvalidInput, "vehicles.error.model_required", "model is required")
	case v.Type == "":
		return apperrors.EK(apperrors.KindInvalidInput, "vehicles.error.type_required", "type is required")
	case v.EngineType == "":
		return apperrors.EK(apperrors.KindInvalidInput, "vehicles.error.engine_required", "engine type is required")
	}
	if v.Mileage < 0 {
		return apperrors.EK(apperrors.KindInvalidInput, "vehicles.error.mileage_range", "mileage must not be negative")
	}
	maxYear := now.Year() + 1
	if v.ManufactureYear < MinManufactureYear || v.ManufactureYear > maxYear {
		return apperrors.EK(apperrors.KindInvalidInput, "vehicles.error.year_range",
			"manufacture year must be between "+strconv.Itoa(MinManufactureYear)+" and "+strconv.Itoa(maxYear))
	}
	return nil
}

// FormatID renders an identifier for routes and URLs.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseID parses a route identifier. Only positive base-10 integers are
// accepted.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.E(apperrors.KindInvalidInput, "invalid id "+strconv.Quote(raw))
	}
	return id, nil
}
