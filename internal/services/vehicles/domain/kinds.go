package domain

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
)

// Engine is the canonical engine family a price or discount depends on.
type Engine string

const (
	EngineGasoline Engine = "gasoline"
	EngineDiesel   Engine = "diesel"
	EngineHybrid   Engine = "hybrid"
	EngineElectric Engine = "electric"
)

var engineAliases = map[string]Engine{
	"gasoline":  EngineGasoline,
	"gasolina":  EngineGasoline,
	"nafta":     EngineGasoline,
	"petrol":    EngineGasoline,
	"diesel":    EngineDiesel,
	"hybrid":    EngineHybrid,
	"hibrido":   EngineHybrid,
	"híbrido":   EngineHybrid,
	"electric":  EngineElectric,
	"electrico": EngineElectric,
	"eléctrico": EngineElectric,
}

// ParseEngine maps a free-text engine type, English or Spanish, to its
// family.
func ParseEngine(raw string) (Engine, error) {
	if engine, ok := engineAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return engine, nil
	}
	return "", apperrors.EK(apperrors.KindInvalidInput, "pricing.error.engine_unknown", "unknown engine type "+strconv.Quote(raw))
}

// BodyType is the canonical vehicle body a surcharge depends on.
type BodyType string

const (
	BodySedan     BodyType = "sedan"
	BodyHatchback BodyType = "hatchback"
	BodySUV       BodyType = "suv"
	BodyPickup    BodyType = "pickup"
	BodyVan       BodyType = "van"
)

var bodyAliases = map[string]BodyType{
	"sedan":     BodySedan,
	"sedán":     BodySedan,
	"hatchback": BodyHatchback,
	"suv":       BodySUV,
	"pickup":    BodyPickup,
	"pick-up":   BodyPickup,
	"camioneta": BodyPickup,
	"van":       BodyVan,
	"furgoneta": BodyVan,
}

// ParseBodyType maps a free-text vehicle type to its body.
func ParseBodyType(raw string) (BodyType, error) {
	if body, ok := bodyAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return body, nil
	}
	return "", apperrors.EK(apperrors.KindInvalidInput, "pricing.error.type_unknown", "unknown vehicle type "+strconv.Quote(raw))
}
