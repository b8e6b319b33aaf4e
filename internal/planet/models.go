package planet

import "esi-server/internal/esi"

// Planet is the cached planet document, stored as ESI returns it.
type Planet = esi.PlanetInfo

type PlanetType string

const (
	PlanetTypeTemperate PlanetType = "Temperate"
	PlanetTypeIce       PlanetType = "Ice"
	PlanetTypeGas       PlanetType = "Gas"
	PlanetTypeOceanic   PlanetType = "Oceanic"
	PlanetTypeLava      PlanetType = "Lava"
	PlanetTypeBarren    PlanetType = "Barren"
	PlanetTypeStorm     PlanetType = "Storm"
	PlanetTypePlasma    PlanetType = "Plasma"
)

// UnknownTypeLabel is returned for type ids outside the planet range.
const UnknownTypeLabel = "Unknown, invalid esi Data!"

var planetTypes = map[int]PlanetType{
	11:   PlanetTypeTemperate,
	12:   PlanetTypeIce,
	13:   PlanetTypeGas,
	2014: PlanetTypeOceanic,
	2015: PlanetTypeLava,
	2016: PlanetTypeBarren,
	2017: PlanetTypeStorm,
	2063: PlanetTypePlasma,
}

// TypeOf maps an inventory type id to its planet type.
func TypeOf(typeID int) (PlanetType, bool) {
	t, ok := planetTypes[typeID]
	return t, ok
}

// TypeLabel renders a type id the way the client displays it, e.g. "Planet (Gas)".
func TypeLabel(typeID int) string {
	t, ok := TypeOf(typeID)
	if !ok {
		return UnknownTypeLabel
	}
	return "Planet (" + string(t) + ")"
}
