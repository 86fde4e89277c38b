package services

import "railmap/domain/core/valueobjects"

// Terrain classifies the ground a route crosses for travel-time purposes.
type Terrain string

const (
	TerrainFlat      Terrain = "flat"
	TerrainHills     Terrain = "hills"
	TerrainUrban     Terrain = "urban"
	TerrainMountains Terrain = "mountains"
)

// defaultTerrainFactor applies when a coordinate resolves to no region at
// all, not even a latitude band.
const defaultTerrainFactor = 1.15

var terrainFactors = map[Terrain]float64{
	TerrainFlat:      1.00,
	TerrainHills:     1.20,
	TerrainUrban:     1.25,
	TerrainMountains: 1.45,
}

// Factor returns the travel-time multiplier for the terrain
func (t Terrain) Factor() float64 {
	if f, ok := terrainFactors[t]; ok {
		return f
	}
	return defaultTerrainFactor
}

// region is one entry of the fixed geographic lookup table. Bounds are
// half-open [min, max) degree intervals.
type region struct {
	name    string
	minLat  float64
	maxLat  float64
	minLon  float64
	maxLon  float64
	terrain Terrain
}

func (r region) contains(c valueobjects.Coordinate) bool {
	return c.Lat >= r.minLat && c.Lat < r.maxLat &&
		c.Lon >= r.minLon && c.Lon < r.maxLon
}

// regionTable is checked in order; the first hit wins. Boxes before bands.
var regionTable = []region{
	{"alps", 47.0, 47.9, 9.5, 13.5, TerrainMountains},
	{"black-forest", 47.5, 48.9, 7.5, 8.6, TerrainMountains},
	{"harz", 51.5, 51.95, 10.2, 11.2, TerrainMountains},
	{"ruhr", 51.2, 51.7, 6.5, 7.8, TerrainUrban},
	{"rhine-main", 49.8, 50.3, 8.0, 9.0, TerrainUrban},
	{"berlin-brandenburg", 52.2, 52.7, 12.8, 13.9, TerrainUrban},
	{"thuringian-basin", 50.5, 51.3, 10.0, 11.8, TerrainHills},
	{"swabian-jura", 48.2, 48.8, 8.8, 10.3, TerrainHills},
}

// latitude bands catch coordinates outside every named box
var bandTable = []region{
	{"northern-plain", 52.0, 90.0, -180.0, 180.0, TerrainFlat},
	{"central-uplands", 49.5, 52.0, -180.0, 180.0, TerrainHills},
	{"southern-uplands", 47.0, 49.5, -180.0, 180.0, TerrainHills},
}

// ClassifyRegion resolves a coordinate to a named region and its terrain.
// Returns ok=false when the coordinate falls outside every box and band.
func ClassifyRegion(c valueobjects.Coordinate) (string, Terrain, bool) {
	for _, r := range regionTable {
		if r.contains(c) {
			return r.name, r.terrain, true
		}
	}
	for _, r := range bandTable {
		if r.contains(c) {
			return r.name, r.terrain, true
		}
	}
	return "", "", false
}

// terrainFactorAt returns the terrain multiplier for a single coordinate
func terrainFactorAt(c valueobjects.Coordinate) float64 {
	if _, terrain, ok := ClassifyRegion(c); ok {
		return terrain.Factor()
	}
	return defaultTerrainFactor
}

// TerrainFactorBetween returns the terrain multiplier for a leg between two
// coordinates. When the endpoints resolve to different terrains the more
// severe one applies.
func TerrainFactorBetween(a, b valueobjects.Coordinate) float64 {
	fa := terrainFactorAt(a)
	fb := terrainFactorAt(b)
	if fb > fa {
		return fb
	}
	return fa
}
