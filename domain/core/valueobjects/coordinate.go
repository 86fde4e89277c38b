package valueobjects

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Coordinate represents a geographic position in degrees (WGS 84).
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// NewCoordinate creates a coordinate from longitude and latitude in degrees.
func NewCoordinate(lon, lat float64) Coordinate {
	return Coordinate{Lon: lon, Lat: lat}
}

// Equals checks coordinate equality
func (c Coordinate) Equals(other Coordinate) bool {
	return c.Lon == other.Lon && c.Lat == other.Lat
}

// DistanceKm returns the haversine great-circle distance to another
// coordinate in kilometres. Symmetric by construction.
func (c Coordinate) DistanceKm(other Coordinate) float64 {
	lon1 := c.Lon * math.Pi / 180
	lat1 := c.Lat * math.Pi / 180
	lon2 := other.Lon * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180

	dlon := lon2 - lon1
	dlat := lat2 - lat1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	centralAngle := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * centralAngle
}
