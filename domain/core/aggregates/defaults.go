package aggregates

import "railmap/domain/core/valueobjects"

// defaultCities is the seed network of German cities used when no saved
// data exists.
var defaultCities = map[string]valueobjects.Coordinate{
	"Frankfurt":   {Lon: 8.6821, Lat: 50.1109},
	"Mannheim":    {Lon: 8.4660, Lat: 49.4875},
	"München":     {Lon: 11.5820, Lat: 48.1351},
	"Erfurt":      {Lon: 11.0299, Lat: 50.9848},
	"Leipzig":     {Lon: 12.3731, Lat: 51.3397},
	"Potsdam":     {Lon: 13.0635, Lat: 52.3989},
	"Berlin":      {Lon: 13.4050, Lat: 52.5200},
	"Magdeburg":   {Lon: 11.6276, Lat: 52.1205},
	"Hannover":    {Lon: 9.7320, Lat: 52.3759},
	"Bremen":      {Lon: 8.8017, Lat: 53.0793},
	"Hamburg":     {Lon: 9.9937, Lat: 53.5511},
	"Schwerin":    {Lon: 11.4074, Lat: 53.6294},
	"Stralsund":   {Lon: 13.0810, Lat: 54.3091},
	"Köln":        {Lon: 6.9603, Lat: 50.9375},
	"Saarbrücken": {Lon: 6.9969, Lat: 49.2402},
	"Mainz":       {Lon: 8.2473, Lat: 49.9982},
}

// defaultConnections is the seed chain through the default cities.
var defaultConnections = [][2]string{
	{"Frankfurt", "Mannheim"}, {"Mannheim", "München"}, {"München", "Erfurt"},
	{"Erfurt", "Leipzig"}, {"Leipzig", "Potsdam"}, {"Potsdam", "Berlin"},
	{"Berlin", "Magdeburg"}, {"Magdeburg", "Hannover"}, {"Hannover", "Bremen"},
	{"Bremen", "Hamburg"}, {"Hamburg", "Schwerin"}, {"Schwerin", "Stralsund"},
	{"Stralsund", "Köln"}, {"Köln", "Saarbrücken"}, {"Saarbrücken", "Mainz"},
}

// defaultTravelTimes holds curated travel-time overrides in minutes for the
// seed connections.
var defaultTravelTimes = map[[2]string]int{
	{"Frankfurt", "Mannheim"}: 30, {"Mannheim", "München"}: 150,
	{"München", "Erfurt"}: 180, {"Erfurt", "Leipzig"}: 60,
	{"Leipzig", "Potsdam"}: 90, {"Potsdam", "Berlin"}: 30,
	{"Berlin", "Magdeburg"}: 105, {"Magdeburg", "Hannover"}: 90,
	{"Hannover", "Bremen"}: 75, {"Bremen", "Hamburg"}: 60,
	{"Hamburg", "Schwerin"}: 90, {"Schwerin", "Stralsund"}: 120,
	{"Stralsund", "Köln"}: 360, {"Köln", "Saarbrücken"}: 180,
	{"Saarbrücken", "Mainz"}: 90,
}

// SeedDefault populates an empty network with the default cities,
// connections and travel-time overrides.
func (n *Network) SeedDefault() {
	for name, coord := range defaultCities {
		n.AddCity(name, coord)
	}
	for _, conn := range defaultConnections {
		pair := valueobjects.NewCityPair(conn[0], conn[1])
		if !n.hasPair(pair) {
			n.connections = append(n.connections, pair)
		}
	}
	for conn, minutes := range defaultTravelTimes {
		n.overrides[valueobjects.NewCityPair(conn[0], conn[1])] = minutes
	}
}

// DefaultCityNames returns the names of the seeded default cities
func DefaultCityNames() []string {
	names := make([]string, 0, len(defaultCities))
	for name := range defaultCities {
		names = append(names, name)
	}
	return names
}
