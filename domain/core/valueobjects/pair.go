package valueobjects

// CityPair is an unordered pair of city names identifying a connection.
// The pair is normalized on construction so that A < B lexicographically,
// which makes it usable as a map key regardless of the order the endpoints
// were supplied in.
type CityPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewCityPair creates a normalized unordered pair
func NewCityPair(a, b string) CityPair {
	if b < a {
		a, b = b, a
	}
	return CityPair{A: a, B: b}
}

// Equals checks pair equality in either endpoint order
func (p CityPair) Equals(other CityPair) bool {
	return p == other || (p.A == other.B && p.B == other.A)
}

// Contains reports whether city is one of the pair's endpoints
func (p CityPair) Contains(city string) bool {
	return p.A == city || p.B == city
}

// Other returns the opposite endpoint to city. The second return value is
// false when city is not an endpoint of this pair.
func (p CityPair) Other(city string) (string, bool) {
	switch city {
	case p.A:
		return p.B, true
	case p.B:
		return p.A, true
	default:
		return "", false
	}
}

// IsSelfLoop reports whether both endpoints name the same city
func (p CityPair) IsSelfLoop() bool {
	return p.A == p.B
}

// String returns a display form of the pair
func (p CityPair) String() string {
	return p.A + " - " + p.B
}
