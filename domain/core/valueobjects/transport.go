package valueobjects

import "fmt"

// TransportClass is the service class of a connection. It governs the
// speed, route-curvature and stop-frequency factors of the travel-time
// model.
type TransportClass string

const (
	// ClassHighSpeed is long-distance high-speed service.
	ClassHighSpeed TransportClass = "ice"
	// ClassIntercity is conventional long-distance service.
	ClassIntercity TransportClass = "ic"
	// ClassRegional is regional service and the default for new connections.
	ClassRegional TransportClass = "re"
	// ClassSuburban is dense suburban service.
	ClassSuburban TransportClass = "sbahn"
)

// DefaultTransportClass applies when a connection carries no explicit class.
const DefaultTransportClass = ClassRegional

// classFactors holds the per-class constants of the estimation model.
type classFactors struct {
	speed       float64 // multiplier on the 100 km/h reference speed
	curvature   float64 // straight-line to rail-path correction, >= 1
	stopsPer100 float64 // typical intermediate stops per 100 km
	dwellMin    float64 // dwell minutes per stop
}

var transportClassFactors = map[TransportClass]classFactors{
	ClassHighSpeed: {speed: 2.3, curvature: 1.08, stopsPer100: 0.4, dwellMin: 3.0},
	ClassIntercity: {speed: 1.6, curvature: 1.15, stopsPer100: 1.2, dwellMin: 2.0},
	ClassRegional:  {speed: 1.0, curvature: 1.22, stopsPer100: 3.0, dwellMin: 1.0},
	ClassSuburban:  {speed: 0.8, curvature: 1.30, stopsPer100: 6.0, dwellMin: 0.7},
}

// IsValid reports whether the class is a known transport class
func (t TransportClass) IsValid() bool {
	_, ok := transportClassFactors[t]
	return ok
}

// String returns the class tag
func (t TransportClass) String() string {
	return string(t)
}

func (t TransportClass) factors() classFactors {
	if f, ok := transportClassFactors[t]; ok {
		return f
	}
	return transportClassFactors[DefaultTransportClass]
}

// SpeedFactor returns the multiplier on the base reference speed
func (t TransportClass) SpeedFactor() float64 {
	return t.factors().speed
}

// CurvatureFactor returns the straight-line-to-rail-path correction
func (t TransportClass) CurvatureFactor() float64 {
	return t.factors().curvature
}

// StopsPer100Km returns the typical intermediate stop count per 100 km
func (t TransportClass) StopsPer100Km() float64 {
	return t.factors().stopsPer100
}

// DwellMinutes returns the dwell time per intermediate stop in minutes
func (t TransportClass) DwellMinutes() float64 {
	return t.factors().dwellMin
}

// ParseTransportClass parses a class tag. An empty tag resolves to the
// default class.
func ParseTransportClass(tag string) (TransportClass, error) {
	if tag == "" {
		return DefaultTransportClass, nil
	}
	class := TransportClass(tag)
	if !class.IsValid() {
		return "", fmt.Errorf("unknown transport class %q", tag)
	}
	return class, nil
}

// TransportClasses returns all known classes in severity order, fastest
// first.
func TransportClasses() []TransportClass {
	return []TransportClass{ClassHighSpeed, ClassIntercity, ClassRegional, ClassSuburban}
}
