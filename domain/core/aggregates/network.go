package aggregates

import (
	"encoding/json"
	"sort"

	"railmap/domain/core/valueobjects"
	apperrors "railmap/pkg/errors"
)

// Network is the aggregate root for the rail network. It owns the
// authoritative sets of cities, connections and per-connection attributes
// (transport class, explicit travel-time override, daybreak marker) and is
// the consistency boundary for every structural mutation.
//
// The aggregate is not safe for concurrent use; callers serialize access
// (see application/services.RouteService).
type Network struct {
	cities      map[string]valueobjects.Coordinate
	connections []valueobjects.CityPair
	classes     map[valueobjects.CityPair]valueobjects.TransportClass
	overrides   map[valueobjects.CityPair]int
	daybreaks   map[valueobjects.CityPair]bool
	chainNames  map[int]string
	zoomStates  []json.RawMessage
}

// MutationResult reports the connection pairs a structural mutation removed
// and added, so callers can invalidate derived caches precisely.
type MutationResult struct {
	Removed []valueobjects.CityPair
	Added   []valueobjects.CityPair
}

// NewNetwork creates an empty network
func NewNetwork() *Network {
	return &Network{
		cities:     make(map[string]valueobjects.Coordinate),
		classes:    make(map[valueobjects.CityPair]valueobjects.TransportClass),
		overrides:  make(map[valueobjects.CityPair]int),
		daybreaks:  make(map[valueobjects.CityPair]bool),
		chainNames: make(map[int]string),
	}
}

// AddCity inserts or overwrites a city. Overwriting an existing city with
// new coordinates is the coordinate-edit path and is always allowed.
func (n *Network) AddCity(name string, coord valueobjects.Coordinate) {
	n.cities[name] = coord
}

// UpdateCityCoordinates moves an existing city
func (n *Network) UpdateCityCoordinates(name string, coord valueobjects.Coordinate) error {
	if _, ok := n.cities[name]; !ok {
		return apperrors.NewNotFoundError("city " + name)
	}
	n.cities[name] = coord
	return nil
}

// RemoveCity removes a city and all its incident connections, then
// reconnects every pair of former direct neighbours that is not already
// connected, preserving connectivity of the remainder of the network.
func (n *Network) RemoveCity(name string) (MutationResult, error) {
	var result MutationResult
	if _, ok := n.cities[name]; !ok {
		return result, apperrors.NewNotFoundError("city " + name)
	}
	delete(n.cities, name)

	var neighbours []string
	remaining := n.connections[:0:0]
	for _, pair := range n.connections {
		if other, ok := pair.Other(name); ok {
			neighbours = append(neighbours, other)
			result.Removed = append(result.Removed, pair)
			delete(n.classes, pair)
			delete(n.overrides, pair)
			delete(n.daybreaks, pair)
			continue
		}
		remaining = append(remaining, pair)
	}
	n.connections = remaining

	// Star-to-clique reconnection between the removed city's neighbours.
	sort.Strings(neighbours)
	for i, a := range neighbours {
		for _, b := range neighbours[i+1:] {
			if a == b || n.HasConnection(a, b) {
				continue
			}
			pair := valueobjects.NewCityPair(a, b)
			n.connections = append(n.connections, pair)
			result.Added = append(result.Added, pair)
		}
	}

	return result, nil
}

// RemoveCities removes every named city in turn, ignoring ones that are
// already gone. Used for bulk removal of the seeded default cities.
func (n *Network) RemoveCities(names []string) MutationResult {
	var result MutationResult
	for _, name := range names {
		r, err := n.RemoveCity(name)
		if err != nil {
			continue
		}
		result.Removed = append(result.Removed, r.Removed...)
		result.Added = append(result.Added, r.Added...)
	}
	return result
}

// AddConnection adds a connection between two existing cities
func (n *Network) AddConnection(a, b string, class valueobjects.TransportClass) error {
	if a == b {
		return apperrors.NewValidationError("a city cannot be connected to itself")
	}
	if _, ok := n.cities[a]; !ok {
		return apperrors.NewNotFoundError("city " + a)
	}
	if _, ok := n.cities[b]; !ok {
		return apperrors.NewNotFoundError("city " + b)
	}
	if n.HasConnection(a, b) {
		return apperrors.NewConflictError("this connection already exists")
	}

	if class != "" && !class.IsValid() {
		return apperrors.NewValidationErrorf("unknown transport class %q", class)
	}

	pair := valueobjects.NewCityPair(a, b)
	n.connections = append(n.connections, pair)
	if class != "" && class != valueobjects.DefaultTransportClass {
		n.classes[pair] = class
	}
	return nil
}

// RemoveConnection removes a connection and drops its transport class,
// duration override and daybreak marker.
func (n *Network) RemoveConnection(a, b string) error {
	pair := valueobjects.NewCityPair(a, b)
	idx := -1
	for i, p := range n.connections {
		if p == pair {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.NewNotFoundError("connection " + pair.String())
	}

	n.connections = append(n.connections[:idx], n.connections[idx+1:]...)
	delete(n.classes, pair)
	delete(n.overrides, pair)
	delete(n.daybreaks, pair)
	return nil
}

// ReplaceConnections swaps the entire connection set for the given pairs,
// de-duplicating by unordered pair. Attributes keyed on surviving pairs are
// kept; attributes for pairs no longer present are left in place so a later
// re-add picks them up again (mirrors the permissive daybreak behaviour).
func (n *Network) ReplaceConnections(pairs []valueobjects.CityPair) {
	n.connections = n.connections[:0]
	seen := make(map[valueobjects.CityPair]bool, len(pairs))
	for _, p := range pairs {
		pair := valueobjects.NewCityPair(p.A, p.B)
		if pair.IsSelfLoop() || seen[pair] {
			continue
		}
		seen[pair] = true
		n.connections = append(n.connections, pair)
	}
}

// SetTransportClass assigns a transport class to an existing connection
func (n *Network) SetTransportClass(a, b string, class valueobjects.TransportClass) error {
	if !class.IsValid() {
		return apperrors.NewValidationErrorf("unknown transport class %q", class)
	}
	pair := valueobjects.NewCityPair(a, b)
	if !n.hasPair(pair) {
		return apperrors.NewNotFoundError("connection " + pair.String())
	}
	n.classes[pair] = class
	return nil
}

// TransportClassFor returns the connection's class, or the default class
// when none was assigned.
func (n *Network) TransportClassFor(a, b string) valueobjects.TransportClass {
	if class, ok := n.classes[valueobjects.NewCityPair(a, b)]; ok {
		return class
	}
	return valueobjects.DefaultTransportClass
}

// SetDurationOverride sets an explicit travel time in minutes for a
// connection, replacing estimation for that pair.
func (n *Network) SetDurationOverride(a, b string, minutes int) error {
	if minutes <= 0 {
		return apperrors.NewValidationError("travel time must be a positive number of minutes")
	}
	pair := valueobjects.NewCityPair(a, b)
	if !n.hasPair(pair) {
		return apperrors.NewValidationError("no connection exists for " + pair.String())
	}
	n.overrides[pair] = minutes
	return nil
}

// ClearDurationOverride removes an explicit travel time. Idempotent.
func (n *Network) ClearDurationOverride(a, b string) {
	delete(n.overrides, valueobjects.NewCityPair(a, b))
}

// DurationOverride returns the explicit travel time for a pair, if set
func (n *Network) DurationOverride(a, b string) (int, bool) {
	minutes, ok := n.overrides[valueobjects.NewCityPair(a, b)]
	return minutes, ok
}

// MarkDaybreak marks a connection as a chain break. Deliberately permissive:
// the pair is not validated against the connection set, so a marker can
// outlive (or predate) its connection.
func (n *Network) MarkDaybreak(a, b string) {
	n.daybreaks[valueobjects.NewCityPair(a, b)] = true
}

// UnmarkDaybreak clears a chain break marker. Idempotent.
func (n *Network) UnmarkDaybreak(a, b string) {
	delete(n.daybreaks, valueobjects.NewCityPair(a, b))
}

// HasDaybreak reports whether the pair carries a break marker
func (n *Network) HasDaybreak(pair valueobjects.CityPair) bool {
	return n.daybreaks[pair]
}

// HasCity reports whether the city exists
func (n *Network) HasCity(name string) bool {
	_, ok := n.cities[name]
	return ok
}

// CityCoordinate returns a city's coordinate
func (n *Network) CityCoordinate(name string) (valueobjects.Coordinate, error) {
	coord, ok := n.cities[name]
	if !ok {
		return valueobjects.Coordinate{}, apperrors.NewNotFoundError("city " + name)
	}
	return coord, nil
}

// HasConnection reports whether a connection exists in either order
func (n *Network) HasConnection(a, b string) bool {
	return n.hasPair(valueobjects.NewCityPair(a, b))
}

func (n *Network) hasPair(pair valueobjects.CityPair) bool {
	for _, p := range n.connections {
		if p == pair {
			return true
		}
	}
	return false
}

// CityNames returns all city names in lexicographic order
func (n *Network) CityNames() []string {
	names := make([]string, 0, len(n.cities))
	for name := range n.cities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cities returns a copy of the city map
func (n *Network) Cities() map[string]valueobjects.Coordinate {
	cities := make(map[string]valueobjects.Coordinate, len(n.cities))
	for name, coord := range n.cities {
		cities[name] = coord
	}
	return cities
}

// Connections returns a copy of the ordered connection list
func (n *Network) Connections() []valueobjects.CityPair {
	conns := make([]valueobjects.CityPair, len(n.connections))
	copy(conns, n.connections)
	return conns
}

// ConnectionCount returns the number of connections
func (n *Network) ConnectionCount() int {
	return len(n.connections)
}

// Daybreaks returns a copy of the break-marker set
func (n *Network) Daybreaks() map[valueobjects.CityPair]bool {
	breaks := make(map[valueobjects.CityPair]bool, len(n.daybreaks))
	for pair, v := range n.daybreaks {
		breaks[pair] = v
	}
	return breaks
}

// ChainName returns the user-assigned display name for a chain index
func (n *Network) ChainName(index int) (string, bool) {
	name, ok := n.chainNames[index]
	return name, ok
}

// SetChainName assigns a display name to a chain index. An empty name
// clears the assignment.
func (n *Network) SetChainName(index int, name string) {
	if name == "" {
		delete(n.chainNames, index)
		return
	}
	n.chainNames[index] = name
}

// ZoomStates returns the opaque zoom-state passthrough list
func (n *Network) ZoomStates() []json.RawMessage {
	states := make([]json.RawMessage, len(n.zoomStates))
	copy(states, n.zoomStates)
	return states
}

// SetZoomStates replaces the opaque zoom-state passthrough list
func (n *Network) SetZoomStates(states []json.RawMessage) {
	n.zoomStates = make([]json.RawMessage, len(states))
	copy(n.zoomStates, states)
}
