package aggregates

import (
	"encoding/json"

	"railmap/domain/core/valueobjects"
)

// NetworkState is a deep, detached copy of everything a Network owns. It is
// what version history snapshots and the persistence layer exchange with
// the aggregate; it never aliases the aggregate's internal maps.
type NetworkState struct {
	Cities      map[string]valueobjects.Coordinate
	Connections []valueobjects.CityPair
	Classes     map[valueobjects.CityPair]valueobjects.TransportClass
	Overrides   map[valueobjects.CityPair]int
	Daybreaks   map[valueobjects.CityPair]bool
	ChainNames  map[int]string
	ZoomStates  []json.RawMessage
}

// Clone returns an independent deep copy of the state
func (s NetworkState) Clone() NetworkState {
	clone := NetworkState{
		Cities:      make(map[string]valueobjects.Coordinate, len(s.Cities)),
		Connections: make([]valueobjects.CityPair, len(s.Connections)),
		Classes:     make(map[valueobjects.CityPair]valueobjects.TransportClass, len(s.Classes)),
		Overrides:   make(map[valueobjects.CityPair]int, len(s.Overrides)),
		Daybreaks:   make(map[valueobjects.CityPair]bool, len(s.Daybreaks)),
		ChainNames:  make(map[int]string, len(s.ChainNames)),
		ZoomStates:  make([]json.RawMessage, len(s.ZoomStates)),
	}
	for name, coord := range s.Cities {
		clone.Cities[name] = coord
	}
	copy(clone.Connections, s.Connections)
	for pair, class := range s.Classes {
		clone.Classes[pair] = class
	}
	for pair, minutes := range s.Overrides {
		clone.Overrides[pair] = minutes
	}
	for pair, marked := range s.Daybreaks {
		clone.Daybreaks[pair] = marked
	}
	for idx, name := range s.ChainNames {
		clone.ChainNames[idx] = name
	}
	for i, raw := range s.ZoomStates {
		clone.ZoomStates[i] = append(json.RawMessage(nil), raw...)
	}
	return clone
}

// State returns a deep copy of the network's current state
func (n *Network) State() NetworkState {
	return NetworkState{
		Cities:      n.cities,
		Connections: n.connections,
		Classes:     n.classes,
		Overrides:   n.overrides,
		Daybreaks:   n.daybreaks,
		ChainNames:  n.chainNames,
		ZoomStates:  n.zoomStates,
	}.Clone()
}

// Restore replaces the network's state with a deep copy of the given state
func (n *Network) Restore(state NetworkState) {
	clone := state.Clone()
	n.cities = clone.Cities
	n.connections = clone.Connections
	n.classes = clone.Classes
	n.overrides = clone.Overrides
	n.daybreaks = clone.Daybreaks
	n.chainNames = clone.ChainNames
	n.zoomStates = clone.ZoomStates
}
