package services

import (
	"sort"

	"railmap/domain/core/valueobjects"
)

// Chain is an ordered list of connections in which consecutive connections
// share an endpoint. Chains are derived on demand and never persisted.
type Chain []valueobjects.CityPair

// ChainDecomposer partitions a connection set into maximal chains, cutting
// wherever a traversed edge carries a daybreak marker.
type ChainDecomposer struct{}

// NewChainDecomposer creates a decomposer
func NewChainDecomposer() ChainDecomposer {
	return ChainDecomposer{}
}

// walkFrame is one level of the iterative depth-first walk: a city and the
// index of the next neighbour to try.
type walkFrame struct {
	city string
	next int
}

// Decompose walks the connection graph and emits chains. Cities and their
// neighbours are visited in lexicographic order so output is deterministic
// for a given connection set. A city without connections yields no chain.
//
// Traversal is iterative with an explicit frame stack; edge visitation (not
// city visitation) decides what has been emitted, since a city can appear
// in several chains once breaks are involved.
func (ChainDecomposer) Decompose(connections []valueobjects.CityPair, isBreak func(valueobjects.CityPair) bool) []Chain {
	if isBreak == nil {
		isBreak = func(valueobjects.CityPair) bool { return false }
	}

	adjacency := make(map[string][]string)
	for _, pair := range connections {
		if pair.IsSelfLoop() {
			continue
		}
		adjacency[pair.A] = append(adjacency[pair.A], pair.B)
		adjacency[pair.B] = append(adjacency[pair.B], pair.A)
	}

	cities := make([]string, 0, len(adjacency))
	for city := range adjacency {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	for _, city := range cities {
		sort.Strings(adjacency[city])
	}

	visitedEdge := make(map[valueobjects.CityPair]bool, len(connections))
	visitedCity := make(map[string]bool, len(adjacency))
	var chains []Chain

	for _, start := range cities {
		if visitedCity[start] {
			continue
		}
		visitedCity[start] = true

		stack := []walkFrame{{city: start}}
		var buffer Chain

		for len(stack) > 0 {
			frame := &stack[len(stack)-1]
			neighbours := adjacency[frame.city]
			if frame.next >= len(neighbours) {
				stack = stack[:len(stack)-1]
				continue
			}
			neighbour := neighbours[frame.next]
			frame.next++

			pair := valueobjects.NewCityPair(frame.city, neighbour)
			if visitedEdge[pair] {
				continue
			}
			visitedEdge[pair] = true

			buffer = append(buffer, pair)
			if isBreak(pair) {
				// Close the chain at the break and restart at the far
				// endpoint of the marked edge.
				chains = append(chains, buffer)
				buffer = nil
			}

			if !visitedCity[neighbour] {
				visitedCity[neighbour] = true
				stack = append(stack, walkFrame{city: neighbour})
			}
		}

		if len(buffer) > 0 {
			chains = append(chains, buffer)
		}
	}

	return chains
}

// TotalMinutes sums per-connection travel times over a chain using the
// supplied resolver.
func (ChainDecomposer) TotalMinutes(chain Chain, minutesFor func(valueobjects.CityPair) int) int {
	total := 0
	for _, pair := range chain {
		total += minutesFor(pair)
	}
	return total
}
