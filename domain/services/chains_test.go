package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railmap/domain/core/valueobjects"
)

func pairs(names ...string) []valueobjects.CityPair {
	var out []valueobjects.CityPair
	for i := 0; i+1 < len(names); i += 2 {
		out = append(out, valueobjects.NewCityPair(names[i], names[i+1]))
	}
	return out
}

func edgeCount(chains []Chain) int {
	total := 0
	for _, chain := range chains {
		total += len(chain)
	}
	return total
}

func TestDecompose(t *testing.T) {
	decomposer := NewChainDecomposer()

	t.Run("empty network yields no chains", func(t *testing.T) {
		assert.Empty(t, decomposer.Decompose(nil, nil))
	})

	t.Run("line without breaks is one chain", func(t *testing.T) {
		connections := pairs("Aachen", "Bonn", "Bonn", "Celle", "Celle", "Dresden")
		chains := decomposer.Decompose(connections, nil)
		require.Len(t, chains, 1)
		assert.Len(t, chains[0], 3)
	})

	t.Run("break splits the line in two", func(t *testing.T) {
		connections := pairs("Aachen", "Bonn", "Bonn", "Celle", "Celle", "Dresden")
		breakPair := valueobjects.NewCityPair("Bonn", "Celle")
		chains := decomposer.Decompose(connections, func(p valueobjects.CityPair) bool {
			return p == breakPair
		})

		require.Len(t, chains, 2)
		// The marked edge closes the first chain.
		assert.Equal(t, pairs("Aachen", "Bonn", "Bonn", "Celle"), []valueobjects.CityPair(chains[0]))
		assert.Equal(t, pairs("Celle", "Dresden"), []valueobjects.CityPair(chains[1]))
	})

	t.Run("break on the first edge", func(t *testing.T) {
		connections := pairs("Aachen", "Bonn", "Bonn", "Celle")
		breakPair := valueobjects.NewCityPair("Aachen", "Bonn")
		chains := decomposer.Decompose(connections, func(p valueobjects.CityPair) bool {
			return p == breakPair
		})

		require.Len(t, chains, 2)
		assert.Equal(t, pairs("Aachen", "Bonn"), []valueobjects.CityPair(chains[0]))
		assert.Equal(t, pairs("Bonn", "Celle"), []valueobjects.CityPair(chains[1]))
	})

	t.Run("every connection appears exactly once", func(t *testing.T) {
		connections := pairs(
			"Aachen", "Bonn", "Bonn", "Celle", "Celle", "Dresden",
			"Bonn", "Emden", "Emden", "Fulda",
		)
		chains := decomposer.Decompose(connections, nil)

		seen := make(map[valueobjects.CityPair]int)
		for _, chain := range chains {
			for _, pair := range chain {
				seen[pair]++
			}
		}
		assert.Len(t, seen, len(connections))
		for pair, count := range seen {
			assert.Equal(t, 1, count, pair.String())
		}
	})

	t.Run("cycle emits all its edges", func(t *testing.T) {
		connections := pairs("Aachen", "Bonn", "Bonn", "Celle", "Aachen", "Celle")
		chains := decomposer.Decompose(connections, nil)
		assert.Equal(t, 3, edgeCount(chains))
	})

	t.Run("disconnected components yield separate chains", func(t *testing.T) {
		connections := pairs("Aachen", "Bonn", "Celle", "Dresden")
		chains := decomposer.Decompose(connections, nil)
		require.Len(t, chains, 2)
	})

	t.Run("self loops are ignored", func(t *testing.T) {
		connections := append(pairs("Aachen", "Bonn"), valueobjects.NewCityPair("Celle", "Celle"))
		chains := decomposer.Decompose(connections, nil)
		require.Len(t, chains, 1)
		assert.Len(t, chains[0], 1)
	})

	t.Run("deterministic for shuffled input", func(t *testing.T) {
		forward := pairs("Aachen", "Bonn", "Bonn", "Celle", "Celle", "Dresden")
		backward := pairs("Celle", "Dresden", "Bonn", "Celle", "Aachen", "Bonn")
		assert.Equal(t,
			decomposer.Decompose(forward, nil),
			decomposer.Decompose(backward, nil))
	})
}

func TestTotalMinutes(t *testing.T) {
	decomposer := NewChainDecomposer()
	chain := Chain(pairs("Aachen", "Bonn", "Bonn", "Celle"))

	total := decomposer.TotalMinutes(chain, func(p valueobjects.CityPair) int {
		if p == valueobjects.NewCityPair("Aachen", "Bonn") {
			return 30
		}
		return 45
	})
	assert.Equal(t, 75, total)

	assert.Equal(t, 0, decomposer.TotalMinutes(nil, func(valueobjects.CityPair) int { return 99 }))
}
