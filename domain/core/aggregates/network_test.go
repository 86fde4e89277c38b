package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railmap/domain/core/valueobjects"
	apperrors "railmap/pkg/errors"
)

func newTestNetwork(t *testing.T) *Network {
	t.Helper()
	n := NewNetwork()
	n.AddCity("Aachen", valueobjects.NewCoordinate(6.0839, 50.7753))
	n.AddCity("Bonn", valueobjects.NewCoordinate(7.0982, 50.7374))
	n.AddCity("Celle", valueobjects.NewCoordinate(10.0805, 52.6226))
	n.AddCity("Dresden", valueobjects.NewCoordinate(13.7373, 51.0504))
	return n
}

func TestAddConnection(t *testing.T) {
	t.Run("links two existing cities", func(t *testing.T) {
		n := newTestNetwork(t)
		require.NoError(t, n.AddConnection("Aachen", "Bonn", ""))
		assert.True(t, n.HasConnection("Aachen", "Bonn"))
		assert.True(t, n.HasConnection("Bonn", "Aachen"))
	})

	t.Run("rejects self loop", func(t *testing.T) {
		n := newTestNetwork(t)
		err := n.AddConnection("Aachen", "Aachen", "")
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects unknown city", func(t *testing.T) {
		n := newTestNetwork(t)
		err := n.AddConnection("Aachen", "Zwickau", "")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("rejects duplicate in either order", func(t *testing.T) {
		n := newTestNetwork(t)
		require.NoError(t, n.AddConnection("Aachen", "Bonn", ""))

		err := n.AddConnection("Aachen", "Bonn", "")
		assert.True(t, apperrors.IsConflict(err))

		err = n.AddConnection("Bonn", "Aachen", "")
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, 1, n.ConnectionCount())
	})

	t.Run("rejects unknown transport class without adding", func(t *testing.T) {
		n := newTestNetwork(t)
		err := n.AddConnection("Aachen", "Bonn", valueobjects.TransportClass("maglev"))
		assert.True(t, apperrors.IsValidation(err))
		assert.False(t, n.HasConnection("Aachen", "Bonn"))
	})

	t.Run("stores explicit class", func(t *testing.T) {
		n := newTestNetwork(t)
		require.NoError(t, n.AddConnection("Aachen", "Bonn", valueobjects.ClassHighSpeed))
		assert.Equal(t, valueobjects.ClassHighSpeed, n.TransportClassFor("Aachen", "Bonn"))
	})

	t.Run("default class when none assigned", func(t *testing.T) {
		n := newTestNetwork(t)
		require.NoError(t, n.AddConnection("Aachen", "Bonn", ""))
		assert.Equal(t, valueobjects.DefaultTransportClass, n.TransportClassFor("Aachen", "Bonn"))
	})
}

func TestRemoveConnection(t *testing.T) {
	n := newTestNetwork(t)
	require.NoError(t, n.AddConnection("Aachen", "Bonn", valueobjects.ClassHighSpeed))
	require.NoError(t, n.SetDurationOverride("Aachen", "Bonn", 30))
	n.MarkDaybreak("Aachen", "Bonn")

	require.NoError(t, n.RemoveConnection("Bonn", "Aachen"))
	assert.False(t, n.HasConnection("Aachen", "Bonn"))

	// Attributes of the removed pair are gone too.
	_, ok := n.DurationOverride("Aachen", "Bonn")
	assert.False(t, ok)
	assert.False(t, n.HasDaybreak(valueobjects.NewCityPair("Aachen", "Bonn")))
	assert.Equal(t, valueobjects.DefaultTransportClass, n.TransportClassFor("Aachen", "Bonn"))

	err := n.RemoveConnection("Aachen", "Bonn")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveCityReconnectsNeighbours(t *testing.T) {
	// Star around Bonn: removing the hub must leave the former neighbours
	// pairwise connected.
	n := newTestNetwork(t)
	require.NoError(t, n.AddConnection("Bonn", "Aachen", ""))
	require.NoError(t, n.AddConnection("Bonn", "Celle", ""))
	require.NoError(t, n.AddConnection("Bonn", "Dresden", ""))

	result, err := n.RemoveCity("Bonn")
	require.NoError(t, err)

	assert.False(t, n.HasCity("Bonn"))
	assert.Len(t, result.Removed, 3)
	assert.Len(t, result.Added, 3)
	assert.True(t, n.HasConnection("Aachen", "Celle"))
	assert.True(t, n.HasConnection("Aachen", "Dresden"))
	assert.True(t, n.HasConnection("Celle", "Dresden"))
}

func TestRemoveCityKeepsExistingConnections(t *testing.T) {
	n := newTestNetwork(t)
	require.NoError(t, n.AddConnection("Bonn", "Aachen", ""))
	require.NoError(t, n.AddConnection("Bonn", "Celle", ""))
	require.NoError(t, n.AddConnection("Aachen", "Celle", ""))

	result, err := n.RemoveCity("Bonn")
	require.NoError(t, err)

	// Aachen and Celle were already linked, so nothing is added.
	assert.Empty(t, result.Added)
	assert.Equal(t, 1, n.ConnectionCount())
}

func TestRemoveCityUnknown(t *testing.T) {
	n := newTestNetwork(t)
	_, err := n.RemoveCity("Zwickau")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveCities(t *testing.T) {
	n := newTestNetwork(t)
	require.NoError(t, n.AddConnection("Aachen", "Bonn", ""))

	result := n.RemoveCities([]string{"Aachen", "Zwickau", "Bonn"})
	assert.False(t, n.HasCity("Aachen"))
	assert.False(t, n.HasCity("Bonn"))
	assert.Len(t, result.Removed, 1)
}

func TestUpdateCityCoordinates(t *testing.T) {
	n := newTestNetwork(t)
	moved := valueobjects.NewCoordinate(6.1, 50.8)

	require.NoError(t, n.UpdateCityCoordinates("Aachen", moved))
	coord, err := n.CityCoordinate("Aachen")
	require.NoError(t, err)
	assert.True(t, coord.Equals(moved))

	err = n.UpdateCityCoordinates("Zwickau", moved)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDurationOverride(t *testing.T) {
	n := newTestNetwork(t)
	require.NoError(t, n.AddConnection("Aachen", "Bonn", ""))

	t.Run("rejects non-positive minutes", func(t *testing.T) {
		assert.True(t, apperrors.IsValidation(n.SetDurationOverride("Aachen", "Bonn", 0)))
		assert.True(t, apperrors.IsValidation(n.SetDurationOverride("Aachen", "Bonn", -5)))
	})

	t.Run("rejects missing connection", func(t *testing.T) {
		err := n.SetDurationOverride("Aachen", "Celle", 30)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("set and clear", func(t *testing.T) {
		require.NoError(t, n.SetDurationOverride("Bonn", "Aachen", 42))
		minutes, ok := n.DurationOverride("Aachen", "Bonn")
		require.True(t, ok)
		assert.Equal(t, 42, minutes)

		n.ClearDurationOverride("Aachen", "Bonn")
		_, ok = n.DurationOverride("Aachen", "Bonn")
		assert.False(t, ok)
	})
}

func TestDaybreakIsPermissive(t *testing.T) {
	n := newTestNetwork(t)

	// No connection needed; the marker set is independent.
	n.MarkDaybreak("Aachen", "Zwickau")
	assert.True(t, n.HasDaybreak(valueobjects.NewCityPair("Zwickau", "Aachen")))

	n.UnmarkDaybreak("Aachen", "Zwickau")
	assert.False(t, n.HasDaybreak(valueobjects.NewCityPair("Aachen", "Zwickau")))

	// Unmarking twice is fine.
	n.UnmarkDaybreak("Aachen", "Zwickau")
}

func TestReplaceConnections(t *testing.T) {
	n := newTestNetwork(t)
	require.NoError(t, n.AddConnection("Aachen", "Bonn", ""))
	require.NoError(t, n.SetDurationOverride("Aachen", "Bonn", 30))

	n.ReplaceConnections([]valueobjects.CityPair{
		valueobjects.NewCityPair("Bonn", "Aachen"),
		valueobjects.NewCityPair("Aachen", "Bonn"), // duplicate
		valueobjects.NewCityPair("Celle", "Dresden"),
		valueobjects.NewCityPair("Celle", "Celle"), // self loop
	})

	assert.Equal(t, 2, n.ConnectionCount())
	minutes, ok := n.DurationOverride("Aachen", "Bonn")
	require.True(t, ok)
	assert.Equal(t, 30, minutes)
}

func TestStateRoundTrip(t *testing.T) {
	n := newTestNetwork(t)
	require.NoError(t, n.AddConnection("Aachen", "Bonn", valueobjects.ClassIntercity))
	require.NoError(t, n.SetDurationOverride("Aachen", "Bonn", 25))
	n.MarkDaybreak("Aachen", "Bonn")
	n.SetChainName(0, "Westroute")

	state := n.State()

	// Mutating the aggregate must not leak into the captured state.
	require.NoError(t, n.RemoveConnection("Aachen", "Bonn"))
	n.SetChainName(0, "")
	assert.Len(t, state.Connections, 1)
	assert.Equal(t, "Westroute", state.ChainNames[0])

	restored := NewNetwork()
	restored.Restore(state)
	assert.True(t, restored.HasConnection("Aachen", "Bonn"))
	assert.Equal(t, valueobjects.ClassIntercity, restored.TransportClassFor("Aachen", "Bonn"))
	minutes, ok := restored.DurationOverride("Aachen", "Bonn")
	require.True(t, ok)
	assert.Equal(t, 25, minutes)
	assert.True(t, restored.HasDaybreak(valueobjects.NewCityPair("Aachen", "Bonn")))

	name, ok := restored.ChainName(0)
	require.True(t, ok)
	assert.Equal(t, "Westroute", name)
}

func TestSeedDefault(t *testing.T) {
	n := NewNetwork()
	n.SeedDefault()

	assert.Len(t, n.CityNames(), 16)
	assert.Equal(t, 15, n.ConnectionCount())
	assert.True(t, n.HasConnection("Frankfurt", "Mannheim"))

	minutes, ok := n.DurationOverride("Frankfurt", "Mannheim")
	require.True(t, ok)
	assert.Equal(t, 30, minutes)
}
