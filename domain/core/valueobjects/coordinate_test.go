package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	frankfurt := NewCoordinate(8.6821, 50.1109)
	mannheim := NewCoordinate(8.4660, 49.4875)
	berlin := NewCoordinate(13.4050, 52.5200)

	t.Run("known distance Frankfurt to Mannheim", func(t *testing.T) {
		assert.InDelta(t, 71.0, frankfurt.DistanceKm(mannheim), 0.5)
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, frankfurt.DistanceKm(berlin), berlin.DistanceKm(frankfurt))
	})

	t.Run("zero for identical coordinates", func(t *testing.T) {
		assert.Equal(t, 0.0, frankfurt.DistanceKm(frankfurt))
	})

	t.Run("positive for distinct coordinates", func(t *testing.T) {
		assert.Greater(t, frankfurt.DistanceKm(berlin), 0.0)
	})
}

func TestCoordinateEquals(t *testing.T) {
	a := NewCoordinate(8.6821, 50.1109)
	b := NewCoordinate(8.6821, 50.1109)
	c := NewCoordinate(8.6821, 50.1110)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
