package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railmap/domain/core/valueobjects"
)

func TestClassifyRegion(t *testing.T) {
	tests := []struct {
		name        string
		coord       valueobjects.Coordinate
		wantRegion  string
		wantTerrain Terrain
		wantOK      bool
	}{
		{"Berlin in metro box", valueobjects.NewCoordinate(13.4050, 52.5200), "berlin-brandenburg", TerrainUrban, true},
		{"Frankfurt in rhine-main box", valueobjects.NewCoordinate(8.6821, 50.1109), "rhine-main", TerrainUrban, true},
		{"Erfurt in thuringian basin", valueobjects.NewCoordinate(11.0299, 50.9848), "thuringian-basin", TerrainHills, true},
		{"Garmisch in alps box", valueobjects.NewCoordinate(11.1, 47.5), "alps", TerrainMountains, true},
		{"Freiburg in black forest box", valueobjects.NewCoordinate(7.85, 47.99), "black-forest", TerrainMountains, true},
		{"Essen in ruhr box", valueobjects.NewCoordinate(7.01, 51.45), "ruhr", TerrainUrban, true},
		{"Hamburg falls through to northern plain", valueobjects.NewCoordinate(9.9937, 53.5511), "northern-plain", TerrainFlat, true},
		{"München falls through to southern uplands", valueobjects.NewCoordinate(11.5820, 48.1351), "southern-uplands", TerrainHills, true},
		{"Köln falls through to central uplands", valueobjects.NewCoordinate(6.9603, 50.9375), "central-uplands", TerrainHills, true},
		{"south of every band", valueobjects.NewCoordinate(12.5, 41.9), "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, terrain, ok := ClassifyRegion(tt.coord)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRegion, region)
			assert.Equal(t, tt.wantTerrain, terrain)
		})
	}
}

func TestRegionBoxesWinOverBands(t *testing.T) {
	// Erfurt is above 49.5 so a band would say hills too, but the box must
	// be the one that answers.
	region, _, ok := ClassifyRegion(valueobjects.NewCoordinate(11.0299, 50.9848))
	require.True(t, ok)
	assert.Equal(t, "thuringian-basin", region)
}

func TestTerrainFactorBetween(t *testing.T) {
	frankfurt := valueobjects.NewCoordinate(8.6821, 50.1109) // urban 1.25
	hamburg := valueobjects.NewCoordinate(9.9937, 53.5511)   // flat 1.00
	rome := valueobjects.NewCoordinate(12.5, 41.9)           // unmatched

	t.Run("more severe endpoint wins", func(t *testing.T) {
		assert.Equal(t, 1.25, TerrainFactorBetween(frankfurt, hamburg))
		assert.Equal(t, 1.25, TerrainFactorBetween(hamburg, frankfurt))
	})

	t.Run("unmatched coordinate uses fallback factor", func(t *testing.T) {
		assert.Equal(t, 1.15, TerrainFactorBetween(rome, hamburg))
	})

	t.Run("both flat", func(t *testing.T) {
		bremen := valueobjects.NewCoordinate(8.8017, 53.0793)
		assert.Equal(t, 1.0, TerrainFactorBetween(hamburg, bremen))
	})
}

func TestTerrainFactor(t *testing.T) {
	assert.Equal(t, 1.0, TerrainFlat.Factor())
	assert.Equal(t, 1.2, TerrainHills.Factor())
	assert.Equal(t, 1.25, TerrainUrban.Factor())
	assert.Equal(t, 1.45, TerrainMountains.Factor())
	assert.Equal(t, 1.15, Terrain("swamp").Factor())
}
