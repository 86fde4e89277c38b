package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railmap/domain/core/valueobjects"
)

type countingMetrics struct {
	hits   int
	misses int
}

func (m *countingMetrics) CacheHit()  { m.hits++ }
func (m *countingMetrics) CacheMiss() { m.misses++ }

func TestEstimate(t *testing.T) {
	estimator := NewEstimator(nil)
	frankfurt := valueobjects.NewCoordinate(8.6821, 50.1109)
	berlin := valueobjects.NewCoordinate(13.4050, 52.5200)
	mannheim := valueobjects.NewCoordinate(8.4660, 49.4875)

	t.Run("deterministic", func(t *testing.T) {
		first := estimator.Estimate(frankfurt, berlin, valueobjects.ClassRegional)
		second := estimator.Estimate(frankfurt, berlin, valueobjects.ClassRegional)
		assert.Equal(t, first, second)
	})

	t.Run("symmetric in endpoints", func(t *testing.T) {
		assert.Equal(t,
			estimator.Estimate(frankfurt, berlin, valueobjects.ClassHighSpeed),
			estimator.Estimate(berlin, frankfurt, valueobjects.ClassHighSpeed))
	})

	t.Run("zero for identical coordinates", func(t *testing.T) {
		assert.Equal(t, 0, estimator.Estimate(berlin, berlin, valueobjects.ClassRegional))
	})

	t.Run("faster class yields shorter time over long distance", func(t *testing.T) {
		ice := estimator.Estimate(frankfurt, berlin, valueobjects.ClassHighSpeed)
		sbahn := estimator.Estimate(frankfurt, berlin, valueobjects.ClassSuburban)
		assert.Less(t, ice, sbahn)
	})

	t.Run("positive for a short hop", func(t *testing.T) {
		assert.Greater(t, estimator.Estimate(frankfurt, mannheim, valueobjects.ClassHighSpeed), 0)
	})
}

func TestEstimateConnectionCaching(t *testing.T) {
	metrics := &countingMetrics{}
	estimator := NewEstimator(metrics)

	frankfurt := valueobjects.NewCoordinate(8.6821, 50.1109)
	berlin := valueobjects.NewCoordinate(13.4050, 52.5200)
	pair := valueobjects.NewCityPair("Frankfurt", "Berlin")

	first := estimator.EstimateConnection(pair, frankfurt, berlin, valueobjects.ClassRegional)
	require.Equal(t, 1, metrics.misses)
	require.Equal(t, 0, metrics.hits)
	require.Equal(t, 1, estimator.CachedCount())

	second := estimator.EstimateConnection(pair, frankfurt, berlin, valueobjects.ClassRegional)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 1, metrics.hits)
}

func TestEstimatorInvalidation(t *testing.T) {
	estimator := NewEstimator(nil)
	frankfurt := valueobjects.NewCoordinate(8.6821, 50.1109)
	berlin := valueobjects.NewCoordinate(13.4050, 52.5200)
	hamburg := valueobjects.NewCoordinate(9.9937, 53.5511)

	fb := valueobjects.NewCityPair("Frankfurt", "Berlin")
	bh := valueobjects.NewCityPair("Berlin", "Hamburg")
	fh := valueobjects.NewCityPair("Frankfurt", "Hamburg")

	estimator.EstimateConnection(fb, frankfurt, berlin, valueobjects.ClassRegional)
	estimator.EstimateConnection(bh, berlin, hamburg, valueobjects.ClassRegional)
	estimator.EstimateConnection(fh, frankfurt, hamburg, valueobjects.ClassRegional)
	require.Equal(t, 3, estimator.CachedCount())

	t.Run("invalidate pair", func(t *testing.T) {
		estimator.InvalidatePair(fb)
		assert.Equal(t, 2, estimator.CachedCount())
	})

	t.Run("invalidate city drops every pair touching it", func(t *testing.T) {
		estimator.InvalidateCity("Hamburg")
		assert.Equal(t, 0, estimator.CachedCount())
	})

	t.Run("reset", func(t *testing.T) {
		estimator.EstimateConnection(fb, frankfurt, berlin, valueobjects.ClassRegional)
		estimator.Reset()
		assert.Equal(t, 0, estimator.CachedCount())
	})
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0 min"},
		{45, "45 min"},
		{59, "59 min"},
		{60, "1h 0m"},
		{90, "1h 30m"},
		{125, "2h 5m"},
		{600, "10h 0m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.minutes))
	}
}
