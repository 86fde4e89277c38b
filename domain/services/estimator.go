package services

import (
	"fmt"
	"math"
	"sync"

	"railmap/domain/core/valueobjects"
)

// baseSpeedKmh is the reference speed the per-class speed factors scale.
const baseSpeedKmh = 100.0

// CacheMetrics receives estimator cache hit/miss events. Implemented by the
// observability collector; a nil value disables reporting.
type CacheMetrics interface {
	CacheHit()
	CacheMiss()
}

// Estimator computes travel-time estimates between coordinates for a given
// transport class, with a per-instance cache keyed on the unordered city
// pair. The cache must be invalidated by the owner whenever a cached pair's
// inputs change: a coordinate edit, a transport-class change, an override
// set/clear or a connection removal.
type Estimator struct {
	mu      sync.RWMutex
	cache   map[valueobjects.CityPair]int
	metrics CacheMetrics
}

// NewEstimator creates an estimator. metrics may be nil.
func NewEstimator(metrics CacheMetrics) *Estimator {
	return &Estimator{
		cache:   make(map[valueobjects.CityPair]int),
		metrics: metrics,
	}
}

// Estimate computes the estimated travel time in whole minutes between two
// coordinates for a transport class. Deterministic and symmetric in its
// endpoints; no caching.
func (e *Estimator) Estimate(a, b valueobjects.Coordinate, class valueobjects.TransportClass) int {
	rawKm := a.DistanceKm(b)
	adjustedKm := rawKm * class.CurvatureFactor()

	terrain := TerrainFactorBetween(a, b)
	speedKmh := baseSpeedKmh * class.SpeedFactor() / terrain
	baseMinutes := adjustedKm / speedKmh * 60

	stops := math.Round(rawKm / 100 * class.StopsPer100Km())
	if stops < 0 {
		stops = 0
	}
	dwellMinutes := stops * class.DwellMinutes()

	return int(math.Floor(baseMinutes + dwellMinutes))
}

// EstimateConnection computes the travel time for a named city pair,
// consulting the pair cache first.
func (e *Estimator) EstimateConnection(pair valueobjects.CityPair, a, b valueobjects.Coordinate, class valueobjects.TransportClass) int {
	e.mu.RLock()
	minutes, ok := e.cache[pair]
	e.mu.RUnlock()
	if ok {
		if e.metrics != nil {
			e.metrics.CacheHit()
		}
		return minutes
	}
	if e.metrics != nil {
		e.metrics.CacheMiss()
	}

	minutes = e.Estimate(a, b, class)

	e.mu.Lock()
	e.cache[pair] = minutes
	e.mu.Unlock()
	return minutes
}

// InvalidatePair drops the cached estimate for one pair
func (e *Estimator) InvalidatePair(pair valueobjects.CityPair) {
	e.mu.Lock()
	delete(e.cache, pair)
	e.mu.Unlock()
}

// InvalidateCity drops every cached estimate involving the named city
func (e *Estimator) InvalidateCity(city string) {
	e.mu.Lock()
	for pair := range e.cache {
		if pair.Contains(city) {
			delete(e.cache, pair)
		}
	}
	e.mu.Unlock()
}

// Reset drops the entire cache
func (e *Estimator) Reset() {
	e.mu.Lock()
	e.cache = make(map[valueobjects.CityPair]int)
	e.mu.Unlock()
}

// CachedCount returns the number of cached pair estimates
func (e *Estimator) CachedCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

// FormatMinutes renders a minute count as "<h>h <m>m", or "<m> min" for
// under an hour.
func FormatMinutes(minutes int) string {
	hours := minutes / 60
	rest := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
	return fmt.Sprintf("%d min", rest)
}
