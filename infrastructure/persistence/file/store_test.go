package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railmap/domain/core/aggregates"
	"railmap/domain/core/valueobjects"
	apperrors "railmap/pkg/errors"
)

func testState(t *testing.T) aggregates.NetworkState {
	t.Helper()
	n := aggregates.NewNetwork()
	n.AddCity("Frankfurt", valueobjects.NewCoordinate(8.6821, 50.1109))
	n.AddCity("Mannheim", valueobjects.NewCoordinate(8.4660, 49.4875))
	n.AddCity("Halle, Saale", valueobjects.NewCoordinate(11.9699, 51.4825))
	require.NoError(t, n.AddConnection("Frankfurt", "Mannheim", valueobjects.ClassHighSpeed))
	require.NoError(t, n.AddConnection("Mannheim", "Halle, Saale", ""))
	require.NoError(t, n.SetDurationOverride("Frankfurt", "Mannheim", 30))
	n.MarkDaybreak("Mannheim", "Halle, Saale")
	n.SetChainName(0, "Hauptlinie")
	n.SetZoomStates([]json.RawMessage{json.RawMessage(`{"zoom":7}`)})
	return n.State()
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	store := NewStore(path)

	original := testState(t)
	require.NoError(t, store.Save(original))

	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, original.Cities, loaded.Cities)
	assert.ElementsMatch(t, original.Connections, loaded.Connections)
	assert.Equal(t, original.Classes, loaded.Classes)
	assert.Equal(t, original.Overrides, loaded.Overrides)
	assert.Equal(t, original.Daybreaks, loaded.Daybreaks)
	assert.Equal(t, original.ChainNames, loaded.ChainNames)
	assert.JSONEq(t, `{"zoom":7}`, string(loaded.ZoomStates[0]))
}

func TestStoreCityNamesWithSeparators(t *testing.T) {
	// Structured pair objects keep names with commas and dashes intact.
	path := filepath.Join(t.TempDir(), "routes.json")
	store := NewStore(path)

	require.NoError(t, store.Save(testState(t)))
	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Contains(t, loaded.Cities, "Halle, Saale")
	assert.Contains(t, loaded.Overrides, valueobjects.NewCityPair("Frankfurt", "Mannheim"))
	assert.True(t, loaded.Daybreaks[valueobjects.NewCityPair("Halle, Saale", "Mannheim")])
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	_, err := store.Load()
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStoreLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path).Load()
	require.Error(t, err)
	assert.False(t, apperrors.IsNotFound(err))
}

func TestStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	store := NewStore(path)

	require.NoError(t, store.Save(testState(t)))

	empty := aggregates.NewNetwork().State()
	require.NoError(t, store.Save(empty))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Cities)
	assert.Empty(t, loaded.Connections)
}

func TestStoreLoadSkipsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	doc := `{
		"cities": {"Aachen": {"lon": 6.08, "lat": 50.77}, "Bonn": {"lon": 7.09, "lat": 50.73}},
		"connections": [{"a": "Aachen", "b": "Bonn"}, {"a": "Aachen", "b": "Aachen"}, {"a": "Bonn", "b": "Aachen"}],
		"train_types": [{"a": "Aachen", "b": "Bonn", "class": "maglev"}],
		"travel_times": [{"a": "Aachen", "b": "Bonn", "minutes": -5}],
		"daybreaks": [],
		"route_chain_names": {"0": "West", "x": "bad"},
		"zoomed_states": []
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)

	// Self loops, duplicates, unknown classes, non-positive overrides and
	// non-numeric chain keys are dropped rather than failing the load.
	assert.Len(t, loaded.Connections, 1)
	assert.Empty(t, loaded.Classes)
	assert.Empty(t, loaded.Overrides)
	assert.Equal(t, map[int]string{0: "West"}, loaded.ChainNames)
}
