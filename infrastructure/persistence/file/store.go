package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"railmap/domain/core/aggregates"
	"railmap/domain/core/valueobjects"
	apperrors "railmap/pkg/errors"
)

// Store persists the full network state as a single JSON document on disk.
// Saves are atomic: the document is written to a temp file in the target
// directory and renamed over the destination.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// document is the on-disk schema. Connection pairs are structured objects so
// city names may contain any characters, including separators.
type document struct {
	Cities          map[string]valueobjects.Coordinate `json:"cities"`
	Connections     []pairRecord                       `json:"connections"`
	TrainTypes      []classRecord                      `json:"train_types"`
	TravelTimes     []overrideRecord                   `json:"travel_times"`
	Daybreaks       []pairRecord                       `json:"daybreaks"`
	RouteChainNames map[string]string                  `json:"route_chain_names"`
	ZoomedStates    []json.RawMessage                  `json:"zoomed_states"`
}

type pairRecord struct {
	A string `json:"a"`
	B string `json:"b"`
}

type classRecord struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Class string `json:"class"`
}

type overrideRecord struct {
	A       string `json:"a"`
	B       string `json:"b"`
	Minutes int    `json:"minutes"`
}

// Save writes the state to disk, replacing any previous document
func (s *Store) Save(state aggregates.NetworkState) error {
	doc := document{
		Cities:          state.Cities,
		Connections:     make([]pairRecord, 0, len(state.Connections)),
		TrainTypes:      make([]classRecord, 0, len(state.Classes)),
		TravelTimes:     make([]overrideRecord, 0, len(state.Overrides)),
		Daybreaks:       make([]pairRecord, 0, len(state.Daybreaks)),
		RouteChainNames: make(map[string]string, len(state.ChainNames)),
		ZoomedStates:    state.ZoomStates,
	}
	if doc.Cities == nil {
		doc.Cities = map[string]valueobjects.Coordinate{}
	}

	for _, pair := range state.Connections {
		doc.Connections = append(doc.Connections, pairRecord{A: pair.A, B: pair.B})
	}
	for pair, class := range state.Classes {
		doc.TrainTypes = append(doc.TrainTypes, classRecord{A: pair.A, B: pair.B, Class: class.String()})
	}
	for pair, minutes := range state.Overrides {
		doc.TravelTimes = append(doc.TravelTimes, overrideRecord{A: pair.A, B: pair.B, Minutes: minutes})
	}
	for pair, marked := range state.Daybreaks {
		if !marked {
			continue
		}
		doc.Daybreaks = append(doc.Daybreaks, pairRecord{A: pair.A, B: pair.B})
	}
	for index, name := range state.ChainNames {
		doc.RouteChainNames[strconv.Itoa(index)] = name
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.NewInternalError("failed to encode network state").WithCause(err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return apperrors.NewInternalError("failed to create temp file").WithCause(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewInternalError("failed to write network state").WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewInternalError("failed to close temp file").WithCause(err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewInternalError("failed to replace data file").WithCause(err)
	}
	return nil
}

// Load reads the persisted state. A missing file is reported as not found so
// the caller can fall back to seeding the default network.
func (s *Store) Load() (aggregates.NetworkState, error) {
	var state aggregates.NetworkState

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, apperrors.NewNotFoundError("data file " + s.path)
		}
		return state, apperrors.NewInternalError("failed to read data file").WithCause(err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return state, apperrors.NewInternalError("data file is not valid JSON").WithCause(err)
	}

	state.Cities = make(map[string]valueobjects.Coordinate, len(doc.Cities))
	for name, coord := range doc.Cities {
		state.Cities[name] = coord
	}

	state.Connections = make([]valueobjects.CityPair, 0, len(doc.Connections))
	seen := make(map[valueobjects.CityPair]bool, len(doc.Connections))
	for _, rec := range doc.Connections {
		pair := valueobjects.NewCityPair(rec.A, rec.B)
		if pair.IsSelfLoop() || seen[pair] {
			continue
		}
		seen[pair] = true
		state.Connections = append(state.Connections, pair)
	}

	state.Classes = make(map[valueobjects.CityPair]valueobjects.TransportClass, len(doc.TrainTypes))
	for _, rec := range doc.TrainTypes {
		class, err := valueobjects.ParseTransportClass(rec.Class)
		if err != nil {
			continue
		}
		state.Classes[valueobjects.NewCityPair(rec.A, rec.B)] = class
	}

	state.Overrides = make(map[valueobjects.CityPair]int, len(doc.TravelTimes))
	for _, rec := range doc.TravelTimes {
		if rec.Minutes <= 0 {
			continue
		}
		state.Overrides[valueobjects.NewCityPair(rec.A, rec.B)] = rec.Minutes
	}

	state.Daybreaks = make(map[valueobjects.CityPair]bool, len(doc.Daybreaks))
	for _, rec := range doc.Daybreaks {
		state.Daybreaks[valueobjects.NewCityPair(rec.A, rec.B)] = true
	}

	state.ChainNames = make(map[int]string, len(doc.RouteChainNames))
	for key, name := range doc.RouteChainNames {
		index, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		state.ChainNames[index] = name
	}

	state.ZoomStates = doc.ZoomedStates
	return state, nil
}
