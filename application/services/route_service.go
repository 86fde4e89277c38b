package services

import (
	"encoding/json"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"railmap/domain/branching"
	"railmap/domain/core/aggregates"
	"railmap/domain/core/valueobjects"
	domainservices "railmap/domain/services"
	"railmap/domain/versioning"
	"railmap/infrastructure/persistence/file"
	apperrors "railmap/pkg/errors"
)

// OperationMetrics counts mutation attempts by outcome. Implemented by the
// observability collector; nil disables reporting.
type OperationMetrics interface {
	RecordOperation(operation string, err error)
}

// RouteService is the application facade over the network aggregate, the
// travel-time estimator, chain decomposition, the branch manager, version
// history and file persistence. It is the single mutation boundary: all
// access is serialized through its mutex, every successful mutation records
// a version snapshot, and estimator cache invalidation happens here.
type RouteService struct {
	mu sync.Mutex

	network    *aggregates.Network
	history    *versioning.History
	estimator  *domainservices.Estimator
	decomposer domainservices.ChainDecomposer
	branches   *branching.Manager
	store      *file.Store

	logger  *zap.Logger
	metrics OperationMetrics
}

// NewRouteService assembles the service. When the store holds a saved
// document it is loaded; otherwise the default network is seeded if
// seedDefault is set. The initial state becomes the first history version
// and the initial branches are derived from the network's chains.
func NewRouteService(
	store *file.Store,
	estimator *domainservices.Estimator,
	historyLimit int,
	seedDefault bool,
	logger *zap.Logger,
	metrics OperationMetrics,
) *RouteService {
	if logger == nil {
		logger = zap.NewNop()
	}

	network := aggregates.NewNetwork()
	if store != nil {
		state, err := store.Load()
		switch {
		case err == nil:
			network.Restore(state)
			logger.Info("loaded network from file",
				zap.String("path", store.Path()),
				zap.Int("cities", len(state.Cities)),
				zap.Int("connections", len(state.Connections)))
		case apperrors.IsNotFound(err) && seedDefault:
			network.SeedDefault()
			logger.Info("no data file, seeded default network", zap.String("path", store.Path()))
		case apperrors.IsNotFound(err):
			logger.Info("no data file, starting empty", zap.String("path", store.Path()))
		default:
			logger.Warn("failed to load data file, starting fresh", zap.Error(err))
			if seedDefault {
				network.SeedDefault()
			}
		}
	} else if seedDefault {
		network.SeedDefault()
	}

	s := &RouteService{
		network:    network,
		history:    versioning.NewHistory(historyLimit),
		estimator:  estimator,
		decomposer: domainservices.NewChainDecomposer(),
		branches:   branching.NewManager(),
		store:      store,
		logger:     logger,
		metrics:    metrics,
	}

	s.history.Record(s.network.State(), "Initial state")
	s.rebuildBranches()
	return s
}

// record snapshots the current network state under a description
func (s *RouteService) record(description string) {
	s.history.Record(s.network.State(), description)
}

func (s *RouteService) observe(operation string, err error) {
	if s.metrics != nil {
		s.metrics.RecordOperation(operation, err)
	}
	if err != nil {
		s.logger.Debug("operation rejected", zap.String("operation", operation), zap.Error(err))
	}
}

// rebuildBranches re-derives the root branches from the current chains,
// discarding the branch DAG. Called at startup and after a file load.
func (s *RouteService) rebuildBranches() {
	chains := s.chainsLocked()
	pairChains := make([][]valueobjects.CityPair, len(chains))
	for i, chain := range chains {
		pairChains[i] = chain
	}
	s.branches = branching.NewManager()
	s.branches.InitializeFromChains(pairChains, func(idx int) string {
		name, _ := s.network.ChainName(idx)
		return name
	})
}

// --- cities ---

// AddCity inserts a city or moves an existing one
func (s *RouteService) AddCity(name string, lon, lat float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		err := apperrors.NewValidationError("city name must not be empty")
		s.observe("add_city", err)
		return err
	}

	existed := s.network.HasCity(name)
	s.network.AddCity(name, valueobjects.NewCoordinate(lon, lat))
	if existed {
		// Moving a city changes every estimate involving it.
		s.estimator.InvalidateCity(name)
		s.record("Moved city " + name)
	} else {
		s.record("Added city " + name)
	}
	s.observe("add_city", nil)
	return nil
}

// UpdateCity moves an existing city to new coordinates
func (s *RouteService) UpdateCity(name string, lon, lat float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.network.UpdateCityCoordinates(name, valueobjects.NewCoordinate(lon, lat))
	if err != nil {
		s.observe("update_city", err)
		return err
	}
	s.estimator.InvalidateCity(name)
	s.record("Moved city " + name)
	s.observe("update_city", nil)
	return nil
}

// RemoveCity deletes a city, its connections, and reconnects its former
// neighbours. The returned result lists the removed and added connections.
func (s *RouteService) RemoveCity(name string) (aggregates.MutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.network.RemoveCity(name)
	if err != nil {
		s.observe("remove_city", err)
		return result, err
	}
	s.estimator.InvalidateCity(name)
	s.record("Removed city " + name)
	s.observe("remove_city", nil)
	return result, nil
}

// RemoveCities bulk-removes cities, skipping names that do not exist
func (s *RouteService) RemoveCities(names []string) aggregates.MutationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.network.RemoveCities(names)
	s.estimator.Reset()
	s.record("Removed cities")
	s.observe("remove_cities", nil)
	return result
}

// CityNames lists all city names in lexicographic order
func (s *RouteService) CityNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.network.CityNames()
}

// Cities returns a copy of the city map
func (s *RouteService) Cities() map[string]valueobjects.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.network.Cities()
}

// --- connections ---

// AddConnection links two existing cities, optionally with a transport
// class. An empty class string selects the default class.
func (s *RouteService) AddConnection(a, b, class string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parsed, err := valueobjects.ParseTransportClass(class)
	if err != nil {
		s.observe("add_connection", err)
		return err
	}
	if err := s.network.AddConnection(a, b, parsed); err != nil {
		s.observe("add_connection", err)
		return err
	}
	s.record("Added connection " + valueobjects.NewCityPair(a, b).String())
	s.observe("add_connection", nil)
	return nil
}

// RemoveConnection unlinks two cities and drops the pair's attributes
func (s *RouteService) RemoveConnection(a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := valueobjects.NewCityPair(a, b)
	if err := s.network.RemoveConnection(a, b); err != nil {
		s.observe("remove_connection", err)
		return err
	}
	s.estimator.InvalidatePair(pair)
	s.record("Removed connection " + pair.String())
	s.observe("remove_connection", nil)
	return nil
}

// SetTransportClass assigns a transport class to a connection
func (s *RouteService) SetTransportClass(a, b, class string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parsed, err := valueobjects.ParseTransportClass(class)
	if err != nil {
		s.observe("set_transport_class", err)
		return err
	}
	pair := valueobjects.NewCityPair(a, b)
	if err := s.network.SetTransportClass(a, b, parsed); err != nil {
		s.observe("set_transport_class", err)
		return err
	}
	s.estimator.InvalidatePair(pair)
	s.record("Set " + pair.String() + " to " + parsed.String())
	s.observe("set_transport_class", nil)
	return nil
}

// SetTravelTime sets an explicit travel time override in minutes
func (s *RouteService) SetTravelTime(a, b string, minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := valueobjects.NewCityPair(a, b)
	if err := s.network.SetDurationOverride(a, b, minutes); err != nil {
		s.observe("set_travel_time", err)
		return err
	}
	s.estimator.InvalidatePair(pair)
	s.record("Set travel time for " + pair.String())
	s.observe("set_travel_time", nil)
	return nil
}

// ClearTravelTime removes an explicit travel time override
func (s *RouteService) ClearTravelTime(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := valueobjects.NewCityPair(a, b)
	s.network.ClearDurationOverride(a, b)
	s.estimator.InvalidatePair(pair)
	s.record("Cleared travel time for " + pair.String())
	s.observe("clear_travel_time", nil)
}

// MarkDaybreak marks a connection as a chain break
func (s *RouteService) MarkDaybreak(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := valueobjects.NewCityPair(a, b)
	s.network.MarkDaybreak(a, b)
	s.record("Marked daybreak at " + pair.String())
	s.observe("mark_daybreak", nil)
}

// UnmarkDaybreak clears a chain break marker
func (s *RouteService) UnmarkDaybreak(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := valueobjects.NewCityPair(a, b)
	s.network.UnmarkDaybreak(a, b)
	s.record("Unmarked daybreak at " + pair.String())
	s.observe("unmark_daybreak", nil)
}

// --- travel times ---

// TravelTimeSource tells where a travel time came from.
type TravelTimeSource string

const (
	SourceOverride TravelTimeSource = "override"
	SourceEstimate TravelTimeSource = "estimate"
)

// TravelTime is the resolved travel time for one connection.
type TravelTime struct {
	Minutes   int              `json:"minutes"`
	Formatted string           `json:"formatted"`
	Source    TravelTimeSource `json:"source"`
}

// TravelTimeFor resolves the travel time for an existing connection: the
// explicit override verbatim when one is set, otherwise the cached estimate.
func (s *RouteService) TravelTimeFor(a, b string) (TravelTime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.travelTimeLocked(a, b)
}

func (s *RouteService) travelTimeLocked(a, b string) (TravelTime, error) {
	pair := valueobjects.NewCityPair(a, b)
	if !s.network.HasConnection(a, b) {
		return TravelTime{}, apperrors.NewNotFoundError("connection " + pair.String())
	}

	if minutes, ok := s.network.DurationOverride(a, b); ok {
		return TravelTime{
			Minutes:   minutes,
			Formatted: domainservices.FormatMinutes(minutes),
			Source:    SourceOverride,
		}, nil
	}

	coordA, err := s.network.CityCoordinate(pair.A)
	if err != nil {
		return TravelTime{}, err
	}
	coordB, err := s.network.CityCoordinate(pair.B)
	if err != nil {
		return TravelTime{}, err
	}

	class := s.network.TransportClassFor(a, b)
	minutes := s.estimator.EstimateConnection(pair, coordA, coordB, class)
	return TravelTime{
		Minutes:   minutes,
		Formatted: domainservices.FormatMinutes(minutes),
		Source:    SourceEstimate,
	}, nil
}

// minutesForLocked resolves a pair's minutes for chain totals, treating
// unresolvable pairs (orphaned markers, missing cities) as zero.
func (s *RouteService) minutesForLocked(pair valueobjects.CityPair) int {
	tt, err := s.travelTimeLocked(pair.A, pair.B)
	if err != nil {
		return 0
	}
	return tt.Minutes
}

// --- views ---

// ConnectionView is one connection with its resolved attributes.
type ConnectionView struct {
	A          string `json:"a"`
	B          string `json:"b"`
	Class      string `json:"class"`
	Minutes    int    `json:"minutes"`
	Formatted  string `json:"formatted"`
	IsOverride bool   `json:"is_override"`
	Daybreak   bool   `json:"daybreak"`
}

// NetworkView is the full network for the API.
type NetworkView struct {
	Cities      map[string]valueobjects.Coordinate `json:"cities"`
	Connections []ConnectionView                   `json:"connections"`
}

// Network returns the full network view
func (s *RouteService) Network() NetworkView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := NetworkView{
		Cities:      s.network.Cities(),
		Connections: make([]ConnectionView, 0, s.network.ConnectionCount()),
	}
	for _, pair := range s.network.Connections() {
		tt, err := s.travelTimeLocked(pair.A, pair.B)
		if err != nil {
			continue
		}
		view.Connections = append(view.Connections, ConnectionView{
			A:          pair.A,
			B:          pair.B,
			Class:      s.network.TransportClassFor(pair.A, pair.B).String(),
			Minutes:    tt.Minutes,
			Formatted:  tt.Formatted,
			IsOverride: tt.Source == SourceOverride,
			Daybreak:   s.network.HasDaybreak(pair),
		})
	}
	return view
}

// --- chains ---

// ChainView is one decomposed chain with its display name and total time.
type ChainView struct {
	Index        int                     `json:"index"`
	Name         string                  `json:"name"`
	Connections  []valueobjects.CityPair `json:"connections"`
	TotalMinutes int                     `json:"total_minutes"`
	Formatted    string                  `json:"formatted"`
}

func (s *RouteService) chainsLocked() []domainservices.Chain {
	return s.decomposer.Decompose(s.network.Connections(), s.network.HasDaybreak)
}

// Chains decomposes the network into chains, cut at daybreak markers
func (s *RouteService) Chains() []ChainView {
	s.mu.Lock()
	defer s.mu.Unlock()

	chains := s.chainsLocked()
	views := make([]ChainView, len(chains))
	for i, chain := range chains {
		name, ok := s.network.ChainName(i)
		if !ok {
			name = defaultChainName(i)
		}
		total := s.decomposer.TotalMinutes(chain, s.minutesForLocked)
		views[i] = ChainView{
			Index:        i,
			Name:         name,
			Connections:  chain,
			TotalMinutes: total,
			Formatted:    domainservices.FormatMinutes(total),
		}
	}
	return views
}

func defaultChainName(index int) string {
	return "Route " + strconv.Itoa(index+1)
}

// SetChainName assigns a display name to a chain index
func (s *RouteService) SetChainName(index int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 {
		err := apperrors.NewValidationError("chain index must not be negative")
		s.observe("set_chain_name", err)
		return err
	}
	s.network.SetChainName(index, name)
	s.record("Renamed route " + strconv.Itoa(index+1))
	s.observe("set_chain_name", nil)
	return nil
}

// --- branches ---

// BranchView is one branch for the API.
type BranchView struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Origin    string                  `json:"origin"`
	Parents   []string                `json:"parents,omitempty"`
	Children  []string                `json:"children,omitempty"`
	Segments  []valueobjects.CityPair `json:"segments"`
	Color     string                  `json:"color"`
	LineStyle string                  `json:"line_style"`
	Active    bool                    `json:"active"`
}

func (s *RouteService) branchView(b *branching.Branch) BranchView {
	view := BranchView{
		ID:        b.ID().String(),
		Name:      b.Name(),
		Origin:    string(b.Origin().Kind),
		Segments:  b.Segments(),
		Color:     b.Color(),
		LineStyle: b.LineStyle(),
		Active:    b.ID() == s.branches.ActiveID(),
	}
	for _, parent := range b.Origin().Parents() {
		view.Parents = append(view.Parents, parent.String())
	}
	for _, child := range b.ChildIDs() {
		view.Children = append(view.Children, child.String())
	}
	return view
}

// InitializeBranches discards the branch DAG and re-derives root branches
// from the current chains.
func (s *RouteService) InitializeBranches() []BranchView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rebuildBranches()
	s.observe("initialize_branches", nil)
	return s.listBranchesLocked()
}

// ListBranches returns all branches in creation order
func (s *RouteService) ListBranches() []BranchView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listBranchesLocked()
}

func (s *RouteService) listBranchesLocked() []BranchView {
	branches := s.branches.Branches()
	views := make([]BranchView, len(branches))
	for i, b := range branches {
		views[i] = s.branchView(b)
	}
	return views
}

// SplitBranch splits a branch in two at a junction city
func (s *RouteService) SplitBranch(id, city string) (BranchView, BranchView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	childA, childB, err := s.branches.Split(branching.BranchID(id), city)
	if err != nil {
		s.observe("split_branch", err)
		return BranchView{}, BranchView{}, err
	}
	s.record("Split route at " + city)
	s.observe("split_branch", nil)
	s.logger.Info("split branch",
		zap.String("branch", id),
		zap.String("city", city),
		zap.String("child_a", childA.ID().String()),
		zap.String("child_b", childB.ID().String()))
	return s.branchView(childA), s.branchView(childB), nil
}

// MergeBranches merges two branches via a new connection between city1 in
// the first and city2 in the second.
func (s *RouteService) MergeBranches(id1, id2, city1, city2 string) (BranchView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := s.branches.Merge(branching.BranchID(id1), branching.BranchID(id2), city1, city2)
	if err != nil {
		s.observe("merge_branches", err)
		return BranchView{}, err
	}

	parent1, _ := s.branches.Branch(branching.BranchID(id1))
	parent2, _ := s.branches.Branch(branching.BranchID(id2))
	s.record("Merged " + parent1.Name() + " and " + parent2.Name())
	s.observe("merge_branches", nil)
	return s.branchView(merged), nil
}

// SetActiveBranch points the active marker at an existing branch
func (s *RouteService) SetActiveBranch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.branches.SetActive(branching.BranchID(id))
	s.observe("set_active_branch", err)
	return err
}

// ApplyBranch replaces the network's connection set with a branch's
// segments. City attributes keyed on surviving pairs are kept.
func (s *RouteService) ApplyBranch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	branch, err := s.branches.Branch(branching.BranchID(id))
	if err != nil {
		s.observe("apply_branch", err)
		return err
	}

	s.network.ReplaceConnections(branch.Segments())
	s.estimator.Reset()
	if err := s.branches.SetActive(branch.ID()); err != nil {
		s.observe("apply_branch", err)
		return err
	}
	s.record("Applied branch " + branch.Name())
	s.observe("apply_branch", nil)
	return nil
}

// BranchTreeView is the branch DAG for lineage visualization.
type BranchTreeView struct {
	Roots    []string            `json:"roots"`
	Children map[string][]string `json:"children"`
	Active   string              `json:"active"`
}

// BranchTree exports the branch lineage DAG
func (s *RouteService) BranchTree() BranchTreeView {
	s.mu.Lock()
	defer s.mu.Unlock()

	roots, children := s.branches.Tree()
	view := BranchTreeView{
		Roots:    make([]string, len(roots)),
		Children: make(map[string][]string, len(children)),
		Active:   s.branches.ActiveID().String(),
	}
	for i, id := range roots {
		view.Roots[i] = id.String()
	}
	for parent, kids := range children {
		ids := make([]string, len(kids))
		for i, kid := range kids {
			ids[i] = kid.String()
		}
		view.Children[parent.String()] = ids
	}
	return view
}

// --- versioning ---

// Undo restores the previous version and returns its description
func (s *RouteService) Undo() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.history.Undo()
	if err != nil {
		s.observe("undo", err)
		return "", err
	}
	s.network.Restore(snapshot.State())
	s.estimator.Reset()
	s.observe("undo", nil)
	return snapshot.Description, nil
}

// Redo restores the next version and returns its description
func (s *RouteService) Redo() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.history.Redo()
	if err != nil {
		s.observe("redo", err)
		return "", err
	}
	s.network.Restore(snapshot.State())
	s.estimator.Reset()
	s.observe("redo", nil)
	return snapshot.Description, nil
}

// History lists the retained versions, oldest first
func (s *RouteService) History() []versioning.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

// --- persistence ---

// Save writes the current network state to the data file
func (s *RouteService) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		err := apperrors.NewUnavailableError("no data file configured")
		s.observe("save", err)
		return err
	}
	err := s.store.Save(s.network.State())
	s.observe("save", err)
	if err == nil {
		s.logger.Info("saved network", zap.String("path", s.store.Path()))
	}
	return err
}

// Load replaces the current network with the persisted state and re-derives
// the branch DAG from it.
func (s *RouteService) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		err := apperrors.NewUnavailableError("no data file configured")
		s.observe("load", err)
		return err
	}
	state, err := s.store.Load()
	if err != nil {
		s.observe("load", err)
		return err
	}
	s.network.Restore(state)
	s.estimator.Reset()
	s.rebuildBranches()
	s.record("Loaded from file")
	s.observe("load", nil)
	s.logger.Info("loaded network", zap.String("path", s.store.Path()))
	return nil
}

// ZoomStates returns the opaque viewport passthrough list
func (s *RouteService) ZoomStates() []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.network.ZoomStates()
}

// SetZoomStates replaces the opaque viewport passthrough list
func (s *RouteService) SetZoomStates(states []json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network.SetZoomStates(states)
	s.observe("set_zoom_states", nil)
}
