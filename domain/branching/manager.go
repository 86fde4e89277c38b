package branching

import (
	"fmt"
	"sort"

	"railmap/domain/core/valueobjects"
	apperrors "railmap/pkg/errors"
)

// Manager owns the branch DAG: every branch ever created, the active-branch
// pointer and the round-robin presentation indices. Splits create two
// children from one parent; merges create one child from two parents.
//
// The manager never touches the network itself; applying a branch's edge
// set back to the network is the application layer's job.
type Manager struct {
	branches   map[BranchID]*Branch
	order      []BranchID
	activeID   BranchID
	colorIndex int
	styleIndex int
}

// NewManager creates an empty branch manager
func NewManager() *Manager {
	return &Manager{branches: make(map[BranchID]*Branch)}
}

// nextPresentation advances the round-robin colour/style indices. The
// colour index advances unbounded and wraps at lookup; the style index
// wraps eagerly.
func (m *Manager) nextPresentation() (int, int) {
	color := m.colorIndex % len(branchColors)
	style := m.styleIndex % len(branchLineStyles)
	m.colorIndex++
	m.styleIndex = (m.styleIndex + 1) % len(branchLineStyles)
	return color, style
}

func (m *Manager) register(b *Branch) {
	m.branches[b.id] = b
	m.order = append(m.order, b.id)
}

// InitializeFromChains builds the initial root branches, one per chain.
// nameFor resolves a chain index to a display name; when it returns "",
// the branch is named "Route <n>". The first branch becomes active.
func (m *Manager) InitializeFromChains(chains [][]valueobjects.CityPair, nameFor func(int) string) {
	for idx, chain := range chains {
		name := ""
		if nameFor != nil {
			name = nameFor(idx)
		}
		if name == "" {
			name = fmt.Sprintf("Route %d", idx+1)
		}

		color, style := m.nextPresentation()
		branch := newBranch(name, RootOrigin(), chain, color, style)
		m.register(branch)

		if idx == 0 {
			m.activeID = branch.id
		}
	}
}

// Branch looks up a branch by id
func (m *Manager) Branch(id BranchID) (*Branch, error) {
	branch, ok := m.branches[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("branch " + id.String())
	}
	return branch, nil
}

// Branches returns all branches in creation order
func (m *Manager) Branches() []*Branch {
	branches := make([]*Branch, 0, len(m.order))
	for _, id := range m.order {
		branches = append(branches, m.branches[id])
	}
	return branches
}

// ActiveID returns the active branch id, or "" when none is set
func (m *Manager) ActiveID() BranchID {
	return m.activeID
}

// SetActive points the active-branch marker at an existing branch
func (m *Manager) SetActive(id BranchID) error {
	if _, ok := m.branches[id]; !ok {
		return apperrors.NewNotFoundError("branch " + id.String())
	}
	m.activeID = id
	return nil
}

// Split breaks one branch into two at a city, partitioning its connections
// by post-removal connectivity. The city must be a junction: at least two
// neighbours within the branch, and removing it must actually disconnect
// the remainder. Both children record the parent as their split origin.
func (m *Manager) Split(id BranchID, city string) (*Branch, *Branch, error) {
	parent, ok := m.branches[id]
	if !ok {
		return nil, nil, apperrors.NewNotFoundError("branch " + id.String())
	}
	if !parent.ContainsCity(city) {
		return nil, nil, apperrors.NewValidationErrorf("city %s not found in branch %s", city, parent.name)
	}

	neighbours := parent.ConnectedCities(city)
	if len(neighbours) < 2 {
		return nil, nil, apperrors.NewValidationErrorf("city %s is not a valid split point (need at least 2 connections)", city)
	}

	components := connectedComponents(parent.segments, city, neighbours)
	if len(components) < 2 {
		return nil, nil, apperrors.NewValidationError("cannot split at this city - would not create separate branches")
	}

	// The component found first keeps the "-A" side; every other component
	// goes to "-B".
	sideA := components[0]
	var segmentsA, segmentsB []valueobjects.CityPair
	for _, segment := range parent.segments {
		anchor := segment.A
		if anchor == city {
			anchor = segment.B
		}
		if sideA[anchor] {
			segmentsA = append(segmentsA, segment)
		} else {
			segmentsB = append(segmentsB, segment)
		}
	}

	colorA, styleA := m.nextPresentation()
	childA := newBranch(parent.name+"-A", SplitOrigin(parent.id), segmentsA, colorA, styleA)
	colorB, styleB := m.nextPresentation()
	childB := newBranch(parent.name+"-B", SplitOrigin(parent.id), segmentsB, colorB, styleB)

	m.register(childA)
	m.register(childB)
	parent.addChild(childA.id)
	parent.addChild(childB.id)
	m.activeID = childA.id

	return childA, childB, nil
}

// connectedComponents computes the connected components of a branch's
// city graph with the split city removed, traversing iteratively from each
// of its neighbours. Edges through the split city are skipped.
func connectedComponents(segments []valueobjects.CityPair, splitCity string, neighbours []string) []map[string]bool {
	adjacency := make(map[string][]string)
	for _, segment := range segments {
		if segment.Contains(splitCity) {
			continue
		}
		adjacency[segment.A] = append(adjacency[segment.A], segment.B)
		adjacency[segment.B] = append(adjacency[segment.B], segment.A)
	}
	for city := range adjacency {
		sort.Strings(adjacency[city])
	}

	visited := make(map[string]bool)
	var components []map[string]bool

	for _, start := range neighbours {
		if visited[start] {
			continue
		}
		component := make(map[string]bool)
		stack := []string{start}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[current] {
				continue
			}
			visited[current] = true
			component[current] = true
			for _, next := range adjacency[current] {
				if !visited[next] {
					stack = append(stack, next)
				}
			}
		}
		if len(component) > 0 {
			components = append(components, component)
		}
	}

	return components
}

// Merge unions two branches' connections plus one new connecting edge into
// a new branch. city1 must belong to the first branch and city2 to the
// second; the first branch becomes the primary parent. Shared edges are
// de-duplicated by unordered pair.
func (m *Manager) Merge(id1, id2 BranchID, city1, city2 string) (*Branch, error) {
	branch1, ok := m.branches[id1]
	if !ok {
		return nil, apperrors.NewNotFoundError("branch " + id1.String())
	}
	branch2, ok := m.branches[id2]
	if !ok {
		return nil, apperrors.NewNotFoundError("branch " + id2.String())
	}
	if id1 == id2 {
		return nil, apperrors.NewValidationError("cannot merge a branch with itself")
	}
	if !branch1.ContainsCity(city1) {
		return nil, apperrors.NewValidationErrorf("city %s not found in branch %s", city1, branch1.name)
	}
	if !branch2.ContainsCity(city2) {
		return nil, apperrors.NewValidationErrorf("city %s not found in branch %s", city2, branch2.name)
	}

	segments := make([]valueobjects.CityPair, 0, branch1.SegmentCount()+branch2.SegmentCount()+1)
	segments = append(segments, branch1.segments...)
	segments = append(segments, branch2.segments...)
	segments = append(segments, valueobjects.NewCityPair(city1, city2))

	color, style := m.nextPresentation()
	merged := newBranch(
		branch1.name+"-"+branch2.name+"-merged",
		MergeOrigin(branch1.id, branch2.id),
		segments,
		color, style,
	)

	m.register(merged)
	branch1.addChild(merged.id)
	branch2.addChild(merged.id)
	m.activeID = merged.id

	return merged, nil
}

// Tree exports the branch DAG for lineage visualization: root ids plus a
// parent-to-children map. Merge children appear under both parents.
func (m *Manager) Tree() ([]BranchID, map[BranchID][]BranchID) {
	var roots []BranchID
	children := make(map[BranchID][]BranchID)

	for _, id := range m.order {
		branch := m.branches[id]
		parents := branch.origin.Parents()
		if len(parents) == 0 {
			roots = append(roots, id)
			continue
		}
		for _, parent := range parents {
			children[parent] = append(children[parent], id)
		}
	}

	return roots, children
}
