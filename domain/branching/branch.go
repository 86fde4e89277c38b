package branching

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"railmap/domain/core/valueobjects"
)

// BranchID is the opaque, stable identifier of a branch. Never reused.
type BranchID string

// NewBranchID creates a new random BranchID
func NewBranchID() BranchID {
	return BranchID(uuid.New().String())
}

// String returns the string representation
func (id BranchID) String() string {
	return string(id)
}

// branchColors is the presentation palette assigned round-robin at branch
// creation.
var branchColors = []string{
	"#3498db", "#e74c3c", "#2ecc71", "#f39c12",
	"#9b59b6", "#1abc9c", "#d35400", "#34495e",
}

// branchLineStyles are the dash patterns assigned round-robin at creation.
var branchLineStyles = []string{"solid", "dashed", "dotted", "dashdot"}

// OriginKind tags how a branch came to exist.
type OriginKind string

const (
	// OriginRoot marks a branch created directly from the network's chains.
	OriginRoot OriginKind = "root"
	// OriginSplit marks a branch produced by splitting its parent at a city.
	OriginSplit OriginKind = "split"
	// OriginMerge marks a branch produced by merging two parents.
	OriginMerge OriginKind = "merge"
)

// Origin records a branch's lineage as a tagged structure so the split and
// merge cases are exhaustively checkable. A split has one parent; a merge
// has a primary and a secondary parent, asymmetric for lineage display only.
type Origin struct {
	Kind      OriginKind
	Parent    BranchID // split parent, or merge primary parent
	Secondary BranchID // merge secondary parent only
}

// RootOrigin is the lineage of a branch with no parents
func RootOrigin() Origin {
	return Origin{Kind: OriginRoot}
}

// SplitOrigin is the lineage of a split result
func SplitOrigin(parent BranchID) Origin {
	return Origin{Kind: OriginSplit, Parent: parent}
}

// MergeOrigin is the lineage of a merge result
func MergeOrigin(primary, secondary BranchID) Origin {
	return Origin{Kind: OriginMerge, Parent: primary, Secondary: secondary}
}

// Parents lists the parent ids, primary first
func (o Origin) Parents() []BranchID {
	switch o.Kind {
	case OriginSplit:
		return []BranchID{o.Parent}
	case OriginMerge:
		return []BranchID{o.Parent, o.Secondary}
	default:
		return nil
	}
}

// Branch is a named, immutable snapshot of a subset of connections linked
// into the branch DAG. Its segment list is fixed at construction; edits to
// the network happen through new split/merge operations, never by mutating
// an existing branch.
type Branch struct {
	id         BranchID
	name       string
	origin     Origin
	childIDs   []BranchID
	segments   []valueobjects.CityPair
	colorIndex int
	styleIndex int
	createdAt  time.Time
}

// newBranch constructs a branch, de-duplicating segments by unordered pair
// while preserving first-seen order.
func newBranch(name string, origin Origin, segments []valueobjects.CityPair, colorIndex, styleIndex int) *Branch {
	b := &Branch{
		id:         NewBranchID(),
		name:       name,
		origin:     origin,
		colorIndex: colorIndex,
		styleIndex: styleIndex,
		createdAt:  time.Now(),
	}
	seen := make(map[valueobjects.CityPair]bool, len(segments))
	for _, s := range segments {
		pair := valueobjects.NewCityPair(s.A, s.B)
		if pair.IsSelfLoop() || seen[pair] {
			continue
		}
		seen[pair] = true
		b.segments = append(b.segments, pair)
	}
	return b
}

// ID returns the branch identifier
func (b *Branch) ID() BranchID {
	return b.id
}

// Name returns the human-readable branch name
func (b *Branch) Name() string {
	return b.name
}

// Origin returns the branch's lineage record
func (b *Branch) Origin() Origin {
	return b.origin
}

// ChildIDs returns a copy of the ordered child list
func (b *Branch) ChildIDs() []BranchID {
	children := make([]BranchID, len(b.childIDs))
	copy(children, b.childIDs)
	return children
}

// Segments returns a copy of the branch's connection list
func (b *Branch) Segments() []valueobjects.CityPair {
	segments := make([]valueobjects.CityPair, len(b.segments))
	copy(segments, b.segments)
	return segments
}

// SegmentCount returns the number of owned connections
func (b *Branch) SegmentCount() int {
	return len(b.segments)
}

// Color returns the branch's display colour
func (b *Branch) Color() string {
	return branchColors[b.colorIndex]
}

// LineStyle returns the branch's display dash pattern
func (b *Branch) LineStyle() string {
	return branchLineStyles[b.styleIndex]
}

// CreatedAt returns when the branch was created
func (b *Branch) CreatedAt() time.Time {
	return b.createdAt
}

// ContainsCity reports whether the city is an endpoint of any segment
func (b *Branch) ContainsCity(city string) bool {
	for _, s := range b.segments {
		if s.Contains(city) {
			return true
		}
	}
	return false
}

// ConnectedCities returns the cities directly adjacent to city within this
// branch, in lexicographic order.
func (b *Branch) ConnectedCities(city string) []string {
	var connected []string
	for _, s := range b.segments {
		if other, ok := s.Other(city); ok {
			connected = append(connected, other)
		}
	}
	sort.Strings(connected)
	return connected
}

// Cities returns every distinct endpoint in the branch, sorted
func (b *Branch) Cities() []string {
	seen := make(map[string]bool)
	var cities []string
	for _, s := range b.segments {
		if !seen[s.A] {
			seen[s.A] = true
			cities = append(cities, s.A)
		}
		if !seen[s.B] {
			seen[s.B] = true
			cities = append(cities, s.B)
		}
	}
	sort.Strings(cities)
	return cities
}

func (b *Branch) addChild(id BranchID) {
	b.childIDs = append(b.childIDs, id)
}
