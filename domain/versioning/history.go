package versioning

import (
	"time"

	"github.com/google/uuid"
	"railmap/domain/core/aggregates"
	apperrors "railmap/pkg/errors"
)

// DefaultLimit caps retained versions when no explicit limit is configured.
const DefaultLimit = 100

// Snapshot is one immutable version of the network: a deep copy of its
// state plus a description and creation timestamp.
type Snapshot struct {
	ID          string
	Description string
	CreatedAt   time.Time
	state       aggregates.NetworkState
}

// State returns a deep copy of the snapshot's network state, so the
// snapshot stays immutable no matter what the caller does with it.
func (s *Snapshot) State() aggregates.NetworkState {
	return s.state.Clone()
}

// Entry is a read-only summary of one history position for listing.
type Entry struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Current     bool      `json:"current"`
}

// History is a strictly linear undo/redo log of network snapshots with a
// bounded capacity. Recording after an undo discards everything past the
// pointer; exceeding capacity drops the oldest entries and re-clamps the
// pointer onto the same logical version.
type History struct {
	entries  []*Snapshot
	position int
	limit    int
}

// NewHistory creates a history retaining at most limit versions
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{position: -1, limit: limit}
}

// Record appends a snapshot of the given state
func (h *History) Record(state aggregates.NetworkState, description string) *Snapshot {
	// New edit after an undo: drop the redo tail first.
	if h.position < len(h.entries)-1 {
		h.entries = h.entries[:h.position+1]
	}

	snapshot := &Snapshot{
		ID:          uuid.New().String(),
		Description: description,
		CreatedAt:   time.Now(),
		state:       state.Clone(),
	}
	h.entries = append(h.entries, snapshot)
	h.position = len(h.entries) - 1

	if len(h.entries) > h.limit {
		dropped := len(h.entries) - h.limit
		h.entries = h.entries[dropped:]
		h.position -= dropped
		if h.position < 0 {
			h.position = 0
		}
	}

	return snapshot
}

// CanUndo reports whether an earlier version exists
func (h *History) CanUndo() bool {
	return h.position > 0
}

// CanRedo reports whether a later version exists
func (h *History) CanRedo() bool {
	return h.position < len(h.entries)-1
}

// Undo steps the pointer back and returns the snapshot there
func (h *History) Undo() (*Snapshot, error) {
	if !h.CanUndo() {
		return nil, apperrors.NewUnavailableError("nothing to undo")
	}
	h.position--
	return h.entries[h.position], nil
}

// Redo steps the pointer forward and returns the snapshot there
func (h *History) Redo() (*Snapshot, error) {
	if !h.CanRedo() {
		return nil, apperrors.NewUnavailableError("nothing to redo")
	}
	h.position++
	return h.entries[h.position], nil
}

// Current returns the snapshot at the pointer, or nil for an empty history
func (h *History) Current() *Snapshot {
	if h.position < 0 || h.position >= len(h.entries) {
		return nil
	}
	return h.entries[h.position]
}

// Len returns the number of retained versions
func (h *History) Len() int {
	return len(h.entries)
}

// Position returns the pointer index
func (h *History) Position() int {
	return h.position
}

// Entries summarizes the retained versions, oldest first
func (h *History) Entries() []Entry {
	entries := make([]Entry, len(h.entries))
	for i, s := range h.entries {
		entries[i] = Entry{
			ID:          s.ID,
			Description: s.Description,
			CreatedAt:   s.CreatedAt,
			Current:     i == h.position,
		}
	}
	return entries
}
