package entitysync

import "github.com/keyxmakerx/rolodex/internal/apperror"

// State is an immutable snapshot of a controller, safe to hand to any
// goroutine.
type State[T Entity] struct {
	// Entities in display order.
	Entities []T `json:"entities"`

	// Loading is true while at least one operation is outstanding.
	Loading bool `json:"loading"`

	// Error is the failure of the most recently completed operation. It is
	// reported only once no operation is outstanding.
	Error *apperror.AppError `json:"error"`

	// SearchQuery is the query of the last applied list or search;
	// "" after Load.
	SearchQuery string `json:"searchQuery"`

	// SelectedIDs is always a subset of the entity ids, sorted.
	SelectedIDs []string `json:"selectedIds"`
}

// Count returns the number of entities in the snapshot.
func (s State[T]) Count() int { return len(s.Entities) }

// SelectedCount returns the number of selected ids.
func (s State[T]) SelectedCount() int { return len(s.SelectedIDs) }

// Selected returns the selected entities in display order.
func (s State[T]) Selected() []T {
	if len(s.SelectedIDs) == 0 {
		return []T{}
	}
	want := make(map[string]struct{}, len(s.SelectedIDs))
	for _, id := range s.SelectedIDs {
		want[id] = struct{}{}
	}
	out := make([]T, 0, len(s.SelectedIDs))
	for _, e := range s.Entities {
		if _, ok := want[e.EntityID()]; ok {
			out = append(out, e)
		}
	}
	return out
}
