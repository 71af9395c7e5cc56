// Package tags implements the tags widget. Tags are global labels with a
// display name and a color. Contacts and campaigns reference them by id, and
// the dashboard resolves those ids back to names through a Lookup.
package tags

import (
	"strings"
	"time"
)

// DefaultColor is the gray applied when a tag is created without a color.
// Matches the column default in the migration.
const DefaultColor = "#6b7280"

// UnknownTagName is shown in place of a tag id that no longer resolves.
const UnknownTagName = "unknown tag"

// Tag is a label that can be attached to contacts and campaigns.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntityID returns the tag's store-assigned id.
func (t Tag) EntityID() string { return t.ID }

// --- Request DTOs ---

// Draft holds the data submitted when creating a tag.
type Draft struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color,omitempty" validate:"max=32"`
}

// Patch holds the fields to change on an existing tag. Nil fields are left
// untouched.
type Patch struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Color *string `json:"color,omitempty" validate:"omitempty,max=32"`
}

// Lookup resolves tag ids to display names.
type Lookup struct {
	names map[string]string
}

// NewLookup indexes the given tags by id.
func NewLookup(tags []Tag) Lookup {
	names := make(map[string]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}
	return Lookup{names: names}
}

// Has reports whether id refers to a known tag.
func (l Lookup) Has(id string) bool {
	_, ok := l.names[id]
	return ok
}

// Name returns the display name for id, or UnknownTagName.
func (l Lookup) Name(id string) string {
	if name, ok := l.names[id]; ok {
		return name
	}
	return UnknownTagName
}

// Resolve maps each id to its display name, preserving order.
func (l Lookup) Resolve(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = l.Name(id)
	}
	return out
}

// NormalizeIDs trims ids, drops blanks and removes duplicates while keeping
// first-seen order. Returns a non-nil slice.
func NormalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
