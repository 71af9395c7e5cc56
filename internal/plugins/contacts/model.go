// Package contacts implements the store side of the contacts kind: the
// MariaDB repository, validation and defaults, and the /api/v1/contacts
// endpoints the synchronization layer talks to.
package contacts

import "time"

// Category groups a contact for filtering.
type Category string

// Contact categories. Must match the ENUM in the contacts migration.
const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryFamily   Category = "family"
	CategoryOther    Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryPersonal, CategoryWork, CategoryFamily, CategoryOther}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Contact is a person in the address book.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Category  Category  `json:"category"`
	TagIDs    []string  `json:"tagIds"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntityID returns the contact's store-assigned id.
func (c Contact) EntityID() string { return c.ID }

// HasTag reports whether the contact carries tagID.
func (c Contact) HasTag(tagID string) bool {
	for _, id := range c.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// --- Request DTOs ---

// Draft holds the data submitted when creating a contact. A blank category
// defaults to "other".
type Draft struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Email    string   `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone    string   `json:"phone,omitempty" validate:"max=50"`
	Category Category `json:"category,omitempty" validate:"omitempty,oneof=personal work family other"`
	TagIDs   []string `json:"tagIds,omitempty"`
	Company  string   `json:"company,omitempty" validate:"max=200"`
	Role     string   `json:"role,omitempty" validate:"max=200"`
	Notes    string   `json:"notes,omitempty" validate:"max=10000"`
}

// Patch holds the fields to change on an existing contact. Nil fields are
// left untouched; a non-nil TagIDs replaces the whole tag list.
type Patch struct {
	Name     *string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Email    *string   `json:"email,omitempty" validate:"omitempty,max=255"`
	Phone    *string   `json:"phone,omitempty" validate:"omitempty,max=50"`
	Category *Category `json:"category,omitempty" validate:"omitempty,oneof=personal work family other"`
	TagIDs   *[]string `json:"tagIds,omitempty"`
	Company  *string   `json:"company,omitempty" validate:"omitempty,max=200"`
	Role     *string   `json:"role,omitempty" validate:"omitempty,max=200"`
	Notes    *string   `json:"notes,omitempty" validate:"omitempty,max=10000"`
}
