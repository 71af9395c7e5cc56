// Package campaigns implements the store side of the campaigns kind:
// outreach campaigns with a schedule, a lifecycle status and a target
// audience made of contacts or tags.
package campaigns

import "time"

// Status is a campaign's lifecycle state.
type Status string

// Campaign statuses. Must match the ENUM in the campaigns migration.
const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusDraft, StatusScheduled, StatusActive, StatusCompleted, StatusCanceled}

// TargetMode selects how a campaign's audience is built.
type TargetMode string

// Target modes. Must match the ENUM in the campaigns migration.
const (
	TargetAll           TargetMode = "all"
	TargetByTag         TargetMode = "by-tag"
	TargetByContactList TargetMode = "by-contact-list"
)

// TargetModes lists every target mode.
var TargetModes = []TargetMode{TargetAll, TargetByTag, TargetByContactList}

// Campaign is an outreach effort aimed at a set of contacts.
type Campaign struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	TargetMode  TargetMode `json:"targetMode"`
	ContactIDs  []string   `json:"contactIds"`
	TagIDs      []string   `json:"tagIds"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// EntityID returns the campaign's store-assigned id.
func (c Campaign) EntityID() string { return c.ID }

// --- Request DTOs ---

// Draft holds the data submitted when creating a campaign. Blank status and
// target mode default to "draft" and "all".
type Draft struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty" validate:"max=10000"`
	Status      Status     `json:"status,omitempty" validate:"omitempty,oneof=draft scheduled active completed canceled"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	TargetMode  TargetMode `json:"targetMode,omitempty" validate:"omitempty,oneof=all by-tag by-contact-list"`
	ContactIDs  []string   `json:"contactIds,omitempty"`
	TagIDs      []string   `json:"tagIds,omitempty"`
}

// Patch holds the fields to change on an existing campaign. Nil fields are
// left untouched. ClearStartDate and ClearEndDate unset a date.
type Patch struct {
	Title          *string     `json:"title,omitempty" validate:"omitempty,max=200"`
	Description    *string     `json:"description,omitempty" validate:"omitempty,max=10000"`
	Status         *Status     `json:"status,omitempty" validate:"omitempty,oneof=draft scheduled active completed canceled"`
	StartDate      *time.Time  `json:"startDate,omitempty"`
	EndDate        *time.Time  `json:"endDate,omitempty"`
	ClearStartDate bool        `json:"clearStartDate,omitempty"`
	ClearEndDate   bool        `json:"clearEndDate,omitempty"`
	TargetMode     *TargetMode `json:"targetMode,omitempty" validate:"omitempty,oneof=all by-tag by-contact-list"`
	ContactIDs     *[]string   `json:"contactIds,omitempty"`
	TagIDs         *[]string   `json:"tagIds,omitempty"`
}
