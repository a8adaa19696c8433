// Package content defines the ContentPost entity stored in the
// content_posts table, its enumerations, and the parameter structs
// used by the storage layer.
package content

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type classifies what kind of content a post holds.
type Type string

// Allowed content_type values. The table CHECK constraint mirrors this list.
const (
	TypeCreatePost Type = "create_post"
	TypeLeadMagnet Type = "lead_magnet"
)

// Status is the lifecycle state of a post. The intended progression is
// draft -> scheduled -> published -> archived, but no layer enforces
// transition order; any status may be set from any other.
type Status string

// Allowed status values. The table CHECK constraint mirrors this list.
const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether t is one of the allowed content types.
func (t Type) Valid() bool {
	return t == TypeCreatePost || t == TypeLeadMagnet
}

// Valid reports whether s is one of the allowed statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// Types returns all allowed content types.
func Types() []Type {
	return []Type{TypeCreatePost, TypeLeadMagnet}
}

// Statuses returns all allowed statuses.
func Statuses() []Status {
	return []Status{StatusDraft, StatusScheduled, StatusPublished, StatusArchived}
}

// Post is one row of the content_posts table. SourceData and EditHistory
// are never nil once a row exists: the column defaults store {} and []
// when the caller supplies nothing.
type Post struct {
	ID              uuid.UUID
	Title           *string
	Content         string
	ContentType     Type
	Status          Status
	SourceData      json.RawMessage
	OriginalContent *string
	EditHistory     json.RawMessage
	ScheduledDate   *time.Time
	Platform        *string
	Tags            []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateParams carries the caller-settable fields for a new post.
// ID, CreatedAt, and UpdatedAt are always server-assigned. Status,
// SourceData, and EditHistory fall back to their column defaults
// (draft, {}, []) when left zero.
type CreateParams struct {
	Title           *string
	Content         string
	ContentType     Type
	Status          Status
	SourceData      json.RawMessage
	OriginalContent *string
	EditHistory     json.RawMessage
	ScheduledDate   *time.Time
	Platform        *string
	Tags            []string
}

// UpdateParams carries the caller-settable fields for an update.
// UpdatedAt is deliberately absent: the row trigger overwrites it with
// the transaction time on every update, so a caller-supplied value
// would be discarded anyway.
type UpdateParams struct {
	Title           *string
	Content         string
	ContentType     Type
	Status          Status
	SourceData      json.RawMessage
	OriginalContent *string
	EditHistory     json.RawMessage
	ScheduledDate   *time.Time
	Platform        *string
	Tags            []string
}

// Length limits enforced by the column definitions.
const (
	MaxTitleLen    = 255
	MaxPlatformLen = 50
)

// Validate checks p against the table constraints. The database CHECKs
// remain the authority; this catches violations before the round trip.
func (p CreateParams) Validate() error {
	return validateFields(p.Content, p.ContentType, p.Status, p.Title, p.Platform, true)
}

// Validate checks p against the table constraints. Unlike creation,
// updates must always carry an explicit status.
func (p UpdateParams) Validate() error {
	return validateFields(p.Content, p.ContentType, p.Status, p.Title, p.Platform, false)
}

// validateFields is shared by CreateParams and UpdateParams. statusOptional
// allows the zero status on creation, where the column default applies.
func validateFields(body string, ct Type, st Status, title, platform *string, statusOptional bool) error {
	if body == "" {
		return ErrContentRequired
	}

	if !ct.Valid() {
		return ErrInvalidType
	}

	if st == "" {
		if !statusOptional {
			return ErrInvalidStatus
		}
	} else if !st.Valid() {
		return ErrInvalidStatus
	}

	if title != nil && len(*title) > MaxTitleLen {
		return ErrTitleTooLong
	}

	if platform != nil && len(*platform) > MaxPlatformLen {
		return ErrPlatformTooLong
	}

	return nil
}
