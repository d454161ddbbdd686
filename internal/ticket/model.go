package ticket

import (
	"time"

	"github.com/linnemanlabs/sift/internal/triage"
)

// Status tracks where a ticket is in its lifecycle.
type Status string

const (
	// StatusOpen means created, not yet picked up
	StatusOpen Status = "open"

	// StatusInProgress means currently being worked
	StatusInProgress Status = "in_progress"

	// StatusResolved means closed out
	StatusResolved Status = "resolved"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusInProgress || s == StatusResolved
}

// Ticket is one service-desk ticket.
type Ticket struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    triage.Category `json:"category"`
	Priority    triage.Priority `json:"priority"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Patch carries the fields of a partial update; nil fields are untouched.
type Patch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *triage.Category `json:"category"`
	Priority    *triage.Priority `json:"priority"`
	Status      *Status          `json:"status"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Status == nil
}
