package model

import (
	"strings"
	"time"
)

// Scope is the notification audience partition: either every admin
// session, or exactly one employee. It is immutable after creation.
type Scope string

// ScopeAdmins addresses all admin sessions.
const ScopeAdmins Scope = "admins"

// UserScope returns the scope addressing a single employee.
func UserScope(employeeID string) Scope {
	return Scope("user:" + employeeID)
}

// IsUser reports whether s addresses a single employee, and if so which one.
func (s Scope) IsUser() (string, bool) {
	id, ok := strings.CutPrefix(string(s), "user:")
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Notification is one inbox entry, created server-side as a side effect
// of a leave request changing state.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Scope is the audience this notification is addressed to.
	Scope Scope `json:"scope"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// RelatedID optionally links back to the originating leave request.
	RelatedID string `json:"related_entity_id,omitempty"`

	// Read indicates whether the viewer has seen this notification.
	// It transitions false to true only.
	Read bool `json:"is_read"`

	// CreatedAt is when the server created this notification.
	CreatedAt time.Time `json:"created_at"`
}
