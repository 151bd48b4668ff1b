// Package inbox merges the two independently-arriving notification
// sources (periodic REST snapshots and realtime push events) into one
// ordered, deduplicated, read-tracked list for a single viewer.
package inbox

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nhle/hr-console/internal/model"
)

// ScopeViolationError reports a notification addressed to a scope the
// viewer is not entitled to see. Scope filtering is server-enforced, so
// observing one means a broken precondition; the reconciler refuses the
// data rather than guessing.
type ScopeViolationError struct {
	NotificationID string
	Want           model.Scope
	Got            model.Scope
}

func (e *ScopeViolationError) Error() string {
	return fmt.Sprintf(
		"notification %s is scoped to %q, viewer scope is %q",
		e.NotificationID, e.Got, e.Want,
	)
}

// IsScopeViolation reports whether err (or any error in its chain) is a
// ScopeViolationError.
func IsScopeViolation(err error) bool {
	var sve *ScopeViolationError
	return errors.As(err, &sve)
}

// Reconciler owns the derived inbox state for one mounted view. It is
// not safe for concurrent use; all events must be applied from the UI
// event loop, which is how Bubble Tea delivers them.
type Reconciler struct {
	scope  model.Scope
	items  []model.Notification // sorted by CreatedAt descending
	unread int
}

// New creates an empty reconciler for the given viewer scope.
func New(scope model.Scope) *Reconciler {
	return &Reconciler{scope: scope}
}

// Apply folds one event into the inbox state. Every event kind is
// idempotent: applying the same PushReceived, MarkedRead, or Deleted
// twice yields the same state as applying it once. A non-nil error
// means the event was rejected and state is unchanged.
func (r *Reconciler) Apply(e Event) error {
	switch ev := e.(type) {
	case FetchCompleted:
		return r.applyFetch(ev.Items)
	case FetchFailed:
		// Keep whatever we have; the next successful fetch reconciles.
		return nil
	case PushReceived:
		return r.applyPush(ev.Item)
	case MarkedRead:
		r.applyMarkRead(ev.ID)
		return nil
	case Deleted:
		r.applyDelete(ev.ID)
		return nil
	default:
		return fmt.Errorf("unknown inbox event %T", e)
	}
}

// applyFetch replaces the list with the fetched snapshot and recomputes
// the unread count from scratch. The last completed fetch always wins
// over push-accumulated state.
func (r *Reconciler) applyFetch(items []model.Notification) error {
	for _, n := range items {
		if n.Scope != r.scope {
			return &ScopeViolationError{
				NotificationID: n.ID,
				Want:           r.scope,
				Got:            n.Scope,
			}
		}
	}

	next := make([]model.Notification, len(items))
	copy(next, items)
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].CreatedAt.After(next[j].CreatedAt)
	})

	r.items = next
	r.unread = countUnread(next)
	return nil
}

// applyPush inserts one pushed notification, preserving descending
// CreatedAt order. A notification whose id is already present is
// discarded: the push channel promises nothing about duplicates or
// ordering relative to fetches, so suppression happens here.
func (r *Reconciler) applyPush(n model.Notification) error {
	if n.Scope != r.scope {
		return &ScopeViolationError{
			NotificationID: n.ID,
			Want:           r.scope,
			Got:            n.Scope,
		}
	}

	if r.indexOf(n.ID) >= 0 {
		return nil
	}

	// Insert before the first entry older than n; entries with equal
	// timestamps keep arrival order.
	pos := len(r.items)
	for i, existing := range r.items {
		if existing.CreatedAt.Before(n.CreatedAt) {
			pos = i
			break
		}
	}
	r.items = append(r.items, model.Notification{})
	copy(r.items[pos+1:], r.items[pos:])
	r.items[pos] = n

	if !n.Read {
		r.unread++
	}
	return nil
}

// applyMarkRead flips one entry to read. Unknown ids and already-read
// entries are no-ops, so the unread count can never go negative.
func (r *Reconciler) applyMarkRead(id string) {
	i := r.indexOf(id)
	if i < 0 || r.items[i].Read {
		return
	}
	r.items[i].Read = true
	if r.unread > 0 {
		r.unread--
	}
}

// applyDelete removes one entry; the unread count drops only if the
// entry was still unread.
func (r *Reconciler) applyDelete(id string) {
	i := r.indexOf(id)
	if i < 0 {
		return
	}
	if !r.items[i].Read && r.unread > 0 {
		r.unread--
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
}

// indexOf returns the position of the notification with the given id,
// or -1.
func (r *Reconciler) indexOf(id string) int {
	for i, n := range r.items {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Items returns a copy of the ordered notification list, newest first.
func (r *Reconciler) Items() []model.Notification {
	out := make([]model.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Unread returns the number of unread notifications. It always equals
// the count of unread entries in Items().
func (r *Reconciler) Unread() int {
	return r.unread
}

// Len returns the number of notifications currently held.
func (r *Reconciler) Len() int {
	return len(r.items)
}

func countUnread(items []model.Notification) int {
	n := 0
	for _, item := range items {
		if !item.Read {
			n++
		}
	}
	return n
}
