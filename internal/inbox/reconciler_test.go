package inbox

import (
	"errors"
	"testing"
	"time"

	"github.com/nhle/hr-console/internal/model"
)

var testScope = model.ScopeAdmins

func notif(id string, read bool, createdAt time.Time) model.Notification {
	return model.Notification{
		ID:        id,
		Scope:     testScope,
		Message:   "leave request update " + id,
		Read:      read,
		CreatedAt: createdAt,
	}
}

// checkInvariants verifies the structural guarantees that must hold
// after any event sequence: no duplicate ids, descending CreatedAt
// order, and an unread count that equals the unread entries.
func checkInvariants(t *testing.T, r *Reconciler) {
	t.Helper()

	items := r.Items()
	seen := make(map[string]bool, len(items))
	unread := 0
	for i, n := range items {
		if seen[n.ID] {
			t.Errorf("duplicate id %s in ordered list", n.ID)
		}
		seen[n.ID] = true
		if !n.Read {
			unread++
		}
		if i > 0 && items[i-1].CreatedAt.Before(n.CreatedAt) {
			t.Errorf(
				"order violated at %d: %v before %v",
				i, items[i-1].CreatedAt, n.CreatedAt,
			)
		}
	}
	if r.Unread() != unread {
		t.Errorf("unread count %d drifted from list (%d unread entries)",
			r.Unread(), unread)
	}
}

func TestFetchCompletedReplacesAndSorts(t *testing.T) {
	r := New(testScope)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	// Unsorted input; the reducer must sort descending.
	err := r.Apply(FetchCompleted{Items: []model.Notification{
		notif("1", true, base),
		notif("3", false, base.Add(2*time.Hour)),
		notif("2", false, base.Add(time.Hour)),
	}})
	if err != nil {
		t.Fatalf("applying fetch: %v", err)
	}

	items := r.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].ID != "3" || items[1].ID != "2" || items[2].ID != "1" {
		t.Errorf("wrong order: %s, %s, %s", items[0].ID, items[1].ID, items[2].ID)
	}
	if r.Unread() != 2 {
		t.Errorf("unread = %d, want 2", r.Unread())
	}
	checkInvariants(t, r)
}

func TestPushAfterFetchKeepsOrderAndDedup(t *testing.T) {
	r := New(testScope)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	if err := r.Apply(FetchCompleted{Items: []model.Notification{
		notif("1", false, base),
		notif("3", false, base.Add(2*time.Hour)),
	}}); err != nil {
		t.Fatalf("applying fetch: %v", err)
	}

	// A push older than the newest entry lands in the middle.
	if err := r.Apply(PushReceived{Item: notif("2", false, base.Add(time.Hour))}); err != nil {
		t.Fatalf("applying push: %v", err)
	}

	items := r.Items()
	if items[0].ID != "3" || items[1].ID != "2" || items[2].ID != "1" {
		t.Errorf("wrong order: %s, %s, %s", items[0].ID, items[1].ID, items[2].ID)
	}
	checkInvariants(t, r)
}

func TestPushIsIdempotent(t *testing.T) {
	r := New(testScope)
	base := time.Now().UTC()

	event := PushReceived{Item: notif("5", false, base)}
	if err := r.Apply(event); err != nil {
		t.Fatalf("first push: %v", err)
	}
	wantLen, wantUnread := r.Len(), r.Unread()

	// Same event delivered twice must change nothing.
	if err := r.Apply(event); err != nil {
		t.Fatalf("duplicate push: %v", err)
	}
	if r.Len() != wantLen || r.Unread() != wantUnread {
		t.Errorf("duplicate push changed state: len %d→%d, unread %d→%d",
			wantLen, r.Len(), wantUnread, r.Unread())
	}
	checkInvariants(t, r)
}

func TestDuplicatePushAgainstFetchedEntry(t *testing.T) {
	r := New(testScope)
	base := time.Now().UTC()

	if err := r.Apply(FetchCompleted{Items: []model.Notification{
		notif("5", false, base),
	}}); err != nil {
		t.Fatalf("applying fetch: %v", err)
	}

	// The same notification arriving over push is suppressed.
	if err := r.Apply(PushReceived{Item: notif("5", false, base)}); err != nil {
		t.Fatalf("applying push: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
	if r.Unread() != 1 {
		t.Errorf("unread = %d, want 1", r.Unread())
	}
	checkInvariants(t, r)
}

func TestPushBeforeAnyFetch(t *testing.T) {
	r := New(testScope)

	// A push arriving before the initial fetch completes must still be
	// inserted; no prior fetch is required.
	if err := r.Apply(PushReceived{Item: notif("9", false, time.Now())}); err != nil {
		t.Fatalf("applying push: %v", err)
	}
	if r.Len() != 1 || r.Unread() != 1 {
		t.Errorf("len=%d unread=%d, want 1/1", r.Len(), r.Unread())
	}
}

func TestFetchFailedLeavesStateUntouched(t *testing.T) {
	r := New(testScope)
	base := time.Now().UTC()

	if err := r.Apply(FetchCompleted{Items: []model.Notification{
		notif("1", false, base),
		notif("2", true, base.Add(time.Minute)),
	}}); err != nil {
		t.Fatalf("applying fetch: %v", err)
	}
	before := r.Items()
	beforeUnread := r.Unread()

	if err := r.Apply(FetchFailed{Err: errors.New("connection refused")}); err != nil {
		t.Fatalf("applying failed fetch: %v", err)
	}

	after := r.Items()
	if len(after) != len(before) {
		t.Fatalf("failed fetch changed list length")
	}
	for i := range after {
		if after[i] != before[i] {
			t.Errorf("failed fetch changed item %d", i)
		}
	}
	if r.Unread() != beforeUnread {
		t.Errorf("failed fetch changed unread count")
	}
}

func TestMarkReadNeverGoesNegative(t *testing.T) {
	r := New(testScope)
	base := time.Now().UTC()

	if err := r.Apply(FetchCompleted{Items: []model.Notification{
		notif("1", false, base),
	}}); err != nil {
		t.Fatalf("applying fetch: %v", err)
	}

	// Repeated mark-read on the same entry, plus unknown ids.
	_ = r.Apply(MarkedRead{ID: "1"})
	_ = r.Apply(MarkedRead{ID: "1"})
	_ = r.Apply(MarkedRead{ID: "missing"})

	if r.Unread() != 0 {
		t.Errorf("unread = %d, want 0", r.Unread())
	}
	checkInvariants(t, r)
}

func TestMarkReadThenDelete(t *testing.T) {
	r := New(testScope)
	base := time.Now().UTC()

	if err := r.Apply(FetchCompleted{Items: []model.Notification{
		notif("5", false, base),
		notif("6", false, base.Add(time.Minute)),
	}}); err != nil {
		t.Fatalf("applying fetch: %v", err)
	}

	_ = r.Apply(MarkedRead{ID: "5"})
	if r.Unread() != 1 {
		t.Fatalf("unread = %d after mark-read, want 1", r.Unread())
	}

	// Deleting an already-read entry must not decrement again.
	_ = r.Apply(Deleted{ID: "5"})
	if r.Unread() != 1 {
		t.Errorf("unread = %d after delete, want 1", r.Unread())
	}
	for _, n := range r.Items() {
		if n.ID == "5" {
			t.Errorf("deleted entry still present")
		}
	}
	checkInvariants(t, r)
}

func TestDeleteUnreadDecrements(t *testing.T) {
	r := New(testScope)
	base := time.Now().UTC()

	if err := r.Apply(FetchCompleted{Items: []model.Notification{
		notif("7", false, base),
	}}); err != nil {
		t.Fatalf("applying fetch: %v", err)
	}

	_ = r.Apply(Deleted{ID: "7"})
	if r.Unread() != 0 || r.Len() != 0 {
		t.Errorf("unread=%d len=%d after delete, want 0/0", r.Unread(), r.Len())
	}

	// Deleting again is a no-op.
	_ = r.Apply(Deleted{ID: "7"})
	if r.Unread() != 0 {
		t.Errorf("repeated delete went negative: %d", r.Unread())
	}
}

func TestLateFetchOverridesPushState(t *testing.T) {
	r := New(testScope)
	base := time.Now().UTC()

	// Push accumulates first (fetch still in flight).
	_ = r.Apply(PushReceived{Item: notif("a", false, base)})
	_ = r.Apply(PushReceived{Item: notif("b", false, base.Add(time.Second))})

	// The completed fetch is ground truth: it contains "a" (already
	// read server-side) and not "b" (deleted elsewhere).
	if err := r.Apply(FetchCompleted{Items: []model.Notification{
		notif("a", true, base),
	}}); err != nil {
		t.Fatalf("applying fetch: %v", err)
	}

	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
	if r.Unread() != 0 {
		t.Errorf("unread = %d, want 0", r.Unread())
	}
	checkInvariants(t, r)
}

func TestPushOutsideScopeRejected(t *testing.T) {
	r := New(model.UserScope("e1"))

	foreign := model.Notification{
		ID:        "x",
		Scope:     model.UserScope("e2"),
		Message:   "not yours",
		CreatedAt: time.Now(),
	}
	err := r.Apply(PushReceived{Item: foreign})
	if !IsScopeViolation(err) {
		t.Fatalf("got %v, want scope violation", err)
	}
	if r.Len() != 0 {
		t.Errorf("out-of-scope push was inserted")
	}
}

func TestFetchOutsideScopeRejectedEntirely(t *testing.T) {
	r := New(model.UserScope("e1"))
	base := time.Now().UTC()

	mine := model.Notification{ID: "1", Scope: model.UserScope("e1"), CreatedAt: base}
	if err := r.Apply(FetchCompleted{Items: []model.Notification{mine}}); err != nil {
		t.Fatalf("applying fetch: %v", err)
	}

	foreign := model.Notification{ID: "2", Scope: model.ScopeAdmins, CreatedAt: base}
	err := r.Apply(FetchCompleted{Items: []model.Notification{mine, foreign}})
	if !IsScopeViolation(err) {
		t.Fatalf("got %v, want scope violation", err)
	}
	// The rejected fetch must not have touched existing state.
	if r.Len() != 1 || r.Items()[0].ID != "1" {
		t.Errorf("rejected fetch modified state: %v", r.Items())
	}
}

func TestArrivalOrderDoesNotMatter(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	events := []Event{
		PushReceived{Item: notif("2", false, base.Add(time.Hour))},
		PushReceived{Item: notif("1", false, base)},
		PushReceived{Item: notif("3", false, base.Add(2 * time.Hour))},
	}

	// Apply in two different arrival orders; the final list must match.
	r1 := New(testScope)
	for _, e := range events {
		if err := r1.Apply(e); err != nil {
			t.Fatalf("applying event: %v", err)
		}
	}

	r2 := New(testScope)
	for i := len(events) - 1; i >= 0; i-- {
		if err := r2.Apply(events[i]); err != nil {
			t.Fatalf("applying event: %v", err)
		}
	}

	items1, items2 := r1.Items(), r2.Items()
	if len(items1) != len(items2) {
		t.Fatalf("lengths differ: %d vs %d", len(items1), len(items2))
	}
	for i := range items1 {
		if items1[i].ID != items2[i].ID {
			t.Errorf("position %d differs: %s vs %s", i, items1[i].ID, items2[i].ID)
		}
	}
	checkInvariants(t, r1)
	checkInvariants(t, r2)
}
