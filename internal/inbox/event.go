package inbox

import "github.com/nhle/hr-console/internal/model"

// Event is one input to the reconciler. The inbox is driven entirely by
// this tagged stream so the merge rules stay testable in isolation:
// snapshot fetches, push deliveries, and the viewer's own mutations all
// arrive through the same reducer.
type Event interface {
	event()
}

// FetchCompleted carries the full snapshot for the viewer's scope from
// a successful REST fetch. It is the correctness anchor: applying it
// replaces all previously derived state.
type FetchCompleted struct {
	Items []model.Notification
}

// FetchFailed records a snapshot fetch that did not complete. The
// reconciler leaves existing state untouched; stale-but-consistent
// beats empty-and-wrong.
type FetchFailed struct {
	Err error
}

// PushReceived carries one notification delivered over the push
// channel. Delivery may race an in-flight fetch and may repeat; the
// reducer's duplicate suppression is the backstop.
type PushReceived struct {
	Item model.Notification
}

// MarkedRead records the viewer marking one notification as read.
type MarkedRead struct {
	ID string
}

// Deleted records the viewer deleting one notification.
type Deleted struct {
	ID string
}

func (FetchCompleted) event() {}
func (FetchFailed) event()    {}
func (PushReceived) event()   {}
func (MarkedRead) event()     {}
func (Deleted) event()        {}
