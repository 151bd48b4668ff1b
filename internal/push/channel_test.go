package push

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/nhle/hr-console/internal/model"
)

var upgrader = websocket.Upgrader{}

// pushServer is a minimal websocket endpoint that records the handshake
// and forwards frames given to its send channel.
type pushServer struct {
	*httptest.Server
	frames chan wireEvent
	auth   chan string
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()

	ps := &pushServer{
		frames: make(chan wireEvent, 8),
		auth:   make(chan string, 8),
	}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/notifications" {
			http.NotFound(w, r)
			return
		}
		ps.auth <- r.Header.Get("Authorization")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for ev := range ps.frames {
			data, _ := json.Marshal(ev)
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ps.Close)
	t.Cleanup(func() { close(ps.frames) })
	return ps
}

// nextMsg runs the subscription command with a timeout so a broken
// channel fails the test instead of hanging it.
func nextMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for channel message")
		return nil
	}
}

func testChannel(t *testing.T, ps *pushServer) *Channel {
	t.Helper()

	sess := model.Session{EmployeeID: "e1", Role: model.RoleEmployee, Token: "tok"}
	c := NewChannel(ps.URL, sess)
	t.Cleanup(c.Close)
	return c
}

func TestOpenConnectsAndAuthenticates(t *testing.T) {
	ps := newPushServer(t)
	c := testChannel(t, ps)

	cmd := c.Open()
	msg := nextMsg(t, cmd)

	connected, ok := msg.(ConnectedMsg)
	if !ok {
		t.Fatalf("got %T, want ConnectedMsg", msg)
	}
	if connected.Attempt != 0 {
		t.Errorf("attempt = %d, want 0 for initial connect", connected.Attempt)
	}
	if auth := <-ps.auth; auth != "Bearer tok" {
		t.Errorf("Authorization = %q, want Bearer tok", auth)
	}
}

func TestEventFrameBecomesEventMsg(t *testing.T) {
	ps := newPushServer(t)
	c := testChannel(t, ps)

	cmd := c.Open()
	if _, ok := nextMsg(t, cmd).(ConnectedMsg); !ok {
		t.Fatal("expected ConnectedMsg first")
	}

	item := model.Notification{
		ID:        "n1",
		Scope:     model.UserScope("e1"),
		Message:   "leave approved",
		CreatedAt: time.Now().UTC(),
	}
	ps.frames <- wireEvent{Event: eventNewNotification, Data: item}

	msg := nextMsg(t, c.WaitForNext())
	ev, ok := msg.(EventMsg)
	if !ok {
		t.Fatalf("got %T, want EventMsg", msg)
	}
	if ev.Item.ID != "n1" || ev.Item.Message != "leave approved" {
		t.Errorf("unexpected item: %+v", ev.Item)
	}
}

func TestUnknownEventNamesAreIgnored(t *testing.T) {
	ps := newPushServer(t)
	c := testChannel(t, ps)

	cmd := c.Open()
	if _, ok := nextMsg(t, cmd).(ConnectedMsg); !ok {
		t.Fatal("expected ConnectedMsg first")
	}

	ps.frames <- wireEvent{Event: "heartbeat"}
	ps.frames <- wireEvent{
		Event: eventNewNotification,
		Data:  model.Notification{ID: "n2", CreatedAt: time.Now()},
	}

	// Only the known event surfaces.
	msg := nextMsg(t, c.WaitForNext())
	ev, ok := msg.(EventMsg)
	if !ok {
		t.Fatalf("got %T, want EventMsg", msg)
	}
	if ev.Item.ID != "n2" {
		t.Errorf("item id = %s, want n2", ev.Item.ID)
	}
}

func TestCloseDeliversClosedMsg(t *testing.T) {
	ps := newPushServer(t)
	c := testChannel(t, ps)

	cmd := c.Open()
	if _, ok := nextMsg(t, cmd).(ConnectedMsg); !ok {
		t.Fatal("expected ConnectedMsg first")
	}

	c.Close()

	msg := nextMsg(t, c.WaitForNext())
	if _, ok := msg.(ClosedMsg); !ok {
		t.Fatalf("got %T, want ClosedMsg", msg)
	}

	// Closing again is harmless.
	c.Close()
}

func TestWebsocketURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"http://hr.corp.test", "ws://hr.corp.test/ws/notifications"},
		{"https://hr.corp.test/", "wss://hr.corp.test/ws/notifications"},
	}
	for _, tc := range cases {
		if got := websocketURL(tc.base); got != tc.want {
			t.Errorf("websocketURL(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestBackoffIsCapped(t *testing.T) {
	if backoff(1) != time.Second {
		t.Errorf("backoff(1) = %v, want 1s", backoff(1))
	}
	if backoff(3) != 4*time.Second {
		t.Errorf("backoff(3) = %v, want 4s", backoff(3))
	}
	for attempt := 6; attempt < 64; attempt += 7 {
		if d := backoff(attempt); d != maxBackoff {
			t.Errorf("backoff(%d) = %v, want cap %v", attempt, d, maxBackoff)
		}
	}
}
