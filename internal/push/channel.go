// Package push owns the realtime notification channel: one websocket
// connection per mounted inbox view, opened on mount and closed
// unconditionally on unmount. The channel promises at most one callback
// per delivered event and nothing about ordering or duplicates; the
// inbox reconciler is the correctness backstop.
package push

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nhle/hr-console/internal/model"
)

// eventNewNotification is the only event name the server emits on this
// channel today.
const eventNewNotification = "new_notification"

// maxBackoff caps the reconnect delay.
const maxBackoff = 30 * time.Second

// EventMsg is a tea.Msg carrying one pushed notification.
type EventMsg struct {
	Item model.Notification
}

// ConnectedMsg signals that the channel (re-)established its
// connection. Attempt is 0 for the initial connect; any later value
// means a reconnect, after which the consumer should re-fetch its
// snapshot to bound staleness.
type ConnectedMsg struct {
	Attempt int
}

// ClosedMsg signals that the channel shut down for good (Close was
// called). No further messages follow.
type ClosedMsg struct{}

// wireEvent is the JSON frame format on the websocket.
type wireEvent struct {
	Event string             `json:"event"`
	Data  model.Notification `json:"data"`
}

// Channel manages one websocket subscription for a viewer session.
type Channel struct {
	wsURL     string
	token     string
	sessionID string
	dialer    *websocket.Dialer

	msgCh  chan tea.Msg
	stopCh chan struct{}

	mu      gosync.Mutex
	conn    *websocket.Conn
	running bool
	stopped bool
}

// NewChannel creates a channel for the given server base URL and
// session. Each channel gets a fresh subscription id so the server can
// tell concurrent sessions of the same viewer apart.
func NewChannel(baseURL string, sess model.Session) *Channel {
	return &Channel{
		wsURL:     websocketURL(baseURL),
		token:     sess.Token,
		sessionID: uuid.NewString(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		msgCh:  make(chan tea.Msg, 16),
		stopCh: make(chan struct{}),
	}
}

// Open starts the connection goroutine and returns a command that
// waits for the first message. Calling Open twice is a no-op.
func (c *Channel) Open() tea.Cmd {
	c.mu.Lock()
	if c.running || c.stopped {
		c.mu.Unlock()
		return c.waitForMessage()
	}
	c.running = true
	c.mu.Unlock()

	go c.run()
	return c.waitForMessage()
}

// Close tears the connection down and stops the reconnect loop. It is
// safe to call multiple times and must be called on view unmount so no
// connection outlives its view.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	c.stopped = true
	close(c.stopCh)
	if c.conn != nil {
		c.conn.Close()
	}
}

// WaitForNext returns a command that waits for the next channel
// message. Call it after handling each EventMsg or ConnectedMsg to keep
// the subscription alive in the Bubble Tea runtime.
func (c *Channel) WaitForNext() tea.Cmd {
	return c.waitForMessage()
}

// run is the connect/read/reconnect loop.
func (c *Channel) run() {
	attempt := 0
	for {
		select {
		case <-c.stopCh:
			c.send(ClosedMsg{})
			return
		default:
		}

		conn, err := c.dial()
		if err != nil {
			attempt++
			select {
			case <-c.stopCh:
				c.send(ClosedMsg{})
				return
			case <-time.After(backoff(attempt)):
				continue
			}
		}

		c.mu.Lock()
		if c.stopped {
			c.mu.Unlock()
			conn.Close()
			c.send(ClosedMsg{})
			return
		}
		c.conn = conn
		c.mu.Unlock()

		c.send(ConnectedMsg{Attempt: attempt})
		c.readLoop(conn)

		c.mu.Lock()
		stopped := c.stopped
		c.conn = nil
		c.mu.Unlock()
		if stopped {
			c.send(ClosedMsg{})
			return
		}

		// Connection dropped; back off and reconnect.
		attempt++
	}
}

// dial opens the websocket with the bearer token and subscription id.
func (c *Channel) dial() (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	u := c.wsURL + "?session_id=" + url.QueryEscape(c.sessionID)
	conn, _, err := c.dialer.Dial(u, header)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", c.wsURL, err)
	}
	return conn, nil
}

// readLoop decodes frames until the connection fails or is closed.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ev wireEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			// Skip malformed frames rather than killing the connection.
			continue
		}
		if ev.Event != eventNewNotification {
			continue
		}

		c.send(EventMsg{Item: ev.Data})
	}
}

// send delivers a message to the Bubble Tea side without blocking the
// read loop. If the buffer is full the message is dropped; the next
// snapshot fetch reconciles anything lost.
func (c *Channel) send(msg tea.Msg) {
	select {
	case c.msgCh <- msg:
	default:
	}
}

// waitForMessage returns a command that blocks on the message channel.
func (c *Channel) waitForMessage() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-c.msgCh:
			return msg
		case <-c.stopCh:
			// Drain anything buffered before reporting closure.
			select {
			case msg := <-c.msgCh:
				return msg
			default:
				return ClosedMsg{}
			}
		}
	}
}

// backoff computes the reconnect delay: 1s, 2s, 4s, ... capped.
func backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt-1)) * time.Second
	if d > maxBackoff || d <= 0 {
		d = maxBackoff
	}
	return d
}

// websocketURL converts the REST base URL into the websocket endpoint.
func websocketURL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws/notifications"
}
