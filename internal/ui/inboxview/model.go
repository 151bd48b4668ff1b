// Package inboxview is the mounted notification inbox. Each mount owns
// one reconciler instance and one push channel; both are discarded on
// unmount, and any fetch still in flight at that point is dropped via
// an epoch check rather than applied to dead state.
package inboxview

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/hr-console/internal/api"
	"github.com/nhle/hr-console/internal/inbox"
	"github.com/nhle/hr-console/internal/keys"
	"github.com/nhle/hr-console/internal/model"
	"github.com/nhle/hr-console/internal/push"
	"github.com/nhle/hr-console/internal/theme"
)

// fetchTimeout bounds a single snapshot fetch.
const fetchTimeout = 30 * time.Second

// FetchResultMsg carries the outcome of one snapshot fetch. Epoch ties
// the result to the mount that issued it.
type FetchResultMsg struct {
	Epoch int
	Items []model.Notification
	Err   error
}

// pollTickMsg drives the periodic snapshot fetch.
type pollTickMsg struct {
	Epoch int
}

// mutationDoneMsg reports a server ack (or failure) for an optimistic
// mark-read or delete. Local state is not rolled back on failure; the
// next completed fetch reconciles.
type mutationDoneMsg struct {
	ID  string
	Err error
}

// Model is the inbox view component.
type Model struct {
	list    list.Model
	api     *api.Client
	keys    *keys.KeyMap
	session model.Session

	rec     *inbox.Reconciler
	channel *push.Channel

	baseURL      string
	pushEnabled  bool
	pollInterval time.Duration

	epoch     int
	mounted   bool
	connected bool
	errMsg    string
	width     int
	height    int
}

// New creates an inbox view. Nothing is fetched and no channel is
// opened until Mount.
func New(
	client *api.Client,
	k *keys.KeyMap,
	baseURL string,
	pushEnabled bool,
	pollInterval time.Duration,
	width, height int,
) Model {
	l := list.New([]list.Item{}, NotificationDelegate{}, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:         l,
		api:          client,
		keys:         k,
		session:      client.Session(),
		baseURL:      baseURL,
		pushEnabled:  pushEnabled,
		pollInterval: pollInterval,
		width:        width,
		height:       height,
	}
}

// Mount acquires the view's resources: a fresh reconciler, the push
// channel, the initial snapshot fetch, and the poll timer.
func (m Model) Mount() (Model, tea.Cmd) {
	m.epoch++
	m.mounted = true
	m.connected = false
	m.errMsg = ""
	m.rec = inbox.New(m.session.Scope())
	m.list.SetItems(nil)

	cmds := []tea.Cmd{m.fetchCmd(m.epoch), m.pollCmd(m.epoch)}

	if m.pushEnabled {
		m.channel = push.NewChannel(m.baseURL, m.session)
		cmds = append(cmds, m.channel.Open())
	}

	return m, tea.Batch(cmds...)
}

// Unmount releases the view's resources. The push channel is closed
// unconditionally and the epoch moves on so late fetch results are
// discarded instead of applied.
func (m Model) Unmount() Model {
	m.mounted = false
	m.epoch++
	if m.channel != nil {
		m.channel.Close()
		m.channel = nil
	}
	m.rec = nil
	return m
}

// Mounted reports whether the view currently owns live inbox state.
func (m Model) Mounted() bool {
	return m.mounted
}

// Unread returns the current unread count, or zero when unmounted.
func (m Model) Unread() int {
	if m.rec == nil {
		return 0
	}
	return m.rec.Unread()
}

// Connected reports whether the push channel is currently up.
func (m Model) Connected() bool {
	return m.mounted && m.connected
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FetchResultMsg:
		return m.handleFetchResult(msg)

	case pollTickMsg:
		if !m.mounted || msg.Epoch != m.epoch {
			return m, nil
		}
		return m, tea.Batch(m.fetchCmd(m.epoch), m.pollCmd(m.epoch))

	case push.EventMsg:
		if !m.mounted || m.channel == nil {
			return m, nil
		}
		if err := m.rec.Apply(inbox.PushReceived{Item: msg.Item}); err != nil {
			m.errMsg = err.Error()
		}
		m.syncList()
		return m, m.channel.WaitForNext()

	case push.ConnectedMsg:
		if !m.mounted || m.channel == nil {
			return m, nil
		}
		m.connected = true
		cmds := []tea.Cmd{m.channel.WaitForNext()}
		if msg.Attempt > 0 {
			// Reconnected after a gap; re-fetch to bound staleness.
			cmds = append(cmds, m.fetchCmd(m.epoch))
		}
		return m, tea.Batch(cmds...)

	case push.ClosedMsg:
		m.connected = false
		return m, nil

	case mutationDoneMsg:
		if msg.Err != nil {
			// Optimistic change stays; the next fetch reconciles.
			m.errMsg = msg.Err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleFetchResult applies a completed or failed snapshot fetch.
func (m Model) handleFetchResult(msg FetchResultMsg) (Model, tea.Cmd) {
	// A result from a previous mount must never touch current state.
	if !m.mounted || msg.Epoch != m.epoch {
		return m, nil
	}

	if msg.Err != nil {
		_ = m.rec.Apply(inbox.FetchFailed{Err: msg.Err})
		m.errMsg = "inbox refresh failed: " + msg.Err.Error()
		return m, nil
	}

	if err := m.rec.Apply(inbox.FetchCompleted{Items: msg.Items}); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""
	m.syncList()
	return m, nil
}

// handleKeys processes key input.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		if !m.mounted {
			return m, nil
		}
		return m, m.fetchCmd(m.epoch)

	case key.Matches(msg, m.keys.MarkRead):
		item, ok := m.list.SelectedItem().(NotificationItem)
		if !ok || item.Notification.Read {
			return m, nil
		}
		id := item.Notification.ID
		_ = m.rec.Apply(inbox.MarkedRead{ID: id})
		m.syncList()
		return m, m.markReadCmd(id)

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(NotificationItem)
		if !ok {
			return m, nil
		}
		id := item.Notification.ID
		_ = m.rec.Apply(inbox.Deleted{ID: id})
		m.syncList()
		return m, m.deleteCmd(id)

	case key.Matches(msg, m.keys.Back):
		m.errMsg = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the inbox list with an optional error banner.
func (m Model) View() string {
	view := m.list.View()
	if m.errMsg != "" {
		view += "\n" + theme.ErrorStyle.Render(m.errMsg) +
			theme.HelpStyle.Render("  (esc to dismiss)")
	}
	return view
}

// syncList mirrors the reconciler's ordered list into the bubbles list,
// keeping the cursor on the same notification where possible.
func (m *Model) syncList() {
	selectedID := ""
	if item, ok := m.list.SelectedItem().(NotificationItem); ok {
		selectedID = item.Notification.ID
	}

	notifications := m.rec.Items()
	items := make([]list.Item, len(notifications))
	cursor := -1
	for i, n := range notifications {
		items[i] = NotificationItem{Notification: n}
		if n.ID == selectedID {
			cursor = i
		}
	}
	m.list.SetItems(items)
	if cursor >= 0 {
		m.list.Select(cursor)
	}
}

// fetchCmd issues one snapshot fetch bound to the given epoch.
func (m Model) fetchCmd(epoch int) tea.Cmd {
	client := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		items, err := client.FetchInbox(ctx)
		return FetchResultMsg{Epoch: epoch, Items: items, Err: err}
	}
}

// pollCmd schedules the next periodic fetch tick.
func (m Model) pollCmd(epoch int) tea.Cmd {
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{Epoch: epoch}
	})
}

// markReadCmd issues the server mutation for an optimistic mark-read.
func (m Model) markReadCmd(id string) tea.Cmd {
	client := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return mutationDoneMsg{ID: id, Err: client.MarkRead(ctx, id)}
	}
}

// deleteCmd issues the server mutation for an optimistic delete.
func (m Model) deleteCmd(id string) tea.Cmd {
	client := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return mutationDoneMsg{ID: id, Err: client.DeleteNotification(ctx, id)}
	}
}
