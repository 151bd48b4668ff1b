// Package app is the root Bubble Tea model: view routing, the header
// badge, and the mount/unmount lifecycle of the inbox. The inbox is the
// only view with scoped resources (push channel, reconciler); the app
// guarantees they are acquired on entry and released on exit.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/hr-console/internal/api"
	"github.com/nhle/hr-console/internal/keys"
	"github.com/nhle/hr-console/internal/leave"
	"github.com/nhle/hr-console/internal/model"
	"github.com/nhle/hr-console/internal/push"
	"github.com/nhle/hr-console/internal/store"
	"github.com/nhle/hr-console/internal/ui"
	"github.com/nhle/hr-console/internal/ui/employees"
	"github.com/nhle/hr-console/internal/ui/helpview"
	"github.com/nhle/hr-console/internal/ui/inboxview"
	"github.com/nhle/hr-console/internal/ui/leaveform"
	"github.com/nhle/hr-console/internal/ui/leavelist"
)

// badgeInterval is how often the unread badge is refreshed while the
// inbox view itself is not mounted.
const badgeInterval = 60 * time.Second

// badgeTickMsg drives the periodic badge refresh.
type badgeTickMsg struct{}

// badgeCountMsg carries a fresh unread count for the header badge.
type badgeCountMsg struct {
	count int
	err   error
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLeaves ViewState = iota
	ViewInbox
	ViewEmployees
	ViewLeaveForm
	ViewHelp
)

// Model is the root Bubble Tea model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	api          *api.Client
	session      model.Session
	keys         *keys.KeyMap

	inbox     inboxview.Model
	leaves    leavelist.Model
	directory employees.Model
	form      leaveform.Model
	help      helpview.Model

	ready       bool
	unreadCount int
}

// Config carries the wiring the root model needs.
type Config struct {
	Client       *api.Client
	Store        store.Store
	BaseURL      string
	PushEnabled  bool
	PollInterval time.Duration
}

// New creates the root application model for the given viewer session.
func New(cfg Config) Model {
	k := keys.DefaultKeyMap()
	sess := cfg.Client.Session()
	ctrl := leave.NewController(cfg.Client, sess)

	mode := leavelist.ModeMine
	if sess.Role == model.RoleAdmin {
		mode = leavelist.ModeQueue
	}

	return Model{
		currentView: ViewLeaves,
		api:         cfg.Client,
		session:     sess,
		keys:        k,
		inbox: inboxview.New(
			cfg.Client, k, cfg.BaseURL, cfg.PushEnabled,
			cfg.PollInterval, 80, 24,
		),
		leaves:    leavelist.New(cfg.Client, ctrl, cfg.Store, k, mode, 80, 24),
		directory: employees.New(cfg.Client, cfg.Store, k, 80, 24),
		form:      leaveform.New(ctrl, 80, 24),
		help:      helpview.New(k, 80, 24),
	}
}

// Init loads the initial view and starts the badge refresh cycle.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.leaves.Init(),
		m.fetchBadgeCmd(),
		badgeTick(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.inbox.SetSize(w, h)
		m.leaves.SetSize(w, h)
		m.directory.SetSize(w, h)
		m.form.SetSize(w, h)
		m.help.SetSize(w, h)
		return m.updateActiveView(msg)

	case badgeTickMsg:
		// While the inbox is mounted its reconciler is authoritative;
		// otherwise ask the server.
		if m.inbox.Mounted() {
			return m, badgeTick()
		}
		return m, tea.Batch(m.fetchBadgeCmd(), badgeTick())

	case badgeCountMsg:
		if msg.err == nil && !m.inbox.Mounted() {
			m.unreadCount = msg.count
		}
		return m, nil

	case leaveform.LeaveSubmittedMsg:
		if msg.Err != nil {
			// The form redisplays itself with the error and the
			// entered values.
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		// Submission accepted: back to the leave list, refreshed.
		m.currentView = ViewLeaves
		return m, m.leaves.Init()

	case leaveform.LeaveFormCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
		return m.updateActiveView(msg)
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes application-wide shortcuts. Keys are not
// treated as global while the leave form is focused, except esc which
// huh handles itself.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.currentView == ViewLeaveForm {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m = m.unmountInbox()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Inbox):
		if m.currentView == ViewInbox {
			return m, nil, true
		}
		return m.switchTo(ViewInbox)

	case key.Matches(msg, m.keys.Leaves):
		if m.currentView == ViewLeaves {
			return m, nil, true
		}
		return m.switchTo(ViewLeaves)

	case key.Matches(msg, m.keys.Employees):
		if m.currentView == ViewEmployees {
			return m, nil, true
		}
		return m.switchTo(ViewEmployees)

	case key.Matches(msg, m.keys.NewLeave):
		if m.session.Role != model.RoleEmployee {
			return m, nil, true
		}
		return m.switchTo(ViewLeaveForm)

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m.switchTo(ViewHelp)
	}

	return m, nil, false
}

// switchTo changes the active view, handling the inbox's scoped
// acquisition and release.
func (m Model) switchTo(v ViewState) (tea.Model, tea.Cmd, bool) {
	m.previousView = m.currentView
	m = m.unmountInbox()
	m.currentView = v

	switch v {
	case ViewInbox:
		var cmd tea.Cmd
		m.inbox, cmd = m.inbox.Mount()
		return m, cmd, true
	case ViewLeaves:
		return m, m.leaves.Init(), true
	case ViewEmployees:
		return m, m.directory.Init(), true
	case ViewLeaveForm:
		cmd := m.form.Start()
		return m, cmd, true
	default:
		return m, nil, true
	}
}

// unmountInbox releases the inbox's push channel and reconciler if the
// view is being left, carrying its final unread count into the badge.
func (m Model) unmountInbox() Model {
	if !m.inbox.Mounted() {
		return m
	}
	m.unreadCount = m.inbox.Unread()
	m.inbox = m.inbox.Unmount()
	return m
}

// updateActiveView routes a message to the currently active view. Inbox
// messages (fetch results, push events) are routed there even when
// another view is focused, since its epoch checks make late arrivals
// harmless.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch m.currentView {
	case ViewInbox:
		m.inbox, cmd = m.inbox.Update(msg)
		m.unreadCount = m.inbox.Unread()
	case ViewLeaves:
		m.leaves, cmd = m.leaves.Update(msg)
	case ViewEmployees:
		m.directory, cmd = m.directory.Update(msg)
	case ViewLeaveForm:
		m.form, cmd = m.form.Update(msg)
	case ViewHelp:
		m.help, cmd = m.help.Update(msg)
	}
	cmds = append(cmds, cmd)

	if m.currentView != ViewInbox {
		switch msg.(type) {
		case inboxview.FetchResultMsg, push.EventMsg, push.ConnectedMsg, push.ClosedMsg:
			m.inbox, cmd = m.inbox.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the active view inside the standard frame.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	connStatus := "polling"
	if m.inbox.Connected() {
		connStatus = "live"
	}

	title := "HR Console"
	switch m.currentView {
	case ViewInbox:
		title = "HR Console - Inbox"
	case ViewLeaves:
		title = "HR Console - Leave"
	case ViewEmployees:
		title = "HR Console - Employees"
	case ViewLeaveForm:
		title = "HR Console - New Leave"
	case ViewHelp:
		title = "HR Console - Help"
	}

	header := m.layout.RenderHeader(title, m.unreadCount, connStatus)
	statusBar := m.layout.RenderStatusBar(m.statusHints())

	var content string
	switch m.currentView {
	case ViewInbox:
		content = m.inbox.View()
	case ViewLeaves:
		content = m.leaves.View()
	case ViewEmployees:
		content = m.directory.View()
	case ViewLeaveForm:
		content = m.form.View()
	case ViewHelp:
		content = m.help.View()
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// statusHints returns the keyboard hints for the active view.
func (m Model) statusHints() string {
	switch m.currentView {
	case ViewInbox:
		return "m mark read • d delete • r refresh • l leave • ? help • q quit"
	case ViewLeaves:
		if m.session.Role == model.RoleAdmin {
			return "a approve • x reject • r refresh • i inbox • ? help • q quit"
		}
		return "n new request • r refresh • i inbox • ? help • q quit"
	case ViewEmployees:
		return "/ search • r refresh • i inbox • l leave • ? help • q quit"
	case ViewLeaveForm:
		return "enter next field • esc cancel"
	default:
		return "? close help • q quit"
	}
}

// fetchBadgeCmd asks the server for the unread count.
func (m Model) fetchBadgeCmd() tea.Cmd {
	client := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		count, err := client.UnreadCount(ctx)
		return badgeCountMsg{count: count, err: err}
	}
}

// badgeTick schedules the next badge refresh.
func badgeTick() tea.Cmd {
	return tea.Tick(badgeInterval, func(time.Time) tea.Msg {
		return badgeTickMsg{}
	})
}
