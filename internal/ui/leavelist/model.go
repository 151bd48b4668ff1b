// Package leavelist shows leave requests: the full approval queue for
// admins, or the viewer's own requests for employees. The admin mode
// drives the pending → {approved, rejected} transition through the
// workflow controller.
package leavelist

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/hr-console/internal/api"
	"github.com/nhle/hr-console/internal/keys"
	"github.com/nhle/hr-console/internal/leave"
	"github.com/nhle/hr-console/internal/model"
	"github.com/nhle/hr-console/internal/store"
	"github.com/nhle/hr-console/internal/theme"
)

// fetchTimeout bounds remote calls issued by this view.
const fetchTimeout = 30 * time.Second

// Mode selects whose requests the view shows.
type Mode int

const (
	// ModeQueue shows every request (admin approval queue).
	ModeQueue Mode = iota
	// ModeMine shows the session employee's own requests.
	ModeMine
)

// LeavesLoadedMsg is sent when leave requests have been loaded.
// FromCache marks results served by the local store before the remote
// refresh lands; a later remote result always replaces them.
type LeavesLoadedMsg struct {
	Mode      Mode
	Leaves    []model.LeaveRequest
	FromCache bool
	Err       error
}

// StatusUpdatedMsg is sent when an approve/reject round trip finishes.
type StatusUpdatedMsg struct {
	Updated *model.LeaveRequest
	Err     error
}

// Model is the leave list view component.
type Model struct {
	list   list.Model
	api    *api.Client
	ctrl   *leave.Controller
	store  store.Store
	keys   *keys.KeyMap
	mode   Mode
	errMsg string
	width  int
	height int
}

// New creates a leave list view in the given mode.
func New(
	client *api.Client,
	ctrl *leave.Controller,
	s store.Store,
	k *keys.KeyMap,
	mode Mode,
	width, height int,
) Model {
	delegate := LeaveDelegate{ShowEmployee: mode == ModeQueue}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Leave Requests"
	if mode == ModeMine {
		l.Title = "My Leave"
	}
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		api:    client,
		ctrl:   ctrl,
		store:  s,
		keys:   k,
		mode:   mode,
		width:  width,
		height: height,
	}
}

// Init loads the cached snapshot immediately and kicks off the remote
// refresh in parallel.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCacheCmd(), m.refreshCmd())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// Update handles messages for the leave list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LeavesLoadedMsg:
		if msg.Mode != m.mode {
			return m, nil
		}
		if msg.Err != nil {
			// Keep whatever is displayed; a failed refresh must not
			// blank the view.
			m.errMsg = "refresh failed: " + msg.Err.Error()
			return m, nil
		}
		m.setLeaves(msg.Leaves)
		if !msg.FromCache {
			m.errMsg = ""
		}
		return m, nil

	case StatusUpdatedMsg:
		if msg.Err != nil {
			if leave.IsInvalidTransition(msg.Err) {
				m.errMsg = msg.Err.Error()
				// The local copy was stale; reload from the server.
				return m, m.refreshCmd()
			}
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.replaceLeave(*msg.Updated)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeys processes key input.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Approve):
		return m.setStatus(model.LeaveApproved)

	case key.Matches(msg, m.keys.Reject):
		return m.setStatus(model.LeaveRejected)

	case key.Matches(msg, m.keys.Back):
		m.errMsg = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// setStatus starts an approve/reject round trip for the selected row.
// Only the admin queue exposes these actions, and a non-pending row
// fails fast in the controller without a network call.
func (m Model) setStatus(status model.LeaveStatus) (Model, tea.Cmd) {
	if m.mode != ModeQueue {
		return m, nil
	}
	item, ok := m.list.SelectedItem().(LeaveItem)
	if !ok {
		return m, nil
	}

	ctrl := m.ctrl
	request := item.Leave
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		updated, err := ctrl.SetStatus(ctx, request, status)
		return StatusUpdatedMsg{Updated: updated, Err: err}
	}
}

// View renders the leave list with an optional error banner.
func (m Model) View() string {
	view := m.list.View()
	if m.errMsg != "" {
		view += "\n" + theme.ErrorStyle.Render(m.errMsg) +
			theme.HelpStyle.Render("  (esc to dismiss)")
	}
	return view
}

// setLeaves replaces the list contents, preserving the cursor.
func (m *Model) setLeaves(leaves []model.LeaveRequest) {
	selectedID := ""
	if item, ok := m.list.SelectedItem().(LeaveItem); ok {
		selectedID = item.Leave.ID
	}

	items := make([]list.Item, len(leaves))
	cursor := -1
	for i, l := range leaves {
		items[i] = LeaveItem{Leave: l}
		if l.ID == selectedID {
			cursor = i
		}
	}
	m.list.SetItems(items)
	if cursor >= 0 {
		m.list.Select(cursor)
	}
}

// replaceLeave swaps one updated request into the list in place.
func (m *Model) replaceLeave(updated model.LeaveRequest) {
	items := m.list.Items()
	for i, item := range items {
		li, ok := item.(LeaveItem)
		if !ok || li.Leave.ID != updated.ID {
			continue
		}
		items[i] = LeaveItem{Leave: updated}
		m.list.SetItems(items)
		return
	}
}

// loadCacheCmd serves the last cached snapshot so the view renders
// before the network answers.
func (m Model) loadCacheCmd() tea.Cmd {
	s := m.store
	mode := m.mode
	session := m.api.Session()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		filter := store.LeaveFilter{}
		if mode == ModeMine {
			filter.EmployeeID = &session.EmployeeID
		}
		leaves, err := s.GetLeaves(ctx, filter)
		if err != nil {
			// Cache misses are silent; the remote refresh is already
			// in flight.
			return LeavesLoadedMsg{Mode: mode, FromCache: true}
		}
		return LeavesLoadedMsg{Mode: mode, Leaves: leaves, FromCache: true}
	}
}

// refreshCmd fetches the current snapshot from the server and updates
// the cache.
func (m Model) refreshCmd() tea.Cmd {
	client := m.api
	s := m.store
	mode := m.mode
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var (
			leaves []model.LeaveRequest
			err    error
		)
		if mode == ModeMine {
			leaves, err = client.MyLeaves(ctx)
		} else {
			leaves, err = client.ListLeaves(ctx)
		}
		if err != nil {
			return LeavesLoadedMsg{Mode: mode, Err: err}
		}

		if err := s.UpsertLeaves(ctx, leaves); err != nil {
			// The fetched data is still good; cache write failure only
			// costs the next cold start.
			return LeavesLoadedMsg{Mode: mode, Leaves: leaves}
		}
		return LeavesLoadedMsg{Mode: mode, Leaves: leaves}
	}
}
