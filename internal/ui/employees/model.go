// Package employees is the directory view. It renders from the local
// SQLite cache first and refreshes from the server in the background,
// so the list is usable the moment the view opens.
package employees

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/hr-console/internal/api"
	"github.com/nhle/hr-console/internal/keys"
	"github.com/nhle/hr-console/internal/model"
	"github.com/nhle/hr-console/internal/store"
	"github.com/nhle/hr-console/internal/theme"
)

// fetchTimeout bounds remote calls issued by this view.
const fetchTimeout = 30 * time.Second

// EmployeesLoadedMsg is sent when directory entries have been loaded.
type EmployeesLoadedMsg struct {
	Employees []model.Employee
	FromCache bool
	Err       error
}

// Model is the employee directory view component.
type Model struct {
	list        list.Model
	api         *api.Client
	store       store.Store
	keys        *keys.KeyMap
	searchMode  bool
	searchInput textinput.Model
	query       *string
	errMsg      string
	width       int
	height      int
}

// New creates a new directory view.
func New(client *api.Client, s store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, EmployeeDelegate{}, width, height-2)
	l.Title = "Employees"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search employees..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		api:         client,
		store:       s,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init loads the cached directory and refreshes it from the server.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCacheCmd(), m.refreshCmd())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}

// Update handles messages for the directory view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EmployeesLoadedMsg:
		if msg.Err != nil {
			m.errMsg = "refresh failed: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Employees))
		for i, e := range msg.Employees {
			items[i] = EmployeeItem{Employee: e}
		}
		cmd := m.list.SetItems(items)
		if !msg.FromCache {
			m.errMsg = ""
		}
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := m.searchInput.Value()
		if query != "" {
			m.query = &query
		} else {
			m.query = nil
		}
		return m, m.loadCacheCmd()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = nil
		return m, m.loadCacheCmd()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Back):
		m.errMsg = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the directory list with the optional search prompt.
func (m Model) View() string {
	view := m.list.View()
	if m.searchMode {
		view += "\n" + m.searchInput.View()
	}
	if m.errMsg != "" {
		view += "\n" + theme.ErrorStyle.Render(m.errMsg)
	}
	return view
}

// loadCacheCmd queries the local cache with the current search filter.
func (m Model) loadCacheCmd() tea.Cmd {
	s := m.store
	query := m.query
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		employees, err := s.GetEmployees(ctx, store.EmployeeFilter{Query: query})
		if err != nil {
			return EmployeesLoadedMsg{FromCache: true}
		}
		return EmployeesLoadedMsg{Employees: employees, FromCache: true}
	}
}

// refreshCmd fetches the directory from the server and updates the cache.
func (m Model) refreshCmd() tea.Cmd {
	client := m.api
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		employees, err := client.ListEmployees(ctx)
		if err != nil {
			return EmployeesLoadedMsg{Err: err}
		}

		now := time.Now()
		for i := range employees {
			employees[i].FetchedAt = now
		}
		_ = s.UpsertEmployees(ctx, employees)
		return EmployeesLoadedMsg{Employees: employees}
	}
}
