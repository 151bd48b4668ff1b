package leavelist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/hr-console/internal/model"
	"github.com/nhle/hr-console/internal/theme"
)

// LeaveItem adapts a LeaveRequest for the bubbles list.
type LeaveItem struct {
	Leave model.LeaveRequest
}

// FilterValue implements list.Item.
func (i LeaveItem) FilterValue() string {
	return i.Leave.EmployeeID + " " + i.Leave.Reason
}

// LeaveDelegate renders leave request rows.
type LeaveDelegate struct {
	// ShowEmployee controls whether the employee id column is drawn;
	// it is off for the viewer's own requests.
	ShowEmployee bool
}

// Height implements list.ItemDelegate.
func (d LeaveDelegate) Height() int { return 1 }

// Spacing implements list.ItemDelegate.
func (d LeaveDelegate) Spacing() int { return 0 }

// Update implements list.ItemDelegate.
func (d LeaveDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render implements list.ItemDelegate.
func (d LeaveDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	li, ok := item.(LeaveItem)
	if !ok {
		return
	}
	l := li.Leave

	status := theme.StatusStyle(string(l.Status)).Render(string(l.Status))
	leaveType := theme.LeaveTypeStyle(string(l.Type)).Render(string(l.Type))
	dates := fmt.Sprintf(
		"%s → %s",
		l.StartDate.Format("2006-01-02"),
		l.EndDate.Format("2006-01-02"),
	)

	row := fmt.Sprintf("%s %s  %s", status, leaveType, dates)
	if d.ShowEmployee {
		row = fmt.Sprintf("%s %s  %s  %s", status, leaveType, l.EmployeeID, dates)
	}

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(row))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(row))
}
