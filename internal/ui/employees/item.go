package employees

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/hr-console/internal/model"
	"github.com/nhle/hr-console/internal/theme"
)

// EmployeeItem adapts an Employee for the bubbles list.
type EmployeeItem struct {
	Employee model.Employee
}

// FilterValue implements list.Item.
func (i EmployeeItem) FilterValue() string {
	return i.Employee.Name + " " + i.Employee.Email + " " + i.Employee.Position
}

// EmployeeDelegate renders directory rows.
type EmployeeDelegate struct{}

// Height implements list.ItemDelegate.
func (d EmployeeDelegate) Height() int { return 1 }

// Spacing implements list.ItemDelegate.
func (d EmployeeDelegate) Spacing() int { return 0 }

// Update implements list.ItemDelegate.
func (d EmployeeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render implements list.ItemDelegate.
func (d EmployeeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EmployeeItem)
	if !ok {
		return
	}
	e := ei.Employee

	division := theme.HelpStyle.Render(e.Division)
	row := fmt.Sprintf("%-24s %-20s %s", e.Name, e.Position, division)

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(row))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(row))
}
