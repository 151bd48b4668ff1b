package inboxview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/hr-console/internal/model"
	"github.com/nhle/hr-console/internal/theme"
)

// NotificationItem adapts a Notification for the bubbles list.
type NotificationItem struct {
	Notification model.Notification
}

// FilterValue implements list.Item.
func (i NotificationItem) FilterValue() string {
	return i.Notification.Message
}

// NotificationDelegate renders notification rows: unread entries bold,
// read entries dimmed, newest first.
type NotificationDelegate struct{}

// Height implements list.ItemDelegate.
func (d NotificationDelegate) Height() int { return 1 }

// Spacing implements list.ItemDelegate.
func (d NotificationDelegate) Spacing() int { return 0 }

// Update implements list.ItemDelegate.
func (d NotificationDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render implements list.ItemDelegate.
func (d NotificationDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(NotificationItem)
	if !ok {
		return
	}
	n := ni.Notification

	marker := " "
	line := theme.ReadItemStyle.Render(n.Message)
	if !n.Read {
		marker = "●"
		line = theme.UnreadItemStyle.Render(n.Message)
	}

	ts := theme.HelpStyle.Render(n.CreatedAt.Format("Jan 02 15:04"))
	row := fmt.Sprintf("%s %s  %s", marker, ts, line)

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(row))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(row))
}
