package notiflist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ybazarbay/bizhub/internal/model"
	"github.com/ybazarbay/bizhub/internal/theme"
	"github.com/ybazarbay/bizhub/internal/ui/toast"
)

// NotificationItem wraps a model.Notification so it can be used in a
// bubbles/list.
type NotificationItem struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i NotificationItem) FilterValue() string {
	return toast.Message(i.Notification)
}

// Title returns the rendered notification text for the list.
func (i NotificationItem) Title() string {
	return toast.Message(i.Notification)
}

// Description returns a short summary line for the list.
func (i NotificationItem) Description() string {
	return string(i.Notification.Type) + " | " + relativeTime(i.Notification.CreatedAt)
}

// ItemDelegate implements list.ItemDelegate for rendering notification rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification line: unread marker, glyph,
// templated text, type badge, relative time.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(NotificationItem)
	if !ok {
		return
	}

	n := ni.Notification
	isSelected := index == m.Index()

	marker := " "
	if !n.IsRead {
		marker = "●"
	}

	typeBadge := theme.TypeStyle(string(n.Type)).Render(string(n.Type))

	text := toast.Message(n)
	if n.IsRead {
		text = theme.ReadStyle.Render(text)
	} else {
		text = theme.UnreadStyle.Render(text)
	}

	timeStr := theme.ReadStyle.Render(relativeTime(n.CreatedAt))

	line := fmt.Sprintf(
		"%s %s %s %s  %s",
		marker, toast.Icon(n), text, typeBadge, timeStr,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
