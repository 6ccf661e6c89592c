package notiflist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ybazarbay/bizhub/internal/keys"
	"github.com/ybazarbay/bizhub/internal/model"
	"github.com/ybazarbay/bizhub/internal/store"
	"github.com/ybazarbay/bizhub/internal/theme"
)

// LoadedMsg is sent when notifications have been loaded from the store.
type LoadedMsg struct {
	Notifications []model.Notification
}

// OpenRowMsg signals the parent that the user opened a notification
// row. The parent resolves navigation and issues the mark-read call,
// exactly as for an opened toast.
type OpenRowMsg struct {
	Notification model.Notification
}

// MarkReadRowMsg signals the parent that the user marked the selected
// notification read without opening it.
type MarkReadRowMsg struct {
	Notification model.Notification
}

// MarkAllReadMsg signals the parent that the user asked to mark every
// notification read.
type MarkAllReadMsg struct{}

// RefreshMsg signals the parent that the user asked for a fresh fetch
// of the full notification list from the server.
type RefreshMsg struct{}

// Model is the full notification list view. It reads from the shared
// local store, so its read state always agrees with the alert path.
type Model struct {
	list   list.Model
	store  store.Store
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new notification list model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads notifications from the store.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Update handles messages for the notification list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		items := make([]list.Item, len(msg.Notifications))
		for i, n := range msg.Notifications {
			items[i] = NotificationItem{Notification: n}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(NotificationItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return OpenRowMsg{Notification: item.Notification}
			}

		case key.Matches(msg, m.keys.MarkRead):
			item, ok := m.list.SelectedItem().(NotificationItem)
			if !ok || item.Notification.IsRead {
				return m, nil
			}
			return m, func() tea.Msg {
				return MarkReadRowMsg{Notification: item.Notification}
			}

		case key.Matches(msg, m.keys.MarkAllRead):
			return m, func() tea.Msg {
				return MarkAllReadMsg{}
			}

		case key.Matches(msg, m.keys.Refresh):
			return m, func() tea.Msg {
				return RefreshMsg{}
			}
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn).
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the notification list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no notifications exist.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render("No notifications yet.\n\nPress r to refresh.")
}

// Load returns a tea.Cmd that queries the store for all notifications.
func (m Model) Load() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		notifications, err := s.GetNotifications(
			context.Background(),
			store.NotificationFilter{},
		)
		if err != nil {
			return LoadedMsg{Notifications: nil}
		}
		return LoadedMsg{Notifications: notifications}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
