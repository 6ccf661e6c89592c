package toast

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ybazarbay/bizhub/internal/keys"
	"github.com/ybazarbay/bizhub/internal/model"
	"github.com/ybazarbay/bizhub/internal/theme"
)

// OpenMsg signals the parent that the user opened an alert. The parent
// routes it to a view and issues the mark-read call; by the time it is
// delivered the alert itself is already dismissed.
type OpenMsg struct {
	Notification model.Notification
}

// expiredMsg fires when an alert's display time runs out. Expiry only
// removes the alert from view; it has no other side effect.
type expiredMsg struct {
	id string
}

// Model renders the stack of transient alerts, newest on top. Each
// alert is keyed by its notification ID, auto-expires after the
// configured duration, and ends up dismissed exactly once whether by
// key press or by timeout.
type Model struct {
	keys     *keys.KeyMap
	duration time.Duration
	alerts   []model.Notification
	width    int
}

// New creates an empty toast stack. Alerts live for the given duration
// unless opened or dismissed earlier.
func New(k *keys.KeyMap, duration time.Duration, width int) Model {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return Model{
		keys:     k,
		duration: duration,
		width:    width,
	}
}

// Push adds an alert for the notification and schedules its expiry.
// The alert's identity is the notification's ID, so a later dismissal
// addresses the right alert without any extra mapping.
func (m Model) Push(n model.Notification) (Model, tea.Cmd) {
	m.alerts = append([]model.Notification{n}, m.remove(n.ID)...)

	id := n.ID
	return m, tea.Tick(m.duration, func(time.Time) tea.Msg {
		return expiredMsg{id: id}
	})
}

// Update handles expiry ticks and the open/dismiss keys. Keys act on
// the newest alert.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case expiredMsg:
		m.alerts = m.remove(msg.id)
		return m, nil

	case tea.KeyMsg:
		if len(m.alerts) == 0 {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.OpenAlert):
			n := m.alerts[0]
			// Dismiss before routing; the outcome of navigation or
			// mark-read does not keep the alert alive.
			m.alerts = m.remove(n.ID)
			return m, func() tea.Msg {
				return OpenMsg{Notification: n}
			}

		case key.Matches(msg, m.keys.DismissAlert):
			m.alerts = m.remove(m.alerts[0].ID)
			return m, nil
		}
	}

	return m, nil
}

// Active returns the number of alerts currently on screen.
func (m Model) Active() int {
	return len(m.alerts)
}

// View renders the alert stack.
func (m Model) View() string {
	if len(m.alerts) == 0 {
		return ""
	}

	hint := theme.ToastHintStyle.Render(
		m.keys.OpenAlert.Help().Key + " view · " +
			m.keys.DismissAlert.Help().Key + " dismiss",
	)

	boxes := make([]string, 0, len(m.alerts))
	for _, n := range m.alerts {
		body := lipgloss.JoinVertical(
			lipgloss.Left,
			Icon(n)+" "+Message(n),
			hint,
		)
		boxes = append(boxes, theme.ToastStyle.Render(body))
	}

	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

// SetWidth updates the available width for rendering.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// remove returns the alert list without the alert keyed by id.
func (m Model) remove(id string) []model.Notification {
	kept := make([]model.Notification, 0, len(m.alerts))
	for _, n := range m.alerts {
		if n.ID == id {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}
