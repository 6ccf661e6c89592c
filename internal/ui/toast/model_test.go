package toast

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybazarbay/bizhub/internal/keys"
	"github.com/ybazarbay/bizhub/internal/model"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestToasts() Model {
	return New(keys.DefaultKeyMap(), 5*time.Second, 80)
}

func TestToast_PushStacksNewestFirst(t *testing.T) {
	m := newTestToasts()

	m, cmd := m.Push(model.Notification{ID: "n-1", Type: model.TypeComment})
	require.NotNil(t, cmd, "every push schedules an expiry")
	m, _ = m.Push(model.Notification{ID: "n-2", Type: model.TypePostLike})

	assert.Equal(t, 2, m.Active())
	assert.Equal(t, "n-2", m.alerts[0].ID)
	assert.Equal(t, "n-1", m.alerts[1].ID)
}

func TestToast_PushSameIDReplaces(t *testing.T) {
	m := newTestToasts()

	m, _ = m.Push(model.Notification{ID: "n-1", Message: "first"})
	m, _ = m.Push(model.Notification{ID: "n-1", Message: "second"})

	assert.Equal(t, 1, m.Active())
}

func TestToast_ExpiryRemovesOnlyMatchingAlert(t *testing.T) {
	m := newTestToasts()
	m, _ = m.Push(model.Notification{ID: "n-1"})
	m, _ = m.Push(model.Notification{ID: "n-2"})

	m, _ = m.Update(expiredMsg{id: "n-1"})

	require.Equal(t, 1, m.Active())
	assert.Equal(t, "n-2", m.alerts[0].ID)

	// A stale expiry for an already-dismissed alert is harmless.
	m, _ = m.Update(expiredMsg{id: "n-1"})
	assert.Equal(t, 1, m.Active())
}

func TestToast_OpenDismissesAndEmitsOpenMsg(t *testing.T) {
	m := newTestToasts()
	m, _ = m.Push(model.Notification{ID: "n-1"})
	m, _ = m.Push(model.Notification{ID: "n-2"})

	m, cmd := m.Update(keyPress('o'))
	require.NotNil(t, cmd)

	open, ok := cmd().(OpenMsg)
	require.True(t, ok)
	assert.Equal(t, "n-2", open.Notification.ID, "open acts on the newest alert")
	assert.Equal(t, 1, m.Active())
}

func TestToast_DismissRemovesNewest(t *testing.T) {
	m := newTestToasts()
	m, _ = m.Push(model.Notification{ID: "n-1"})
	m, _ = m.Push(model.Notification{ID: "n-2"})

	m, cmd := m.Update(keyPress('x'))

	assert.Nil(t, cmd)
	require.Equal(t, 1, m.Active())
	assert.Equal(t, "n-1", m.alerts[0].ID)
}

func TestToast_KeysIgnoredWhenEmpty(t *testing.T) {
	m := newTestToasts()

	m, cmd := m.Update(keyPress('o'))
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Active())
}

func TestToast_ViewEmptyWhenNoAlerts(t *testing.T) {
	m := newTestToasts()
	assert.Empty(t, m.View())

	m, _ = m.Push(model.Notification{ID: "n-1", Type: model.TypePostLike, ActorUsername: "dana"})
	assert.Contains(t, m.View(), "dana liked your post")
}
