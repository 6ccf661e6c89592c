package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybazarbay/bizhub/internal/model"
	"github.com/ybazarbay/bizhub/tests/testutil"
)

// fakeFetcher serves a fixed batch per call and records how it was
// called. When block is set, calls hang until it is closed.
type fakeFetcher struct {
	mu         sync.Mutex
	batches    [][]model.Notification
	errs       []error
	calls      int
	lastUserID string
	unreadOnly bool
	block      chan struct{}
}

func (f *fakeFetcher) Notifications(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	f.mu.Lock()
	call := f.calls
	f.calls++
	f.lastUserID = userID
	f.unreadOnly = unreadOnly
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if call < len(f.errs) && f.errs[call] != nil {
		return nil, f.errs[call]
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	if call >= len(f.batches) {
		call = len(f.batches) - 1
	}
	return f.batches[call], nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recvAlert waits for the next alert with a timeout, since the
// subscription command blocks indefinitely by design.
func recvAlert(t *testing.T, w *Watcher, timeout time.Duration) (AlertMsg, bool) {
	t.Helper()

	ch := make(chan tea.Msg, 1)
	go func() { ch <- w.WaitForNextAlert()() }()

	select {
	case msg := <-ch:
		alert, ok := msg.(AlertMsg)
		return alert, ok
	case <-time.After(timeout):
		return AlertMsg{}, false
	}
}

func testUser(id string) *model.User {
	return &model.User{ID: id, Username: "user-" + id}
}

func TestWatcher_AlertsOnceAcrossPolls(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	batch := []model.Notification{
		mkNotification("n-1", base),
		mkNotification("n-2", base.Add(time.Minute)),
	}
	f := &fakeFetcher{batches: [][]model.Notification{batch}}

	w := New(f, nil, 10*time.Millisecond)
	defer w.Stop()
	w.SetUser(testUser("u-1"))

	first, ok := recvAlert(t, w, time.Second)
	require.True(t, ok)
	second, ok := recvAlert(t, w, time.Second)
	require.True(t, ok)

	got := map[string]bool{first.Notification.ID: true, second.Notification.ID: true}
	assert.True(t, got["n-1"])
	assert.True(t, got["n-2"])

	// Later polls return the same records; none may alert again.
	require.Eventually(t, func() bool { return f.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	_, ok = recvAlert(t, w, 100*time.Millisecond)
	assert.False(t, ok, "a notification id may alert at most once per session")
}

func TestWatcher_NewRecordInLaterPollAlertsAlone(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n1 := model.Notification{ID: "n1", Type: model.TypeComment, ActorUsername: "Alma", PostID: "p1", CreatedAt: base}
	n2 := model.Notification{ID: "n2", Type: model.TypePostLike, CreatedAt: base.Add(15 * time.Second)}
	f := &fakeFetcher{batches: [][]model.Notification{
		{n1},
		{n1, n2},
	}}

	w := New(f, nil, 10*time.Millisecond)
	defer w.Stop()
	w.SetUser(testUser("u-1"))

	first, ok := recvAlert(t, w, time.Second)
	require.True(t, ok)
	assert.Equal(t, "n1", first.Notification.ID)

	// The second poll repeats n1 and adds n2; only n2 may alert.
	second, ok := recvAlert(t, w, time.Second)
	require.True(t, ok)
	assert.Equal(t, "n2", second.Notification.ID)

	_, ok = recvAlert(t, w, 100*time.Millisecond)
	assert.False(t, ok)
}

func TestWatcher_NewestAlertsFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	batch := []model.Notification{
		mkNotification("older", base),
		mkNotification("newer", base.Add(time.Hour)),
	}
	f := &fakeFetcher{batches: [][]model.Notification{batch}}

	w := New(f, nil, time.Minute)
	defer w.Stop()
	w.SetUser(testUser("u-1"))

	first, ok := recvAlert(t, w, time.Second)
	require.True(t, ok)
	assert.Equal(t, "newer", first.Notification.ID)
}

func TestWatcher_MirrorsFetchedRecordsIntoCache(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	batch := []model.Notification{mkNotification("n-1", base)}
	f := &fakeFetcher{batches: [][]model.Notification{batch}}

	s := testutil.NewTestStore(t)
	w := New(f, s, time.Minute)
	defer w.Stop()
	w.SetUser(testUser("u-1"))

	_, ok := recvAlert(t, w, time.Second)
	require.True(t, ok)

	got, err := s.GetNotificationByID(context.Background(), "n-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.TypeComment, got.Type)
}

func TestWatcher_FetchesUnreadForUser(t *testing.T) {
	f := &fakeFetcher{}

	w := New(f, nil, time.Minute)
	defer w.Stop()
	w.SetUser(testUser("u-42"))

	require.Eventually(t, func() bool { return f.callCount() >= 1 }, time.Second, 5*time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "u-42", f.lastUserID)
	assert.True(t, f.unreadOnly)
}

func TestWatcher_SingleFlight(t *testing.T) {
	block := make(chan struct{})
	f := &fakeFetcher{block: block}

	w := New(f, nil, 10*time.Millisecond)
	defer w.Stop()
	w.SetUser(testUser("u-1"))

	// The first fetch hangs; several ticks pass meanwhile. Each tick
	// must skip, not queue, a second fetch.
	require.Eventually(t, func() bool { return f.callCount() == 1 }, time.Second, time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, f.callCount(), "ticks during an in-flight fetch must not start another")

	close(block)
	require.Eventually(t, func() bool { return f.callCount() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestWatcher_FetchErrorRetriedNextTick(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &fakeFetcher{
		errs:    []error{errors.New("gateway unavailable")},
		batches: [][]model.Notification{nil, {mkNotification("n-1", base)}},
	}

	w := New(f, nil, 10*time.Millisecond)
	defer w.Stop()
	w.SetUser(testUser("u-1"))

	alert, ok := recvAlert(t, w, time.Second)
	require.True(t, ok, "a failed poll must not end the session")
	assert.Equal(t, "n-1", alert.Notification.ID)
}

func TestWatcher_LogoutResetsLedger(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	batch := []model.Notification{mkNotification("n-1", base)}
	f := &fakeFetcher{batches: [][]model.Notification{batch}}

	w := New(f, nil, time.Minute)
	defer w.Stop()

	w.SetUser(testUser("u-1"))
	_, ok := recvAlert(t, w, time.Second)
	require.True(t, ok)

	w.SetUser(nil)
	w.SetUser(testUser("u-1"))

	alert, ok := recvAlert(t, w, time.Second)
	require.True(t, ok, "a fresh session must re-alert previously seen ids")
	assert.Equal(t, "n-1", alert.Notification.ID)
}

func TestWatcher_IdentityChangeResetsLedger(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	batch := []model.Notification{mkNotification("n-1", base)}
	f := &fakeFetcher{batches: [][]model.Notification{batch}}

	w := New(f, nil, time.Minute)
	defer w.Stop()

	w.SetUser(testUser("u-1"))
	_, ok := recvAlert(t, w, time.Second)
	require.True(t, ok)

	w.SetUser(testUser("u-2"))

	alert, ok := recvAlert(t, w, time.Second)
	require.True(t, ok)
	assert.Equal(t, "n-1", alert.Notification.ID)
}

func TestWatcher_SameIdentityIsNoOp(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	batch := []model.Notification{mkNotification("n-1", base)}
	f := &fakeFetcher{batches: [][]model.Notification{batch}}

	w := New(f, nil, time.Minute)
	defer w.Stop()

	w.SetUser(testUser("u-1"))
	_, ok := recvAlert(t, w, time.Second)
	require.True(t, ok)

	// A second SetUser with the same identity must not restart the
	// session or clear the ledger.
	w.SetUser(&model.User{ID: "u-1", Username: "renamed"})

	_, ok = recvAlert(t, w, 150*time.Millisecond)
	assert.False(t, ok)
}

func TestWatcher_StopClosesSubscription(t *testing.T) {
	f := &fakeFetcher{}
	w := New(f, nil, time.Minute)
	w.SetUser(testUser("u-1"))

	w.Stop()

	msg := w.WaitForNextAlert()()
	assert.Nil(t, msg)

	// Stop is idempotent and terminal.
	w.Stop()
	w.SetUser(testUser("u-2"))
	assert.Nil(t, w.WaitForNextAlert()())
}
