package watch

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ybazarbay/bizhub/internal/model"
	"github.com/ybazarbay/bizhub/internal/store"
)

// Fetcher lists a user's notifications. The api.Client satisfies it;
// tests substitute fakes.
type Fetcher interface {
	Notifications(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
}

// AlertMsg is a tea.Msg sent for each notification that should be
// surfaced as a transient alert. One notification ID produces at most
// one AlertMsg per poll session.
type AlertMsg struct {
	Notification model.Notification
}

// fetchTimeout is the maximum time allowed for a single fetch.
const fetchTimeout = 30 * time.Second

// defaultInterval is the polling interval when none is configured.
const defaultInterval = 15 * time.Second

// Watcher drives repeated notification fetches while a user is
// authenticated. It owns the dedup ledger and the poll session: one
// recurring timer exists at a time, a tick never starts a second fetch
// while one is in flight, and ending a session stops the timer before
// clearing the ledger so a terminating fetch cannot repopulate it.
type Watcher struct {
	fetcher  Fetcher
	cache    store.Store
	ledger   *Ledger
	interval time.Duration
	alertCh  chan AlertMsg

	mu       sync.Mutex
	user     *model.User
	gen      int
	inFlight bool
	stopCh   chan struct{}
	stopped  bool
	log      *logrus.Entry
}

// New creates a Watcher polling through fetcher at the given interval.
// The cache may be nil, in which case fetched records are not mirrored
// into the local store.
func New(fetcher Fetcher, cache store.Store, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Watcher{
		fetcher:  fetcher,
		cache:    cache,
		ledger:   NewLedger(),
		interval: interval,
		alertCh:  make(chan AlertMsg, 16),
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
}

// SetUser tells the watcher who is signed in. Going from no user to a
// user fetches immediately and starts the recurring timer; going to
// nil or to a different identity stops the timer and resets the dedup
// ledger. Calling it with the same identity is a no-op.
func (w *Watcher) SetUser(user *model.User) {
	w.mu.Lock()
	if w.stopped || model.SameIdentity(w.user, user) {
		w.mu.Unlock()
		return
	}

	// End the current session: timer first, ledger second.
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
	w.gen++
	w.user = user
	gen := w.gen

	if user == nil {
		w.log.Info("poll session ended")
		w.log = logrus.NewEntry(logrus.StandardLogger())
		w.mu.Unlock()
		w.ledger.Reset()
		return
	}

	sessionID := uuid.New().String()
	w.log = logrus.WithFields(logrus.Fields{
		"session": sessionID,
		"user":    user.ID,
	})
	stopCh := make(chan struct{})
	w.stopCh = stopCh
	w.mu.Unlock()

	w.ledger.Reset()
	w.log.Info("poll session started")
	go w.run(gen, user, stopCh)
}

// Stop tears down any active session and closes the alert channel.
// The watcher cannot be restarted afterwards.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.stopped = true
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
	w.gen++
	w.user = nil
	close(w.alertCh)
}

// Start returns the initial subscription command. The returned command
// blocks on the alert channel and delivers AlertMsg values to the
// Bubble Tea runtime.
func (w *Watcher) Start() tea.Cmd {
	return w.waitForAlert()
}

// WaitForNextAlert returns a command that waits for the next alert.
// Call it after processing an AlertMsg to keep listening.
func (w *Watcher) WaitForNextAlert() tea.Cmd {
	return w.waitForAlert()
}

func (w *Watcher) waitForAlert() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-w.alertCh
		if !ok {
			return nil
		}
		return msg
	}
}

// run is the per-session loop: one fetch immediately, then one per tick.
func (w *Watcher) run(gen int, user *model.User, stopCh chan struct{}) {
	w.poll(gen, user)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			w.poll(gen, user)
		}
	}
}

// poll starts one fetch unless one is already in flight, in which case
// the tick is skipped, not queued. The fetch runs on its own goroutine
// so a slow response never delays the ticker; its late result is still
// processed when it lands, as long as the session is still current.
func (w *Watcher) poll(gen int, user *model.User) {
	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return
	}
	if w.inFlight {
		log := w.log
		w.mu.Unlock()
		log.Debug("fetch still in flight, skipping tick")
		return
	}
	w.inFlight = true
	log := w.log
	w.mu.Unlock()

	go func() {
		defer func() {
			w.mu.Lock()
			w.inFlight = false
			w.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		notifications, err := w.fetcher.Notifications(ctx, user.ID, true)
		if err != nil {
			// Transient by definition; the next tick retries.
			log.WithError(err).Warn("notification fetch failed")
			return
		}

		w.process(gen, log, notifications)
	}()
}

// process sorts a fetch result newest-first, mirrors it into the local
// cache, and emits an alert for every record the ledger has not seen.
func (w *Watcher) process(gen int, log *logrus.Entry, notifications []model.Notification) {
	w.mu.Lock()
	if w.gen != gen {
		// The session ended while this fetch was in flight.
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	eligible := selectForSurfacing(notifications)
	if len(eligible) == 0 {
		return
	}

	if w.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		if err := w.cache.UpsertNotifications(ctx, eligible); err != nil {
			log.WithError(err).Warn("caching notifications failed")
		}
		cancel()
	}

	for _, n := range eligible {
		if !w.ledger.MarkIfNew(n.ID) {
			continue
		}
		w.send(AlertMsg{Notification: n})
	}
}

// send delivers an alert without blocking the poll path. The channel
// is buffered; if the UI has fallen that far behind, the alert is
// dropped rather than stalling the watcher.
func (w *Watcher) send(msg AlertMsg) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	select {
	case w.alertCh <- msg:
	default:
	}
}
