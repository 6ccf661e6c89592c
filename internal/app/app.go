package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ybazarbay/bizhub/internal/api"
	"github.com/ybazarbay/bizhub/internal/credential"
	"github.com/ybazarbay/bizhub/internal/keys"
	"github.com/ybazarbay/bizhub/internal/model"
	"github.com/ybazarbay/bizhub/internal/store"
	"github.com/ybazarbay/bizhub/internal/ui"
	helpview "github.com/ybazarbay/bizhub/internal/ui/help"
	"github.com/ybazarbay/bizhub/internal/ui/login"
	"github.com/ybazarbay/bizhub/internal/ui/notiflist"
	"github.com/ybazarbay/bizhub/internal/ui/postview"
	"github.com/ybazarbay/bizhub/internal/ui/toast"
	"github.com/ybazarbay/bizhub/internal/watch"
)

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// showLoginMsg is sent when no stored session could be resumed and the
// user has to sign in interactively.
type showLoginMsg struct{}

// readStateChangedMsg is sent after a mark-read operation so dependent
// views can reload.
type readStateChangedMsg struct{}

// refreshedMsg is sent after a full notification fetch has been
// mirrored into the local store.
type refreshedMsg struct{}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewNotifications
	ViewPost
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// the poll watcher, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	cfg          *model.AppConfig
	cfgPath      string
	store        store.Store
	keys         *keys.KeyMap

	client  *api.Client
	watcher *watch.Watcher
	user    *model.User

	loginView login.Model
	notifList notiflist.Model
	postView  postview.Model
	helpView  helpview.Model
	toasts    toast.Model

	ready       bool
	unreadCount int
}

// New creates the root application model. The watcher is built per
// sign-in because it needs an authenticated client.
func New(cfg *model.AppConfig, cfgPath string, s store.Store) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewLogin,
		cfg:         cfg,
		cfgPath:     cfgPath,
		store:       s,
		keys:        k,
		loginView:   login.New(cfg.BaseURL, 80, 24),
		notifList:   notiflist.New(s, k, 80, 24),
		postView:    postview.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		toasts:      toast.New(k, cfg.ToastDuration(), 80),
	}
}

// Init tries to resume the stored session; on failure the login form is
// already on screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loginView.Init(),
		m.resumeSession(),
	)
}

// resumeSession verifies the stored token against the configured server
// and signs in without showing the form when it is still valid.
func (m Model) resumeSession() tea.Cmd {
	baseURL := m.cfg.BaseURL
	return func() tea.Msg {
		token, err := credential.GetToken()
		if err != nil || token == "" || baseURL == "" {
			return showLoginMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := api.NewClient(baseURL, token).Me(ctx)
		if err != nil || user == nil {
			logrus.WithError(err).Info("stored session is not resumable")
			return showLoginMsg{}
		}
		return login.LoggedInMsg{User: user, BaseURL: baseURL, Token: token}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.notifList.SetSize(contentWidth, contentHeight)
		m.postView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.toasts.SetWidth(contentWidth)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case showLoginMsg:
		m.currentView = ViewLogin
		return m, nil

	case login.LoggedInMsg:
		return m.signIn(msg)

	case watch.AlertMsg:
		// A late alert can land after logout tore the watcher down.
		if m.watcher == nil {
			return m, nil
		}
		var expireCmd tea.Cmd
		m.toasts, expireCmd = m.toasts.Push(msg.Notification)
		return m, tea.Batch(
			expireCmd,
			m.watcher.WaitForNextAlert(),
			m.notifList.Load(),
			m.fetchUnreadCount(),
		)

	case toast.OpenMsg:
		return m.openNotification(msg.Notification)

	case notiflist.OpenRowMsg:
		return m.openNotification(msg.Notification)

	case notiflist.MarkReadRowMsg:
		return m, m.markRead(msg.Notification.ID)

	case notiflist.MarkAllReadMsg:
		return m, m.markAllRead()

	case notiflist.RefreshMsg:
		return m, m.fetchAllNotifications()

	case readStateChangedMsg:
		return m, tea.Batch(m.notifList.Load(), m.fetchUnreadCount())

	case refreshedMsg:
		return m, tea.Batch(m.notifList.Load(), m.fetchUnreadCount())

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case postview.BackMsg:
		m.currentView = ViewNotifications
		return m, m.notifList.Load()

	case tea.KeyMsg:
		// Global keys that work regardless of current view.
		switch msg.String() {
		case "ctrl+c":
			m.stopWatcher()
			return m, tea.Quit

		case "q":
			if m.currentView == ViewNotifications {
				m.stopWatcher()
				return m, tea.Quit
			}

		case "?":
			// Do not intercept while the login form has input focus.
			if m.currentView == ViewLogin {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case "ctrl+l":
			if m.currentView != ViewLogin {
				return m.signOut()
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// signIn wires up the authenticated client and starts a poll session.
func (m Model) signIn(msg login.LoggedInMsg) (tea.Model, tea.Cmd) {
	m.user = msg.User
	m.client = api.NewClient(msg.BaseURL, msg.Token)

	if m.cfg.BaseURL != msg.BaseURL {
		m.cfg.BaseURL = msg.BaseURL
		if err := model.SaveConfig(m.cfgPath, m.cfg); err != nil {
			logrus.WithError(err).Warn("saving config failed")
		}
	}

	m.stopWatcher()
	m.watcher = watch.New(m.client, m.store, m.cfg.PollInterval())
	m.watcher.SetUser(m.user)

	m.currentView = ViewNotifications
	return m, tea.Batch(
		m.watcher.Start(),
		m.notifList.Load(),
		m.fetchAllNotifications(),
		m.fetchUnreadCount(),
	)
}

// signOut ends the poll session, forgets the token, and drops local
// state so the next account starts clean.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	m.stopWatcher()

	if err := credential.DeleteToken(); err != nil {
		logrus.WithError(err).Warn("deleting stored token failed")
	}
	if err := m.store.Clear(context.Background()); err != nil {
		logrus.WithError(err).Warn("clearing local notifications failed")
	}

	m.user = nil
	m.client = nil
	m.unreadCount = 0
	m.toasts = toast.New(m.keys, m.cfg.ToastDuration(), m.layout.ContentWidth())
	m.loginView = login.New(m.cfg.BaseURL, m.layout.ContentWidth(), m.layout.ContentHeight())
	m.currentView = ViewLogin
	return m, tea.Batch(m.loginView.Init(), m.notifList.Load())
}

// stopWatcher tears down the active watcher, if any. A stopped watcher
// cannot be reused, so sign-in always builds a fresh one.
func (m *Model) stopWatcher() {
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
}

// openNotification marks the notification read and, when it points at a
// post, navigates to the post view. Notifications without a target only
// get the mark-read treatment.
func (m Model) openNotification(n model.Notification) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if !n.IsRead {
		cmds = append(cmds, m.markRead(n.ID))
	}

	if r, ok := resolveRoute(n); ok {
		m.previousView = m.currentView
		m.currentView = ViewPost
		m.postView.SetLoading(true)
		cmds = append(cmds, m.loadPost(r))
	}

	return m, tea.Batch(cmds...)
}

// markRead flips read state locally first so the UI updates without
// waiting on the network, then confirms with the server. A failed
// confirmation is logged and left for the next refresh to reconcile.
func (m Model) markRead(id string) tea.Cmd {
	s := m.store
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.MarkRead(ctx, id); err != nil {
			logrus.WithError(err).Warn("local mark-read failed")
		}
		if client != nil {
			if _, err := client.MarkRead(ctx, id); err != nil {
				logrus.WithError(err).Warn("remote mark-read failed")
			}
		}
		return readStateChangedMsg{}
	}
}

// markAllRead applies the same optimistic pattern to the whole list.
func (m Model) markAllRead() tea.Cmd {
	s := m.store
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.MarkAllRead(ctx); err != nil {
			logrus.WithError(err).Warn("local mark-all-read failed")
		}
		if client != nil {
			if err := client.MarkAllRead(ctx); err != nil {
				logrus.WithError(err).Warn("remote mark-all-read failed")
			}
		}
		return readStateChangedMsg{}
	}
}

// fetchAllNotifications pulls the full list, read and unread, and
// mirrors it into the local store for the list view.
func (m Model) fetchAllNotifications() tea.Cmd {
	s := m.store
	client := m.client
	user := m.user
	return func() tea.Msg {
		if client == nil || user == nil {
			return refreshedMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications, err := client.Notifications(ctx, user.ID, false)
		if err != nil {
			logrus.WithError(err).Warn("notification refresh failed")
			return refreshedMsg{}
		}
		if err := s.UpsertNotifications(ctx, notifications); err != nil {
			logrus.WithError(err).Warn("caching notifications failed")
		}
		return refreshedMsg{}
	}
}

// fetchUnreadCount queries the local store for the unread badge.
func (m Model) fetchUnreadCount() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		count, err := s.CountUnread(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: count}
	}
}

// loadPost fetches the routed post from the server.
func (m Model) loadPost(r route) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if client == nil {
			return postview.PostLoadedMsg{Post: nil}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		post, err := client.Post(ctx, r.postID)
		if err != nil || post == nil {
			logrus.WithError(err).Warn("loading post failed")
			return postview.PostLoadedMsg{Post: nil}
		}
		return postview.PostLoadedMsg{Post: post, AnchorCommentID: r.commentID}
	}
}

// updateActiveView dispatches the message to the currently active view.
// The toast stack always sees the message too: its expiry ticks and
// open/dismiss keys arrive regardless of which view is focused.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewNotifications:
		m.notifList, cmd = m.notifList.Update(msg)
	case ViewPost:
		m.postView, cmd = m.postView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	if m.currentView != ViewLogin {
		var toastCmd tea.Cmd
		m.toasts, toastCmd = m.toasts.Update(msg)
		return m, tea.Batch(cmd, toastCmd)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "bizhub"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("bizhub [%d unread]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.sessionStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active
// view, with any live alerts stacked above it.
func (m Model) renderContent() string {
	var content string
	switch m.currentView {
	case ViewLogin:
		content = m.loginView.View()
	case ViewNotifications:
		content = m.notifList.View()
	case ViewPost:
		content = m.postView.View()
	case ViewHelp:
		content = m.helpView.View()
	}

	if m.currentView != ViewLogin && m.toasts.Active() > 0 {
		return m.toasts.View() + "\n" + content
	}
	return content
}

// sessionStatus returns the header's right-hand session summary.
func (m Model) sessionStatus() string {
	if m.user == nil {
		return "signed out"
	}
	return m.user.Username
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter submit | ctrl+c quit"
	case ViewPost:
		return "esc back | j/k scroll | ? help"
	case ViewHelp:
		return "? close help | esc back"
	default:
		if m.toasts.Active() > 0 {
			return "o view alert | x dismiss | enter open | m mark read | M mark all"
		}
		return "q quit | ? help | enter open | r refresh | M mark all read | ctrl+l logout"
	}
}
