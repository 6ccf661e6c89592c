package login

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/ybazarbay/bizhub/internal/api"
	"github.com/ybazarbay/bizhub/internal/credential"
	"github.com/ybazarbay/bizhub/internal/model"
	"github.com/ybazarbay/bizhub/internal/theme"
)

// LoggedInMsg signals a successful sign-in. The parent builds the API
// client, starts the notification watcher, and switches views.
type LoggedInMsg struct {
	User    *model.User
	BaseURL string
	Token   string
}

// verifiedMsg carries the result of a token verification attempt.
type verifiedMsg struct {
	user *model.User
	err  error
}

// Model is the sign-in form: server URL plus access token, verified
// against the gateway before the session starts.
type Model struct {
	form      *huh.Form
	spinner   spinner.Model
	verifying bool
	statusMsg string
	width     int
	height    int

	// Form field values (huh binds to these).
	formBaseURL string
	formToken   string
}

// New creates a new login model, prefilled with the configured base URL.
func New(baseURL string, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		spinner:     sp,
		width:       width,
		height:      height,
		formBaseURL: baseURL,
	}
	m.form = m.buildForm()
	return m
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Description("Platform API gateway URL").
				Placeholder("https://api.bizhub.kz").
				Value(&m.formBaseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Access Token").
				Description("Your personal access token").
				EchoMode(huh.EchoModePassword).
				Value(&m.formToken).
				Validate(validateRequired("Token")),
		),
	).WithWidth(m.formWidth())
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.verifying {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case verifiedMsg:
		m.verifying = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Sign-in failed: %v", msg.err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}

		baseURL := strings.TrimRight(m.formBaseURL, "/")
		token := m.formToken
		user := msg.user
		return m, func() tea.Msg {
			if err := credential.SetToken(token); err != nil {
				// The session still works; it just won't survive a restart.
				logrus.WithError(err).Warn("storing access token failed")
			}
			return LoggedInMsg{User: user, BaseURL: baseURL, Token: token}
		}
	}

	if m.verifying {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.verifying = true
		m.statusMsg = ""
		return m, tea.Batch(m.spinner.Tick, m.verify())
	}

	return m, cmd
}

// verify checks the entered token against the gateway.
func (m Model) verify() tea.Cmd {
	baseURL := m.formBaseURL
	token := m.formToken
	return func() tea.Msg {
		client := api.NewClient(baseURL, token)
		user, err := client.Me(context.Background())
		return verifiedMsg{user: user, err: err}
	}
}

// View renders the login view.
func (m Model) View() string {
	if m.verifying {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spinner.View() + " Verifying token...")
	}

	content := m.form.View()
	if m.statusMsg != "" {
		status := lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Render(m.statusMsg)
		content = lipgloss.JoinVertical(lipgloss.Left, status, "", content)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w > 72 {
		w = 72
	}
	if w < 24 {
		w = 24
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}
