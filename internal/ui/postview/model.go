package postview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ybazarbay/bizhub/internal/keys"
	"github.com/ybazarbay/bizhub/internal/model"
	"github.com/ybazarbay/bizhub/internal/theme"
)

// BackMsg signals the parent to navigate back to the notification list.
type BackMsg struct{}

// PostLoadedMsg carries the loaded post. AnchorCommentID names the
// comment the originating notification pointed at, if any.
type PostLoadedMsg struct {
	Post            *model.Post
	AnchorCommentID string
}

// Model is the post detail view, the landing target of notification
// deep links.
type Model struct {
	post     *model.Post
	anchorID string
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
}

// New creates a new post view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the post view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the post view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PostLoadedMsg:
		m.post = msg.Post
		m.anchorID = msg.AnchorCommentID
		m.loading = false
		m.viewport.SetContent(m.renderContent())
		if m.anchorID != "" {
			m.scrollToAnchor()
		} else {
			m.viewport.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg {
				return BackMsg{}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn).
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the post view.
func (m Model) View() string {
	if m.loading {
		return m.centered("Loading post...")
	}
	if m.post == nil {
		return m.centered("Post not found")
	}
	return m.viewport.View()
}

// SetLoading toggles the loading indicator.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

func (m Model) centered(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// renderContent builds the full post content string for the viewport.
func (m Model) renderContent() string {
	p := m.post

	var b strings.Builder

	title := theme.UnreadStyle.Render(p.Title)
	byline := theme.HelpStyle.Render(fmt.Sprintf(
		"by %s · ❤️ %d", p.AuthorUsername, p.LikeCount,
	))

	b.WriteString(title + "\n")
	b.WriteString(byline + "\n\n")
	b.WriteString(p.Content + "\n")

	if len(p.Comments) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.HeaderStyle.Render(
			fmt.Sprintf("Comments (%d)", len(p.Comments)),
		))
		b.WriteString("\n\n")

		for _, c := range p.Comments {
			b.WriteString(m.renderComment(c))
			b.WriteString("\n")
		}
	}

	return theme.PanelStyle.Width(m.width - 2).Render(b.String())
}

// renderComment draws one comment, highlighting it when it is the
// anchor the notification linked to.
func (m Model) renderComment(c model.Comment) string {
	header := fmt.Sprintf("%s:", c.AuthorUsername)
	body := header + " " + c.Content

	if c.ID != "" && c.ID == m.anchorID {
		return theme.CommentAnchorStyle.Render(body)
	}
	return theme.ListItemStyle.Render(body)
}

// scrollToAnchor scrolls the viewport so the anchored comment is
// visible. Comment positions are approximated by line counting over
// the rendered content.
func (m *Model) scrollToAnchor() {
	if m.post == nil || m.anchorID == "" {
		m.viewport.GotoTop()
		return
	}

	content := m.renderContent()
	lines := strings.Split(content, "\n")
	anchorText := ""
	for _, c := range m.post.Comments {
		if c.ID == m.anchorID {
			anchorText = c.Content
			break
		}
	}
	if anchorText == "" {
		m.viewport.GotoTop()
		return
	}

	for i, line := range lines {
		if strings.Contains(line, anchorText) {
			m.viewport.SetYOffset(i)
			return
		}
	}
	m.viewport.GotoTop()
}
