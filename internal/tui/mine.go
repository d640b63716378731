package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ambervale/stillpoint/pkg/client"
	"github.com/ambervale/stillpoint/pkg/domain"
)

type mineFilter int

const (
	filterAll mineFilter = iota
	filterDraft
	filterPublished
)

func (f mineFilter) param() string {
	switch f {
	case filterDraft:
		return domain.StatusDraft
	case filterPublished:
		return domain.StatusPublished
	default:
		return ""
	}
}

func (f mineFilter) label() string {
	switch f {
	case filterDraft:
		return "drafts"
	case filterPublished:
		return "published"
	default:
		return "all"
	}
}

// deleteTarget snapshots the session a confirmation dialog refers to, so
// the dialog stays accurate even if the list shifts underneath it.
type deleteTarget struct {
	id    string
	title string
}

type mineModel struct {
	client *client.Client

	filter   mineFilter
	sessions []domain.Session
	cursor   int

	confirm  *deleteTarget
	deleting bool

	loading   bool
	err       error
	statusMsg string

	width  int
	height int
}

type mineLoadedMsg struct {
	sessions []domain.Session
	err      error
}

type sessionDeletedMsg struct {
	id  string
	err error
}

// openEditorMsg asks the app shell to open the editor, either for a new
// draft (session nil) or an existing one.
type openEditorMsg struct {
	session *domain.Session
}

func newMineModel(c *client.Client) mineModel {
	return mineModel{
		client:  c,
		loading: true,
	}
}

func (m mineModel) load() tea.Cmd {
	c := m.client
	status := m.filter.param()
	return func() tea.Msg {
		sessions, err := c.ListMySessions(context.Background(), status)
		return mineLoadedMsg{sessions: sessions, err: err}
	}
}

func (m mineModel) Init() tea.Cmd {
	return m.load()
}

// counts tallies draft and published sessions in the loaded set. Only
// meaningful when the filter is "all"; a filtered fetch can only count
// what it sees.
func (m mineModel) counts() (drafts, published int) {
	for _, s := range m.sessions {
		switch s.Status {
		case domain.StatusDraft:
			drafts++
		case domain.StatusPublished:
			published++
		}
	}
	return drafts, published
}

func (m mineModel) Update(msg tea.Msg) (mineModel, tea.Cmd) {
	switch msg := msg.(type) {
	case mineLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			if client.IsStatus(msg.err, 401) {
				m.statusMsg = "session expired — run: stillpoint login"
			} else {
				m.statusMsg = client.FailureMessage(msg.err, "failed to fetch your sessions")
			}
			return m, nil
		}
		m.sessions = msg.sessions
		if m.cursor >= len(m.sessions) {
			m.cursor = 0
		}
		return m, nil

	case sessionDeletedMsg:
		m.deleting = false
		m.confirm = nil
		if msg.err != nil {
			// The list is left exactly as it was; the server still has
			// the session.
			m.statusMsg = client.FailureMessage(msg.err, "failed to delete session")
			return m, nil
		}
		kept := m.sessions[:0]
		for _, s := range m.sessions {
			if s.ID != msg.id {
				kept = append(kept, s)
			}
		}
		m.sessions = kept
		if m.cursor >= len(m.sessions) && m.cursor > 0 {
			m.cursor = len(m.sessions) - 1
		}
		m.statusMsg = "session deleted"
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m mineModel) updateConfirm(msg tea.KeyMsg) (mineModel, tea.Cmd) {
	if m.deleting {
		return m, nil
	}
	switch msg.String() {
	case "y", "Y":
		m.deleting = true
		c := m.client
		id := m.confirm.id
		return m, func() tea.Msg {
			return sessionDeletedMsg{id: id, err: c.DeleteSession(context.Background(), id)}
		}
	case "n", "N", "esc":
		m.confirm = nil
	}
	return m, nil
}

func (m mineModel) updateList(msg tea.KeyMsg) (mineModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "f", "tab":
		m.filter = (m.filter + 1) % 3
		m.loading = true
		m.cursor = 0
		return m, m.load()
	case "r":
		m.loading = true
		return m, m.load()
	case "e", "enter":
		if m.cursor < len(m.sessions) {
			s := m.sessions[m.cursor]
			return m, func() tea.Msg {
				return openEditorMsg{session: &s}
			}
		}
	case "d":
		if m.cursor < len(m.sessions) {
			s := m.sessions[m.cursor]
			m.confirm = &deleteTarget{id: s.ID, title: s.Title}
		}
	}
	return m, nil
}

func (m mineModel) View() string {
	var b strings.Builder

	drafts, published := m.counts()
	header := sectionHeaderStyle.Render("MY SESSIONS")
	switch m.filter {
	case filterAll:
		header += "  " + dimStyle.Render(fmt.Sprintf("%d total · %d drafts · %d published", len(m.sessions), drafts, published))
	default:
		header += "  " + dimStyle.Render(fmt.Sprintf("%d %s", len(m.sessions), m.filter.label()))
	}
	b.WriteString(" " + header + "\n")

	b.WriteString(" " + dimStyle.Render("filter:") + " ")
	for f := filterAll; f <= filterPublished; f++ {
		if f > filterAll {
			b.WriteString(dimStyle.Render(" · "))
		}
		if f == m.filter {
			b.WriteString(accentStyle.Render(f.label()))
		} else {
			b.WriteString(dimStyle.Render(f.label()))
		}
	}
	b.WriteString("\n")

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + noticeStyle.Render(m.statusMsg) + "\n")
	}

	if m.confirm != nil {
		b.WriteString("\n " + errorStyle.Render("delete \""+truncStr(m.confirm.title, 50)+"\"?"))
		if m.deleting {
			b.WriteString(" " + savingStyle.Render("deleting..."))
		} else {
			b.WriteString(" " + helpEntry("y", "yes") + "  " + helpEntry("n", "no"))
		}
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading your sessions..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}

	if len(m.sessions) == 0 {
		switch m.filter {
		case filterAll:
			b.WriteString(" " + dimStyle.Render("nothing here yet — press n to start a session"))
		default:
			b.WriteString(" " + dimStyle.Render("no "+m.filter.label()+" sessions"))
		}
		return b.String()
	}

	for i, s := range m.sessions {
		cursor := "  "
		titleStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			titleStyle = selectedStyle
		}

		titleWidth := m.width - 42
		if titleWidth < 20 {
			titleWidth = 20
		}
		title := titleStyle.Render(fmt.Sprintf("%-*s", titleWidth, truncStr(s.Title, titleWidth)))

		line := cursor + title + " " + StatusBadge(s.Status) + " " + metaStyle.Render(formatTime(s.UpdatedAt))

		var tags string
		for j, tag := range s.Tags {
			if j == 3 {
				tags += dimStyle.Render(" …")
				break
			}
			if j > 0 {
				tags += " "
			}
			tags += TagStyle(tag).Render("#" + tag)
		}
		if tags != "" {
			line += "  " + tags
		}
		b.WriteString(line + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
