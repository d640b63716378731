package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ambervale/stillpoint/internal/browser"
	"github.com/ambervale/stillpoint/pkg/client"
	"github.com/ambervale/stillpoint/pkg/domain"
)

// browsePageSize is the fixed page size for the public session list.
const browsePageSize = 9

type browseFocus int

const (
	browseFocusList browseFocus = iota
	browseFocusSearch
	browseFocusTags
)

type browseModel struct {
	client *client.Client

	page       int
	tagFilter  string
	search     string
	sessions   []domain.Session // the fetched page, as returned by the backend
	visible    []domain.Session // after the client-side title search pass
	pagination domain.Pagination

	focus     browseFocus
	cursor    int
	loading   bool
	err       error
	statusMsg string

	width  int
	height int
}

type browseLoadedMsg struct {
	sessions   []domain.Session
	pagination domain.Pagination
	err        error
}

type copyResultMsg struct{ err error }
type openResultMsg struct{ err error }

func newBrowseModel(c *client.Client) browseModel {
	return browseModel{
		client:  c,
		page:    1,
		loading: true,
	}
}

func (m browseModel) load() tea.Cmd {
	c := m.client
	page := m.page
	tags := m.tagFilter
	return func() tea.Msg {
		sessions, pagination, err := c.ListSessions(context.Background(), page, browsePageSize, tags)
		return browseLoadedMsg{sessions: sessions, pagination: pagination, err: err}
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.load()
}

// applySearch narrows the fetched page with a case-insensitive substring
// match on title. The search runs over the current page only: the
// backend has no title-search parameter, so matches on other pages stay
// out of reach until the user pages there.
func (m *browseModel) applySearch() {
	term := strings.TrimSpace(m.search)
	if term == "" {
		m.visible = m.sessions
	} else {
		lower := strings.ToLower(term)
		filtered := make([]domain.Session, 0, len(m.sessions))
		for _, s := range m.sessions {
			if strings.Contains(strings.ToLower(s.Title), lower) {
				filtered = append(filtered, s)
			}
		}
		m.visible = filtered
	}
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

// changePage re-queries the given page with unchanged filters; the search
// term is kept and re-applied to the new page.
func (m browseModel) changePage(page int) (browseModel, tea.Cmd) {
	if page < 1 || (m.pagination.Pages > 0 && page > m.pagination.Pages) || page == m.page {
		return m, nil
	}
	m.page = page
	m.loading = true
	return m, m.load()
}

// reset clears the search and tag filter and re-queries page 1.
func (m browseModel) reset() (browseModel, tea.Cmd) {
	m.search = ""
	m.tagFilter = ""
	m.page = 1
	m.loading = true
	return m, m.load()
}

func (m browseModel) Update(msg tea.Msg) (browseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case browseLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			if client.IsStatus(msg.err, 401) {
				m.statusMsg = "session expired — run: stillpoint login"
			} else {
				m.statusMsg = client.FailureMessage(msg.err, "failed to fetch sessions")
			}
			return m, nil
		}
		m.sessions = msg.sessions
		m.pagination = msg.pagination
		m.applySearch()
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "data URL copied"
		}
		return m, nil

	case openResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("open failed: %v", msg.err)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		switch m.focus {
		case browseFocusSearch:
			return m.updateSearchInput(msg)
		case browseFocusTags:
			return m.updateTagInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m browseModel) updateSearchInput(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// Submitting a search re-queries page 1 with the tag filter,
		// then narrows the fetched page by title.
		m.focus = browseFocusList
		m.page = 1
		m.loading = true
		return m, m.load()
	case "esc":
		m.focus = browseFocusList
		m.search = ""
		m.applySearch()
		return m, nil
	default:
		m.search = editRune(m.search, msg.String())
	}
	return m, nil
}

func (m browseModel) updateTagInput(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.focus = browseFocusList
		m.page = 1
		m.loading = true
		return m, m.load()
	case "esc":
		m.focus = browseFocusList
		return m, nil
	default:
		m.tagFilter = editRune(m.tagFilter, msg.String())
	}
	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.focus = browseFocusSearch
		m.search = ""
	case "t":
		m.focus = browseFocusTags
	case "h", "left":
		return m.changePage(m.page - 1)
	case "l", "right":
		return m.changePage(m.page + 1)
	case "r":
		return m.reset()
	case "o":
		if m.cursor < len(m.visible) {
			url := m.visible[m.cursor].DataURL
			return m, func() tea.Msg {
				return openResultMsg{err: browser.Open(url)}
			}
		}
	case "c":
		if m.cursor < len(m.visible) {
			url := m.visible[m.cursor].DataURL
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(url)}
			}
		}
	}
	return m, nil
}

// pageRange returns the 1-based positions of the first and last item on
// the current backend page, against the tag-filtered total.
func pageRange(p domain.Pagination, pageSize int) (first, last int) {
	if p.Total == 0 {
		return 0, 0
	}
	first = (p.Current-1)*pageSize + 1
	last = p.Current * pageSize
	if last > p.Total {
		last = p.Total
	}
	return first, last
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render("BROWSE") + "  " + dimStyle.Render("published sessions from the community") + "\n")

	// Search + tag filter bar
	switch {
	case m.focus == browseFocusSearch:
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	case m.search != "":
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	default:
		b.WriteString(" " + dimStyle.Render("/ search titles..."))
	}
	b.WriteString("   ")
	switch {
	case m.focus == browseFocusTags:
		b.WriteString(searchStyle.Render("tags: " + m.tagFilter + "█"))
	case m.tagFilter != "":
		b.WriteString(searchStyle.Render("tags: " + m.tagFilter))
	default:
		b.WriteString(dimStyle.Render("tags: all") + "  " + helpKeyStyle.Render("t"))
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

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading sessions..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}

	if len(m.visible) == 0 {
		if m.search != "" || m.tagFilter != "" {
			b.WriteString(" " + dimStyle.Render("no sessions match — adjust your search or filters (r to reset)"))
		} else {
			b.WriteString(" " + dimStyle.Render("no published sessions yet"))
		}
		return b.String()
	}

	for i, s := range m.visible {
		cursor := "  "
		titleStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			titleStyle = selectedStyle
		}

		titleWidth := m.width - 30
		if titleWidth < 20 {
			titleWidth = 20
		}
		title := titleStyle.Render(fmt.Sprintf("%-*s", titleWidth, truncStr(s.Title, titleWidth)))

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

		line := cursor + title + " " + metaStyle.Render(formatTime(s.UpdatedAt))
		if tags != "" {
			line += "  " + tags
		}
		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	// Detail line for the selected session
	if m.cursor < len(m.visible) {
		s := m.visible[m.cursor]
		b.WriteString("\n " + metaStyle.Render(s.DataURL))
		if s.OwnerEmail != "" {
			b.WriteString("  " + dimStyle.Render("by "+s.OwnerEmail))
		}
		b.WriteString("\n")
	}

	// Pagination footer: the range reflects the backend page over the
	// tag-filtered set; the search pass may show fewer rows than that.
	if m.pagination.Total > 0 {
		first, last := pageRange(m.pagination, browsePageSize)
		footer := fmt.Sprintf("page %d of %d · showing %d–%d of %d", m.pagination.Current, m.pagination.Pages, first, last, m.pagination.Total)
		if strings.TrimSpace(m.search) != "" {
			footer += fmt.Sprintf(" · %d title matches on this page", len(m.visible))
		}
		b.WriteString("\n " + metaStyle.Render(footer) + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
