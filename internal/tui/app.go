package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ambervale/stillpoint/pkg/client"
	"github.com/ambervale/stillpoint/pkg/domain"
)

type appView int

const (
	viewBrowse appView = iota
	viewMine
	viewEditor
)

// App is the root model: it owns the per-view models and routes messages
// between them.
type App struct {
	client  *client.Client
	version string

	view   appView
	browse browseModel
	mine   mineModel
	editor editorModel

	me *domain.User

	frame  int
	width  int
	height int
}

type meLoadedMsg struct {
	user *domain.User
	err  error
}

func NewApp(c *client.Client, version string) App {
	return App{
		client:  c,
		version: version,
		browse:  newBrowseModel(c),
		mine:    newMineModel(c),
		editor:  newEditorModel(c, nil),
	}
}

func (a App) loadMe() tea.Cmd {
	c := a.client
	return func() tea.Msg {
		user, err := c.Me(context.Background())
		return meLoadedMsg{user: user, err: err}
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.browse.Init(), a.loadMe(), breatheTickCmd())
}

// chromeHeight is the vertical space taken by the logo header, tab bar,
// and help bar around the active view.
const chromeHeight = 6

// isEditing reports whether keystrokes should go to a text input or a
// modal rather than trigger global shortcuts.
func (a App) isEditing() bool {
	switch a.view {
	case viewEditor:
		return true
	case viewBrowse:
		return a.browse.focus != browseFocusList
	case viewMine:
		return a.mine.confirm != nil
	}
	return false
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - chromeHeight}
		a.browse, _ = a.browse.Update(inner)
		a.mine, _ = a.mine.Update(inner)
		a.editor, _ = a.editor.Update(inner)
		return a, nil

	case breatheTickMsg:
		a.frame++
		return a, breatheTickCmd()

	case meLoadedMsg:
		if msg.err == nil {
			a.me = msg.user
		}
		return a, nil

	case openEditorMsg:
		a.editor = newEditorModel(a.client, msg.session)
		a.sizeEditor()
		a.view = viewEditor
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if !a.isEditing() {
				return a, tea.Quit
			}
		case "esc":
			if a.view == viewEditor {
				// Leaving the editor lands on the owner list, refreshed
				// so any draft saved mid-edit shows up.
				a.view = viewMine
				a.mine.loading = true
				return a, a.mine.load()
			}
		case "1":
			if !a.isEditing() {
				a.view = viewBrowse
				return a, nil
			}
		case "2":
			if !a.isEditing() {
				a.view = viewMine
				a.mine.loading = true
				return a, a.mine.load()
			}
		case "n":
			if !a.isEditing() {
				a.editor = newEditorModel(a.client, nil)
				a.sizeEditor()
				a.view = viewEditor
				return a, nil
			}
		}
	}

	return a.routeToView(msg)
}

func (a *App) sizeEditor() {
	if a.width > 0 {
		a.editor.width = a.width
		a.editor.height = a.height - chromeHeight
	}
}

func (a App) routeToView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewBrowse:
		a.browse, cmd = a.browse.Update(msg)
	case viewMine:
		a.mine, cmd = a.mine.Update(msg)
	case viewEditor:
		a.editor, cmd = a.editor.Update(msg)
		if a.editor.done {
			a.view = viewMine
			a.mine.loading = true
			return a, tea.Batch(cmd, a.mine.load())
		}
	}
	return a, cmd
}

func (a App) tabBar() string {
	tabs := []struct {
		key   string
		label string
		view  appView
	}{
		{"1", "browse", viewBrowse},
		{"2", "my sessions", viewMine},
	}

	var parts []string
	for _, t := range tabs {
		label := t.key + " " + t.label
		if a.view == t.view {
			parts = append(parts, accentStyle.Render(label))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
	}
	if a.view == viewEditor {
		parts = append(parts, accentStyle.Render("editor"))
	}
	return strings.Join(parts, dimStyle.Render("  │  "))
}

func (a App) helpBar() string {
	switch a.view {
	case viewBrowse:
		return helpEntry("j/k", "move") + "  " + helpEntry("h/l", "page") + "  " +
			helpEntry("/", "search") + "  " + helpEntry("t", "tags") + "  " +
			helpEntry("o", "open") + "  " + helpEntry("c", "copy url") + "  " +
			helpEntry("r", "reset") + "  " + helpEntry("n", "new") + "  " + helpEntry("q", "quit")
	case viewMine:
		return helpEntry("j/k", "move") + "  " + helpEntry("f", "filter") + "  " +
			helpEntry("e", "edit") + "  " + helpEntry("d", "delete") + "  " +
			helpEntry("n", "new") + "  " + helpEntry("q", "quit")
	case viewEditor:
		return helpEntry("tab", "next field") + "  " + helpEntry("ctrl+s", "save draft") + "  " +
			helpEntry("ctrl+p", "publish") + "  " + helpEntry("esc", "back")
	}
	return ""
}

func (a App) View() string {
	var b strings.Builder

	logo := renderLogo(a.frame)
	if a.width > 0 {
		logo = lipgloss.PlaceHorizontal(a.width, lipgloss.Center, logo)
	}
	b.WriteString("\n" + logo + "\n")

	identity := dimStyle.Render("breathe in, build calm")
	if a.me != nil {
		identity = dimStyle.Render(a.me.Email)
	}
	if a.width > 0 {
		identity = lipgloss.PlaceHorizontal(a.width, lipgloss.Center, identity)
	}
	b.WriteString(identity + "\n\n")

	b.WriteString(" " + a.tabBar() + "\n\n")

	switch a.view {
	case viewBrowse:
		b.WriteString(a.browse.View())
	case viewMine:
		b.WriteString(a.mine.View())
	case viewEditor:
		b.WriteString(a.editor.View())
	}

	b.WriteString("\n\n " + a.helpBar())

	return b.String()
}
