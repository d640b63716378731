package tui

import (
	"fmt"
	"hash/fnv"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Breathing animation for the STILLPOINT wordmark.
type breatheTickMsg time.Time

func breatheTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return breatheTickMsg(t)
	})
}

// renderLogo renders "S T I L L P O I N T" as a slow tide of light moving
// through the letters. Deep teal (#134e4a) -> soft seafoam (#5eead4).
func renderLogo(frame int) string {
	const text = "STILLPOINT"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// One unhurried wave drifting across the word
		phase := t*0.07 - x*2.4
		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.4)

		// Slow breath underneath
		b = b*0.7 + math.Sin(t*0.03)*0.1 + 0.2
		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Deep:   (19, 78, 74)   #134e4a
		// Bright: (94, 234, 212) #5eead4
		r := clampByte(19 + b*(94-19))
		g := clampByte(78 + b*(234-78))
		bl := clampByte(74 + b*(212-74))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += " "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b8bcc8"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#707888"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5eead4"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#606878"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#93c5fd"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5eead4")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6ee7b7"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	savingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#93c5fd"))

	draftBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	publishedBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6ee7b7")).
				Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8890a0")).
				Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5eead4"))

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3a4150"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#14201e"))
)

// tagPalette colors free-form tags; a tag always hashes to the same color.
var tagPalette = []lipgloss.Color{
	"#5eead4", // seafoam
	"#93c5fd", // sky
	"#c4b5fd", // lavender
	"#6ee7b7", // mint
	"#fcd34d", // amber
	"#f9a8d4", // rose
}

// TagStyle returns a bold style colored for the given tag.
func TagStyle(tag string) lipgloss.Style {
	h := fnv.New32a()
	h.Write([]byte(tag)) //nolint:errcheck // fnv never errors
	c := tagPalette[h.Sum32()%uint32(len(tagPalette))]
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// StatusBadge renders a session status with its color.
func StatusBadge(status string) string {
	switch status {
	case "published":
		return publishedBadgeStyle.Render("[published]")
	case "draft":
		return draftBadgeStyle.Render("[draft]")
	default:
		return metaStyle.Render("[" + status + "]")
	}
}

// helpEntry renders a "key label" pair for the bottom help bar.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
