package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var welcomeLines = [...]string{
	"A still point is waiting. So is your breath.",
	"The mat is rolled out. The cursor is blinking.",
	"Every practice starts with showing up. This counts.",
	"Somewhere, a session is being drafted. It could be yours.",
	"Stillness is not empty. It is full of everything at once.",
	"Your last deep breath was too long ago. Fix that, then log in.",
	"The community published new sessions while you were away.",
	"Begin where you are. The terminal is as good a place as any.",
	"No account yet? Registration takes one breath in, one breath out.",
	"A draft unsaved is just an intention. We save them automatically.",
	"Slow is smooth. Smooth is calm. Calm is the point.",
	"The quietest room you own is the one behind your eyes.",
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5eead4")).
		Bold(true).
		Render("S T I L L P O I N T")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("wellness sessions, drafted and shared from your terminal")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"stillpoint", "Open the session browser (interactive TUI)"},
		{"stillpoint login", "Sign in with email and password"},
		{"stillpoint register", "Create an account"},
		{"stillpoint logout", "Clear your session"},
		{"stillpoint --version", "Show version"},
		{"stillpoint help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}
	url := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("https://stillpoint.app")
	fmt.Printf("\n  %s\n\n", url)
}

func printWelcome() {
	msg := welcomeLines[rand.IntN(len(welcomeLines))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5eead4")).
		Bold(true).
		Render("STILLPOINT")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To begin: stillpoint login  (or: stillpoint register)")

	fmt.Printf("\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
