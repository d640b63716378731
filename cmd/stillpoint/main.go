package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/ambervale/stillpoint/internal/tui"
	"github.com/ambervale/stillpoint/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// tokenFilePath returns ~/.stillpoint/token.
func tokenFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".stillpoint", "token"), nil
}

// readToken returns the auth token using precedence: env var > file > empty.
func readToken() string {
	if tok := os.Getenv("STILLPOINT_TOKEN"); tok != "" {
		return tok
	}
	path, err := tokenFilePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func saveToken(tok string) error {
	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create ~/.stillpoint dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(tok), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func run() error {
	apiURL := os.Getenv("STILLPOINT_API_URL")
	if apiURL == "" {
		apiURL = "https://api.stillpoint.app"
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("stillpoint " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			return runLogin(apiURL)
		case "register":
			return runRegister(apiURL)
		case "logout":
			return runLogout()
		}
	}

	token := readToken()
	if token == "" {
		printWelcome()
		return nil
	}
	c := client.New(apiURL, token)
	// Only force re-login on actual auth failures (401), not transient errors.
	if _, err := c.Me(context.Background()); err != nil {
		if client.IsStatus(err, 401) {
			printWelcome()
			return nil
		}
		// Network/server error: launch TUI anyway, it retries internally.
	}

	return launch(c)
}

func launch(c *client.Client) error {
	app := tui.NewApp(c, version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// promptCredentials reads an email and a hidden password from the terminal.
func promptCredentials() (email, password string, err error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("email: ")
	email, err = reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("read email: %w", err)
	}
	email = strings.TrimSpace(email)

	fmt.Print("password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return email, string(pw), nil
}

func runLogin(apiURL string) error {
	email, password, err := promptCredentials()
	if err != nil {
		return err
	}

	c := client.New(apiURL, "")
	res, err := c.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %s", client.FailureMessage(err, err.Error()))
	}
	if err := saveToken(res.Token); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n\n", res.User.Email)

	return launch(client.New(apiURL, res.Token))
}

func runRegister(apiURL string) error {
	email, password, err := promptCredentials()
	if err != nil {
		return err
	}

	c := client.New(apiURL, "")
	res, err := c.Register(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %s", client.FailureMessage(err, err.Error()))
	}
	if err := saveToken(res.Token); err != nil {
		return err
	}
	fmt.Printf("Welcome, %s\n\n", res.User.Email)

	return launch(client.New(apiURL, res.Token))
}

func runLogout() error {
	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("Already signed out.")
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}
