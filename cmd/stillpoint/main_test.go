package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadToken(t *testing.T) {
	t.Run("env var wins over file", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		writeTokenFile(t, home, "file-token")
		t.Setenv("STILLPOINT_TOKEN", "env-token")

		if got := readToken(); got != "env-token" {
			t.Errorf("readToken() = %q, want %q", got, "env-token")
		}
	})

	t.Run("falls back to file", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("STILLPOINT_TOKEN", "")
		writeTokenFile(t, home, "file-token\n")

		if got := readToken(); got != "file-token" {
			t.Errorf("readToken() = %q, want %q", got, "file-token")
		}
	})

	t.Run("empty when nothing set", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("STILLPOINT_TOKEN", "")

		if got := readToken(); got != "" {
			t.Errorf("readToken() = %q, want empty", got)
		}
	})
}

func TestSaveTokenRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("STILLPOINT_TOKEN", "")

	if err := saveToken("tok-abc"); err != nil {
		t.Fatalf("saveToken() error: %v", err)
	}
	if got := readToken(); got != "tok-abc" {
		t.Errorf("readToken() = %q, want %q", got, "tok-abc")
	}

	info, err := os.Stat(filepath.Join(home, ".stillpoint", "token"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file mode = %v, want 0600", perm)
	}
}

func TestRunLogout(t *testing.T) {
	t.Run("removes existing token", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		writeTokenFile(t, home, "tok")

		if err := runLogout(); err != nil {
			t.Fatalf("runLogout() error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(home, ".stillpoint", "token")); !os.IsNotExist(err) {
			t.Error("token file still present after logout")
		}
	})

	t.Run("no token is not an error", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		if err := runLogout(); err != nil {
			t.Fatalf("runLogout() error: %v", err)
		}
	})
}

func writeTokenFile(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".stillpoint")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}
