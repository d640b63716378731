package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ambervale/stillpoint/pkg/client"
	"github.com/ambervale/stillpoint/pkg/domain"
)

func newTestMineModel() mineModel {
	m := newMineModel(nil)
	m.width = 100
	m.height = 40
	return m
}

func makeOwned(title, status string) domain.Session {
	return domain.Session{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    status,
		UpdatedAt: time.Now(),
	}
}

func TestMineCountsByStatus(t *testing.T) {
	m := newTestMineModel()
	m, _ = m.Update(mineLoadedMsg{sessions: []domain.Session{
		makeOwned("A", domain.StatusDraft),
		makeOwned("B", domain.StatusDraft),
		makeOwned("C", domain.StatusPublished),
	}})

	drafts, published := m.counts()
	if drafts != 2 || published != 1 {
		t.Errorf("counts() = %d drafts, %d published, want 2, 1", drafts, published)
	}

	view := m.View()
	if !strings.Contains(view, "3 total") {
		t.Errorf("expected totals in header, got:\n%s", view)
	}
}

func TestMineFilterCyclesAndReloads(t *testing.T) {
	m := newTestMineModel()
	m, _ = m.Update(mineLoadedMsg{sessions: []domain.Session{makeOwned("A", domain.StatusDraft)}})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if cmd == nil {
		t.Fatal("expected reload when the filter changes")
	}
	if m.filter != filterDraft {
		t.Errorf("filter = %d, want drafts", m.filter)
	}
	if m.filter.param() != domain.StatusDraft {
		t.Errorf("param = %q, want %q", m.filter.param(), domain.StatusDraft)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if m.filter != filterPublished {
		t.Errorf("filter = %d, want published", m.filter)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if m.filter != filterAll {
		t.Errorf("filter = %d, want wrap to all", m.filter)
	}
	if m.filter.param() != "" {
		t.Errorf("param = %q, want empty for all", m.filter.param())
	}
}

func TestMineDeleteConfirmSnapshotsTarget(t *testing.T) {
	m := newTestMineModel()
	a := makeOwned("Morning Flow", domain.StatusDraft)
	b := makeOwned("Deep Rest", domain.StatusPublished)
	m, _ = m.Update(mineLoadedMsg{sessions: []domain.Session{a, b}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if m.confirm == nil {
		t.Fatal("expected confirmation dialog after 'd'")
	}
	if m.confirm.id != b.ID || m.confirm.title != "Deep Rest" {
		t.Errorf("confirm target = %+v, want %s", m.confirm, b.ID)
	}
	if !strings.Contains(m.View(), "Deep Rest") {
		t.Error("expected the target title in the dialog")
	}

	// Declining closes the dialog and deletes nothing.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if cmd != nil {
		t.Error("declining must not issue a delete")
	}
	if m.confirm != nil {
		t.Error("expected dialog closed after 'n'")
	}
	if len(m.sessions) != 2 {
		t.Errorf("sessions = %d, want 2 untouched", len(m.sessions))
	}
}

func TestMineDeleteConfirmIssuesOneDelete(t *testing.T) {
	m := newTestMineModel()
	a := makeOwned("Morning Flow", domain.StatusDraft)
	m, _ = m.Update(mineLoadedMsg{sessions: []domain.Session{a}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("expected delete command after 'y'")
	}
	if !m.deleting {
		t.Fatal("expected deleting flag while in flight")
	}

	// A second 'y' while in flight must not fire again.
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}); cmd != nil {
		t.Error("repeated confirm should not issue a second delete")
	}
}

func TestMineDeleteSuccessRemovesLocally(t *testing.T) {
	m := newTestMineModel()
	a := makeOwned("Morning Flow", domain.StatusDraft)
	b := makeOwned("Deep Rest", domain.StatusPublished)
	m, _ = m.Update(mineLoadedMsg{sessions: []domain.Session{a, b}})
	m.confirm = &deleteTarget{id: a.ID, title: a.Title}
	m.deleting = true

	m, cmd := m.Update(sessionDeletedMsg{id: a.ID})
	if cmd != nil {
		t.Error("a successful delete should not trigger a re-fetch")
	}
	if len(m.sessions) != 1 || m.sessions[0].ID != b.ID {
		t.Errorf("sessions after delete = %+v, want only %s", m.sessions, b.ID)
	}
	if m.confirm != nil {
		t.Error("expected dialog closed after delete")
	}
}

func TestMineDeleteFailureLeavesListUntouched(t *testing.T) {
	m := newTestMineModel()
	a := makeOwned("Morning Flow", domain.StatusDraft)
	m, _ = m.Update(mineLoadedMsg{sessions: []domain.Session{a}})
	m.confirm = &deleteTarget{id: a.ID, title: a.Title}
	m.deleting = true

	srvErr := &client.HTTPError{StatusCode: 403, Message: "not your session"}
	m, _ = m.Update(sessionDeletedMsg{id: a.ID, err: srvErr})
	if len(m.sessions) != 1 {
		t.Errorf("sessions = %d, want 1 kept on failure", len(m.sessions))
	}
	if m.statusMsg != "not your session" {
		t.Errorf("statusMsg = %q, want the server message verbatim", m.statusMsg)
	}
	if m.confirm != nil {
		t.Error("expected dialog closed even on failure")
	}
}

func TestMineEditEmitsOpenEditor(t *testing.T) {
	m := newTestMineModel()
	a := makeOwned("Morning Flow", domain.StatusDraft)
	m, _ = m.Update(mineLoadedMsg{sessions: []domain.Session{a}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if cmd == nil {
		t.Fatal("expected command from 'e'")
	}
	msg, ok := cmd().(openEditorMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want openEditorMsg", cmd())
	}
	if msg.session == nil || msg.session.ID != a.ID {
		t.Errorf("openEditorMsg session = %+v, want %s", msg.session, a.ID)
	}
}

func TestMineUnauthorizedShowsLoginHint(t *testing.T) {
	m := newTestMineModel()
	m, _ = m.Update(mineLoadedMsg{err: &client.HTTPError{StatusCode: 401, Message: "unauthorized"}})
	if !strings.Contains(m.statusMsg, "stillpoint login") {
		t.Errorf("statusMsg = %q, want login hint", m.statusMsg)
	}
}

func TestMineStatusBadgesInView(t *testing.T) {
	m := newTestMineModel()
	m, _ = m.Update(mineLoadedMsg{sessions: []domain.Session{
		makeOwned("A", domain.StatusDraft),
		makeOwned("B", domain.StatusPublished),
	}})

	view := m.View()
	if !strings.Contains(view, "[draft]") {
		t.Errorf("expected draft badge, got:\n%s", view)
	}
	if !strings.Contains(view, "[published]") {
		t.Errorf("expected published badge, got:\n%s", view)
	}
}
