package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ambervale/stillpoint/pkg/client"
	"github.com/ambervale/stillpoint/pkg/domain"
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldTags
	fieldDataURL
	numEditorFields
)

// saveStatus is the autosave indicator state machine. Transitions out of
// saved/failed back to idle happen on a guarded expiry timer; a newer
// transition invalidates any pending expiry.
type saveStatus int

const (
	statusIdle saveStatus = iota
	statusSaving
	statusSaved
	statusFailed
)

const (
	// defaultAutosaveDelay is how long after the last keystroke the
	// background save fires.
	defaultAutosaveDelay = 5 * time.Second

	// statusDisplayWindow is how long the saved/failed indicator stays
	// visible before reverting to idle.
	statusDisplayWindow = 3 * time.Second

	maxTitleLen = 200
)

var dataURLPattern = regexp.MustCompile(`^https?://.+`)

// -- messages --

// autosaveElapsedMsg fires when a debounce timer expires. Stale timers
// (superseded by a later edit) carry an old seq and are ignored, which
// gives cancel-then-reschedule semantics with at most one live timer.
type autosaveElapsedMsg struct{ seq int }

// statusExpiredMsg reverts the save indicator to idle, but only if no
// newer status transition happened since it was scheduled.
type statusExpiredMsg struct{ seq int }

// draftSavedMsg carries the result of a save-draft call. seq is the
// monotonic tag assigned at issue time; a response is applied only if no
// later save has already been applied, so a stale response can never
// clobber the snapshot or the assigned identity.
type draftSavedMsg struct {
	seq      int
	manual   bool
	snapshot string
	session  *domain.Session
	err      error
}

type publishDoneMsg struct {
	session *domain.Session
	err     error
}

// draftPayload is the serialized form of the editable fields, used both
// as the save request body shape and as the dirty-tracking snapshot.
type draftPayload struct {
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	DataURL string   `json:"dataUrl"`
}

type editorModel struct {
	client *client.Client

	fields    [numEditorFields]string
	fieldErrs [numEditorFields]string
	focus     editorField

	// sessionID is assigned exactly once, from the first successful save
	// response; every later save carries it.
	sessionID string

	// lastSaved is the serialized form of the fields as last persisted.
	lastSaved string

	status    saveStatus
	statusSeq int // guards pending indicator expiry

	debounceSeq int // guards pending autosave timers
	saveSeq     int // tag assigned to each outgoing save
	appliedSave int // highest save response applied so far

	autosaveDelay time.Duration

	publishing bool
	notice     string // one-shot notice for manual actions
	noticeErr  bool

	// done is set after a successful publish; the app navigates away.
	done bool

	width  int
	height int
}

// newEditorModel starts a fresh editing session. existing seeds the form
// for editing a stored session; the seeded snapshot counts as already
// persisted, so merely loading never triggers an autosave.
func newEditorModel(c *client.Client, existing *domain.Session) editorModel {
	m := editorModel{
		client:        c,
		autosaveDelay: defaultAutosaveDelay,
	}
	if existing != nil {
		m.fields[fieldTitle] = existing.Title
		m.fields[fieldTags] = domain.FormatTags(existing.Tags)
		m.fields[fieldDataURL] = existing.DataURL
		m.sessionID = existing.ID
		m.lastSaved = m.snapshot()
	}
	return m
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

// editing reports whether this session updates an existing record.
func (m editorModel) editing() bool {
	return m.sessionID != ""
}

// snapshot serializes the current fields for dirty comparison.
func (m editorModel) snapshot() string {
	b, _ := json.Marshal(draftPayload{ // struct of plain strings cannot fail to marshal
		Title:   m.fields[fieldTitle],
		Tags:    domain.ParseTags(m.fields[fieldTags]),
		DataURL: m.fields[fieldDataURL],
	})
	return string(b)
}

func (m editorModel) saveRequest() client.SaveSessionRequest {
	return client.SaveSessionRequest{
		Title:     m.fields[fieldTitle],
		Tags:      domain.ParseTags(m.fields[fieldTags]),
		DataURL:   m.fields[fieldDataURL],
		SessionID: m.sessionID,
	}
}

// scheduleAutosave cancels any pending debounce timer and starts a new
// one: each edit pushes the autosave trigger delay ms into the future.
func (m *editorModel) scheduleAutosave() tea.Cmd {
	m.debounceSeq++
	seq := m.debounceSeq
	delay := m.autosaveDelay
	if delay <= 0 {
		delay = defaultAutosaveDelay
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return autosaveElapsedMsg{seq: seq}
	})
}

// cancelAutosave invalidates any pending debounce timer without
// scheduling a new one.
func (m *editorModel) cancelAutosave() {
	m.debounceSeq++
}

// setStatus transitions the indicator and invalidates any pending expiry.
func (m *editorModel) setStatus(s saveStatus) {
	m.status = s
	m.statusSeq++
}

// expireStatus schedules the indicator to revert to idle after the
// display window, unless a newer transition happens first.
func (m *editorModel) expireStatus() tea.Cmd {
	seq := m.statusSeq
	return tea.Tick(statusDisplayWindow, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// issueSave transitions to saving and fires the save-draft call, tagged
// with the next save seq.
func (m editorModel) issueSave(snapshot string, manual bool) (editorModel, tea.Cmd) {
	m.setStatus(statusSaving)
	m.saveSeq++
	seq := m.saveSeq

	c := m.client
	req := m.saveRequest()
	return m, func() tea.Msg {
		saved, err := c.SaveDraft(context.Background(), req)
		return draftSavedMsg{seq: seq, manual: manual, snapshot: snapshot, session: saved, err: err}
	}
}

// autosaveTick is the debounce-expiry path: skip when nothing changed
// since the last persist, or while the record is still incomplete.
func (m editorModel) autosaveTick() (editorModel, tea.Cmd) {
	snapshot := m.snapshot()
	if snapshot == m.lastSaved {
		return m, nil
	}
	if strings.TrimSpace(m.fields[fieldTitle]) == "" || strings.TrimSpace(m.fields[fieldDataURL]) == "" {
		return m, nil
	}
	return m.issueSave(snapshot, false)
}

// saveDraftNow is the manual save: no dirty check, no required-field
// gate, pending debounce cancelled and restarted after completion.
func (m editorModel) saveDraftNow() (editorModel, tea.Cmd) {
	m.cancelAutosave()
	return m.issueSave(m.snapshot(), true)
}

// validateDraft is the pure publish gate over the form fields.
func validateDraft(title, dataURL string) [numEditorFields]string {
	var errs [numEditorFields]string
	switch {
	case strings.TrimSpace(title) == "":
		errs[fieldTitle] = "title is required"
	case utf8.RuneCountInString(title) > maxTitleLen:
		errs[fieldTitle] = fmt.Sprintf("title must be %d characters or fewer", maxTitleLen)
	}
	switch {
	case strings.TrimSpace(dataURL) == "":
		errs[fieldDataURL] = "data URL is required"
	case !dataURLPattern.MatchString(dataURL):
		errs[fieldDataURL] = "enter a valid http:// or https:// URL"
	}
	return errs
}

func (m editorModel) publish() (editorModel, tea.Cmd) {
	errs := validateDraft(m.fields[fieldTitle], m.fields[fieldDataURL])
	for _, e := range errs {
		if e != "" {
			m.fieldErrs = errs
			m.notice = "fix the highlighted fields before publishing"
			m.noticeErr = true
			return m, nil
		}
	}

	m.cancelAutosave()
	m.publishing = true
	c := m.client
	req := m.saveRequest()
	return m, func() tea.Msg {
		published, err := c.PublishSession(context.Background(), req)
		return publishDoneMsg{session: published, err: err}
	}
}

func (m editorModel) Update(msg tea.Msg) (editorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case autosaveElapsedMsg:
		if msg.seq != m.debounceSeq {
			return m, nil // superseded by a later edit
		}
		return m.autosaveTick()

	case statusExpiredMsg:
		if msg.seq == m.statusSeq && (m.status == statusSaved || m.status == statusFailed) {
			m.status = statusIdle
		}
		return m, nil

	case draftSavedMsg:
		if msg.seq < m.appliedSave {
			return m, nil // a later save already landed; discard stale response
		}
		m.appliedSave = msg.seq

		if msg.err != nil {
			// Edits are never rolled back on failure; the form stays
			// editable and the next tick retries naturally.
			m.setStatus(statusFailed)
			if msg.manual {
				m.notice = client.FailureMessage(msg.err, "failed to save draft")
				m.noticeErr = true
			}
			return m, m.expireStatus()
		}

		if m.sessionID == "" && msg.session != nil {
			m.sessionID = msg.session.ID
		}
		m.lastSaved = msg.snapshot
		m.setStatus(statusSaved)
		cmds := []tea.Cmd{m.expireStatus()}
		if msg.manual {
			m.notice = "draft saved"
			m.noticeErr = false
			cmds = append(cmds, m.scheduleAutosave())
		}
		return m, tea.Batch(cmds...)

	case publishDoneMsg:
		m.publishing = false
		if msg.err != nil {
			// Fields and identity untouched so the user can retry.
			m.notice = client.FailureMessage(msg.err, "failed to publish session")
			m.noticeErr = true
			return m, nil
		}
		m.done = true
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m editorModel) updateKeys(msg tea.KeyMsg) (editorModel, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "ctrl+s":
		return m.saveDraftNow()
	case "ctrl+p":
		return m.publish()
	case "tab", "down", "enter":
		m.focus = (m.focus + 1) % numEditorFields
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numEditorFields) % numEditorFields
		return m, nil
	default:
		before := m.fields[m.focus]
		after := editRune(before, msg.String())
		if after == before {
			return m, nil
		}
		return m.applyFieldChange(m.focus, after)
	}
}

// applyFieldChange is the single mutation point for form fields: it
// stores the value, clears that field's validation error, and resets the
// debounce timer.
func (m editorModel) applyFieldChange(field editorField, value string) (editorModel, tea.Cmd) {
	m.fields[field] = value
	m.fieldErrs[field] = ""
	return m, m.scheduleAutosave()
}

// statusIndicator renders the transient autosave state.
func (m editorModel) statusIndicator() string {
	switch m.status {
	case statusSaving:
		return savingStyle.Render("auto-saving…")
	case statusSaved:
		return noticeStyle.Render("✓ auto-saved")
	case statusFailed:
		return errorStyle.Render("✗ auto-save failed")
	default:
		return ""
	}
}

func (m editorModel) View() string {
	var b strings.Builder

	header := " " + sectionHeaderStyle.Render("NEW SESSION")
	if m.editing() {
		header = " " + sectionHeaderStyle.Render("EDIT SESSION")
	}
	if ind := m.statusIndicator(); ind != "" {
		header += "  " + ind
	}
	b.WriteString(header + "\n\n")

	labels := [numEditorFields]string{"title", "tags", "data url"}
	hints := [numEditorFields]string{
		"a descriptive session title",
		"yoga, meditation, wellness (comma-separated)",
		"https://example.com/session-data.json",
	}

	for i := editorField(0); i < numEditorFields; i++ {
		cursor := " "
		label := inputPromptStyle.Render(labels[i])
		value := m.fields[i]
		if i == m.focus {
			cursor = accentStyle.Render(">")
			value += accentStyle.Render("█")
		} else if m.fields[i] == "" {
			value = inputPlaceholderStyle.Render(hints[i])
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, label, value)

		if i == fieldTitle {
			count := fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.fields[fieldTitle]), maxTitleLen)
			b.WriteString("   " + metaStyle.Render(count) + "\n")
		}
		if m.fieldErrs[i] != "" {
			b.WriteString("   " + errorStyle.Render(m.fieldErrs[i]) + "\n")
		}
	}

	// Tag chips under the tags field
	if tags := domain.ParseTags(m.fields[fieldTags]); len(tags) > 0 {
		b.WriteString("   ")
		for i, tag := range tags {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(TagStyle(tag).Render("#" + tag))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.publishing:
		b.WriteString(" " + dimStyle.Render("publishing…"))
	case m.notice != "" && m.noticeErr:
		b.WriteString(" " + errorStyle.Render(m.notice))
	case m.notice != "":
		b.WriteString(" " + noticeStyle.Render(m.notice))
	default:
		b.WriteString(" " + dimStyle.Render("drafts auto-save after a pause in typing"))
	}

	return truncateToHeight(b.String(), m.height)
}
