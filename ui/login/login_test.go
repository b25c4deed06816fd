package login

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"miniverse/api"
	"miniverse/session"
	"miniverse/ui/common"
)

func testSession(t *testing.T, username string) *session.Session {
	t.Helper()
	store := session.NewStoreAt(filepath.Join(t.TempDir(), "credentials.yaml"))
	if username != "" {
		if err := store.Save(session.Credentials{Token: "tok", Username: username}); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}
	sess, err := session.New(api.NewClient("http://localhost:0", time.Second), store)
	if err != nil {
		t.Fatalf("session.New() error: %v", err)
	}
	return sess
}

func TestInitialModel(t *testing.T) {
	m := InitialModel(testSession(t, ""))
	if !m.Email.Focused() {
		t.Error("email field should start focused")
	}
	if m.Password.Focused() {
		t.Error("password field should start blurred")
	}
}

func TestUpdate_TabTogglesFocus(t *testing.T) {
	m := InitialModel(testSession(t, ""))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.Password.Focused() {
		t.Error("tab should move focus to password")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.Email.Focused() {
		t.Error("second tab should move focus back to email")
	}
}

func TestUpdate_EnterRejectsInvalidForm(t *testing.T) {
	m := InitialModel(testSession(t, ""))
	m.Email.SetValue("not-an-email")
	m.Password.SetValue("secret123")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid form should not trigger a network command")
	}
	if m.Error == "" {
		t.Error("expected a validation error message")
	}
}

func TestUpdate_LoginFailureShowsError(t *testing.T) {
	m := InitialModel(testSession(t, ""))
	m.busy = true

	m, _ = m.Update(loginResultMsg{err: &api.Error{StatusCode: 401, Message: "bad credentials"}})
	if m.busy {
		t.Error("busy flag not cleared after failure")
	}
	if !strings.Contains(m.Error, "bad credentials") {
		t.Errorf("error = %q, want the backend message", m.Error)
	}
}

func TestUpdate_LoginSuccessEmitsAuthMsg(t *testing.T) {
	m := InitialModel(testSession(t, "mira"))
	m.busy = true

	m, cmd := m.Update(loginResultMsg{})
	if m.busy {
		t.Error("busy flag not cleared after success")
	}
	if cmd == nil {
		t.Fatal("expected a command carrying the auth message")
	}
	msg, ok := cmd().(common.AuthSuccessMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want AuthSuccessMsg", cmd())
	}
	if msg.Username != "mira" {
		t.Errorf("username = %q, want mira", msg.Username)
	}
}

func TestUpdate_ActivateResetsForm(t *testing.T) {
	m := InitialModel(testSession(t, ""))
	m.Password.SetValue("leftover")
	m.Error = "old error"
	m.busy = true

	m, _ = m.Update(common.ActivateViewMsg{})
	if m.Password.Value() != "" {
		t.Error("password not cleared on activation")
	}
	if m.Error != "" || m.busy {
		t.Error("error/busy state not reset on activation")
	}
}

func TestUpdate_KeysIgnoredWhileBusy(t *testing.T) {
	m := InitialModel(testSession(t, ""))
	m.Email.SetValue("mira@example.com")
	m.busy = true

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter should be ignored while a login is in flight")
	}
	if m.Email.Value() != "mira@example.com" {
		t.Error("field state changed while busy")
	}
}
