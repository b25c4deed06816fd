package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"miniverse/domain"
	"miniverse/session"
	"miniverse/ui/common"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_SECONDARY)).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ERROR))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))
)

type Model struct {
	Session  *session.Session
	Email    textinput.Model
	Password textinput.Model
	Focused  int
	Error    string
	busy     bool
}

func InitialModel(sess *session.Session) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 150
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 150
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return Model{Session: sess, Email: email, Password: password}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

type loginResultMsg struct {
	err error
}

func loginCmd(sess *session.Session, req domain.LoginRequest) tea.Cmd {
	return func() tea.Msg {
		return loginResultMsg{err: sess.Login(context.Background(), req)}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case common.ActivateViewMsg:
		m.Error = ""
		m.busy = false
		m.Password.SetValue("")
		m.Focused = 0
		m.Email.Focus()
		m.Password.Blur()
		return m, textinput.Blink

	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.Error = msg.err.Error()
			return m, nil
		}
		username := m.Session.Username()
		return m, func() tea.Msg { return common.AuthSuccessMsg{Username: username} }

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.Focused = (m.Focused + 1) % 2
			if m.Focused == 0 {
				m.Email.Focus()
				m.Password.Blur()
			} else {
				m.Email.Blur()
				m.Password.Focus()
			}
			return m, textinput.Blink
		case "enter":
			req := domain.LoginRequest{
				Email:    strings.TrimSpace(m.Email.Value()),
				Password: m.Password.Value(),
			}
			if err := domain.ValidateLogin(req); err != nil {
				m.Error = err.Error()
				return m, nil
			}
			m.Error = ""
			m.busy = true
			return m, loginCmd(m.Session, req)
		}
	}

	var cmd tea.Cmd
	if m.Focused == 0 {
		m.Email, cmd = m.Email.Update(msg)
	} else {
		m.Password, cmd = m.Password.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render("sign in"))
	s.WriteString("\n\n")
	s.WriteString(labelStyle.Render("Email") + "\n")
	s.WriteString(m.Email.View() + "\n\n")
	s.WriteString(labelStyle.Render("Password") + "\n")
	s.WriteString(m.Password.View() + "\n\n")

	if m.busy {
		s.WriteString(hintStyle.Render("Signing in..."))
	} else if m.Error != "" {
		s.WriteString(errorStyle.Render(m.Error))
	} else {
		s.WriteString(hintStyle.Render("enter: sign in • ctrl+r: create account"))
	}
	s.WriteString("\n")
	return s.String()
}
