package register

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

const numFields = 4

type Model struct {
	Session  *session.Session
	Username textinput.Model
	Email    textinput.Model
	Password textinput.Model
	Confirm  textinput.Model
	Focused  int
	Error    string
	busy     bool
}

func InitialModel(sess *session.Session) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 30
	username.Width = 40
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 150
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password (min. 8 characters)"
	password.CharLimit = 150
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	confirm := textinput.New()
	confirm.Placeholder = "repeat password"
	confirm.CharLimit = 150
	confirm.Width = 40
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '•'

	return Model{Session: sess, Username: username, Email: email, Password: password, Confirm: confirm}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

type registerResultMsg struct {
	err error
}

func registerCmd(sess *session.Session, req domain.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		return registerResultMsg{err: sess.Register(context.Background(), req)}
	}
}

func (m *Model) field(i int) *textinput.Model {
	switch i {
	case 0:
		return &m.Username
	case 1:
		return &m.Email
	case 2:
		return &m.Password
	default:
		return &m.Confirm
	}
}

func (m *Model) focusField(i int) tea.Cmd {
	for f := 0; f < numFields; f++ {
		if f == i {
			m.field(f).Focus()
		} else {
			m.field(f).Blur()
		}
	}
	m.Focused = i
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case common.ActivateViewMsg:
		m.Error = ""
		m.busy = false
		m.Password.SetValue("")
		m.Confirm.SetValue("")
		return m, m.focusField(0)

	case registerResultMsg:
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
		case "tab", "down":
			return m, m.focusField((m.Focused + 1) % numFields)
		case "shift+tab", "up":
			return m, m.focusField((m.Focused + numFields - 1) % numFields)
		case "enter":
			if m.Focused < numFields-1 {
				return m, m.focusField(m.Focused + 1)
			}
			req := domain.RegisterRequest{
				Username: strings.TrimSpace(m.Username.Value()),
				Email:    strings.TrimSpace(m.Email.Value()),
				Password: m.Password.Value(),
			}
			if err := domain.ValidateRegister(req, m.Confirm.Value()); err != nil {
				m.Error = err.Error()
				return m, nil
			}
			m.Error = ""
			m.busy = true
			return m, registerCmd(m.Session, req)
		}
	}

	var cmd tea.Cmd
	switch m.Focused {
	case 0:
		m.Username, cmd = m.Username.Update(msg)
	case 1:
		m.Email, cmd = m.Email.Update(msg)
	case 2:
		m.Password, cmd = m.Password.Update(msg)
	default:
		m.Confirm, cmd = m.Confirm.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render("create account"))
	s.WriteString("\n\n")
	s.WriteString(labelStyle.Render("Username") + "\n")
	s.WriteString(m.Username.View() + "\n\n")
	s.WriteString(labelStyle.Render("Email") + "\n")
	s.WriteString(m.Email.View() + "\n\n")
	s.WriteString(labelStyle.Render("Password") + "\n")
	s.WriteString(m.Password.View() + "\n\n")
	s.WriteString(labelStyle.Render("Repeat password") + "\n")
	s.WriteString(m.Confirm.View() + "\n\n")

	if m.busy {
		s.WriteString(hintStyle.Render("Creating account..."))
	} else if m.Error != "" {
		s.WriteString(errorStyle.Render(m.Error))
	} else {
		s.WriteString(hintStyle.Render("enter: next/submit • ctrl+r: back to sign in"))
	}
	s.WriteString("\n")
	return s.String()
}
