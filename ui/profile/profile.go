package profile

import (
	"context"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"miniverse/api"
	"miniverse/domain"
	"miniverse/session"
	"miniverse/ui/common"
	"miniverse/util"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_SECONDARY)).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_WHITE))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ERROR))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_SUCCESS))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ERROR)).
			Bold(true)
)

type mode int

const (
	modeView mode = iota
	modeEdit
	modePassword
	modeConfirmDelete
)

type Model struct {
	Client   *api.Client
	Session  *session.Session
	Profile  *domain.UserProfile
	FullName textinput.Model
	Bio      textinput.Model
	ImageUrl textinput.Model
	Current  textinput.Model
	NewPass  textinput.Model
	Confirm  textinput.Model
	Focused  int
	Error    string
	Feedback string
	mode     mode
	busy     bool
}

func InitialModel(client *api.Client, sess *session.Session) Model {
	fullName := textinput.New()
	fullName.Placeholder = "full name"
	fullName.CharLimit = 100
	fullName.Width = 50

	bio := textinput.New()
	bio.Placeholder = "bio"
	bio.CharLimit = 500
	bio.Width = 50

	imageUrl := textinput.New()
	imageUrl.Placeholder = "profile image URL"
	imageUrl.CharLimit = 300
	imageUrl.Width = 50

	current := textinput.New()
	current.Placeholder = "current password"
	current.CharLimit = 150
	current.Width = 50
	current.EchoMode = textinput.EchoPassword
	current.EchoCharacter = '•'

	newPass := textinput.New()
	newPass.Placeholder = "new password (min. 8 characters)"
	newPass.CharLimit = 150
	newPass.Width = 50
	newPass.EchoMode = textinput.EchoPassword
	newPass.EchoCharacter = '•'

	confirm := textinput.New()
	confirm.Placeholder = "repeat new password"
	confirm.CharLimit = 150
	confirm.Width = 50
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '•'

	return Model{
		Client: client, Session: sess,
		FullName: fullName, Bio: bio, ImageUrl: imageUrl,
		Current: current, NewPass: newPass, Confirm: confirm,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

type profileLoadedMsg struct {
	profile domain.UserProfile
	err     error
}

type profileSavedMsg struct {
	profile domain.UserProfile
	err     error
}

type passwordChangedMsg struct {
	err error
}

type accountDeletedMsg struct {
	err error
}

func loadProfile(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		profile, err := client.CurrentProfile(context.Background())
		if err != nil {
			log.Printf("Failed to load profile: %v", err)
			return profileLoadedMsg{err: err}
		}
		return profileLoadedMsg{profile: profile}
	}
}

func saveProfile(client *api.Client, req domain.UpdateProfileRequest) tea.Cmd {
	return func() tea.Msg {
		profile, err := client.UpdateProfile(context.Background(), req)
		if err != nil {
			log.Printf("Failed to update profile: %v", err)
			return profileSavedMsg{err: err}
		}
		return profileSavedMsg{profile: profile}
	}
}

func changePassword(client *api.Client, req domain.UpdatePasswordRequest) tea.Cmd {
	return func() tea.Msg {
		err := client.UpdatePassword(context.Background(), req)
		if err != nil {
			log.Printf("Failed to change password: %v", err)
		}
		return passwordChangedMsg{err: err}
	}
}

func deleteAccount(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteAccount(context.Background())
		if err != nil {
			log.Printf("Failed to delete account: %v", err)
		}
		return accountDeletedMsg{err: err}
	}
}

func (m *Model) editFields() []*textinput.Model {
	return []*textinput.Model{&m.FullName, &m.Bio, &m.ImageUrl}
}

func (m *Model) passwordFields() []*textinput.Model {
	return []*textinput.Model{&m.Current, &m.NewPass, &m.Confirm}
}

func (m *Model) focusField(fields []*textinput.Model, i int) tea.Cmd {
	for f, field := range fields {
		if f == i {
			field.Focus()
		} else {
			field.Blur()
		}
	}
	m.Focused = i
	return textinput.Blink
}

func (m *Model) activeFields() []*textinput.Model {
	if m.mode == modePassword {
		return m.passwordFields()
	}
	return m.editFields()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case common.ActivateViewMsg:
		m.mode = modeView
		m.Error = ""
		m.Feedback = ""
		m.busy = false
		return m, loadProfile(m.Client)

	case profileLoadedMsg:
		if msg.err != nil {
			m.Error = msg.err.Error()
			return m, nil
		}
		profile := msg.profile
		m.Profile = &profile
		return m, nil

	case profileSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.Error = msg.err.Error()
			return m, nil
		}
		profile := msg.profile
		m.Profile = &profile
		m.mode = modeView
		m.Error = ""
		m.Feedback = "Profile updated."
		return m, nil

	case passwordChangedMsg:
		m.busy = false
		if msg.err != nil {
			m.Error = msg.err.Error()
			return m, nil
		}
		m.mode = modeView
		m.Error = ""
		m.Feedback = "Password changed."
		m.Current.SetValue("")
		m.NewPass.SetValue("")
		m.Confirm.SetValue("")
		return m, nil

	case accountDeletedMsg:
		m.busy = false
		if msg.err != nil {
			m.Error = msg.err.Error()
			m.mode = modeView
			return m, nil
		}
		return m, func() tea.Msg { return common.LogoutMsg{} }

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}

		switch m.mode {
		case modeView:
			switch msg.String() {
			case "e":
				if m.Profile != nil {
					m.mode = modeEdit
					m.Error = ""
					m.Feedback = ""
					m.FullName.SetValue(m.Profile.FullName)
					m.Bio.SetValue(m.Profile.Bio)
					m.ImageUrl.SetValue(m.Profile.ProfileImageUrl)
					return m, m.focusField(m.editFields(), 0)
				}
			case "p":
				m.mode = modePassword
				m.Error = ""
				m.Feedback = ""
				return m, m.focusField(m.passwordFields(), 0)
			case "ctrl+x":
				m.mode = modeConfirmDelete
				return m, nil
			case "ctrl+l":
				return m, func() tea.Msg { return common.LogoutMsg{} }
			case "r":
				return m, loadProfile(m.Client)
			}
			return m, nil

		case modeConfirmDelete:
			switch msg.String() {
			case "y":
				m.busy = true
				return m, deleteAccount(m.Client)
			default:
				m.mode = modeView
			}
			return m, nil

		case modeEdit, modePassword:
			fields := m.activeFields()
			switch msg.String() {
			case "esc":
				m.mode = modeView
				return m, nil
			case "tab", "down":
				return m, m.focusField(fields, (m.Focused+1)%len(fields))
			case "shift+tab", "up":
				return m, m.focusField(fields, (m.Focused+len(fields)-1)%len(fields))
			case "enter":
				if m.Focused < len(fields)-1 {
					return m, m.focusField(fields, m.Focused+1)
				}
				if m.mode == modeEdit {
					req := domain.UpdateProfileRequest{
						FullName:        strings.TrimSpace(m.FullName.Value()),
						Bio:             strings.TrimSpace(m.Bio.Value()),
						ProfileImageUrl: strings.TrimSpace(m.ImageUrl.Value()),
					}
					if err := domain.ValidateProfileUpdate(req); err != nil {
						m.Error = err.Error()
						return m, nil
					}
					m.busy = true
					return m, saveProfile(m.Client, req)
				}
				req := domain.UpdatePasswordRequest{
					CurrentPassword: m.Current.Value(),
					NewPassword:     m.NewPass.Value(),
				}
				if err := domain.ValidatePasswordUpdate(req, m.Confirm.Value()); err != nil {
					m.Error = err.Error()
					return m, nil
				}
				m.busy = true
				return m, changePassword(m.Client, req)
			}

			updated, cmd := fields[m.Focused].Update(msg)
			*fields[m.Focused] = updated
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render("profile"))
	s.WriteString("\n\n")

	switch m.mode {
	case modeConfirmDelete:
		s.WriteString(warnStyle.Render("Delete this account and all of its posts?"))
		s.WriteString("\n\n")
		s.WriteString(hintStyle.Render("y: delete forever • any other key: cancel"))
		return s.String()

	case modeEdit:
		s.WriteString(labelStyle.Render("Full name") + "\n" + m.FullName.View() + "\n\n")
		s.WriteString(labelStyle.Render("Bio") + "\n" + m.Bio.View() + "\n\n")
		s.WriteString(labelStyle.Render("Image URL") + "\n" + m.ImageUrl.View() + "\n\n")
		if m.Error != "" {
			s.WriteString(errorStyle.Render(m.Error))
		} else {
			s.WriteString(hintStyle.Render("enter: save • esc: cancel"))
		}
		return s.String()

	case modePassword:
		s.WriteString(labelStyle.Render("Current password") + "\n" + m.Current.View() + "\n\n")
		s.WriteString(labelStyle.Render("New password") + "\n" + m.NewPass.View() + "\n\n")
		s.WriteString(labelStyle.Render("Repeat new password") + "\n" + m.Confirm.View() + "\n\n")
		if m.Error != "" {
			s.WriteString(errorStyle.Render(m.Error))
		} else {
			s.WriteString(hintStyle.Render("enter: change • esc: cancel"))
		}
		return s.String()
	}

	if m.Profile == nil {
		if m.Error != "" {
			s.WriteString(errorStyle.Render(m.Error))
		} else {
			s.WriteString(hintStyle.Render("Loading..."))
		}
		return s.String()
	}

	p := m.Profile
	s.WriteString(labelStyle.Render("Username  ") + valueStyle.Render("@"+p.Username) + "\n")
	s.WriteString(labelStyle.Render("Email     ") + valueStyle.Render(p.Email) + "\n")
	if p.FullName != "" {
		s.WriteString(labelStyle.Render("Name      ") + valueStyle.Render(p.FullName) + "\n")
	}
	if p.Bio != "" {
		s.WriteString(labelStyle.Render("Bio       ") + valueStyle.Render(p.Bio) + "\n")
	}
	s.WriteString(labelStyle.Render("Joined    ") + valueStyle.Render(util.FormatTimeAgo(p.CreatedAt)) + "\n")
	s.WriteString("\n")

	if m.Error != "" {
		s.WriteString(errorStyle.Render(m.Error))
	} else if m.Feedback != "" {
		s.WriteString(statusStyle.Render(m.Feedback))
	} else {
		s.WriteString(hintStyle.Render("e: edit • p: password • ctrl+l: sign out • ctrl+x: delete account"))
	}
	s.WriteString("\n")
	return s.String()
}
