package ui

import (
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"miniverse/api"
	"miniverse/db"
	"miniverse/session"
	"miniverse/ui/bloglist"
	"miniverse/ui/common"
	"miniverse/ui/header"
	"miniverse/ui/login"
	"miniverse/ui/myblogs"
	"miniverse/ui/postdetail"
	"miniverse/ui/profile"
	"miniverse/ui/register"
	"miniverse/ui/timecapsule"
	"miniverse/ui/writepost"
	"miniverse/util"
)

var noticeStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color(common.COLOR_SEALED)).
	Bold(true)

type MainModel struct {
	width          int
	height         int
	config         *util.AppConfig
	client         *api.Client
	session        *session.Session
	state          common.SessionState
	authed         bool
	notice         string
	headerModel    header.Model
	loginModel     login.Model
	registerModel  register.Model
	feedModel      bloglist.Model
	myBlogsModel   myblogs.Model
	capsuleModel   timecapsule.Model
	detailModel    postdetail.Model
	writeModel     writepost.Model
	profileModel   profile.Model
}

func NewModel(client *api.Client, sess *session.Session, config *util.AppConfig, width, height int) MainModel {
	width = common.DefaultWindowWidth(width)
	height = common.DefaultWindowHeight(height)

	pageSize := config.Conf.PageSize

	m := MainModel{
		width:   width,
		height:  height,
		config:  config,
		client:  client,
		session: sess,
		state:   common.LoginView,
	}
	m.headerModel = header.Model{Width: width, Session: sess}
	m.loginModel = login.InitialModel(sess)
	m.registerModel = register.InitialModel(sess)
	m.feedModel = bloglist.InitialModel(client, pageSize, width, height)
	m.myBlogsModel = myblogs.InitialModel(client, pageSize, width, height)
	m.capsuleModel = timecapsule.InitialModel(client, config.Conf.CapsuleRefreshSecs, pageSize, width, height)
	m.detailModel = postdetail.InitialModel(client, sess, width, height)
	m.writeModel = writepost.InitialModel(client, width)
	m.profileModel = profile.InitialModel(client, sess)

	if sess.LoggedIn() {
		m.state = common.PublicFeedView
		m.authed = true
	}
	return m
}

func (m MainModel) Init() tea.Cmd {
	if m.session.LoggedIn() {
		return tea.Batch(m.loginModel.Init(), activateCmd())
	}
	return m.loginModel.Init()
}

// activateCmd tells the view entering the screen to reload.
func activateCmd() tea.Cmd {
	return func() tea.Msg { return common.ActivateViewMsg{} }
}

// routeActivation delivers activate/deactivate messages to the view a state
// belongs to. Targeted delivery keeps hidden views from starting tickers.
func (m *MainModel) routeActivation(state common.SessionState, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch state {
	case common.LoginView:
		m.loginModel, cmd = m.loginModel.Update(msg)
	case common.RegisterView:
		m.registerModel, cmd = m.registerModel.Update(msg)
	case common.PublicFeedView:
		m.feedModel, cmd = m.feedModel.Update(msg)
	case common.MyPostsView:
		m.myBlogsModel, cmd = m.myBlogsModel.Update(msg)
	case common.TimeCapsuleView:
		m.capsuleModel, cmd = m.capsuleModel.Update(msg)
	case common.WritePostView:
		m.writeModel, cmd = m.writeModel.Update(msg)
	case common.ProfileView:
		m.profileModel, cmd = m.profileModel.Update(msg)
	}
	return cmd
}

// switchTo moves between views, deactivating the old one first.
func (m *MainModel) switchTo(state common.SessionState) tea.Cmd {
	if m.state == state {
		return nil
	}
	old := m.state
	m.state = state
	m.notice = ""
	deactivate := m.routeActivation(old, common.DeactivateViewMsg{})
	activate := m.routeActivation(state, common.ActivateViewMsg{})
	return tea.Batch(deactivate, activate)
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.headerModel.Width = msg.Width
		m.feedModel.Width = msg.Width
		m.feedModel.Height = msg.Height
		m.myBlogsModel.Width = msg.Width
		m.myBlogsModel.Height = msg.Height
		m.capsuleModel.Width = msg.Width
		m.capsuleModel.Height = msg.Height
		m.detailModel.Width = msg.Width
		m.detailModel.Height = msg.Height
		return m, nil

	case common.AuthSuccessMsg:
		log.Printf("User %s signed in", msg.Username)
		m.authed = true
		return m, m.switchTo(common.PublicFeedView)

	case common.LogoutMsg:
		m.authed = false
		if err := m.session.Logout(); err != nil {
			log.Printf("Logout failed: %v", err)
		}
		if err := db.GetDB().ClearFeedCache(); err != nil {
			log.Printf("Failed to clear feed cache on logout: %v", err)
		}
		cmd = m.switchTo(common.LoginView)
		m.notice = "Signed out."
		return m, cmd

	case common.ViewPostMsg:
		m.detailModel, cmd = m.detailModel.Update(msg)
		m.state = common.PostDetailView
		return m, cmd

	case common.EditPostMsg:
		m.writeModel, cmd = m.writeModel.Update(msg)
		m.state = common.WritePostView
		return m, cmd

	case common.ComposePostMsg:
		m.writeModel, cmd = m.writeModel.Update(msg)
		m.state = common.WritePostView
		return m, cmd

	case common.PostSavedMsg:
		// Land on my posts and let every list refetch on next activation.
		cmd = m.switchTo(common.MyPostsView)
		return m, cmd

	case common.SessionState:
		if msg == common.UpdatePostList {
			// Broadcast to the list views, they decide whether to reload.
			m.feedModel, cmd = m.feedModel.Update(msg)
			cmds = append(cmds, cmd)
			m.myBlogsModel, cmd = m.myBlogsModel.Update(msg)
			cmds = append(cmds, cmd)
			return m, tea.Batch(cmds...)
		}
		return m, m.switchTo(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			// Toggle between sign-in and registration while logged out.
			if m.state == common.LoginView {
				return m, m.switchTo(common.RegisterView)
			}
			if m.state == common.RegisterView {
				return m, m.switchTo(common.LoginView)
			}
		case "ctrl+b":
			// The public feed and post pages are readable without an
			// account, matching the backend's public routes.
			if m.state == common.LoginView || m.state == common.RegisterView {
				return m, m.switchTo(common.PublicFeedView)
			}
			if !m.session.LoggedIn() {
				return m, m.switchTo(common.LoginView)
			}
		case "tab", "shift+tab":
			if !m.session.LoggedIn() {
				break
			}
			// Writing and reading views keep tab for field navigation.
			if m.state == common.WritePostView || m.state == common.PostDetailView {
				break
			}
			order := []common.SessionState{
				common.PublicFeedView,
				common.MyPostsView,
				common.TimeCapsuleView,
				common.WritePostView,
				common.ProfileView,
			}
			idx := 0
			for i, s := range order {
				if s == m.state {
					idx = i
					break
				}
			}
			if msg.String() == "tab" {
				idx = (idx + 1) % len(order)
			} else {
				idx = (idx + len(order) - 1) % len(order)
			}
			return m, m.switchTo(order[idx])
		}
	}

	// Route everything else to the active view.
	switch m.state {
	case common.LoginView:
		m.loginModel, cmd = m.loginModel.Update(msg)
	case common.RegisterView:
		m.registerModel, cmd = m.registerModel.Update(msg)
	case common.PublicFeedView:
		m.feedModel, cmd = m.feedModel.Update(msg)
	case common.MyPostsView:
		m.myBlogsModel, cmd = m.myBlogsModel.Update(msg)
	case common.TimeCapsuleView:
		m.capsuleModel, cmd = m.capsuleModel.Update(msg)
	case common.PostDetailView:
		m.detailModel, cmd = m.detailModel.Update(msg)
	case common.WritePostView:
		m.writeModel, cmd = m.writeModel.Update(msg)
	case common.ProfileView:
		m.profileModel, cmd = m.profileModel.Update(msg)
	}
	cmds = append(cmds, cmd)

	// A rejected token clears the session via the api client hook; whatever
	// view was open, land back on sign-in with a notice. Anonymous browsing
	// never trips this, only a session that existed and was revoked.
	if m.authed && !m.session.LoggedIn() {
		m.authed = false
		cmds = append(cmds, m.switchTo(common.LoginView))
		m.notice = "Session expired, please sign in again."
	}

	var nonNil []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			nonNil = append(nonNil, c)
		}
	}
	switch len(nonNil) {
	case 0:
		return m, nil
	case 1:
		return m, nonNil[0]
	default:
		return m, tea.Batch(nonNil...)
	}
}

func (m MainModel) currentFocusedModel() string {
	switch m.state {
	case common.LoginView:
		return "sign in"
	case common.RegisterView:
		return "register"
	case common.PublicFeedView:
		return "feed"
	case common.MyPostsView:
		return "my posts"
	case common.TimeCapsuleView:
		return "capsules"
	case common.PostDetailView:
		return "post"
	case common.WritePostView:
		return "write"
	case common.ProfileView:
		return "profile"
	default:
		return ""
	}
}

func (m MainModel) View() string {
	minWidth := 70
	minHeight := 20

	if m.width < minWidth || m.height < minHeight {
		message := fmt.Sprintf(
			"Terminal too small!\n\nMinimum required: %dx%d\nCurrent size: %dx%d\n\nPlease resize your terminal.",
			minWidth, minHeight, m.width, m.height,
		)
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color(common.COLOR_CRITICAL)).
			Bold(true).
			Render(message)
	}

	var body string
	switch m.state {
	case common.LoginView:
		body = m.loginModel.View()
	case common.RegisterView:
		body = m.registerModel.View()
	case common.PublicFeedView:
		body = m.feedModel.View()
	case common.MyPostsView:
		body = m.myBlogsModel.View()
	case common.TimeCapsuleView:
		body = m.capsuleModel.View()
	case common.PostDetailView:
		body = m.detailModel.View()
	case common.WritePostView:
		body = m.writeModel.View()
	case common.ProfileView:
		body = m.profileModel.View()
	}

	availableHeight := common.CalculateAvailableHeight(m.height)
	bodyStyled := lipgloss.NewStyle().
		MaxHeight(availableHeight).
		Height(availableHeight).
		Width(m.width - 2).
		MaxWidth(m.width).
		Margin(0, 1).
		Render(body)

	var s strings.Builder
	s.WriteString(m.headerModel.View())
	if m.notice != "" {
		s.WriteString(" " + noticeStyle.Render(m.notice) + "\n")
	}
	s.WriteString(bodyStyled)
	s.WriteString("\n")

	var viewCommands string
	switch m.state {
	case common.PublicFeedView:
		viewCommands = "↑/↓ • enter: read • /: search • r: refresh"
	case common.MyPostsView:
		viewCommands = "↑/↓ • enter: read • n: new • u: edit • d: delete • s: scope"
	case common.TimeCapsuleView:
		viewCommands = "↑/↓ • enter: read (open only) • u: edit • r: refresh"
	case common.PostDetailView:
		viewCommands = "↑/↓ • l: like • c: comment • d: del comment • esc: back"
	case common.WritePostView:
		viewCommands = "ctrl+d: submit • ctrl+s: draft • ctrl+t: status • ctrl+p: private"
	case common.ProfileView:
		viewCommands = "e: edit • p: password • ctrl+l: sign out"
	default:
		viewCommands = "ctrl+r: switch sign in/register • ctrl+b: browse feed"
	}

	var helpText string
	if m.session.LoggedIn() && m.state != common.PostDetailView && m.state != common.WritePostView {
		helpText = fmt.Sprintf("focused > %s\t\tkeys > tab: next • shift+tab: prev • %s • ctrl-c: exit",
			m.currentFocusedModel(), viewCommands)
	} else {
		if !m.session.LoggedIn() && (m.state == common.PublicFeedView || m.state == common.PostDetailView) {
			viewCommands += " • ctrl+b: sign in"
		}
		helpText = fmt.Sprintf("focused > %s\t\tkeys > %s • ctrl-c: exit",
			m.currentFocusedModel(), viewCommands)
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(common.COLOR_HELP)).
		Width(m.width).
		Align(lipgloss.Center)
	s.WriteString(helpStyle.Render(helpText))

	return s.String()
}
