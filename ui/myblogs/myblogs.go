package myblogs

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"miniverse/api"
	"miniverse/domain"
	"miniverse/feed"
	"miniverse/ui/common"
	"miniverse/util"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM)).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_WHITE)).
			Background(lipgloss.Color(common.COLOR_ACCENT))

	draftBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM)).
			Bold(true)

	privateBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_SECONDARY)).
				Bold(true)
)

type Model struct {
	Client   *api.Client
	Feed     *feed.Accumulator
	Scope    api.MyPostsScope
	PageSize int
	Selected int
	Offset   int
	Width    int
	Height   int
	Error    string
	Status   string
	isActive bool
}

func InitialModel(client *api.Client, pageSize, width, height int) Model {
	return Model{
		Client:   client,
		Feed:     feed.NewAccumulator(),
		Scope:    api.ScopeAll,
		PageSize: pageSize,
		Width:    width,
		Height:   height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

type postsLoadedMsg struct {
	epoch int
	page  domain.Page[domain.BlogPost]
	err   error
}

type postDeletedMsg struct {
	err error
}

func loadPage(client *api.Client, scope api.MyPostsScope, page, size, epoch int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.MyPosts(context.Background(), scope, page, size)
		if err != nil {
			log.Printf("Failed to load my posts (%s) page %d: %v", scope, page, err)
			return postsLoadedMsg{epoch: epoch, err: err}
		}
		return postsLoadedMsg{epoch: epoch, page: resp}
	}
}

func deletePost(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeletePost(context.Background(), id); err != nil {
			log.Printf("Failed to delete post %s: %v", id, err)
			return postDeletedMsg{err: err}
		}
		return postDeletedMsg{}
	}
}

func (m *Model) beginFetch() tea.Cmd {
	page, epoch, ok := m.Feed.BeginNextPage()
	if !ok {
		return nil
	}
	return loadPage(m.Client, m.Scope, page, m.PageSize, epoch)
}

func (m *Model) refresh() tea.Cmd {
	m.Feed.Reset()
	m.Selected = 0
	m.Offset = 0
	return m.beginFetch()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case common.DeactivateViewMsg:
		m.isActive = false
		return m, nil

	case common.ActivateViewMsg:
		m.isActive = true
		m.Error = ""
		m.Status = ""
		return m, m.refresh()

	case common.SessionState:
		if msg == common.UpdatePostList && m.isActive {
			return m, m.refresh()
		}
		return m, nil

	case postsLoadedMsg:
		if msg.err != nil {
			m.Feed.Fail(msg.epoch)
			m.Error = msg.err.Error()
			return m, nil
		}
		m.Error = ""
		m.Feed.Apply(msg.epoch, msg.page)
		if m.Selected >= m.Feed.Len() {
			m.Selected = 0
			m.Offset = 0
		}
		return m, nil

	case postDeletedMsg:
		if msg.err != nil {
			m.Error = msg.err.Error()
			return m, nil
		}
		m.Status = "Post deleted."
		return m, m.refresh()

	case tea.KeyMsg:
		posts := m.Feed.Posts()
		switch msg.String() {
		case "up", "k":
			if m.Selected > 0 {
				m.Selected--
				if m.Selected < m.Offset {
					m.Offset = m.Selected
				}
			}
		case "down", "j":
			if m.Selected < len(posts)-1 {
				m.Selected++
				if m.Selected >= m.Offset+common.DefaultItemsPerPage {
					m.Offset = m.Selected - common.DefaultItemsPerPage + 1
				}
			} else {
				return m, m.beginFetch()
			}
		case "s":
			// Cycle scope: all -> public -> private
			switch m.Scope {
			case api.ScopeAll:
				m.Scope = api.ScopePublic
			case api.ScopePublic:
				m.Scope = api.ScopePrivate
			default:
				m.Scope = api.ScopeAll
			}
			return m, m.refresh()
		case "r":
			return m, m.refresh()
		case "n":
			return m, func() tea.Msg { return common.ComposePostMsg{} }
		case "u":
			if len(posts) > 0 && m.Selected < len(posts) {
				post := posts[m.Selected]
				return m, func() tea.Msg { return common.EditPostMsg{Post: post} }
			}
		case "d":
			if len(posts) > 0 && m.Selected < len(posts) {
				return m, deletePost(m.Client, posts[m.Selected].Id)
			}
		case "enter":
			if len(posts) > 0 && m.Selected < len(posts) {
				id := posts[m.Selected].Id
				return m, func() tea.Msg {
					return common.ViewPostMsg{PostId: id, ReturnView: common.MyPostsView}
				}
			}
		}
	}
	return m, nil
}

func scopeLabel(scope api.MyPostsScope) string {
	switch scope {
	case api.ScopePublic:
		return "public"
	case api.ScopePrivate:
		return "private"
	default:
		return "all"
	}
}

// badge renders the lifecycle tag shown next to a post: its visibility label
// plus a private marker.
func badge(post domain.BlogPost, now time.Time) string {
	label, _ := domain.ResolvePostVisibility(&post, now)
	var parts []string
	switch label {
	case domain.LabelDraft:
		parts = append(parts, draftBadgeStyle.Render("["+string(label)+"]"))
	case domain.LabelSealed:
		parts = append(parts, common.SealedBadgeStyle.Render("["+string(label)+"]"))
	}
	if post.IsPrivate {
		parts = append(parts, privateBadgeStyle.Render("[private]"))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(
		fmt.Sprintf("my posts · %s (%d)", scopeLabel(m.Scope), m.Feed.Len())))
	s.WriteString("\n\n")

	if m.Error != "" {
		s.WriteString(common.ListErrorStyle.Render(m.Error))
		s.WriteString("\n\n")
	} else if m.Status != "" {
		s.WriteString(common.ListStatusStyle.Render(m.Status))
		s.WriteString("\n\n")
	}

	posts := m.Feed.Posts()
	if len(posts) == 0 {
		if m.Feed.Loading() {
			s.WriteString(emptyStyle.Render("Loading..."))
		} else {
			s.WriteString(emptyStyle.Render("Nothing here yet. Press 'n' to write a post."))
		}
		return s.String()
	}

	now := time.Now()
	contentWidth := common.CalculateContentWidth(m.Width)
	end := m.Offset + common.DefaultItemsPerPage
	if end > len(posts) {
		end = len(posts)
	}

	for i := m.Offset; i < end; i++ {
		post := posts[i]

		meta := util.FormatTimeAgo(post.CreatedAt)
		if label, visible := domain.ResolvePostVisibility(&post, now); label == domain.LabelSealed && !visible {
			if until := domain.TimeUntilOpen(post.PublishAt, now); until != "" {
				meta = fmt.Sprintf("%s · opens in %s", meta, until)
			}
		}

		if i == m.Selected {
			line := selectedStyle.Width(contentWidth)
			s.WriteString(line.Render(timeStyle.Render(meta)) + "\n")
			s.WriteString(line.Render(badge(post, now)+titleStyle.Render(util.TruncateWidth(post.Title, contentWidth))) + "\n")
			s.WriteString(line.Render(util.FirstLine(util.SanitizeContent(post.Content), contentWidth)))
		} else {
			plain := lipgloss.NewStyle().Width(contentWidth)
			s.WriteString(plain.Render(timeStyle.Render(meta)) + "\n")
			s.WriteString(plain.Render(badge(post, now)+titleStyle.Render(util.TruncateWidth(post.Title, contentWidth))) + "\n")
			s.WriteString(plain.Render(util.FirstLine(util.SanitizeContent(post.Content), contentWidth)))
		}
		s.WriteString("\n\n")
	}

	if m.Feed.Loading() {
		s.WriteString(emptyStyle.Render("Loading more..."))
	}
	return s.String()
}
