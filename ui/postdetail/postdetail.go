package postdetail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

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
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	authorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_USERNAME)).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ACCENT)).
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM)).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ERROR))

	commentAuthorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_SECONDARY)).
				Bold(true)

	selectedCommentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_WHITE)).
				Background(lipgloss.Color(common.COLOR_ACCENT))
)

type Model struct {
	Client     *api.Client
	Session    *session.Session
	PostId     string
	Post       *domain.BlogPost
	Comments   []domain.Comment
	ReturnView common.SessionState
	Selected   int
	Width      int
	Height     int
	Error      string
	NotFound   bool
	Input      textinput.Model
	commenting bool
	loading    bool
}

func InitialModel(client *api.Client, sess *session.Session, width, height int) Model {
	input := textinput.New()
	input.Placeholder = "write a comment"
	input.CharLimit = 2000
	input.Width = 60

	return Model{
		Client:  client,
		Session: sess,
		Width:   width,
		Height:  height,
		Input:   input,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

type postLoadedMsg struct {
	post domain.BlogPost
	err  error
}

type commentsLoadedMsg struct {
	comments []domain.Comment
	err      error
}

type likeResultMsg struct {
	post domain.BlogPost
	err  error
}

type commentResultMsg struct {
	err error
}

func loadPost(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		post, err := client.Post(context.Background(), id)
		if err != nil {
			log.Printf("Failed to load post %s: %v", id, err)
			return postLoadedMsg{err: err}
		}
		return postLoadedMsg{post: post}
	}
}

func loadComments(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		comments, err := client.Comments(context.Background(), id)
		if err != nil {
			log.Printf("Failed to load comments for %s: %v", id, err)
			return commentsLoadedMsg{err: err}
		}
		return commentsLoadedMsg{comments: comments}
	}
}

func likePost(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		post, err := client.LikePost(context.Background(), id)
		if err != nil {
			log.Printf("Failed to like post %s: %v", id, err)
			return likeResultMsg{err: err}
		}
		return likeResultMsg{post: post}
	}
}

func addComment(client *api.Client, postId string, req domain.CommentRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := client.AddComment(context.Background(), postId, req)
		if err != nil {
			log.Printf("Failed to comment on post %s: %v", postId, err)
		}
		return commentResultMsg{err: err}
	}
}

func deleteComment(client *api.Client, commentId string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteComment(context.Background(), commentId)
		if err != nil {
			log.Printf("Failed to delete comment %s: %v", commentId, err)
		}
		return commentResultMsg{err: err}
	}
}

// Open points the view at a post and reloads everything.
func (m *Model) Open(msg common.ViewPostMsg) tea.Cmd {
	m.PostId = msg.PostId
	m.ReturnView = msg.ReturnView
	m.Post = nil
	m.Comments = nil
	m.Selected = 0
	m.Error = ""
	m.NotFound = false
	m.commenting = false
	m.Input.SetValue("")
	m.loading = true
	return tea.Batch(loadPost(m.Client, msg.PostId), loadComments(m.Client, msg.PostId))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case common.ViewPostMsg:
		return m, m.Open(msg)

	case postLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrNotFound) {
				// Deleted under us, or a link to something gone. A dedicated
				// state instead of an error string, so the view can offer a
				// way back.
				m.NotFound = true
				return m, nil
			}
			m.Error = msg.err.Error()
			return m, nil
		}
		post := msg.post
		m.Post = &post
		return m, nil

	case commentsLoadedMsg:
		if msg.err == nil {
			m.Comments = msg.comments
			if m.Selected >= len(m.Comments) {
				m.Selected = 0
			}
		}
		return m, nil

	case likeResultMsg:
		if msg.err != nil {
			m.Error = msg.err.Error()
			return m, nil
		}
		post := msg.post
		m.Post = &post
		return m, nil

	case commentResultMsg:
		if msg.err != nil {
			m.Error = msg.err.Error()
			return m, nil
		}
		m.Error = ""
		// Reload both: the comment count on the post changed too.
		return m, tea.Batch(loadPost(m.Client, m.PostId), loadComments(m.Client, m.PostId))

	case tea.KeyMsg:
		if m.commenting {
			switch msg.String() {
			case "esc":
				m.commenting = false
				m.Input.SetValue("")
				m.Input.Blur()
				return m, nil
			case "enter":
				req := domain.CommentRequest{Content: strings.TrimSpace(m.Input.Value())}
				if err := domain.ValidateComment(req); err != nil {
					m.Error = err.Error()
					return m, nil
				}
				m.commenting = false
				m.Input.SetValue("")
				m.Input.Blur()
				return m, addComment(m.Client, m.PostId, req)
			}
			var cmd tea.Cmd
			m.Input, cmd = m.Input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "up", "k":
			if m.Selected > 0 {
				m.Selected--
			}
		case "down", "j":
			if m.Selected < len(m.Comments)-1 {
				m.Selected++
			}
		case "l":
			if m.Post != nil {
				return m, likePost(m.Client, m.PostId)
			}
		case "c":
			if m.Post != nil {
				m.commenting = true
				m.Input.Focus()
				return m, textinput.Blink
			}
		case "d":
			// Delete the selected comment, author-only.
			if len(m.Comments) > 0 && m.Selected < len(m.Comments) {
				comment := m.Comments[m.Selected]
				if comment.AuthorUsername == m.Session.Username() {
					return m, deleteComment(m.Client, comment.Id)
				}
			}
		case "u":
			// Edit the post, owner-only.
			if m.Post != nil && m.Post.IsOwnedBy(m.Session.Username()) {
				post := *m.Post
				return m, func() tea.Msg { return common.EditPostMsg{Post: post} }
			}
		case "esc":
			returnView := m.ReturnView
			return m, func() tea.Msg { return returnView }
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	if m.NotFound {
		s.WriteString(common.CaptionStyle.Render("post"))
		s.WriteString("\n\n")
		s.WriteString(emptyStyle.Render("This post does not exist anymore."))
		s.WriteString("\n\n")
		s.WriteString(timeStyle.Render("esc: back"))
		return s.String()
	}

	if m.loading || m.Post == nil {
		if m.Error != "" {
			return errorStyle.Render(m.Error)
		}
		return emptyStyle.Render("Loading...")
	}

	post := m.Post
	contentWidth := common.CalculateContentWidth(m.Width)

	s.WriteString(titleStyle.Render(util.TruncateWidth(post.Title, contentWidth)))
	s.WriteString("\n")
	s.WriteString(authorStyle.Render("@" + post.Author))

	liked := " "
	if post.LikedByUser(m.Session.Username()) {
		liked = " (liked by you) "
	}
	s.WriteString(timeStyle.Render(fmt.Sprintf(" · %s · %d min read · ⭐ %d%s· 💬 %d",
		util.FormatTimeAgo(post.CreatedAt),
		util.ReadTimeMinutes(post.Content),
		post.LikesCount, liked, post.CommentsCount)))
	s.WriteString("\n\n")

	if _, visible := domain.ResolvePostVisibility(post, time.Now()); !visible && post.Status == domain.StatusScheduled {
		notice := "⏳ This capsule is sealed"
		if until := domain.TimeUntilOpen(post.PublishAt, time.Now()); until != "" {
			notice += ", opens in " + until
		}
		s.WriteString(common.SealedBadgeStyle.Render(notice))
		s.WriteString("\n\n")
	} else {
		content := util.SanitizeContent(post.Content)
		content = util.MarkdownLinksToTerminal(content)
		s.WriteString(lipgloss.NewStyle().Width(contentWidth).Render(content))
		s.WriteString("\n\n")
		if post.FileUrl != "" && util.IsURL(post.FileUrl) {
			s.WriteString(timeStyle.Render("attachment: " + post.FileUrl))
			s.WriteString("\n\n")
		}
	}

	if m.Error != "" {
		s.WriteString(errorStyle.Render(m.Error))
		s.WriteString("\n\n")
	}

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("comments (%d)", len(m.Comments))))
	s.WriteString("\n")

	if m.commenting {
		s.WriteString(m.Input.View())
		s.WriteString("\n")
	}

	if len(m.Comments) == 0 {
		s.WriteString(emptyStyle.Render("No comments yet."))
		s.WriteString("\n")
	}

	for i, comment := range m.Comments {
		header := commentAuthorStyle.Render("@"+comment.AuthorUsername) +
			timeStyle.Render(" · "+util.FormatTimeAgo(comment.CreatedAt))
		body := util.FirstLine(util.SanitizeContent(comment.Content), contentWidth)

		if i == m.Selected && !m.commenting {
			line := selectedCommentStyle.Width(contentWidth)
			s.WriteString(line.Render(header) + "\n")
			s.WriteString(line.Render(body) + "\n")
		} else {
			s.WriteString(header + "\n")
			s.WriteString(lipgloss.NewStyle().Width(contentWidth).Render(body) + "\n")
		}
	}

	return s.String()
}
