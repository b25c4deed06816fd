package bloglist

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"miniverse/api"
	"miniverse/db"
	"miniverse/domain"
	"miniverse/feed"
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
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM)).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_WHITE)).
			Background(lipgloss.Color(common.COLOR_ACCENT))
)

const feedCacheKey = "public"

type Model struct {
	Client   *api.Client
	Feed     *feed.Accumulator
	Search   textinput.Model
	PageSize int
	Selected int
	Offset   int
	Width    int
	Height   int
	Error    string
	cached   []domain.BlogPost
	isActive bool
	search   bool
}

func InitialModel(client *api.Client, pageSize, width, height int) Model {
	search := textinput.New()
	search.Placeholder = "search title or content"
	search.CharLimit = 100
	search.Width = 40

	return Model{
		Client:   client,
		Feed:     feed.NewAccumulator(),
		Search:   search,
		PageSize: pageSize,
		Width:    width,
		Height:   height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// postsLoadedMsg carries one fetched page, tagged with the accumulator epoch
// of the request that produced it.
type postsLoadedMsg struct {
	epoch int
	page  domain.Page[domain.BlogPost]
	err   error
}

// cachedPostsMsg carries the locally cached feed shown until the network
// answers.
type cachedPostsMsg struct {
	posts []domain.BlogPost
}

func loadPage(client *api.Client, page, size, epoch int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.PublicPosts(context.Background(), page, size)
		if err != nil {
			log.Printf("Failed to load public posts page %d: %v", page, err)
			return postsLoadedMsg{epoch: epoch, err: err}
		}
		return postsLoadedMsg{epoch: epoch, page: resp}
	}
}

func loadCachedFeed() tea.Cmd {
	return func() tea.Msg {
		err, posts, _ := db.GetDB().ReadFeedCache(feedCacheKey)
		if err != nil || posts == nil {
			return cachedPostsMsg{}
		}
		return cachedPostsMsg{posts: *posts}
	}
}

func cacheFeed(posts []domain.BlogPost) tea.Cmd {
	return func() tea.Msg {
		if err := db.GetDB().WriteFeedCache(feedCacheKey, posts); err != nil {
			log.Printf("Failed to cache public feed: %v", err)
		}
		return nil
	}
}

// beginFetch starts the next page fetch unless one is already running or the
// feed is exhausted.
func (m *Model) beginFetch() tea.Cmd {
	page, epoch, ok := m.Feed.BeginNextPage()
	if !ok {
		return nil
	}
	return loadPage(m.Client, page, m.PageSize, epoch)
}

func (m *Model) refresh() tea.Cmd {
	m.Feed.Reset()
	m.Selected = 0
	m.Offset = 0
	return m.beginFetch()
}

// visible returns the posts the list currently shows: the search filter over
// the accumulator, or the disk cache while the first fetch is in flight.
func (m Model) visible() []domain.BlogPost {
	posts := m.Feed.Posts()
	if len(posts) == 0 && m.Feed.Loading() {
		posts = m.cached
	}
	return feed.FilterPosts(posts, m.Search.Value())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case common.DeactivateViewMsg:
		m.isActive = false
		return m, nil

	case common.ActivateViewMsg:
		m.isActive = true
		m.Error = ""
		m.search = false
		m.Search.Blur()
		cmds := []tea.Cmd{m.refresh()}
		if m.Feed.Len() == 0 {
			cmds = append(cmds, loadCachedFeed())
		}
		return m, tea.Batch(cmds...)

	case common.SessionState:
		if msg == common.UpdatePostList && m.isActive {
			return m, m.refresh()
		}
		return m, nil

	case cachedPostsMsg:
		m.cached = msg.posts
		return m, nil

	case postsLoadedMsg:
		if msg.err != nil {
			m.Feed.Fail(msg.epoch)
			m.Error = msg.err.Error()
			return m, nil
		}
		m.Error = ""
		before := m.Feed.Len()
		m.Feed.Apply(msg.epoch, msg.page)
		if m.Feed.Len() != before || before == 0 {
			return m, cacheFeed(m.Feed.Posts())
		}
		return m, nil

	case tea.KeyMsg:
		if m.search {
			switch msg.String() {
			case "esc":
				m.search = false
				m.Search.SetValue("")
				m.Search.Blur()
				m.Selected = 0
				m.Offset = 0
				return m, nil
			case "enter":
				m.search = false
				m.Search.Blur()
				m.Selected = 0
				m.Offset = 0
				return m, nil
			}
			var cmd tea.Cmd
			m.Search, cmd = m.Search.Update(msg)
			return m, cmd
		}

		posts := m.visible()
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
			} else if m.Search.Value() == "" {
				// Bottom of the list: pull the next page if there is one.
				return m, m.beginFetch()
			}
		case "/":
			m.search = true
			m.Search.Focus()
			return m, textinput.Blink
		case "r":
			return m, m.refresh()
		case "enter":
			if len(posts) > 0 && m.Selected < len(posts) {
				id := posts[m.Selected].Id
				return m, func() tea.Msg {
					return common.ViewPostMsg{PostId: id, ReturnView: common.PublicFeedView}
				}
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	posts := m.visible()
	caption := fmt.Sprintf("public feed (%d posts", len(posts))
	if m.Feed.HasMore() {
		caption += ", more available"
	}
	caption += ")"
	s.WriteString(common.CaptionStyle.Render(caption))
	s.WriteString("\n")

	if m.search || m.Search.Value() != "" {
		s.WriteString(m.Search.View())
		s.WriteString("\n")
	}
	s.WriteString("\n")

	if m.Error != "" {
		s.WriteString(common.ListErrorStyle.Render(m.Error))
		s.WriteString("\n\n")
	}

	if len(posts) == 0 {
		if m.Feed.Loading() {
			s.WriteString(emptyStyle.Render("Loading..."))
		} else if m.Search.Value() != "" {
			s.WriteString(emptyStyle.Render("No posts match the search."))
		} else {
			s.WriteString(emptyStyle.Render("No posts yet."))
		}
		return s.String()
	}

	contentWidth := common.CalculateContentWidth(m.Width)
	end := m.Offset + common.DefaultItemsPerPage
	if end > len(posts) {
		end = len(posts)
	}

	for i := m.Offset; i < end; i++ {
		post := posts[i]

		meta := fmt.Sprintf("%s · %d min read · ⭐ %d · 💬 %d",
			util.FormatTimeAgo(post.CreatedAt),
			util.ReadTimeMinutes(post.Content),
			post.LikesCount,
			post.CommentsCount)

		if i == m.Selected {
			line := selectedStyle.Width(contentWidth)
			s.WriteString(line.Render(timeStyle.Render(meta)) + "\n")
			s.WriteString(line.Render(authorStyle.Render("@"+post.Author)) + "\n")
			s.WriteString(line.Render(titleStyle.Render(util.TruncateWidth(post.Title, contentWidth))) + "\n")
			s.WriteString(line.Render(util.FirstLine(util.SanitizeContent(post.Content), contentWidth)))
		} else {
			plain := lipgloss.NewStyle().Width(contentWidth)
			s.WriteString(plain.Render(timeStyle.Render(meta)) + "\n")
			s.WriteString(plain.Render(authorStyle.Render("@"+post.Author)) + "\n")
			s.WriteString(plain.Render(titleStyle.Render(util.TruncateWidth(post.Title, contentWidth))) + "\n")
			s.WriteString(plain.Render(util.FirstLine(util.SanitizeContent(post.Content), contentWidth)))
		}
		s.WriteString("\n\n")
	}

	if m.Feed.Loading() {
		s.WriteString(emptyStyle.Render("Loading more..."))
	}
	return s.String()
}
