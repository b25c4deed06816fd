package timecapsule

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

	readyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_SUCCESS)).
			Bold(true)
)

type Model struct {
	Client        *api.Client
	Posts         []domain.BlogPost
	RefreshSecs   int
	PageSize      int
	Selected      int
	Offset        int
	Width         int
	Height        int
	Error         string
	isActive      bool
	tickerRunning bool
}

func InitialModel(client *api.Client, refreshSecs, pageSize, width, height int) Model {
	return Model{
		Client:      client,
		RefreshSecs: refreshSecs,
		PageSize:    pageSize,
		Width:       width,
		Height:      height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refreshTickMsg is sent periodically so sealed capsules flip to "ready"
// without user input once publishAt passes.
type refreshTickMsg struct{}

func tickRefresh(secs int) tea.Cmd {
	return tea.Tick(time.Duration(secs)*time.Second, func(t time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

type capsulesLoadedMsg struct {
	posts []domain.BlogPost
	err   error
}

func loadCapsules(client *api.Client, size int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.TimeCapsules(context.Background(), 0, size)
		if err != nil {
			log.Printf("Failed to load time capsules: %v", err)
			return capsulesLoadedMsg{err: err}
		}
		return capsulesLoadedMsg{posts: resp.Content}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case common.DeactivateViewMsg:
		m.isActive = false
		m.tickerRunning = false // Stop ticker chain
		return m, nil

	case common.ActivateViewMsg:
		m.isActive = true
		m.tickerRunning = false // Reset ticker state
		m.Selected = 0
		m.Offset = 0
		m.Error = ""
		return m, loadCapsules(m.Client, m.PageSize)

	case refreshTickMsg:
		// Each tick reloads and arms the next tick itself. The loaded
		// handler below only starts the chain, so a tick-triggered reload
		// must re-arm here or the polling stops after one cycle.
		if m.isActive {
			return m, tea.Batch(loadCapsules(m.Client, m.PageSize), tickRefresh(m.RefreshSecs))
		}
		return m, nil

	case capsulesLoadedMsg:
		if msg.err != nil {
			m.Error = msg.err.Error()
		} else {
			m.Error = ""
			m.Posts = msg.posts
			if m.Selected >= len(m.Posts) {
				m.Selected = max(0, len(m.Posts)-1)
			}
		}

		// Only start a ticker when active and none is running, otherwise
		// reloads would stack ticker chains.
		if m.isActive && !m.tickerRunning {
			m.tickerRunning = true
			return m, tickRefresh(m.RefreshSecs)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.Selected > 0 {
				m.Selected--
				if m.Selected < m.Offset {
					m.Offset = m.Selected
				}
			}
		case "down", "j":
			if len(m.Posts) > 0 && m.Selected < len(m.Posts)-1 {
				m.Selected++
				if m.Selected >= m.Offset+common.DefaultItemsPerPage {
					m.Offset = m.Selected - common.DefaultItemsPerPage + 1
				}
			}
		case "r":
			return m, loadCapsules(m.Client, m.PageSize)
		case "u":
			if len(m.Posts) > 0 && m.Selected < len(m.Posts) {
				post := m.Posts[m.Selected]
				return m, func() tea.Msg { return common.EditPostMsg{Post: post} }
			}
		case "enter":
			if len(m.Posts) > 0 && m.Selected < len(m.Posts) {
				post := m.Posts[m.Selected]
				// Sealed capsules stay sealed even for the owner; only a
				// capsule past its publishAt opens.
				if _, visible := domain.ResolvePostVisibility(&post, time.Now()); !visible {
					return m, nil
				}
				return m, func() tea.Msg {
					return common.ViewPostMsg{PostId: post.Id, ReturnView: common.TimeCapsuleView}
				}
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("time capsules (%d)", len(m.Posts))))
	s.WriteString("\n\n")

	if m.Error != "" {
		s.WriteString(common.ListErrorStyle.Render(m.Error))
		s.WriteString("\n\n")
	}

	if len(m.Posts) == 0 {
		s.WriteString(emptyStyle.Render("No scheduled posts. Schedule one from the editor."))
		return s.String()
	}

	now := time.Now()
	contentWidth := common.CalculateContentWidth(m.Width)
	end := m.Offset + common.DefaultItemsPerPage
	if end > len(m.Posts) {
		end = len(m.Posts)
	}

	for i := m.Offset; i < end; i++ {
		post := m.Posts[i]
		_, visible := domain.ResolvePostVisibility(&post, now)

		var status string
		if visible {
			status = readyStyle.Render("✦ open")
		} else if until := domain.TimeUntilOpen(post.PublishAt, now); until != "" {
			status = common.SealedBadgeStyle.Render("⏳ opens in " + until)
		} else {
			status = common.SealedBadgeStyle.Render("⏳ sealed")
		}

		if i == m.Selected {
			line := selectedStyle.Width(contentWidth)
			s.WriteString(line.Render(timeStyle.Render(util.FormatTimeAgo(post.CreatedAt))) + "\n")
			s.WriteString(line.Render(titleStyle.Render(util.TruncateWidth(post.Title, contentWidth))) + "\n")
			s.WriteString(line.Render(status))
		} else {
			plain := lipgloss.NewStyle().Width(contentWidth)
			s.WriteString(plain.Render(timeStyle.Render(util.FormatTimeAgo(post.CreatedAt))) + "\n")
			s.WriteString(plain.Render(titleStyle.Render(util.TruncateWidth(post.Title, contentWidth))) + "\n")
			s.WriteString(plain.Render(status))
		}
		s.WriteString("\n\n")
	}

	return s.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
