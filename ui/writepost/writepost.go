package writepost

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"miniverse/api"
	"miniverse/db"
	"miniverse/domain"
	"miniverse/ui/common"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_SECONDARY)).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ERROR))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_SUCCESS))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	toggleOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ACCENT)).
			Bold(true)
)

const (
	fieldTitle = iota
	fieldContent
	fieldPublishAt
	numFields
)

type Model struct {
	Client    *api.Client
	Title     textinput.Model
	Content   textarea.Model
	PublishAt textinput.Model
	Status    domain.PostStatus
	IsPrivate bool
	EditingId string // Non-empty when editing an existing post
	DraftId   string // Local draft row backing this editor session
	Focused   int
	Error     string
	Feedback  string
	busy      bool
}

func InitialModel(client *api.Client, width int) Model {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 150
	title.Width = 60
	title.Focus()

	content := textarea.New()
	content.Placeholder = "write your post..."
	content.CharLimit = 30000
	content.SetWidth(70)
	content.SetHeight(12)

	publishAt := textinput.New()
	publishAt.Placeholder = "publish at (2026-01-02T15:04:05Z), scheduled only"
	publishAt.CharLimit = 30
	publishAt.Width = 60

	return Model{
		Client:    client,
		Title:     title,
		Content:   content,
		PublishAt: publishAt,
		Status:    domain.StatusPublished,
		DraftId:   uuid.NewString(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

type submitResultMsg struct {
	err error
}

type draftSavedMsg struct {
	err error
}

type draftLoadedMsg struct {
	draft *db.Draft
}

func submitPost(client *api.Client, editingId string, req domain.PostRequest) tea.Cmd {
	return func() tea.Msg {
		var err error
		if editingId != "" {
			_, err = client.UpdatePost(context.Background(), editingId, req)
		} else {
			_, err = client.CreatePost(context.Background(), req)
		}
		if err != nil {
			log.Printf("Failed to submit post: %v", err)
		}
		return submitResultMsg{err: err}
	}
}

func saveDraft(draft db.Draft) tea.Cmd {
	return func() tea.Msg {
		err := db.GetDB().SaveDraft(draft)
		if err != nil {
			log.Printf("Failed to save draft: %v", err)
		}
		return draftSavedMsg{err: err}
	}
}

// loadLatestDraft fetches the most recent draft that is not tied to an
// existing post, so a half-written entry survives a restart.
func loadLatestDraft() tea.Cmd {
	return func() tea.Msg {
		err, drafts := db.GetDB().ReadAllDrafts()
		if err != nil {
			log.Printf("Failed to read drafts: %v", err)
			return draftLoadedMsg{}
		}
		for _, d := range *drafts {
			if d.RemoteId == "" {
				draft := d
				return draftLoadedMsg{draft: &draft}
			}
		}
		return draftLoadedMsg{}
	}
}

// loadDraft fetches the draft backing an edit session by its id.
func loadDraft(id string) tea.Cmd {
	return func() tea.Msg {
		err, draft := db.GetDB().ReadDraft(id)
		if err != nil {
			log.Printf("Failed to read draft %s: %v", id, err)
			return draftLoadedMsg{}
		}
		return draftLoadedMsg{draft: draft}
	}
}

func deleteDraft(id string) tea.Cmd {
	return func() tea.Msg {
		if err := db.GetDB().DeleteDraft(id); err != nil {
			log.Printf("Failed to delete draft %s: %v", id, err)
		}
		return nil
	}
}

// reset blanks the editor for a new post.
func (m *Model) reset() {
	m.Title.SetValue("")
	m.Content.SetValue("")
	m.PublishAt.SetValue("")
	m.Status = domain.StatusPublished
	m.IsPrivate = false
	m.EditingId = ""
	m.DraftId = uuid.NewString()
	m.Error = ""
	m.Feedback = ""
	m.busy = false
	m.focusField(fieldTitle)
}

// LoadPost prefills the editor from an existing post for editing. The
// backing draft id is derived from the post id so locally saved edits can
// be found again on the next session.
func (m *Model) LoadPost(post domain.BlogPost) {
	m.reset()
	m.EditingId = post.Id
	m.DraftId = "edit-" + post.Id
	m.Title.SetValue(post.Title)
	m.Content.SetValue(post.Content)
	m.PublishAt.SetValue(post.PublishAt)
	m.Status = post.Status
	m.IsPrivate = post.IsPrivate
}

// restoreDraft refills the editor from a locally saved draft.
func (m *Model) restoreDraft(draft db.Draft) {
	m.DraftId = draft.Id
	m.Title.SetValue(draft.Title)
	m.Content.SetValue(draft.Content)
	m.PublishAt.SetValue(draft.PublishAt)
	m.IsPrivate = draft.IsPrivate
	if draft.PublishAt != "" {
		m.Status = domain.StatusScheduled
	}
	m.Feedback = "Draft restored."
}

func (m *Model) focusField(i int) tea.Cmd {
	m.Focused = i
	m.Title.Blur()
	m.Content.Blur()
	m.PublishAt.Blur()
	switch i {
	case fieldTitle:
		m.Title.Focus()
	case fieldContent:
		return m.Content.Focus()
	case fieldPublishAt:
		m.PublishAt.Focus()
	}
	return textinput.Blink
}

func (m *Model) request() domain.PostRequest {
	return domain.PostRequest{
		Title:     strings.TrimSpace(m.Title.Value()),
		Content:   m.Content.Value(),
		PublishAt: strings.TrimSpace(m.PublishAt.Value()),
		Status:    m.Status,
		IsPrivate: m.IsPrivate,
	}
}

func (m *Model) draft() db.Draft {
	return db.Draft{
		Id:        m.DraftId,
		Title:     m.Title.Value(),
		Content:   m.Content.Value(),
		PublishAt: m.PublishAt.Value(),
		IsPrivate: m.IsPrivate,
		RemoteId:  m.EditingId,
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case common.ActivateViewMsg:
		return m, m.focusField(m.Focused)

	case common.ComposePostMsg:
		m.reset()
		return m, tea.Batch(textinput.Blink, loadLatestDraft())

	case common.EditPostMsg:
		m.LoadPost(msg.Post)
		return m, tea.Batch(textinput.Blink, loadDraft(m.DraftId))

	case draftLoadedMsg:
		if msg.draft == nil {
			return m, nil
		}
		draft := *msg.draft
		if m.EditingId != "" {
			// Local unsaved edits win over the server copy, but only for
			// the post being edited.
			if draft.RemoteId != m.EditingId {
				return m, nil
			}
		} else if draft.RemoteId != "" || m.Title.Value() != "" || m.Content.Value() != "" {
			// Never clobber what was typed while the read was in flight.
			return m, nil
		}
		m.restoreDraft(draft)
		return m, nil

	case submitResultMsg:
		m.busy = false
		if msg.err != nil {
			m.Error = msg.err.Error()
			return m, nil
		}
		draftId := m.DraftId
		m.reset()
		m.Feedback = "Post saved."
		return m, tea.Batch(
			deleteDraft(draftId),
			func() tea.Msg { return common.PostSavedMsg{} },
		)

	case draftSavedMsg:
		if msg.err != nil {
			m.Error = msg.err.Error()
		} else {
			m.Feedback = "Draft saved locally."
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab":
			if m.Focused != fieldContent {
				next := (m.Focused + 1) % numFields
				if next == fieldPublishAt && m.Status != domain.StatusScheduled {
					next = fieldTitle
				}
				return m, m.focusField(next)
			}
		case "shift+tab":
			prev := (m.Focused + numFields - 1) % numFields
			if prev == fieldPublishAt && m.Status != domain.StatusScheduled {
				prev = fieldContent
			}
			return m, m.focusField(prev)
		case "ctrl+t":
			// Cycle lifecycle: published -> scheduled -> draft
			switch m.Status {
			case domain.StatusPublished:
				m.Status = domain.StatusScheduled
			case domain.StatusScheduled:
				m.Status = domain.StatusDraft
				if m.Focused == fieldPublishAt {
					return m, m.focusField(fieldTitle)
				}
			default:
				m.Status = domain.StatusPublished
			}
			return m, nil
		case "ctrl+p":
			m.IsPrivate = !m.IsPrivate
			return m, nil
		case "ctrl+s":
			return m, saveDraft(m.draft())
		case "ctrl+d":
			req := m.request()
			if err := domain.ValidatePost(req, time.Now()); err != nil {
				m.Error = err.Error()
				m.Feedback = ""
				return m, nil
			}
			m.Error = ""
			m.Feedback = ""
			m.busy = true
			return m, submitPost(m.Client, m.EditingId, req)
		}
	}

	var cmd tea.Cmd
	switch m.Focused {
	case fieldTitle:
		m.Title, cmd = m.Title.Update(msg)
	case fieldContent:
		m.Content, cmd = m.Content.Update(msg)
	case fieldPublishAt:
		m.PublishAt, cmd = m.PublishAt.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	var s strings.Builder

	caption := "write post"
	if m.EditingId != "" {
		caption = "edit post"
	}
	s.WriteString(common.CaptionStyle.Render(caption))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Title") + "\n")
	s.WriteString(m.Title.View() + "\n\n")
	s.WriteString(m.Content.View() + "\n\n")

	status := fmt.Sprintf("status: %s", strings.ToLower(string(m.Status)))
	if m.IsPrivate {
		status += " · " + toggleOnStyle.Render("private")
	}
	s.WriteString(hintStyle.Render(status))
	s.WriteString("\n")

	if m.Status == domain.StatusScheduled {
		s.WriteString("\n" + labelStyle.Render("Publish at") + "\n")
		s.WriteString(m.PublishAt.View() + "\n")
	}
	s.WriteString("\n")

	if m.busy {
		s.WriteString(hintStyle.Render("Submitting..."))
	} else if m.Error != "" {
		s.WriteString(errorStyle.Render(m.Error))
	} else if m.Feedback != "" {
		s.WriteString(statusStyle.Render(m.Feedback))
	} else {
		s.WriteString(hintStyle.Render("ctrl+d: submit • ctrl+s: save draft • ctrl+t: status • ctrl+p: private"))
	}
	s.WriteString("\n")
	return s.String()
}
