package bloglist

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"miniverse/domain"
	"miniverse/ui/common"
)

func loadedPage(posts []domain.BlogPost, number, totalPages int) domain.Page[domain.BlogPost] {
	return domain.Page[domain.BlogPost]{
		Content:    posts,
		Number:     number,
		TotalPages: totalPages,
	}
}

func TestInitialModel(t *testing.T) {
	m := InitialModel(nil, 9, 120, 40)

	if m.PageSize != 9 {
		t.Errorf("Expected PageSize 9, got %d", m.PageSize)
	}
	if m.Feed == nil {
		t.Fatal("Expected accumulator to be initialized")
	}
	if m.Feed.Len() != 0 {
		t.Errorf("Expected empty feed, got %d posts", m.Feed.Len())
	}
	if m.isActive {
		t.Error("Expected isActive to be false initially")
	}
}

func TestUpdate_PostsLoadedAccumulates(t *testing.T) {
	m := InitialModel(nil, 2, 120, 40)

	_, epoch, ok := m.Feed.BeginNextPage()
	if !ok {
		t.Fatal("Expected first fetch to start")
	}
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, page: loadedPage([]domain.BlogPost{
		{Id: "p1", Title: "First"},
		{Id: "p2", Title: "Second"},
	}, 0, 2)})

	_, epoch, ok = m.Feed.BeginNextPage()
	if !ok {
		t.Fatal("Expected second fetch to start")
	}
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, page: loadedPage([]domain.BlogPost{
		{Id: "p3", Title: "Third"},
	}, 1, 2)})

	posts := m.Feed.Posts()
	if len(posts) != 3 {
		t.Fatalf("Expected 3 accumulated posts, got %d", len(posts))
	}
	if posts[0].Id != "p1" || posts[2].Id != "p3" {
		t.Error("Expected pages appended in order")
	}
	if m.Feed.HasMore() {
		t.Error("Expected no more pages after the last one")
	}
}

func TestUpdate_PostsLoadedError(t *testing.T) {
	m := InitialModel(nil, 9, 120, 40)

	_, epoch, _ := m.Feed.BeginNextPage()
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, err: errFake})

	if m.Error == "" {
		t.Error("Expected error message to be set")
	}
	if m.Feed.Loading() {
		t.Error("Expected loading cleared after failure")
	}

	// A retry must be possible after a failure
	if _, _, ok := m.Feed.BeginNextPage(); !ok {
		t.Error("Expected retry fetch to start after failure")
	}
}

func TestUpdate_DownAtBottomFetchesNextPage(t *testing.T) {
	m := InitialModel(nil, 2, 120, 40)

	_, epoch, _ := m.Feed.BeginNextPage()
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, page: loadedPage([]domain.BlogPost{
		{Id: "p1"}, {Id: "p2"},
	}, 0, 2)})
	m.Selected = 1

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if cmd == nil {
		t.Error("Expected fetch command at bottom of list with more pages")
	}
	if !m.Feed.Loading() {
		t.Error("Expected accumulator marked loading")
	}
}

func TestUpdate_DownAtBottomNoDoubleFetch(t *testing.T) {
	m := InitialModel(nil, 2, 120, 40)

	_, epoch, _ := m.Feed.BeginNextPage()
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, page: loadedPage([]domain.BlogPost{
		{Id: "p1"}, {Id: "p2"},
	}, 0, 2)})
	m.Selected = 1

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if cmd == nil {
		t.Fatal("Expected first fetch command")
	}

	// Fetch in flight: another down must not start a second one
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if cmd != nil {
		t.Error("Expected no command while a fetch is in flight")
	}
}

func TestUpdate_DownAtBottomExhaustedFeed(t *testing.T) {
	m := InitialModel(nil, 2, 120, 40)

	_, epoch, _ := m.Feed.BeginNextPage()
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, page: loadedPage([]domain.BlogPost{
		{Id: "p1"},
	}, 0, 1)})
	m.Selected = 0

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if cmd != nil {
		t.Error("Expected no fetch on a single-page feed")
	}
}

func TestUpdate_StaleResponseDropped(t *testing.T) {
	m := InitialModel(nil, 2, 120, 40)

	_, staleEpoch, _ := m.Feed.BeginNextPage()

	// Refresh mid-flight bumps the epoch
	m.Feed.Reset()

	m, _ = m.Update(postsLoadedMsg{epoch: staleEpoch, page: loadedPage([]domain.BlogPost{
		{Id: "old"},
	}, 0, 1)})

	if m.Feed.Len() != 0 {
		t.Errorf("Expected stale page dropped, got %d posts", m.Feed.Len())
	}
}

func TestUpdate_Navigation(t *testing.T) {
	m := InitialModel(nil, 9, 120, 40)
	_, epoch, _ := m.Feed.BeginNextPage()
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, page: loadedPage([]domain.BlogPost{
		{Id: "p1"}, {Id: "p2"}, {Id: "p3"},
	}, 0, 1)})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.Selected != 1 {
		t.Errorf("Expected Selected 1 after 'j', got %d", m.Selected)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if m.Selected != 0 {
		t.Errorf("Expected Selected 0 after 'k', got %d", m.Selected)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.Selected != 0 {
		t.Errorf("Expected Selected 0 (stay at first), got %d", m.Selected)
	}
}

func TestUpdate_EnterEmitsViewPost(t *testing.T) {
	m := InitialModel(nil, 9, 120, 40)
	_, epoch, _ := m.Feed.BeginNextPage()
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, page: loadedPage([]domain.BlogPost{
		{Id: "p1", Title: "First"},
	}, 0, 1)})
	m.Selected = 0

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected command on enter")
	}

	msg := cmd()
	viewMsg, ok := msg.(common.ViewPostMsg)
	if !ok {
		t.Fatalf("Expected ViewPostMsg, got %T", msg)
	}
	if viewMsg.PostId != "p1" {
		t.Errorf("Expected PostId 'p1', got '%s'", viewMsg.PostId)
	}
	if viewMsg.ReturnView != common.PublicFeedView {
		t.Errorf("Expected ReturnView PublicFeedView, got %v", viewMsg.ReturnView)
	}
}

func TestUpdate_SearchFiltersList(t *testing.T) {
	m := InitialModel(nil, 9, 120, 40)
	_, epoch, _ := m.Feed.BeginNextPage()
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, page: loadedPage([]domain.BlogPost{
		{Id: "p1", Title: "Morning pages", Content: "coffee first"},
		{Id: "p2", Title: "Evening walk", Content: "sunset"},
	}, 0, 1)})

	m.Search.SetValue("morning")
	posts := m.visible()
	if len(posts) != 1 || posts[0].Id != "p1" {
		t.Errorf("Expected only the matching post, got %d", len(posts))
	}

	// Enter on a filtered list must open the filtered selection
	m.Selected = 0
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected command on enter")
	}
	if viewMsg := cmd().(common.ViewPostMsg); viewMsg.PostId != "p1" {
		t.Errorf("Expected filtered post id 'p1', got '%s'", viewMsg.PostId)
	}
}

func TestUpdate_SearchSuppressesPageFetch(t *testing.T) {
	m := InitialModel(nil, 2, 120, 40)
	_, epoch, _ := m.Feed.BeginNextPage()
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, page: loadedPage([]domain.BlogPost{
		{Id: "p1", Title: "Only match"}, {Id: "p2", Title: "Other"},
	}, 0, 3)})

	m.Search.SetValue("only")
	m.Selected = 0

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if cmd != nil {
		t.Error("Expected no page fetch at the bottom of a filtered list")
	}
}

func TestUpdate_SearchKeyTogglesInput(t *testing.T) {
	m := InitialModel(nil, 9, 120, 40)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.search {
		t.Error("Expected search mode after '/'")
	}
	if cmd == nil {
		t.Error("Expected blink command when focusing search")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.search {
		t.Error("Expected search mode off after esc")
	}
	if m.Search.Value() != "" {
		t.Error("Expected esc to clear the query")
	}
}

func TestView_EmptyFeed(t *testing.T) {
	m := InitialModel(nil, 9, 120, 40)
	view := m.View()
	if !strings.Contains(view, "No posts yet") {
		t.Error("Expected empty state message")
	}
}

func TestView_NoSearchMatches(t *testing.T) {
	m := InitialModel(nil, 9, 120, 40)
	_, epoch, _ := m.Feed.BeginNextPage()
	m, _ = m.Update(postsLoadedMsg{epoch: epoch, page: loadedPage([]domain.BlogPost{
		{Id: "p1", Title: "Morning", CreatedAt: time.Now()},
	}, 0, 1)})
	m.Search.SetValue("zzz")

	view := m.View()
	if !strings.Contains(view, "No posts match") {
		t.Error("Expected no-match message")
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (*fakeError) Error() string { return "connection refused" }
