package common

import (
	"github.com/charmbracelet/lipgloss"

	"miniverse/domain"
)

type SessionState uint

const (
	LoginView SessionState = iota
	RegisterView
	PublicFeedView
	MyPostsView
	TimeCapsuleView
	PostDetailView
	WritePostView
	ProfileView
	UpdatePostList
)

// Colors
const (
	COLOR_ACCENT    = "57"
	COLOR_SECONDARY = "99"
	COLOR_USERNAME  = "205"
	COLOR_DIM       = "240"
	COLOR_WHITE     = "255"
	COLOR_HELP      = "241"
	COLOR_ERROR     = "196"
	COLOR_CRITICAL  = "196"
	COLOR_SUCCESS   = "42"
	COLOR_LINK      = "39"
	COLOR_SEALED    = "178"
)

// Layout
const (
	DefaultWidth        = 115
	DefaultHeight       = 28
	DefaultItemsPerPage = 4
	HeaderHeight        = 3
	FooterHeight        = 1
	PanelMarginVertical = 2
	MaxContentWidth     = 100
)

var (
	CaptionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_SECONDARY)).
			Bold(true)

	ListItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_WHITE))

	ListItemSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(COLOR_WHITE)).
				Background(lipgloss.Color(COLOR_ACCENT)).
				Bold(true)

	ListEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_DIM)).
			Italic(true)

	ListErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_ERROR))

	ListStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_SUCCESS))

	ListBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_DIM))

	SealedBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(COLOR_SEALED)).
				Bold(true)

	ListSelectedPrefix   = "> "
	ListUnselectedPrefix = "  "
)

// DefaultWindowWidth clamps an unknown width to a sane default.
func DefaultWindowWidth(width int) int {
	if width <= 0 {
		return DefaultWidth
	}
	return width
}

// DefaultWindowHeight clamps an unknown height to a sane default.
func DefaultWindowHeight(height int) int {
	if height <= 0 {
		return DefaultHeight
	}
	return height
}

// CalculateAvailableHeight returns the height left for the active view after
// header and footer.
func CalculateAvailableHeight(height int) int {
	return height - HeaderHeight - FooterHeight - PanelMarginVertical
}

// CalculateContentWidth bounds content rendering so long lines stay readable
// on wide terminals.
func CalculateContentWidth(width int) int {
	w := width - 4
	if w > MaxContentWidth {
		w = MaxContentWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// ActivateViewMsg tells a view it just became visible: reset scroll, reload
// data, start tickers.
type ActivateViewMsg struct{}

// DeactivateViewMsg tells a view it is hidden: stop ticker chains.
type DeactivateViewMsg struct{}

// ViewPostMsg requests the detail view for a post.
type ViewPostMsg struct {
	PostId     string
	ReturnView SessionState
}

// EditPostMsg opens the editor pre-filled with an existing post.
type EditPostMsg struct {
	Post domain.BlogPost
}

// ComposePostMsg opens an empty editor.
type ComposePostMsg struct{}

// PostSavedMsg is broadcast after a create/update/delete so lists reload.
type PostSavedMsg struct{}

// AuthSuccessMsg is emitted by login/register on success.
type AuthSuccessMsg struct {
	Username string
}

// LogoutMsg requests an explicit logout.
type LogoutMsg struct{}
