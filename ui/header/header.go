package header

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"miniverse/session"
	"miniverse/ui/common"
	"miniverse/util"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ACCENT)).
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_USERNAME)).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))
)

type Model struct {
	Width   int
	Session *session.Session
}

func (m Model) View() string {
	left := titleStyle.Render(util.GetNameAndVersion())

	right := dimStyle.Render("not logged in")
	if m.Session != nil && m.Session.LoggedIn() {
		right = userStyle.Render("@" + m.Session.Username())
		if exp := m.Session.TokenExpiry(); !exp.IsZero() {
			right += dimStyle.Render(fmt.Sprintf(" | session until %s", exp.Local().Format(util.DateTimeFormat())))
		}
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := " " + left + strings.Repeat(" ", gap) + right

	rule := dimStyle.Render(strings.Repeat("─", common.DefaultWindowWidth(m.Width)))
	return line + "\n" + rule + "\n"
}
