package util

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

//go:embed version.txt
var embeddedVersion string

// Pre-compiled regex patterns for performance
var markdownLinkRegex = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
var urlRegex = regexp.MustCompile(`^https?://[^\s]+$`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// ANSI RGB used for OSC 8 terminal links (must match ui/common colors)
const ansiLinkRGB = "0;255;135"

func GetVersion() string {
	return strings.TrimSpace(embeddedVersion)
}

func GetNameAndVersion() string {
	return fmt.Sprintf("%s / %s", Name, GetVersion())
}

func DateTimeFormat() string {
	return "2006-01-02 15:04"
}

func PrettyPrint(i any) string {
	s, _ := json.MarshalIndent(i, "", " ")
	return string(s)
}

// IsURL checks if a given string is a valid HTTP or HTTPS URL
func IsURL(text string) bool {
	text = strings.TrimSpace(text)
	return urlRegex.MatchString(text)
}

// FormatTimeAgo returns a human-readable time difference
func FormatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	} else {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

// ReadTimeMinutes estimates reading time at 200 words per minute, minimum 1.
func ReadTimeMinutes(content string) int {
	words := len(whitespaceRegex.Split(strings.TrimSpace(content), -1))
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

// TruncateWidth truncates a string to a maximum display width (not byte or
// rune count), appending an ellipsis. Wide characters count as two cells.
func TruncateWidth(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}

// FirstLine returns the first line of a string, width-truncated. Used for
// post previews in list views.
func FirstLine(s string, maxWidth int) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return TruncateWidth(s, maxWidth)
}

// MarkdownLinksToHTML converts Markdown links [text](url) to HTML <a> tags
func MarkdownLinksToHTML(text string) string {
	return markdownLinkRegex.ReplaceAllStringFunc(text, func(match string) string {
		matches := markdownLinkRegex.FindStringSubmatch(match)
		if len(matches) == 3 {
			linkText := html.EscapeString(matches[1])
			linkURL := html.EscapeString(matches[2])
			return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, linkURL, linkText)
		}
		return match
	})
}

// MarkdownLinksToTerminal converts Markdown links [text](url) to OSC 8
// hyperlinks so supporting terminals render clickable link text.
func MarkdownLinksToTerminal(text string) string {
	return markdownLinkRegex.ReplaceAllStringFunc(text, func(match string) string {
		matches := markdownLinkRegex.FindStringSubmatch(match)
		if len(matches) == 3 {
			linkText := matches[1]
			linkURL := matches[2]
			return fmt.Sprintf("\033[38;2;"+ansiLinkRGB+";4m\033]8;;%s\033\\%s\033]8;;\033\\\033[39;24m", linkURL, linkText)
		}
		return match
	})
}

// SanitizeContent removes characters that break terminal rendering:
// ANSI escapes, control characters (except newline and tab), and carriage
// returns that would overwrite lines.
func SanitizeContent(text string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	text = ansiRegex.ReplaceAllString(text, "")

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		if r == 0x7F {
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
