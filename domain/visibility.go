package domain

import (
	"fmt"
	"time"
)

// VisibilityLabel is the display state derived from a post's status and the
// current time. It is recomputed on every render and never stored on the post.
type VisibilityLabel string

const (
	LabelDraft  VisibilityLabel = "Draft"
	LabelSealed VisibilityLabel = "Sealed"
	LabelOpen   VisibilityLabel = "Open"
)

// ResolveVisibility derives the display label and openness of a post.
// Drafts are never open. Published posts are always open. Scheduled posts
// open once publishAt passes; a missing or unparsable publishAt keeps the
// capsule sealed indefinitely rather than erroring.
//
// The caller supplies now explicitly so the result is deterministic and the
// label can flip between renders as wall-clock time passes.
func ResolveVisibility(status PostStatus, publishAt string, now time.Time) (VisibilityLabel, bool) {
	switch status {
	case StatusDraft:
		return LabelDraft, false
	case StatusPublished:
		return LabelOpen, true
	case StatusScheduled:
		t, err := ParsePublishAt(publishAt)
		if err != nil {
			return LabelSealed, false
		}
		if !t.After(now) {
			return LabelOpen, true
		}
		return LabelSealed, false
	default:
		// Unknown status from a newer backend: treat like a draft, hidden.
		return LabelDraft, false
	}
}

// ResolvePostVisibility is the post-level convenience wrapper.
func ResolvePostVisibility(p *BlogPost, now time.Time) (VisibilityLabel, bool) {
	return ResolveVisibility(p.Status, p.PublishAt, now)
}

// IsCapsule reports whether a post is a time capsule (scheduled publication).
func IsCapsule(p *BlogPost) bool {
	return p.Status == StatusScheduled
}

// ParsePublishAt parses the wire timestamp. The backend sends RFC3339; a few
// deployments omit the zone, so that form is accepted too.
func ParsePublishAt(publishAt string) (time.Time, error) {
	if publishAt == "" {
		return time.Time{}, fmt.Errorf("empty publishAt")
	}
	if t, err := time.Parse(time.RFC3339, publishAt); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", publishAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable publishAt %q: %w", publishAt, err)
	}
	return t, nil
}

// TimeUntilOpen renders the countdown for a sealed capsule, e.g.
// "3 days, 4 hours" or "2 hours". Returns "ready to open" once due and the
// empty string when publishAt cannot be parsed.
func TimeUntilOpen(publishAt string, now time.Time) string {
	t, err := ParsePublishAt(publishAt)
	if err != nil {
		return ""
	}
	diff := t.Sub(now)
	if diff <= 0 {
		return "ready to open"
	}
	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	if days > 0 {
		return fmt.Sprintf("%d days, %d hours", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%d hours", hours)
	}
	mins := int(diff.Minutes())
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("%d minutes", mins)
}
