package feed

import (
	"strings"

	"miniverse/domain"
)

// Accumulator collects paginated posts into one append-only list. It tracks
// which page comes next, whether more pages exist, and whether a fetch is in
// flight, so a view never requests the same page twice.
//
// Every Reset bumps an epoch token. Responses carry the epoch of the request
// that produced them; Apply ignores responses from an older epoch, so a
// refresh racing a slow page load cannot interleave stale items.
type Accumulator struct {
	posts    []domain.BlogPost
	nextPage int
	hasMore  bool
	loading  bool
	epoch    int
}

// NewAccumulator returns an empty accumulator ready for its first fetch.
func NewAccumulator() *Accumulator {
	return &Accumulator{hasMore: true}
}

// Reset discards accumulated posts and invalidates in-flight responses.
func (a *Accumulator) Reset() {
	a.posts = nil
	a.nextPage = 0
	a.hasMore = true
	a.loading = false
	a.epoch++
}

// BeginNextPage marks a fetch of the next page as started and returns the
// page number to request plus the epoch to tag the response with. ok is
// false when nothing should be fetched: a request is already in flight or
// the last page has been reached.
func (a *Accumulator) BeginNextPage() (page, epoch int, ok bool) {
	if a.loading || !a.hasMore {
		return 0, 0, false
	}
	a.loading = true
	return a.nextPage, a.epoch, true
}

// Apply ingests a page response produced under the given epoch. Stale
// responses (from before the last Reset) are dropped without effect.
func (a *Accumulator) Apply(epoch int, page domain.Page[domain.BlogPost]) {
	if epoch != a.epoch {
		return
	}
	a.loading = false
	a.posts = append(a.posts, page.Content...)
	a.nextPage = page.Number + 1
	a.hasMore = page.Number < page.TotalPages-1
}

// Fail clears the in-flight flag after a fetch error so the page can be
// retried. Stale failures are ignored like stale responses.
func (a *Accumulator) Fail(epoch int) {
	if epoch != a.epoch {
		return
	}
	a.loading = false
}

// Posts returns the accumulated posts, oldest fetched first.
func (a *Accumulator) Posts() []domain.BlogPost {
	return a.posts
}

// HasMore reports whether another page can be fetched.
func (a *Accumulator) HasMore() bool {
	return a.hasMore
}

// Loading reports whether a fetch is currently in flight.
func (a *Accumulator) Loading() bool {
	return a.loading
}

// Len returns the number of accumulated posts.
func (a *Accumulator) Len() int {
	return len(a.posts)
}

// FilterPosts returns the posts whose title or content contains the query,
// case-insensitively. An empty query returns the input unchanged. Filtering
// never touches the accumulator; clearing the query restores the full list.
func FilterPosts(posts []domain.BlogPost, query string) []domain.BlogPost {
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return posts
	}
	filtered := make([]domain.BlogPost, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
