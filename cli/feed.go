package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"miniverse/db"
	"miniverse/domain"
	"miniverse/feed"
	"miniverse/util"
)

const defaultFeedLimit = 20

// handleFeed shows the public feed. When the backend is unreachable it falls
// back to the locally cached last fetch, clearly marked as cached.
func (h *Handler) handleFeed(args []string) error {
	limit := defaultFeedLimit
	query := ""

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-n" && i+1 < len(args):
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				err = fmt.Errorf("invalid value for -n: %s", args[i+1])
				h.output.Error(err)
				return err
			}
			if n < 1 {
				err = fmt.Errorf("-n must be at least 1")
				h.output.Error(err)
				return err
			}
			limit = n
			i++
		case args[i] == "-q" && i+1 < len(args):
			query = args[i+1]
			i++
		}
	}

	cached := false
	page, err := h.backend.PublicPosts(context.Background(), 0, limit)
	if err != nil {
		cacheErr, posts, _ := db.GetDB().ReadFeedCache("public")
		if cacheErr != nil || posts == nil {
			h.output.Error(err)
			return err
		}
		cached = true
		page = domain.Page[domain.BlogPost]{Content: *posts, TotalPages: 1}
		if len(page.Content) > limit {
			page.Content = page.Content[:limit]
		}
	}

	posts := feed.FilterPosts(page.Content, query)

	if len(posts) == 0 {
		if h.output.IsJSON() {
			h.output.JSON(FeedResponse{Posts: []FeedPost{}, Cached: cached})
		} else if query != "" {
			h.output.Println("No posts match the search.")
		} else {
			h.output.Println("No posts in the feed.")
		}
		return nil
	}

	if h.output.IsJSON() {
		items := make([]FeedPost, 0, len(posts))
		for _, post := range posts {
			items = append(items, FeedPost{
				ID:            post.Id,
				Author:        post.Author,
				Title:         post.Title,
				Preview:       util.FirstLine(util.SanitizeContent(post.Content), 120),
				CreatedAt:     post.CreatedAt,
				LikesCount:    post.LikesCount,
				CommentsCount: post.CommentsCount,
				ReadMinutes:   util.ReadTimeMinutes(post.Content),
			})
		}
		h.output.JSON(FeedResponse{
			Posts:   items,
			Count:   len(items),
			HasMore: !cached && page.Number < page.TotalPages-1,
			Cached:  cached,
		})
	} else {
		if cached {
			h.output.Println("(backend unreachable, showing cached feed)")
			h.output.Println("")
		}
		for _, post := range posts {
			h.output.Print("%s  @%s (%s)\n", post.Id, post.Author, util.FormatTimeAgo(post.CreatedAt))
			h.output.Print("%s\n", post.Title)
			h.output.Print("%s\n\n", util.FirstLine(util.SanitizeContent(post.Content), 120))
		}
	}

	return nil
}

// handleCapsules shows the user's scheduled posts
func (h *Handler) handleCapsules(args []string) error {
	if !h.session.LoggedIn() {
		err := fmt.Errorf("not logged in, run: login <email> -")
		h.output.Error(err)
		return err
	}

	page, err := h.backend.TimeCapsules(context.Background(), 0, defaultFeedLimit)
	if err != nil {
		h.output.Error(err)
		return err
	}

	if len(page.Content) == 0 {
		if h.output.IsJSON() {
			h.output.JSON(CapsulesResponse{Capsules: []CapsuleItem{}})
		} else {
			h.output.Println("No time capsules.")
		}
		return nil
	}

	now := time.Now()
	if h.output.IsJSON() {
		capsules := make([]CapsuleItem, 0, len(page.Content))
		for _, post := range page.Content {
			_, open := domain.ResolvePostVisibility(&post, now)
			capsules = append(capsules, CapsuleItem{
				ID:        post.Id,
				Title:     post.Title,
				PublishAt: post.PublishAt,
				OpensIn:   domain.TimeUntilOpen(post.PublishAt, now),
				Open:      open,
				CreatedAt: post.CreatedAt,
			})
		}
		h.output.JSON(CapsulesResponse{Capsules: capsules, Count: len(capsules)})
	} else {
		for _, post := range page.Content {
			_, open := domain.ResolvePostVisibility(&post, now)
			status := "sealed"
			if open {
				status = "open"
			} else if until := domain.TimeUntilOpen(post.PublishAt, now); until != "" {
				status = "opens in " + until
			}
			h.output.Print("%s  %s [%s]\n", post.Id, post.Title, status)
		}
	}

	return nil
}
