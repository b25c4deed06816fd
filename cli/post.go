package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"miniverse/domain"
	"miniverse/util"
)

// handleRead shows a single post with its comments
func (h *Handler) handleRead(args []string) error {
	if len(args) == 0 {
		err := fmt.Errorf("usage: read <post-id>")
		h.output.Error(err)
		return err
	}
	id := args[0]

	post, err := h.backend.Post(context.Background(), id)
	if err != nil {
		h.output.Error(err)
		return err
	}

	comments, err := h.backend.Comments(context.Background(), id)
	if err != nil {
		h.output.Error(err)
		return err
	}

	label, visible := domain.ResolvePostVisibility(&post, time.Now())
	content := util.SanitizeContent(post.Content)
	if !visible && post.Status == domain.StatusScheduled {
		content = ""
	}

	if h.output.IsJSON() {
		items := make([]CommentItem, 0, len(comments))
		for _, c := range comments {
			items = append(items, CommentItem{
				ID:        c.Id,
				Author:    c.AuthorUsername,
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
			})
		}
		h.output.JSON(ReadResponse{
			ID:         post.Id,
			Author:     post.Author,
			Title:      post.Title,
			Content:    content,
			Status:     string(post.Status),
			Visibility: string(label),
			CreatedAt:  post.CreatedAt,
			LikesCount: post.LikesCount,
			Comments:   items,
		})
	} else {
		h.output.Print("%s\n", post.Title)
		h.output.Print("@%s (%s)\n\n", post.Author, util.FormatTimeAgo(post.CreatedAt))
		if !visible && post.Status == domain.StatusScheduled {
			notice := "This capsule is sealed"
			if until := domain.TimeUntilOpen(post.PublishAt, time.Now()); until != "" {
				notice += ", opens in " + until
			}
			h.output.Println(notice + ".")
		} else {
			h.output.Print("%s\n", content)
		}
		h.output.Print("\n%d likes, %d comments\n", post.LikesCount, len(comments))
		for _, c := range comments {
			h.output.Print("\n@%s (%s)\n%s\n", c.AuthorUsername, util.FormatTimeAgo(c.CreatedAt), util.SanitizeContent(c.Content))
		}
	}

	return nil
}

// handlePublish creates a published post, content from stdin
func (h *Handler) handlePublish(args []string) error {
	if !h.session.LoggedIn() {
		err := fmt.Errorf("not logged in, run: login <email> -")
		h.output.Error(err)
		return err
	}

	if len(args) < 2 || args[len(args)-1] != "-" {
		err := fmt.Errorf("usage: publish <title> -")
		h.output.Error(err)
		return err
	}
	title := strings.Join(args[:len(args)-1], " ")

	data, err := io.ReadAll(h.in)
	if err != nil {
		h.output.Error(err)
		return err
	}
	content := strings.TrimSpace(string(data))

	req := domain.PostRequest{
		Title:   title,
		Content: content,
		Status:  domain.StatusPublished,
	}
	if err := domain.ValidatePost(req, time.Now()); err != nil {
		h.output.Error(err)
		return err
	}

	post, err := h.backend.CreatePost(context.Background(), req)
	if err != nil {
		h.output.Error(err)
		return err
	}

	if h.output.IsJSON() {
		h.output.JSON(PublishResponse{
			ID:        post.Id,
			Title:     post.Title,
			Status:    string(post.Status),
			CreatedAt: post.CreatedAt,
		})
	} else {
		h.output.Success("Published: %s\n", post.Id)
	}

	return nil
}
