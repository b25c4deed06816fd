package domain

import "time"

// Comment belongs to exactly one post. Deletable only by its author.
type Comment struct {
	Id             string    `json:"id"`
	PostId         string    `json:"postId"`
	AuthorId       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}
