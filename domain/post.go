package domain

import "time"

// PostStatus is the server-side lifecycle tag of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusPublished PostStatus = "PUBLISHED"
	StatusScheduled PostStatus = "SCHEDULED"
)

// BlogPost mirrors the backend's post representation. PublishAt stays a raw
// string on the wire; the visibility resolver parses it so a missing or
// malformed timestamp degrades to "sealed" instead of failing decode.
type BlogPost struct {
	Id            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	AuthorId      string     `json:"authorId"`
	Author        string     `json:"author"`
	Status        PostStatus `json:"status"`
	PublishAt     string     `json:"publishAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	IsPrivate     bool       `json:"isPrivate"`
	LikesCount    int        `json:"likesCount"`
	CommentsCount int        `json:"commentsCount"`
	LikedBy       []string   `json:"likedBy,omitempty"`
	FileUrl       string     `json:"fileUrl,omitempty"`
}

// LikedByUser reports whether the given username is in the post's likedBy set.
func (p *BlogPost) LikedByUser(username string) bool {
	if username == "" {
		return false
	}
	for _, u := range p.LikedBy {
		if u == username {
			return true
		}
	}
	return false
}

// IsOwnedBy reports whether the given session username is the post's author.
func (p *BlogPost) IsOwnedBy(username string) bool {
	return username != "" && p.Author == username
}

// PostRequest is the create/update payload.
type PostRequest struct {
	Title     string     `json:"title" validate:"required,min=3,max=150"`
	Content   string     `json:"content" validate:"required,max=30000"`
	PublishAt string     `json:"publishAt,omitempty"`
	Status    PostStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED SCHEDULED"`
	IsPrivate bool       `json:"isPrivate"`
	FileUrl   string     `json:"fileUrl,omitempty" validate:"omitempty,url"`
}

// Page is the backend's pagination envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}
