package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting responses in text or JSON format
type Output struct {
	writer   io.Writer
	jsonMode bool
}

// NewOutput creates a new output handler
func NewOutput(w io.Writer, jsonMode bool) *Output {
	return &Output{
		writer:   w,
		jsonMode: jsonMode,
	}
}

// IsJSON returns true if output is in JSON mode
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// Error outputs an error message
func (o *Output) Error(err error) {
	if o.jsonMode {
		o.writeJSON(map[string]any{
			"error": err.Error(),
		})
	} else {
		fmt.Fprintf(o.writer, "Error: %v\n", err)
	}
}

// Success outputs a success message (text mode only, JSON uses specific methods)
func (o *Output) Success(format string, args ...any) {
	if !o.jsonMode {
		fmt.Fprintf(o.writer, format, args...)
	}
}

// Print outputs a line (text mode only)
func (o *Output) Print(format string, args ...any) {
	if !o.jsonMode {
		fmt.Fprintf(o.writer, format, args...)
	}
}

// Println outputs a line with newline (text mode only)
func (o *Output) Println(text string) {
	if !o.jsonMode {
		fmt.Fprintln(o.writer, text)
	}
}

// JSON outputs any value as JSON
func (o *Output) JSON(v any) {
	if o.jsonMode {
		o.writeJSON(v)
	}
}

func (o *Output) writeJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(o.writer, `{"error":"failed to marshal JSON: %s"}`+"\n", err.Error())
		return
	}
	fmt.Fprintln(o.writer, string(data))
}

// FeedPost represents a post in feed output
type FeedPost struct {
	ID            string    `json:"id"`
	Author        string    `json:"author"`
	Title         string    `json:"title"`
	Preview       string    `json:"preview"`
	CreatedAt     time.Time `json:"created_at"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	ReadMinutes   int       `json:"read_minutes"`
}

// FeedResponse represents the feed output
type FeedResponse struct {
	Posts   []FeedPost `json:"posts"`
	Count   int        `json:"count"`
	HasMore bool       `json:"has_more"`
	Cached  bool       `json:"cached,omitempty"`
}

// CapsuleItem represents a scheduled post in capsules output
type CapsuleItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	PublishAt string    `json:"publish_at"`
	OpensIn   string    `json:"opens_in,omitempty"`
	Open      bool      `json:"open"`
	CreatedAt time.Time `json:"created_at"`
}

// CapsulesResponse represents the capsules output
type CapsulesResponse struct {
	Capsules []CapsuleItem `json:"capsules"`
	Count    int           `json:"count"`
}

// CommentItem represents a comment in read output
type CommentItem struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ReadResponse represents the read output
type ReadResponse struct {
	ID         string        `json:"id"`
	Author     string        `json:"author"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Status     string        `json:"status"`
	Visibility string        `json:"visibility"`
	CreatedAt  time.Time     `json:"created_at"`
	LikesCount int           `json:"likes_count"`
	Comments   []CommentItem `json:"comments"`
}

// PublishResponse represents the publish output
type PublishResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// WhoamiResponse represents the whoami output
type WhoamiResponse struct {
	Username string `json:"username"`
	LoggedIn bool   `json:"logged_in"`
	Expires  string `json:"expires,omitempty"`
}

// HelpCommand represents a command in help output
type HelpCommand struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Usage       string   `json:"usage"`
	Flags       []string `json:"flags,omitempty"`
}

// HelpResponse represents the help output
type HelpResponse struct {
	Version     string        `json:"version"`
	Commands    []HelpCommand `json:"commands"`
	GlobalFlags []string      `json:"global_flags"`
}
