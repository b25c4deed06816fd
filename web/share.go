package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"strconv"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"
	"golang.org/x/time/rate"

	"miniverse/api"
	"miniverse/domain"
	"miniverse/util"
)

const postsPerPage = 20

// Backend is the slice of the api client the share server needs. The server
// only ever touches public data, so no session is involved.
type Backend interface {
	PublicPosts(ctx context.Context, page, size int) (domain.Page[domain.BlogPost], error)
	Post(ctx context.Context, id string) (domain.BlogPost, error)
}

type PostView struct {
	Id          string
	Title       string
	Author      string
	ContentHTML template.HTML
	TimeAgo     string
	ReadTime    int
	Likes       int
	Comments    int
	Sealed      bool
	OpensIn     string
}

type IndexPageData struct {
	Title    string
	Version  string
	Posts    []PostView
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

type PostPageData struct {
	Title   string
	Version string
	Post    PostView
}

func toPostView(post *domain.BlogPost, now time.Time) PostView {
	label, visible := domain.ResolvePostVisibility(post, now)

	view := PostView{
		Id:       post.Id,
		Title:    post.Title,
		Author:   post.Author,
		TimeAgo:  util.FormatTimeAgo(post.CreatedAt),
		ReadTime: util.ReadTimeMinutes(post.Content),
		Likes:    post.LikesCount,
		Comments: post.CommentsCount,
	}

	if !visible && label == domain.LabelSealed {
		view.Sealed = true
		view.OpensIn = domain.TimeUntilOpen(post.PublishAt, now)
		return view
	}

	contentHTML := util.MarkdownLinksToHTML(util.SanitizeContent(post.Content))
	view.ContentHTML = template.HTML(contentHTML)
	return view
}

func HandleIndex(c *gin.Context, backend Backend) {
	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	// URL pages are 1-based, the backend's are 0-based
	result, err := backend.PublicPosts(c.Request.Context(), page-1, postsPerPage)
	if err != nil {
		log.Printf("Failed to load shared feed: %v", err)
		c.HTML(500, "error.html", gin.H{"Title": "Error", "Error": "Failed to load the feed", "Version": util.GetVersion()})
		return
	}

	now := time.Now()
	posts := make([]PostView, 0, len(result.Content))
	for i := range result.Content {
		post := &result.Content[i]
		if _, visible := domain.ResolvePostVisibility(post, now); !visible {
			continue
		}
		posts = append(posts, toPostView(post, now))
	}

	c.HTML(200, "index.html", IndexPageData{
		Title:    "Home",
		Version:  util.GetVersion(),
		Posts:    posts,
		HasPrev:  page > 1,
		HasNext:  result.Number < result.TotalPages-1,
		PrevPage: page - 1,
		NextPage: page + 1,
	})
}

func HandlePost(c *gin.Context, backend Backend) {
	id := c.Param("id")

	post, err := backend.Post(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			c.HTML(404, "error.html", gin.H{"Title": "Not Found", "Error": "Post not found", "Version": util.GetVersion()})
			return
		}
		log.Printf("Failed to load post %s: %v", id, err)
		c.HTML(500, "error.html", gin.H{"Title": "Error", "Error": "Failed to load the post", "Version": util.GetVersion()})
		return
	}

	// Private posts and drafts are never shareable
	now := time.Now()
	label, _ := domain.ResolvePostVisibility(&post, now)
	if post.IsPrivate || label == domain.LabelDraft {
		c.HTML(404, "error.html", gin.H{"Title": "Not Found", "Error": "Post not found", "Version": util.GetVersion()})
		return
	}

	view := toPostView(&post, now)
	c.HTML(200, "post.html", PostPageData{
		Title:   post.Title,
		Version: util.GetVersion(),
		Post:    view,
	})
}

func HandleRSS(c *gin.Context, backend Backend) {
	result, err := backend.PublicPosts(c.Request.Context(), 0, postsPerPage)
	if err != nil {
		log.Printf("Failed to build RSS feed: %v", err)
		c.String(500, "failed to build feed")
		return
	}

	base := fmt.Sprintf("http://%s", c.Request.Host)
	feed := &feeds.Feed{
		Title:       "miniverse · public feed",
		Link:        &feeds.Link{Href: base},
		Description: "Recently shared posts",
		Created:     time.Now(),
	}

	now := time.Now()
	for i := range result.Content {
		post := &result.Content[i]
		if _, visible := domain.ResolvePostVisibility(post, now); !visible {
			continue
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          post.Id,
			Title:       post.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/post/%s", base, post.Id)},
			Author:      &feeds.Author{Name: post.Author},
			Description: util.FirstLine(post.Content, 200),
			Created:     post.CreatedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		log.Printf("Failed to render RSS feed: %v", err)
		c.String(500, "failed to build feed")
		return
	}
	c.Data(200, "application/rss+xml; charset=utf-8", []byte(rss))
}

// NewRouter wires the share server: gzip, per-IP rate limiting and the three
// public routes.
func NewRouter(backend Backend) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(RateLimitMiddleware(NewRateLimiter(rate.Limit(10), 30)))
	router.SetHTMLTemplate(loadTemplates())

	router.GET("/", func(c *gin.Context) { HandleIndex(c, backend) })
	router.GET("/post/:id", func(c *gin.Context) { HandlePost(c, backend) })
	router.GET("/feed.rss", func(c *gin.Context) { HandleRSS(c, backend) })

	return router
}

// Serve blocks, listening on the configured share port.
func Serve(backend Backend, conf *util.AppConfig) error {
	gin.SetMode(gin.ReleaseMode)
	addr := fmt.Sprintf(":%d", conf.Conf.SharePort)
	log.Printf("Share server listening on %s", addr)
	return NewRouter(backend).Run(addr)
}
