package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"miniverse/domain"
	"miniverse/session"
	"miniverse/util"
)

// Backend is the slice of the api client the CLI needs. An interface so
// command handlers can be tested against a mock.
type Backend interface {
	PublicPosts(ctx context.Context, page, size int) (domain.Page[domain.BlogPost], error)
	TimeCapsules(ctx context.Context, page, size int) (domain.Page[domain.BlogPost], error)
	Post(ctx context.Context, id string) (domain.BlogPost, error)
	CreatePost(ctx context.Context, req domain.PostRequest) (domain.BlogPost, error)
	Comments(ctx context.Context, postId string) ([]domain.Comment, error)
}

// Handler processes CLI commands
type Handler struct {
	in       io.Reader
	out      io.Writer
	backend  Backend
	session  *session.Session
	output   *Output
	jsonMode bool
	conf     *util.AppConfig
}

// NewHandler creates a new CLI handler
func NewHandler(in io.Reader, out io.Writer, backend Backend, sess *session.Session, conf *util.AppConfig) *Handler {
	return &Handler{
		in:      in,
		out:     out,
		backend: backend,
		session: sess,
		conf:    conf,
	}
}

// Execute parses and executes a CLI command
func (h *Handler) Execute(args []string) error {
	args, h.jsonMode = parseGlobalFlags(args)
	h.output = NewOutput(h.out, h.jsonMode)

	if len(args) == 0 {
		return h.showHelp()
	}

	cmd := strings.ToLower(args[0])
	cmdArgs := args[1:]

	switch cmd {
	case "feed":
		return h.handleFeed(cmdArgs)
	case "capsules":
		return h.handleCapsules(cmdArgs)
	case "read":
		return h.handleRead(cmdArgs)
	case "publish":
		return h.handlePublish(cmdArgs)
	case "whoami":
		return h.handleWhoami(cmdArgs)
	case "login":
		return h.handleLogin(cmdArgs)
	case "logout":
		return h.handleLogout(cmdArgs)
	case "--help", "-h", "help":
		return h.showHelp()
	default:
		err := fmt.Errorf("unknown command: %s", cmd)
		h.output.Error(err)
		return err
	}
}

// parseGlobalFlags extracts global flags like --json from args
func parseGlobalFlags(args []string) ([]string, bool) {
	jsonMode := false
	var filtered []string

	for _, arg := range args {
		switch arg {
		case "--json", "-j":
			jsonMode = true
		default:
			filtered = append(filtered, arg)
		}
	}

	return filtered, jsonMode
}

// showHelp displays help information
func (h *Handler) showHelp() error {
	if h.output.IsJSON() {
		help := HelpResponse{
			Version: util.GetVersion(),
			Commands: []HelpCommand{
				{
					Name:        "feed",
					Description: "Show the public feed",
					Usage:       "feed [-n <count>] [-q <term>]",
					Flags: []string{
						"-n <count>: limit number of posts (default 20)",
						"-q <term>: filter by title or content",
					},
				},
				{
					Name:        "capsules",
					Description: "Show your scheduled time capsules",
					Usage:       "capsules",
				},
				{
					Name:        "read",
					Description: "Read a post with its comments",
					Usage:       "read <post-id>",
				},
				{
					Name:        "publish",
					Description: "Publish a post, content from stdin",
					Usage:       "publish <title> -",
					Flags:       []string{"-: read content from stdin"},
				},
				{
					Name:        "whoami",
					Description: "Show the logged-in user",
					Usage:       "whoami",
				},
				{
					Name:        "login",
					Description: "Sign in, password from stdin",
					Usage:       "login <email> -",
				},
				{
					Name:        "logout",
					Description: "Clear the stored credential",
					Usage:       "logout",
				},
				{
					Name:        "help",
					Description: "Show this help message",
					Usage:       "help",
				},
			},
			GlobalFlags: []string{
				"--json, -j: output in JSON format",
			},
		}
		h.output.JSON(help)
	} else {
		h.output.Println("miniverse CLI - journaling with time capsules")
		h.output.Println("")
		h.output.Println("Usage: miniverse <command> [options]")
		h.output.Println("")
		h.output.Println("Commands:")
		h.output.Println("  feed                  Show the public feed")
		h.output.Println("  feed -n <N>           Limit to N posts")
		h.output.Println("  feed -q <term>        Filter by title or content")
		h.output.Println("  capsules              Show your scheduled time capsules")
		h.output.Println("  read <post-id>        Read a post with its comments")
		h.output.Println("  publish <title> -     Publish a post, content from stdin")
		h.output.Println("  whoami                Show the logged-in user")
		h.output.Println("  login <email> -       Sign in, password from stdin")
		h.output.Println("  logout                Clear the stored credential")
		h.output.Println("  help                  Show this help message")
		h.output.Println("")
		h.output.Println("Global flags:")
		h.output.Println("  --json, -j            Output in JSON format")
		h.output.Println("")
		h.output.Println("Examples:")
		h.output.Println("  miniverse feed -n 5")
		h.output.Println("  echo \"dear future me\" | miniverse publish \"Time capsule\" -")
		h.output.Println("  miniverse read 42 -j")
	}
	return nil
}
