package middleware

import (
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/muesli/termenv"

	"miniverse/api"
	"miniverse/cli"
	"miniverse/session"
	"miniverse/ui"
	"miniverse/util"
)

func MainTui(conf *util.AppConfig) wish.Middleware {
	teaHandler := func(s ssh.Session) *tea.Program {
		// Check for CLI command first (non-interactive mode)
		if cmd := s.Command(); len(cmd) > 0 {
			handleCLI(s, cmd, conf)
			return nil // Don't start TUI
		}

		pty, _, active := s.Pty()
		if !active {
			wish.Println(s, "no active terminal, skipping")
			return nil
		}

		sess, err := sessionForUser(conf, s.User())
		if err != nil {
			log.Println("Could not prepare a session:", err)
			wish.Println(s, "Error: could not prepare your session")
			return nil
		}

		// Set the global color profile to ANSI256 for Docker compatibility
		lipgloss.SetColorProfile(termenv.ANSI256)

		m := ui.NewModel(sess.Client(), sess, conf, pty.Window.Width, pty.Window.Height)
		return tea.NewProgram(m, tea.WithFPS(60), tea.WithInput(s), tea.WithOutput(s), tea.WithAltScreen())
	}
	return bm.MiddlewareWithProgramHandler(teaHandler, termenv.ANSI256)
}

// handleCLI processes CLI commands in non-interactive mode
func handleCLI(s ssh.Session, cmd []string, conf *util.AppConfig) {
	sess, err := sessionForUser(conf, s.User())
	if err != nil {
		wish.Printf(s, "Error: could not prepare your session: %v\n", err)
		return
	}

	handler := cli.NewHandler(s, s, sess.Client(), sess, conf)
	if err := handler.Execute(cmd); err != nil {
		// Error already printed by handler
		return
	}
}

// sessionForUser builds an api client and session backed by a per-SSH-user
// credential file, so tokens of different remote users never mix.
func sessionForUser(conf *util.AppConfig, user string) (*session.Session, error) {
	configDir, err := util.GetConfigDir()
	if err != nil {
		return nil, err
	}
	sshDir := filepath.Join(configDir, "ssh")
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		return nil, err
	}

	client := api.NewClient(conf.Conf.ApiBaseUrl, time.Duration(conf.Conf.RequestTimeoutSecs)*time.Second)
	store := session.NewStoreAt(filepath.Join(sshDir, user+".yaml"))
	return session.New(client, store)
}
