package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
	"github.com/coreos/go-systemd/v22/journal"
	"github.com/joho/godotenv"

	"miniverse/api"
	"miniverse/cli"
	"miniverse/db"
	"miniverse/middleware"
	"miniverse/session"
	"miniverse/ui"
	"miniverse/ui/common"
	"miniverse/util"
	"miniverse/web"
)

// journaldWriter forwards the standard logger to the systemd journal.
type journaldWriter struct{}

func (journaldWriter) Write(p []byte) (int, error) {
	if err := journal.Send(string(p), journal.PriInfo, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "-v" {
		fmt.Printf("%s v%s\n", util.Name, util.GetVersion())
		return
	}

	// A .env next to the binary can override any MINIVERSE_* setting
	_ = godotenv.Load()

	conf, err := util.ReadConf()
	if err != nil {
		log.Fatalf("Could not read config: %v", err)
	}

	if conf.Conf.WithJournald && journal.Enabled() {
		log.SetOutput(journaldWriter{})
		log.SetFlags(0)
	}

	client := api.NewClient(conf.Conf.ApiBaseUrl, time.Duration(conf.Conf.RequestTimeoutSecs)*time.Second)

	store, err := session.NewStore()
	if err != nil {
		log.Fatalf("Could not open credential store: %v", err)
	}
	sess, err := session.New(client, store)
	if err != nil {
		log.Fatalf("Could not restore session: %v", err)
	}

	// Drop feed cache entries older than a day before anything reads them
	if err := db.GetDB().PurgeFeedCache(24 * time.Hour); err != nil {
		log.Printf("Could not purge feed cache: %v", err)
	}

	// Any remaining argument switches to one-shot CLI mode
	if len(os.Args) > 1 {
		handler := cli.NewHandler(os.Stdin, os.Stdout, client, sess, conf)
		if err := handler.Execute(os.Args[1:]); err != nil {
			os.Exit(1)
		}
		return
	}

	if conf.Conf.ShareEnabled {
		go func() {
			if err := web.Serve(client, conf); err != nil {
				log.Printf("Share server stopped: %v", err)
			}
		}()
	}

	if conf.Conf.SshEnabled {
		runSSHServer(conf)
		return
	}

	runLocalTUI(client, sess, conf)
}

func runLocalTUI(client *api.Client, sess *session.Session, conf *util.AppConfig) {
	m := ui.NewModel(client, sess, conf, common.DefaultWidth, common.DefaultHeight)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("Could not start the TUI: %v", err)
	}
}

func runSSHServer(conf *util.AppConfig) {
	configDir, err := util.GetConfigDir()
	if err != nil {
		log.Fatalf("Could not resolve config dir: %v", err)
	}

	addr := net.JoinHostPort(conf.Conf.SshHost, strconv.Itoa(conf.Conf.SshPort))
	server, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(filepath.Join(configDir, "id_ed25519")),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			// Any key may connect; the REST backend does the real authentication
			return true
		}),
		wish.WithMiddleware(
			middleware.MainTui(conf),
			middleware.ConnTrack(),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("Could not create ssh server: %v", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("Starting ssh server on %s", addr)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Printf("Could not start ssh server: %v", err)
			done <- syscall.SIGTERM
		}
	}()

	<-done
	log.Println("Stopping ssh server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Fatalf("Could not stop ssh server: %v", err)
	}
}
