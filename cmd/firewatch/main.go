package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"go-firewatch/internal/api"
	"go-firewatch/internal/config"
	"go-firewatch/internal/dashboard"
	"go-firewatch/internal/feed"
	"go-firewatch/internal/logging"
	"go-firewatch/internal/notify"
	"go-firewatch/internal/session"
	"go-firewatch/internal/store"
	"go-firewatch/internal/tui"
)

var version = "dev"

func main() {
	log.SetOutput(io.Discard)

	root := &cli.Command{
		Name:    "firewatch",
		Usage:   "Forest fire monitoring dashboard",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Usage: "backend base URL (overrides FIREWATCH_API_URL)"},
			&cli.StringFlag{Name: "profile", Usage: "session profile (overrides FIREWATCH_PROFILE)"},
			&cli.StringFlag{Name: "view", Value: dashboard.ViewMonitor.String(), Usage: "view to open first: monitor, prediction, fireSettings, stats or users"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			predictCommand(),
			statsCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return runLocal(ctx, c)
			}
			return runServe(ctx, c, defaultPort, defaultKeys)
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is what every command shares: configuration, logging and the session store.
// logs is set only for the local terminal; SSH sessions get a buffer each.
type app struct {
	cfg    config.Config
	view   dashboard.View
	logger *slog.Logger
	logs   *logging.Buffer
	kv     store.Store
	closer io.Closer
	hub    *feed.Hub
}

func setup(c *cli.Command, interactive bool) (*app, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	if u := strings.TrimSpace(c.String("api")); u != "" {
		cfg.APIBaseURL = strings.TrimRight(u, "/")
	}
	if p := strings.TrimSpace(c.String("profile")); p != "" {
		cfg.Profile = p
	}
	view, ok := dashboard.ParseView(strings.TrimSpace(c.String("view")))
	if !ok {
		return nil, fmt.Errorf("unknown view %q", c.String("view"))
	}

	var buf *logging.Buffer
	if interactive {
		buf = logging.NewBuffer()
	}
	logger, closer, err := logging.New(cfg, version, buf)
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(cfg.SessionStore, cfg.SessionDB, cfg.SessionDSN)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	logger.Info("starting", "api", cfg.APIBaseURL, "session_store", cfg.SessionStore, "profile", cfg.Profile)
	return &app{cfg: cfg, view: view, logger: logger, logs: buf, kv: kv, closer: closer, hub: feed.NewHub()}, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("close session store", "error", err)
	}
	_ = a.closer.Close()
}

// controller builds a dashboard for one profile with its persisted session restored.
func (a *app) controller(profile string, logger *slog.Logger, n notify.Notifier, p dashboard.Presenter) *dashboard.Controller {
	client := api.New(a.cfg.APIBaseURL, a.cfg.APITimeout)
	sess := session.New(a.kv, client, profile, logger)
	sess.Restore()
	return dashboard.New(dashboard.Options{
		Session:           sess,
		Notifier:          n,
		Presenter:         p,
		Logger:            logger.With("profile", profile),
		InitialView:       a.view,
		RegisterNoticeTTL: a.cfg.RegisterNoticeTTL,
	})
}

// deps wires one interactive dashboard. Without a shared buffer the session logs
// into a buffer of its own. The returned func releases its feed subscription.
func (a *app) deps(profile string) (tui.Deps, func()) {
	logs, logger := a.logs, a.logger
	if logs == nil {
		logs = logging.NewBuffer()
		logger = logging.Tee(a.logger, logs, a.cfg.LogLevel)
	}
	notices := notify.NewQueue()
	host := tui.NewModalHost()
	signals, unsubscribe := a.hub.Subscribe()
	return tui.Deps{
		Controller: a.controller(profile, logger, notices, host),
		Notices:    notices,
		Host:       host,
		Logs:       logs,
		Signals:    signals,
	}, unsubscribe
}

func (a *app) model(ctx context.Context, profile string) (tui.Model, func()) {
	d, unsubscribe := a.deps(profile)
	return tui.New(ctx, d), unsubscribe
}

// startFeed connects the change feed in the background when a broker is configured.
func (a *app) startFeed(ctx context.Context) func() {
	if !a.cfg.FeedEnabled() {
		a.logger.Info("live feed disabled, no MQTT broker configured")
		return func() {}
	}
	sub := feed.NewSubscriber(a.cfg, a.logger)
	sub.SetHandler(a.hub.Publish)
	go func() {
		if err := sub.Connect(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("live feed unavailable", "error", err)
		}
	}()
	return sub.Disconnect
}

func runLocal(ctx context.Context, c *cli.Command) error {
	a, err := setup(c, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopFeed := a.startFeed(ctx)
	defer stopFeed()

	m, unsubscribe := a.model(ctx, a.cfg.Profile)
	defer unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func runServe(ctx context.Context, c *cli.Command, port int, keys string) error {
	a, err := setup(c, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	stopFeed := a.startFeed(ctx)
	defer stopFeed()

	srv, err := newSSHServer(a, port, keys)
	if err != nil {
		return err
	}
	fmt.Printf("firewatch serving the dashboard over SSH on :%d\n", port)
	return serveSSH(ctx, a.logger, srv)
}
