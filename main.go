// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/danielhkuo/kitchen-table/apiclient"
	"github.com/danielhkuo/kitchen-table/auth"
	"github.com/danielhkuo/kitchen-table/cliparse"
	"github.com/danielhkuo/kitchen-table/controllers"
	"github.com/danielhkuo/kitchen-table/db"
	"github.com/danielhkuo/kitchen-table/middleware"
	"github.com/danielhkuo/kitchen-table/router"
	"github.com/danielhkuo/kitchen-table/session"
	"github.com/danielhkuo/kitchen-table/tui"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(2)
	}

	// The terminal belongs to the UI, so logs go to a file
	logFile, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()

	// Open the session store
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("session store unavailable", "error", err)
		fmt.Fprintln(os.Stderr, "Error opening session store:", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	jar, err := session.NewJar(dbConn, cfg.ServerURL)
	if err != nil {
		slog.Error("session load failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error loading session:", err)
		os.Exit(1)
	}

	// Every request carries the session cookie, a request ID and a log line
	httpClient := &http.Client{
		Jar: jar,
		Transport: middleware.Chain(http.DefaultTransport,
			middleware.WithRequestID,
			middleware.WithLogging,
			middleware.WithRateLimit(middleware.NewLimiter(cfg.RequestsPerSecond)),
		),
	}
	client := apiclient.New(cfg.ServerURL, httpClient)

	notifier := &tui.Notifier{}
	deps := controllers.Deps{
		API:          client,
		Viewer:       jar,
		PollInterval: cfg.PollInterval,
		Notify:       notifier.Notify,
		LoginLimiter: auth.NewAttemptLimiter(auth.LoginAttemptsPerMinute),
	}
	pages := router.NewRouter(deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting", "server", cfg.ServerURL, "route", cfg.Route, "signed_in", jar.HasSession())

	if cfg.Once {
		out, err := tui.RenderOnce(ctx, pages, cfg.Route)
		if err != nil {
			slog.Error("render failed", "route", cfg.Route, "error", err)
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	model := tui.New(ctx, tui.Config{
		Resolver: pages,
		Tables:   client,
		Start:    cfg.Route,
		Blink:    true,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	notifier.Attach(program)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		slog.Error("program exited", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	slog.Info("exited")
}

func setupLogging(cfg cliparse.Config) (*os.File, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return f, nil
}
