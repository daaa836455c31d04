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
	"strconv"
	"syscall"
	"time"

	"github.com/haris-hm/gorkminion-voting-machine/auth"
	"github.com/haris-hm/gorkminion-voting-machine/ballot"
	"github.com/haris-hm/gorkminion-voting-machine/cliparse"
	"github.com/haris-hm/gorkminion-voting-machine/clock"
	"github.com/haris-hm/gorkminion-voting-machine/db"
	"github.com/haris-hm/gorkminion-voting-machine/gateway"
	"github.com/haris-hm/gorkminion-voting-machine/ledger"
	"github.com/haris-hm/gorkminion-voting-machine/middleware"
	"github.com/haris-hm/gorkminion-voting-machine/router"
	"github.com/haris-hm/gorkminion-voting-machine/scheduler"
	"github.com/haris-hm/gorkminion-voting-machine/session"
	"github.com/haris-hm/gorkminion-voting-machine/store"
	"github.com/haris-hm/gorkminion-voting-machine/tally"
)

func main() {
	var err error
	logger := slog.Default()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if cfg.PrintOperatorKey {
		fmt.Println(auth.OperatorKey(cfg.AdminKeySalt))
		return
	}

	// Connect to the database (opens and pings)
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Stops the gateway hub and the scheduler
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Domain services
	clk := clock.Real()
	st := store.New(dbConn, logger)
	registry := ballot.NewRegistry(st, clk, logger)
	l := ledger.New(st, clk, logger)
	tabulator := tally.New(st)

	hub := gateway.NewHub(logger)
	go hub.Run(ctx)

	sessions := session.NewManager(l, registry, hub, clk, cfg.SessionIdleTimeout, logger)
	creator := ballot.NewCreator(registry, hub, logger)

	sched := scheduler.New(scheduler.Config{
		Interval:            cfg.SweepInterval,
		WarningWindow:       cfg.WarningWindow,
		ShowUserVotingStats: cfg.ShowUserVotingStats,
		ParticipantRoleID:   cfg.ParticipantRoleID,
	}, registry, tabulator, l, sessions, hub, clk, logger)
	go sched.Start(ctx)

	// Create router
	mux := router.NewRouter(router.Deps{
		Registry:  registry,
		Creator:   creator,
		Tabulator: tabulator,
		Ledger:    l,
		Sessions:  sessions,
		Gateway:   hub,
	}, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "guild_id", cfg.GuildID,
		"sweep_interval", cfg.SweepInterval, "warning_window", cfg.WarningWindow)
	slog.Info("Run with -operator-key to print the key for POST /ballots")
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
