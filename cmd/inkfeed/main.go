// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the inkfeed web client. It loads
// configuration, connects to the session store, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkfeed/internal/ai"
	"inkfeed/internal/api"
	"inkfeed/internal/cache"
	"inkfeed/internal/config"
	"inkfeed/internal/handlers"
	"inkfeed/internal/render"
	"inkfeed/internal/router"
	"inkfeed/internal/session"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"api", cfg.APIBaseURL,
	)

	// Connect to Redis (session store + feed snapshots).
	redisClient, err := cache.Connect(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// The blog API client; it also verifies session tokens.
	backend := api.New(cfg.APIBaseURL, cfg.AuthBaseURL)

	// Initialize the session store backed by Redis. In non-development
	// environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(redisClient, secureCookies)
	sessions := session.NewManager(sessionStore, backend)

	// Initialize the HTML template renderer. In dev mode, templates load
	// assets from CDN; in production they use compiled local files
	// embedded in the binary.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Per-session feed snapshots keep optimistic updates cheap.
	feedCache := cache.NewFeedCache(redisClient, cache.DefaultFeedTTL)

	// The AI assistant service (summaries + tag suggestions).
	assistant := ai.New(cfg.AIBaseURL)

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(renderer, sessions, backend)
	feedHandlers := handlers.NewFeed(renderer, sessions, backend, feedCache)
	postHandlers := handlers.NewPosts(renderer, sessions, backend, feedCache, assistant)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessions, authHandlers, feedHandlers, postHandlers, secureCookies)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate AI endpoints that wait on LLM responses.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
