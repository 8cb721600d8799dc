// Command vra-mcp serves vRealize Automation 7 to MCP clients over stdio.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/usestring/vra-mcp/internal/config"
	"github.com/usestring/vra-mcp/pkg/client"
	"github.com/usestring/vra-mcp/pkg/mcpsrv"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Settings come from VRA_* and LOG_* variables (see internal/config).
	// VRA_CONFIG names a profile file, VRA_PROFILE one of its profiles; the
	// profile overrides the environment.
	cfg := config.Load()
	if path := os.Getenv("VRA_CONFIG"); path != "" {
		p, err := config.LoadProfile(path, os.Getenv("VRA_PROFILE"))
		if err != nil {
			slog.Error("loading profile failed", "error", err)
			return 1
		}
		cfg.Apply(p)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	session, err := client.Login(ctx, cfg.Credentials(), cfg.ClientOptions("vra-mcp")...)
	if err != nil {
		slog.Error("vRA login failed", "host", cfg.Host, "error", err)
		return 1
	}

	server, err := mcpsrv.NewServer(session, mcpsrv.WithConfig(cfg))
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		return 1
	}
	defer server.Close()

	slog.Info("starting vRA MCP server on stdio", "host", session.Host(), "tenant", session.Tenant())
	err = server.Run(ctx)

	// Revoke the token before exiting.
	logoutCtx, logoutCancel := context.WithTimeout(context.Background(), cfg.HTTPClientTimeout)
	defer logoutCancel()
	if lerr := session.Logout(logoutCtx); lerr != nil {
		slog.Warn("vRA logout failed", "error", lerr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		return 1
	}
	slog.Info("server stopped")
	return 0
}
