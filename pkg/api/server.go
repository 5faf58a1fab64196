// Copyright © 2025 The skelgen Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/appforge/skelgen/pkg/logging"
	"github.com/appforge/skelgen/pkg/materializer/config"
	"github.com/appforge/skelgen/pkg/server"
)

const (
	name           = "skelgen-api-server"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/appforge/skelgen/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Routes returns the API handlers keyed by path.
func Routes(h *Handler) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/skeleton": h.HandleSkeleton,
		"/v1/tokens":   h.HandleTokens,
	}
}

// Serve starts the API server and blocks until ctx is cancelled or the
// process is signalled. opts are the materializer defaults every request
// starts from.
func Serve(ctx context.Context, cfg *server.Config, opts ...config.Option) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithConfig(cfg),
		server.WithHandler(Routes(NewHandler(opts...))),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
