package api

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	skerrors "github.com/appforge/skelgen/pkg/errors"
	"github.com/appforge/skelgen/pkg/materializer"
	"github.com/appforge/skelgen/pkg/materializer/config"
	"github.com/appforge/skelgen/pkg/naming"
	"github.com/appforge/skelgen/pkg/serializer"
	"github.com/appforge/skelgen/pkg/server"
)

const (
	// DefaultSkeletonTimeout bounds a single skeleton generation.
	DefaultSkeletonTimeout = 30 * time.Second

	// skeletonRoot is the repository root inside the per-request filesystem.
	skeletonRoot = "/skeleton"
)

// Handler serves skeleton generation requests.
type Handler struct {
	defaults []config.Option
	timeout  time.Duration
}

// NewHandler creates a Handler whose requests start from the given
// materializer options.
func NewHandler(defaults ...config.Option) *Handler {
	return &Handler{defaults: defaults, timeout: DefaultSkeletonTimeout}
}

// HandleSkeleton materializes an application into an in-memory filesystem
// and streams the resulting repository tree as a zip archive.
//
// Example:
//
//	POST /v1/skeleton?name=orders&groupId=com.acme&checksums=true
func (h *Handler) HandleSkeleton(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, skerrors.ErrCodeMethodNotAllowed,
			"method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	opts, err := h.options(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid request", nil)
		return
	}

	fsys := afero.NewMemMapFs()
	m, err := materializer.New(
		materializer.WithFS(fsys),
		materializer.WithConfig(config.NewConfig(opts...)),
	)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid configuration", nil)
		return
	}

	appName := r.URL.Query().Get("name")
	if err := checkPathSafe(appName); err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid name", map[string]any{"name": appName})
		return
	}

	result, err := m.Materialize(ctx, appName)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "failed to materialize application", map[string]any{"name": appName})
		return
	}

	slog.Debug("skeleton generated",
		"name", result.AppName,
		"files", result.TotalFiles(),
		"request_id", server.RequestID(r.Context()),
	)

	if err := streamZipResponse(w, fsys, skeletonRoot, result); err != nil {
		// headers are already written
		slog.Error("failed to stream zip response", "error", err)
	}
}

// checkPathSafe rejects names that would place the application outside the
// archive root.
func checkPathSafe(name string) error {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return skerrors.New(skerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("application name %q must not contain path separators or '..'", name))
	}
	return nil
}

// HandleTokens returns the tokens derived from the name query parameter.
func (h *Handler) HandleTokens(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, skerrors.ErrCodeMethodNotAllowed,
			"method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	tok, err := naming.Derive(r.URL.Query().Get("name"))
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid name", nil)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, tok)
}

// options builds the materializer options for r. Query parameters override
// the handler defaults; the repo root is always the in-memory skeleton root.
func (h *Handler) options(r *http.Request) ([]config.Option, error) {
	q := r.URL.Query()

	opts := append([]config.Option{}, h.defaults...)
	opts = append(opts,
		config.WithRepoRoot(skeletonRoot),
		config.WithGroupID(q.Get("groupId")),
		config.WithJavaVersion(q.Get("javaVersion")),
		config.WithAppVersion(q.Get("appVersion")),
		config.WithApplicationType(q.Get("applicationType")),
	)

	for param, opt := range map[string]func(bool) config.Option{
		"strict":    config.WithStrict,
		"checksums": config.WithIncludeChecksums,
	} {
		v := q.Get(param)
		if v == "" {
			continue
		}
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, skerrors.WrapWithContext(skerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid value for %s", param), err, map[string]any{param: v})
		}
		opts = append(opts, opt(enabled))
	}

	return opts, nil
}

// streamZipResponse writes every file under root as a zip archive.
func streamZipResponse(w http.ResponseWriter, fsys afero.Fs, root string, result *materializer.Result) error {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.AppName+".zip"))
	w.Header().Set("X-Skeleton-Run-Id", result.RunID)
	w.Header().Set("X-Skeleton-Files", strconv.Itoa(result.TotalFiles()))
	w.Header().Set("X-Skeleton-Size", strconv.FormatInt(result.Size, 10))

	zw := zip.NewWriter(w)
	defer zw.Close()

	return afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk error: %w", err)
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("failed to create file header: %w", err)
		}
		header.Name = filepath.ToSlash(relPath)

		if info.IsDir() {
			header.Name += "/"
			_, err := zw.CreateHeader(header)
			return err
		}

		header.Method = zip.Deflate
		writer, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create zip entry: %w", err)
		}

		file, err := fsys.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		if _, err := io.Copy(writer, file); err != nil {
			return fmt.Errorf("failed to copy file content: %w", err)
		}
		return nil
	})
}
