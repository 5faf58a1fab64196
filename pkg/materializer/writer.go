package materializer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// fileWriter writes into an afero filesystem and records every file in the result.
type fileWriter struct {
	fs     afero.Fs
	result *Result
}

func newFileWriter(fsys afero.Fs, result *Result) *fileWriter {
	return &fileWriter{fs: fsys, result: result}
}

// WriteFile writes content to path. The parent directory must already exist.
func (w *fileWriter) WriteFile(path string, content []byte, perm os.FileMode) error {
	if err := afero.WriteFile(w.fs, path, content, perm); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	w.result.AddFile(path, int64(len(content)))

	slog.Debug("file written",
		"path", path,
		"size_bytes", len(content),
		"permissions", perm,
	)
	return nil
}

// WriteFileString writes string content to path.
func (w *fileWriter) WriteFileString(path, content string, perm os.FileMode) error {
	return w.WriteFile(path, []byte(content), perm)
}

// MkdirAll creates dir and any missing parents.
func (w *fileWriter) MkdirAll(dir string) error {
	if err := w.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// CopyTree copies every file of src into dst, preserving relative paths.
func (w *fileWriter) CopyTree(src fs.FS, dst string) error {
	return fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk template %s: %w", p, err)
		}

		target := filepath.Join(dst, filepath.FromSlash(p))
		if d.IsDir() {
			return w.MkdirAll(target)
		}

		content, err := fs.ReadFile(src, p)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", p, err)
		}
		return w.WriteFile(target, content, filePerm)
	})
}
