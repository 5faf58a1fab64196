package materializer

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	skerrors "github.com/appforge/skelgen/pkg/errors"
	"github.com/appforge/skelgen/pkg/materializer/config"
	"github.com/appforge/skelgen/pkg/naming"
	"github.com/appforge/skelgen/pkg/substitute"
	"github.com/appforge/skelgen/pkg/templates"
)

// Materializer expands an application name into an application skeleton.
type Materializer struct {
	cfg   *config.Config
	fs    afero.Fs
	table substitute.Table
}

// Option is a functional option for Materializer.
type Option func(*Materializer)

// WithConfig sets the materializer configuration.
func WithConfig(cfg *config.Config) Option {
	return func(m *Materializer) {
		if cfg != nil {
			m.cfg = cfg
		}
	}
}

// WithFS sets the filesystem written to. Defaults to the OS filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(m *Materializer) {
		if fsys != nil {
			m.fs = fsys
		}
	}
}

// New creates a Materializer. It fails when the configuration is invalid.
func New(opts ...Option) (*Materializer, error) {
	m := &Materializer{
		cfg:   config.NewConfig(),
		fs:    afero.NewOsFs(),
		table: substitute.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.cfg.Validate(); err != nil {
		return nil, skerrors.Wrap(skerrors.ErrCodeInvalidRequest, "invalid materializer configuration", err)
	}
	return m, nil
}

// Config returns the materializer configuration.
func (m *Materializer) Config() *config.Config {
	return m.cfg
}

// FS returns the filesystem the materializer writes to.
func (m *Materializer) FS() afero.Fs {
	return m.fs
}

// Layout returns the layout appName would be materialized into.
func (m *Materializer) Layout(appName string) (Layout, naming.Tokens, error) {
	tok, err := naming.Derive(appName)
	if err != nil {
		return Layout{}, naming.Tokens{}, err
	}
	return NewLayout(m.cfg, tok), tok, nil
}

// Materialize creates the application skeleton for appName.
//
// Steps run sequentially and each depends on the files of the previous ones.
// An empty name fails with MISSING_ARGUMENT before anything is written.
// Any filesystem failure stops the run with IO_FAILURE; files written by
// earlier steps are left in place unless the configuration enables atomic mode.
func (m *Materializer) Materialize(ctx context.Context, appName string) (*Result, error) {
	start := time.Now()
	res, err := m.materialize(ctx, appName)
	materializeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		materializeTotal.WithLabelValues("error").Inc()
		return res, err
	}

	materializeTotal.WithLabelValues("success").Inc()
	materializeFilesWritten.Add(float64(res.TotalFiles()))
	return res, nil
}

func (m *Materializer) materialize(ctx context.Context, appName string) (*Result, error) {
	tok, err := naming.Derive(appName)
	if err != nil {
		return nil, err
	}

	if m.cfg.Strict() {
		if err := naming.ValidateStrict(tok.Name); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, skerrors.Wrap(skerrors.ErrCodeTimeout, "context cancelled", err)
	}

	layout := NewLayout(m.cfg, tok)
	result := NewResult(tok.Name)
	result.Target = layout.Target
	result.WorkflowFile = layout.WorkflowFile

	exists, err := afero.Exists(m.fs, layout.Target)
	if err != nil {
		return result, skerrors.WrapWithContext(skerrors.ErrCodeIOFailure,
			"failed to inspect target directory", err, map[string]any{"target": layout.Target})
	}
	if exists {
		if m.cfg.NoClobber() {
			return result, skerrors.WrapWithContext(skerrors.ErrCodeAlreadyExists,
				fmt.Sprintf("application %q already exists", tok.Name), nil,
				map[string]any{"target": layout.Target})
		}
		result.Overwritten = true
		slog.Warn("application directory exists and will be overwritten", "target", layout.Target)
	}

	m.warnSimilar(tok.Name, layout.AppsRoot)

	r := &run{
		cfg:    m.cfg,
		fs:     m.fs,
		table:  m.table,
		tokens: tok,
		layout: layout,
		data:   templateData(m.cfg, tok, layout),
		result: result,
		w:      newFileWriter(m.fs, result),
	}

	slog.Info("materializing application",
		"name", tok.Name,
		"target", layout.Target,
		"run_id", result.RunID,
		"atomic", m.cfg.Atomic(),
	)

	if m.cfg.Atomic() {
		stage := filepath.Join(layout.AppsRoot, fmt.Sprintf(".%s.staging-%s", tok.Name, result.RunID[:8]))
		r.layout = layout.withTarget(m.cfg, tok, stage)

		committed := false
		defer func() {
			if committed {
				return
			}
			if err := m.fs.RemoveAll(stage); err != nil {
				slog.Warn("failed to remove staging directory", "path", stage, "error", err)
			}
		}()

		if err := r.executeAll(ctx, r.treeSteps()); err != nil {
			return result, err
		}
		if err := r.execute(ctx, step{name: "commit", fn: func() error { return r.commit(layout) }}); err != nil {
			return result, err
		}
		committed = true
	} else if err := r.executeAll(ctx, r.treeSteps()); err != nil {
		return result, err
	}

	if err := r.execute(ctx, step{name: "workflow", fn: r.writeWorkflow}); err != nil {
		return result, err
	}

	result.MarkSuccess()

	slog.Info("application materialized",
		"name", tok.Name,
		"files", result.TotalFiles(),
		"size_bytes", result.Size,
		"replacements", result.Replacements,
		"duration", result.Duration.Round(time.Millisecond),
	)

	return result, nil
}

// warnSimilar logs existing applications whose names are a likely typo of name.
func (m *Materializer) warnSimilar(name, appsRoot string) {
	entries, err := afero.ReadDir(m.fs, appsRoot)
	if err != nil {
		return
	}

	existing := lo.FilterMap(entries, func(e os.FileInfo, _ int) (string, bool) {
		return e.Name(), e.IsDir() && !strings.HasPrefix(e.Name(), ".")
	})

	if similar := naming.Similar(name, existing, naming.DefaultSimilarityDistance); len(similar) > 0 {
		slog.Warn("applications with similar names already exist",
			"name", name,
			"similar", similar,
		)
	}
}

// run holds the state of one materialization.
type run struct {
	cfg    *config.Config
	fs     afero.Fs
	table  substitute.Table
	tokens naming.Tokens
	layout Layout
	data   templates.Data
	result *Result
	w      *fileWriter
}

type step struct {
	name string
	fn   func() error
}

func (r *run) treeSteps() []step {
	steps := []step{
		{name: "create-target", fn: r.createTarget},
		{name: "copy-helm", fn: r.copyHelm},
		{name: "copy-resources", fn: r.copyResources},
		{name: "substitute", fn: r.substitute},
		{name: "pom", fn: r.writePom},
		{name: "dockerfile", fn: r.writeDockerfile},
		{name: "source-dirs", fn: r.createSourceDirs},
		{name: "entry-point", fn: r.writeEntryPoint},
		{name: "controller", fn: r.writeController},
	}
	if r.cfg.IncludeChecksums() {
		steps = append(steps, step{name: "checksums", fn: r.writeChecksums})
	}
	return steps
}

func (r *run) executeAll(ctx context.Context, steps []step) error {
	for _, s := range steps {
		if err := r.execute(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) execute(ctx context.Context, s step) error {
	if err := ctx.Err(); err != nil {
		return skerrors.WrapWithContext(skerrors.ErrCodeTimeout,
			"materialization cancelled", err, map[string]any{"step": s.name})
	}

	start := time.Now()
	if err := s.fn(); err != nil {
		var se *skerrors.StructuredError
		if stderrors.As(err, &se) {
			return err
		}
		return skerrors.WrapWithContext(skerrors.ErrCodeIOFailure,
			fmt.Sprintf("step %s failed", s.name), err, map[string]any{"step": s.name})
	}

	d := time.Since(start)
	materializeStepDuration.WithLabelValues(s.name).Observe(d.Seconds())
	r.result.AddStep(s.name, d)
	slog.Debug("step completed", "step", s.name, "duration", d)
	return nil
}

func (r *run) createTarget() error {
	return r.w.MkdirAll(r.layout.Target)
}

func (r *run) copyHelm() error {
	return r.w.CopyTree(templates.HelmFS(), r.layout.HelmDir)
}

func (r *run) copyResources() error {
	return r.w.CopyTree(templates.ResourcesFS(), r.layout.ResourcesDir)
}

func (r *run) substitute() error {
	resources, err := afero.Glob(r.fs, filepath.Join(r.layout.ResourcesDir, templates.ResourceGlob))
	if err != nil {
		return fmt.Errorf("failed to match resource files: %w", err)
	}
	sort.Strings(resources)

	for _, file := range append(r.layout.SubstitutedFiles(), resources...) {
		content, err := afero.ReadFile(r.fs, file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		r.result.Replacements += r.table.Count(content)
		if err := r.w.WriteFile(file, r.table.Apply(content, r.tokens), filePerm); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) render(name, path string) error {
	out, err := templates.Render(name, r.data)
	if err != nil {
		return skerrors.Wrap(skerrors.ErrCodeInternal, "failed to render "+name, err)
	}
	return r.w.WriteFileString(path, out, filePerm)
}

func (r *run) writePom() error {
	return r.render(templates.PomTemplate, r.layout.PomFile)
}

func (r *run) writeDockerfile() error {
	return r.render(templates.DockerfileTemplate, r.layout.Dockerfile)
}

func (r *run) createSourceDirs() error {
	for _, dir := range []string{
		r.layout.MainPackageDir,
		filepath.Dir(r.layout.ControllerFile),
		r.layout.TestPackageDir,
	} {
		if err := r.w.MkdirAll(dir); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) writeEntryPoint() error {
	return r.render(templates.EntryPointTemplate, r.layout.EntryPointFile)
}

func (r *run) writeController() error {
	return r.render(templates.ControllerTemplate, r.layout.ControllerFile)
}

func (r *run) writeChecksums() error {
	content, err := generateChecksums(r.fs, r.result, r.layout.Target)
	if err != nil {
		return err
	}
	path := filepath.Join(r.layout.Target, ChecksumsFile)
	if err := r.w.WriteFileString(path, content, filePerm); err != nil {
		return err
	}
	r.result.Checksums = path
	return nil
}

func (r *run) writeWorkflow() error {
	if err := r.w.MkdirAll(filepath.Dir(r.layout.WorkflowFile)); err != nil {
		return err
	}
	return r.render(templates.WorkflowTemplate, r.layout.WorkflowFile)
}

// commit moves the staged tree into the final target, replacing any
// existing application directory.
func (r *run) commit(final Layout) error {
	stage := r.layout.Target

	exists, err := afero.Exists(r.fs, final.Target)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", final.Target, err)
	}
	if exists {
		if err := r.fs.RemoveAll(final.Target); err != nil {
			return fmt.Errorf("failed to remove %s: %w", final.Target, err)
		}
	}

	if err := r.fs.Rename(stage, final.Target); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", stage, final.Target, err)
	}

	r.result.rebase(stage, final.Target)
	r.layout = final
	return nil
}
