// Package verify checks a materialized application tree.
//
// Verify reads every file of the application directory plus its workflow
// file concurrently and reports:
//
//   - expected files that are missing
//   - placeholders that survived substitution
//   - YAML files that do not parse (files with Helm or GitHub template
//     directives are skipped)
//   - substituted files that do not contain the application name
//   - workflow jobs that do not match the deployment environments
//
// Verify never modifies the tree. Findings are collected into a Report; an
// error is returned only when the tree cannot be read at all.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	skerrors "github.com/appforge/skelgen/pkg/errors"
	"github.com/appforge/skelgen/pkg/materializer"
	"github.com/appforge/skelgen/pkg/naming"
	"github.com/appforge/skelgen/pkg/templates"
)

// Check names used in findings.
const (
	CheckMissing     = "missing"
	CheckPlaceholder = "placeholder"
	CheckYAML        = "yaml"
	CheckToken       = "token"
	CheckWorkflow    = "workflow"
)

// maxConcurrentReads bounds the number of files read at once.
const maxConcurrentReads = 8

// workflowParams are the inputs every deployment job passes to the reusable workflow.
var workflowParams = []string{
	"environment",
	"application_name",
	"application_type",
	"build_context",
	"helm_chart_path",
}

// Finding is a single verification problem.
type Finding struct {
	Check   string `json:"check" yaml:"check"`
	File    string `json:"file" yaml:"file"`
	Message string `json:"message" yaml:"message"`
}

// Report is the outcome of a verification run.
type Report struct {
	AppName  string    `json:"appName" yaml:"appName"`
	Target   string    `json:"target" yaml:"target"`
	Files    int       `json:"filesChecked" yaml:"filesChecked"`
	Findings []Finding `json:"findings" yaml:"findings"`
	Passed   bool      `json:"passed" yaml:"passed"`
}

type collector struct {
	mu       sync.Mutex
	findings []Finding
}

func (c *collector) add(check, file, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findings = append(c.findings, Finding{Check: check, File: file, Message: fmt.Sprintf(format, args...)})
}

// Verify checks the application tree described by layout.
func Verify(ctx context.Context, fsys afero.Fs, layout materializer.Layout, tok naming.Tokens) (*Report, error) {
	exists, err := afero.DirExists(fsys, layout.Target)
	if err != nil {
		return nil, skerrors.Wrap(skerrors.ErrCodeIOFailure, "failed to inspect application directory", err)
	}
	if !exists {
		return nil, skerrors.WrapWithContext(skerrors.ErrCodeNotFound,
			fmt.Sprintf("application %q not found", tok.Name), nil,
			map[string]any{"target": layout.Target})
	}

	var files []string
	err = afero.Walk(fsys, layout.Target, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, skerrors.Wrap(skerrors.ErrCodeIOFailure, "failed to walk application directory", err)
	}

	c := &collector{}
	present := lo.SliceToMap(files, func(f string) (string, bool) { return f, true })

	for _, f := range expectedFiles(layout) {
		if !present[f] {
			c.add(CheckMissing, f, "expected file is missing")
		}
	}

	workflowExists, err := afero.Exists(fsys, layout.WorkflowFile)
	if err != nil {
		return nil, skerrors.Wrap(skerrors.ErrCodeIOFailure, "failed to inspect workflow file", err)
	}
	if workflowExists {
		files = append(files, layout.WorkflowFile)
	} else {
		c.add(CheckMissing, layout.WorkflowFile, "workflow file is missing")
	}

	substituted := lo.SliceToMap(substitutedFiles(layout, files), func(f string) (string, bool) { return f, true })

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := afero.ReadFile(fsys, file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			checkContent(c, file, content, substituted[file], tok)
			if file == layout.WorkflowFile {
				checkWorkflow(c, file, content, layout, tok)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, skerrors.Wrap(skerrors.ErrCodeTimeout, "verification cancelled", err)
		}
		return nil, skerrors.Wrap(skerrors.ErrCodeIOFailure, "verification failed", err)
	}

	sort.Slice(c.findings, func(i, j int) bool {
		if c.findings[i].File != c.findings[j].File {
			return c.findings[i].File < c.findings[j].File
		}
		if c.findings[i].Check != c.findings[j].Check {
			return c.findings[i].Check < c.findings[j].Check
		}
		return c.findings[i].Message < c.findings[j].Message
	})

	report := &Report{
		AppName:  tok.Name,
		Target:   layout.Target,
		Files:    len(files),
		Findings: c.findings,
		Passed:   len(c.findings) == 0,
	}
	if report.Findings == nil {
		report.Findings = []Finding{}
	}

	slog.Debug("verification complete",
		"name", tok.Name,
		"files", report.Files,
		"findings", len(report.Findings),
	)

	return report, nil
}

func expectedFiles(l materializer.Layout) []string {
	return append(l.SubstitutedFiles(),
		l.PomFile,
		l.Dockerfile,
		l.EntryPointFile,
		l.ControllerFile,
	)
}

// substitutedFiles returns the files that must carry the application name.
func substitutedFiles(l materializer.Layout, files []string) []string {
	resources := lo.Filter(files, func(f string, _ int) bool {
		ok, _ := filepath.Match(templates.ResourceGlob, filepath.Base(f))
		return ok && filepath.Dir(f) == l.ResourcesDir
	})
	return append(l.SubstitutedFiles(), resources...)
}

func checkContent(c *collector, file string, content []byte, substituted bool, tok naming.Tokens) {
	if found := lo.Filter(templates.Placeholders(), func(p string, _ int) bool {
		return bytes.Contains(content, []byte(p))
	}); len(found) > 0 {
		c.add(CheckPlaceholder, file, "placeholder %s survived substitution", strings.Join(found, ", "))
	}

	if substituted && !bytes.Contains(content, []byte(tok.Name)) {
		c.add(CheckToken, file, "application name %q not found", tok.Name)
	}

	ext := filepath.Ext(file)
	if (ext == ".yaml" || ext == ".yml") && !bytes.Contains(content, []byte("{{")) {
		var doc any
		if err := yaml.Unmarshal(content, &doc); err != nil {
			c.add(CheckYAML, file, "invalid YAML: %v", err)
		}
	}
}

type workflowDoc struct {
	Name string                 `yaml:"name"`
	Jobs map[string]workflowJob `yaml:"jobs"`
}

type workflowJob struct {
	Uses    string            `yaml:"uses"`
	With    map[string]string `yaml:"with"`
	Secrets string            `yaml:"secrets"`
}

func checkWorkflow(c *collector, file string, content []byte, l materializer.Layout, tok naming.Tokens) {
	var doc workflowDoc
	if err := yaml.Unmarshal(content, &doc); err != nil {
		// reported by checkContent
		return
	}

	envs := templates.Environments()
	if len(doc.Jobs) != len(envs) {
		c.add(CheckWorkflow, file, "expected %d jobs, found %d", len(envs), len(doc.Jobs))
	}

	for _, env := range envs {
		name := "deploy-" + env.Name
		job, ok := doc.Jobs[name]
		if !ok {
			c.add(CheckWorkflow, file, "job %s is missing", name)
			continue
		}

		if job.Uses == "" {
			c.add(CheckWorkflow, file, "job %s does not call a reusable workflow", name)
		}
		if job.Secrets != "inherit" {
			c.add(CheckWorkflow, file, "job %s does not inherit secrets", name)
		}

		for _, p := range workflowParams {
			if _, ok := job.With[p]; !ok {
				c.add(CheckWorkflow, file, "job %s is missing parameter %s", name, p)
			}
		}

		want := map[string]string{
			"environment":      env.Name,
			"application_name": tok.Name,
			"build_context":    l.BuildContext,
			"helm_chart_path":  l.HelmChartPath,
		}
		for _, k := range workflowParams {
			expected, checked := want[k]
			if got, ok := job.With[k]; checked && ok && got != expected {
				c.add(CheckWorkflow, file, "job %s parameter %s is %q, want %q", name, k, got, expected)
			}
		}
	}
}
