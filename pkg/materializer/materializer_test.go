package materializer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	skerrors "github.com/appforge/skelgen/pkg/errors"
	"github.com/appforge/skelgen/pkg/materializer/config"
	"github.com/appforge/skelgen/pkg/templates"
)

const testRepo = "/repo"

func newTestMaterializer(t *testing.T, fsys afero.Fs, opts ...config.Option) *Materializer {
	t.Helper()
	opts = append([]config.Option{config.WithRepoRoot(testRepo)}, opts...)
	m, err := New(WithFS(fsys), WithConfig(config.NewConfig(opts...)))
	require.NoError(t, err)
	return m
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

func appPath(parts ...string) string {
	return filepath.Join(append([]string{testRepo, "apps", "my-spring-app"}, parts...)...)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(WithConfig(config.NewConfig(config.WithAppsDir("../outside"))))
	require.Error(t, err)
	assert.True(t, skerrors.HasCode(err, skerrors.ErrCodeInvalidRequest))
}

func TestMaterialize_Tree(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := newTestMaterializer(t, fsys)

	result, err := m.Materialize(context.Background(), "my-spring-app")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.Overwritten)
	assert.Equal(t, appPath(), result.Target)

	pkgDir := appPath("src", "main", "java", "com", "example", "my_spring_app")
	files := []string{
		appPath("helm", "Chart.yaml"),
		appPath("helm", "values.yaml"),
		appPath("helm", "values-dev.yaml"),
		appPath("helm", "values-qa.yaml"),
		appPath("helm", "values-prod.yaml"),
		appPath("helm", "templates", "_helpers.tpl"),
		appPath("src", "main", "resources", "application.yml"),
		appPath("src", "main", "resources", "application-local.yml"),
		appPath("pom.xml"),
		appPath("Dockerfile"),
		filepath.Join(pkgDir, "MySpringAppApplication.java"),
		filepath.Join(pkgDir, "controller", "StatusController.java"),
		filepath.Join(testRepo, ".github", "workflows", "my-spring-app.yml"),
	}
	for _, f := range files {
		exists, err := afero.Exists(fsys, f)
		require.NoError(t, err)
		assert.True(t, exists, "expected %s", f)
		assert.Contains(t, result.Files, f)
	}

	isDir, err := afero.DirExists(fsys, appPath("src", "test", "java", "com", "example", "my_spring_app"))
	require.NoError(t, err)
	assert.True(t, isDir, "test package directory should exist")

	stepNames := make([]string, 0, len(result.Steps))
	for _, s := range result.Steps {
		stepNames = append(stepNames, s.Name)
	}
	assert.Equal(t, []string{
		"create-target", "copy-helm", "copy-resources", "substitute", "pom",
		"dockerfile", "source-dirs", "entry-point", "controller", "workflow",
	}, stepNames)
}

func TestMaterialize_NoPlaceholdersRemain(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := newTestMaterializer(t, fsys)

	result, err := m.Materialize(context.Background(), "my-spring-app")
	require.NoError(t, err)
	assert.Positive(t, result.Replacements)

	for _, f := range result.Files {
		content, err := afero.ReadFile(fsys, f)
		require.NoError(t, err)
		assert.False(t, templates.ContainsPlaceholder(content), "placeholder left in %s", f)
	}

	chart := readFile(t, fsys, appPath("helm", "Chart.yaml"))
	assert.Contains(t, chart, "name: my-spring-app")

	values := readFile(t, fsys, appPath("helm", "values.yaml"))
	assert.Contains(t, values, "my-spring-app.local")
	assert.NotContains(t, values, ".localhost")
}

func TestMaterialize_GeneratedContent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := newTestMaterializer(t, fsys, config.WithGroupID("com.acme"))

	_, err := m.Materialize(context.Background(), "billing-api")
	require.NoError(t, err)

	target := filepath.Join(testRepo, "apps", "billing-api")

	pom := readFile(t, fsys, filepath.Join(target, "pom.xml"))
	assert.Contains(t, pom, "<artifactId>billing-api</artifactId>")
	assert.Contains(t, pom, "<groupId>com.acme</groupId>")

	entry := readFile(t, fsys, filepath.Join(target, "src", "main", "java", "com", "acme", "billing_api", "BillingApiApplication.java"))
	assert.Contains(t, entry, "package com.acme.billing_api;")
	assert.Contains(t, entry, "public class BillingApiApplication")

	dockerfile := readFile(t, fsys, filepath.Join(target, "Dockerfile"))
	assert.Contains(t, dockerfile, "target/billing-api-0.0.1-SNAPSHOT.jar")

	workflow := readFile(t, fsys, filepath.Join(testRepo, ".github", "workflows", "billing-api.yml"))
	var doc struct {
		Jobs map[string]struct {
			Uses string            `yaml:"uses"`
			With map[string]string `yaml:"with"`
		} `yaml:"jobs"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(workflow), &doc))
	require.Len(t, doc.Jobs, 3)
	for _, env := range templates.Environments() {
		job, ok := doc.Jobs["deploy-"+env.Name]
		require.True(t, ok, "missing job for %s", env.Name)
		assert.Equal(t, config.DefaultReusableWorkflow, job.Uses)
		assert.Equal(t, "apps/billing-api", job.With["build_context"])
		assert.Equal(t, "apps/billing-api/helm", job.With["helm_chart_path"])
	}
}

func TestMaterialize_EmptyName(t *testing.T) {
	tests := []struct {
		name    string
		appName string
	}{
		{name: "empty", appName: ""},
		{name: "whitespace", appName: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			m := newTestMaterializer(t, fsys)

			result, err := m.Materialize(context.Background(), tt.appName)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, skerrors.HasCode(err, skerrors.ErrCodeMissingArgument))

			exists, err := afero.Exists(fsys, testRepo)
			require.NoError(t, err)
			assert.False(t, exists, "nothing should be created")
		})
	}
}

func TestMaterialize_OverwritesExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := newTestMaterializer(t, fsys)

	_, err := m.Materialize(context.Background(), "my-spring-app")
	require.NoError(t, err)

	pom := appPath("pom.xml")
	require.NoError(t, afero.WriteFile(fsys, pom, []byte("edited"), 0o644))
	extra := appPath("NOTES.md")
	require.NoError(t, afero.WriteFile(fsys, extra, []byte("keep me"), 0o644))

	result, err := m.Materialize(context.Background(), "my-spring-app")
	require.NoError(t, err)
	assert.True(t, result.Overwritten)

	assert.Contains(t, readFile(t, fsys, pom), "<artifactId>my-spring-app</artifactId>")
	assert.Equal(t, "keep me", readFile(t, fsys, extra))
}

func TestMaterialize_NoClobber(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := newTestMaterializer(t, fsys, config.WithNoClobber(true))

	require.NoError(t, fsys.MkdirAll(appPath(), 0o755))
	require.NoError(t, afero.WriteFile(fsys, appPath("pom.xml"), []byte("mine"), 0o644))

	_, err := m.Materialize(context.Background(), "my-spring-app")
	require.Error(t, err)
	assert.True(t, skerrors.HasCode(err, skerrors.ErrCodeAlreadyExists))
	assert.Equal(t, "mine", readFile(t, fsys, appPath("pom.xml")))

	exists, err := afero.Exists(fsys, filepath.Join(testRepo, ".github", "workflows", "my-spring-app.yml"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMaterialize_Strict(t *testing.T) {
	tests := []struct {
		name    string
		appName string
		wantErr bool
	}{
		{name: "valid", appName: "orders", wantErr: false},
		{name: "uppercase", appName: "Orders", wantErr: true},
		{name: "underscore", appName: "my_app", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			m := newTestMaterializer(t, fsys, config.WithStrict(true))

			_, err := m.Materialize(context.Background(), tt.appName)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, skerrors.HasCode(err, skerrors.ErrCodeInvalidRequest))

			exists, err := afero.Exists(fsys, testRepo)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestMaterialize_ReadOnlyFilesystem(t *testing.T) {
	fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())
	m := newTestMaterializer(t, fsys)

	result, err := m.Materialize(context.Background(), "my-spring-app")
	require.Error(t, err)
	assert.True(t, skerrors.HasCode(err, skerrors.ErrCodeIOFailure))
	require.NotNil(t, result)
	assert.False(t, result.Success)

	var se *skerrors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create-target", se.Context["step"])
}

// failOnCreateFs rejects creating any file with the given base name.
type failOnCreateFs struct {
	afero.Fs
	base string
}

func (f *failOnCreateFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&os.O_CREATE != 0 && filepath.Base(name) == f.base {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *failOnCreateFs) Create(name string) (afero.File, error) {
	return f.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

func failedStep(t *testing.T, err error) any {
	t.Helper()
	var se *skerrors.StructuredError
	require.ErrorAs(t, err, &se)
	return se.Context["step"]
}

func TestMaterialize_FailureKeepsPartialOutput(t *testing.T) {
	fsys := &failOnCreateFs{Fs: afero.NewMemMapFs(), base: "pom.xml"}
	m := newTestMaterializer(t, fsys)

	result, err := m.Materialize(context.Background(), "my-spring-app")
	require.Error(t, err)
	assert.True(t, skerrors.HasCode(err, skerrors.ErrCodeIOFailure))
	assert.Equal(t, "pom", failedStep(t, err))

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Files)

	// earlier steps are not rolled back
	for _, f := range []string{
		appPath("helm", "Chart.yaml"),
		appPath("helm", "values.yaml"),
		appPath("src", "main", "resources", "application.yml"),
	} {
		exists, err := afero.Exists(fsys, f)
		require.NoError(t, err)
		assert.True(t, exists, "expected %s to remain", f)
		assert.Contains(t, result.Files, f)
	}

	exists, err := afero.Exists(fsys, appPath("pom.xml"))
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = afero.Exists(fsys, filepath.Join(testRepo, ".github", "workflows", "my-spring-app.yml"))
	require.NoError(t, err)
	assert.False(t, exists, "workflow is written only after the application tree")
}

func TestMaterialize_AtomicFailureRemovesStaging(t *testing.T) {
	fsys := &failOnCreateFs{Fs: afero.NewMemMapFs(), base: "pom.xml"}
	m := newTestMaterializer(t, fsys, config.WithAtomic(true))

	result, err := m.Materialize(context.Background(), "my-spring-app")
	require.Error(t, err)
	assert.True(t, skerrors.HasCode(err, skerrors.ErrCodeIOFailure))
	assert.Equal(t, "pom", failedStep(t, err))
	assert.False(t, result.Success)

	entries, err := afero.ReadDir(fsys, filepath.Join(testRepo, "apps"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".staging-"), "staging directory %s left behind", e.Name())
	}

	exists, err := afero.Exists(fsys, appPath())
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = afero.Exists(fsys, filepath.Join(testRepo, ".github", "workflows", "my-spring-app.yml"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMaterialize_CancelledContext(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := newTestMaterializer(t, fsys)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Materialize(ctx, "my-spring-app")
	require.Error(t, err)
	assert.True(t, skerrors.HasCode(err, skerrors.ErrCodeTimeout))

	exists, err := afero.Exists(fsys, testRepo)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMaterialize_Checksums(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := newTestMaterializer(t, fsys, config.WithIncludeChecksums(true))

	result, err := m.Materialize(context.Background(), "my-spring-app")
	require.NoError(t, err)
	require.Equal(t, appPath(ChecksumsFile), result.Checksums)

	content := readFile(t, fsys, result.Checksums)
	assert.Contains(t, content, "# my-spring-app Checksums (SHA256)")

	pom := []byte(readFile(t, fsys, appPath("pom.xml")))
	assert.Contains(t, content, ComputeChecksum(pom)+"  pom.xml")
	assert.Contains(t, content, "  helm/Chart.yaml")
	assert.NotContains(t, content, ChecksumsFile)
	assert.NotContains(t, content, "my-spring-app.yml", "workflow is outside the application directory")
}

func TestMaterialize_Atomic(t *testing.T) {
	repo := t.TempDir()
	cfg := config.NewConfig(config.WithRepoRoot(repo), config.WithAtomic(true), config.WithIncludeChecksums(true))
	m, err := New(WithConfig(cfg))
	require.NoError(t, err)

	result, err := m.Materialize(context.Background(), "my-spring-app")
	require.NoError(t, err)

	target := filepath.Join(repo, "apps", "my-spring-app")
	assert.Equal(t, target, result.Target)
	assert.Equal(t, filepath.Join(target, ChecksumsFile), result.Checksums)
	for _, f := range result.Files {
		assert.NotContains(t, f, ".staging-", "recorded paths should point at the final tree")
		_, err := os.Stat(f)
		assert.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Join(repo, "apps"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "."), "staging directory %s left behind", e.Name())
	}

	_, err = os.Stat(filepath.Join(repo, ".github", "workflows", "my-spring-app.yml"))
	assert.NoError(t, err)
}

func TestMaterialize_AtomicReplacesExisting(t *testing.T) {
	repo := t.TempDir()
	target := filepath.Join(repo, "apps", "my-spring-app")
	require.NoError(t, os.MkdirAll(target, 0o755))
	stale := filepath.Join(target, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	m, err := New(WithConfig(config.NewConfig(config.WithRepoRoot(repo), config.WithAtomic(true))))
	require.NoError(t, err)

	result, err := m.Materialize(context.Background(), "my-spring-app")
	require.NoError(t, err)
	assert.True(t, result.Overwritten)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "atomic mode replaces the whole application directory")
}

func TestLayout(t *testing.T) {
	m := newTestMaterializer(t, afero.NewMemMapFs(), config.WithAppsDir("services"))

	layout, tok, err := m.Layout("my-spring-app")
	require.NoError(t, err)
	assert.Equal(t, "MySpringAppApplication", tok.EntryPoint)
	assert.Equal(t, filepath.Join(testRepo, "services", "my-spring-app"), layout.Target)
	assert.Equal(t, "services/my-spring-app", layout.BuildContext)
	assert.Equal(t, "services/my-spring-app/helm", layout.HelmChartPath)
	assert.Equal(t, ".github/workflows/my-spring-app.yml", layout.WorkflowRef)

	_, _, err = m.Layout("")
	assert.True(t, skerrors.HasCode(err, skerrors.ErrCodeMissingArgument))
}
