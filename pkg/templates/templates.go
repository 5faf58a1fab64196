package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/samber/lo"
)

// Placeholder tokens present in the Template Set.
const (
	// ChartNamePlaceholder is the chart name in Chart.yaml (name and description).
	ChartNamePlaceholder = "boilerplate-chart"

	// AppNamePlaceholder is the application name used across values files,
	// the helpers template and the resource config files.
	AppNamePlaceholder = "boilerplate-app"

	// HostnamePlaceholder is the local ingress host in values.yaml.
	HostnamePlaceholder = "boilerplate-app.localhost"
)

// Template Set layout.
const (
	HelmRoot      = "set/helm"
	ResourcesRoot = "set/resources"

	ChartFile   = "Chart.yaml"
	ValuesFile  = "values.yaml"
	HelpersFile = "templates/_helpers.tpl"

	// ResourceGlob selects the resource config files that receive substitution.
	ResourceGlob = "*.yml"
)

// Generated file template names.
const (
	PomTemplate        = "pom.xml"
	DockerfileTemplate = "Dockerfile"
	EntryPointTemplate = "Application.java"
	ControllerTemplate = "StatusController.java"
	WorkflowTemplate   = "workflow.yml"
)

// Delimiters used by generated file templates. They differ from the Go
// defaults so that GitHub expressions and Helm directives pass through.
const (
	LeftDelim  = "[["
	RightDelim = "]]"
)

var (
	//go:embed all:set
	setFS embed.FS

	//go:embed generated/*.tmpl
	generatedFS embed.FS
)

// HelmFS returns the Helm chart skeleton rooted at the chart directory.
func HelmFS() fs.FS {
	return mustSub(setFS, HelmRoot)
}

// ResourcesFS returns the Spring resource config files.
func ResourcesFS() fs.FS {
	return mustSub(setFS, ResourcesRoot)
}

// SetFS returns the whole Template Set with helm/ and resources/ at the root.
func SetFS() fs.FS {
	return mustSub(setFS, "set")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		// embedded paths are fixed at build time
		panic(fmt.Sprintf("templates: %v", err))
	}
	return sub
}

// Placeholders returns every placeholder token, longest first.
func Placeholders() []string {
	return []string{HostnamePlaceholder, ChartNamePlaceholder, AppNamePlaceholder}
}

// ContainsPlaceholder reports whether content holds any placeholder token.
func ContainsPlaceholder(content []byte) bool {
	return lo.SomeBy(Placeholders(), func(p string) bool {
		return bytes.Contains(content, []byte(p))
	})
}

// GetTemplate returns the raw content of a generated file template.
func GetTemplate(name string) (string, bool) {
	content, err := generatedFS.ReadFile(path.Join("generated", name+".tmpl"))
	if err != nil {
		return "", false
	}
	return string(content), true
}

// GeneratedNames lists the available generated file templates.
func GeneratedNames() []string {
	entries, err := generatedFS.ReadDir("generated")
	if err != nil {
		return nil
	}
	return lo.Map(entries, func(e fs.DirEntry, _ int) string {
		return strings.TrimSuffix(e.Name(), ".tmpl")
	})
}

// Render renders the named generated file template with data.
func Render(name string, data any) (string, error) {
	content, ok := GetTemplate(name)
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	tmpl, err := template.New(name).
		Delims(LeftDelim, RightDelim).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
