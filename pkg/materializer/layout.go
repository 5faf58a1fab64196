package materializer

import (
	"path"
	"path/filepath"

	"github.com/appforge/skelgen/pkg/materializer/config"
	"github.com/appforge/skelgen/pkg/naming"
	"github.com/appforge/skelgen/pkg/templates"
)

// Layout holds every path of a generated application.
// Filesystem paths use the OS separator; the repo-relative references
// written into generated files are always slash separated.
type Layout struct {
	RepoRoot string `json:"repoRoot" yaml:"repoRoot"`
	AppsRoot string `json:"appsRoot" yaml:"appsRoot"`
	Target   string `json:"target" yaml:"target"`

	HelmDir        string `json:"helmDir" yaml:"helmDir"`
	ResourcesDir   string `json:"resourcesDir" yaml:"resourcesDir"`
	MainPackageDir string `json:"mainPackageDir" yaml:"mainPackageDir"`
	TestPackageDir string `json:"testPackageDir" yaml:"testPackageDir"`
	PomFile        string `json:"pomFile" yaml:"pomFile"`
	Dockerfile     string `json:"dockerfile" yaml:"dockerfile"`
	EntryPointFile string `json:"entryPointFile" yaml:"entryPointFile"`
	ControllerFile string `json:"controllerFile" yaml:"controllerFile"`
	WorkflowFile   string `json:"workflowFile" yaml:"workflowFile"`

	BuildContext  string `json:"buildContext" yaml:"buildContext"`
	HelmChartPath string `json:"helmChartPath" yaml:"helmChartPath"`
	WorkflowRef   string `json:"workflowRef" yaml:"workflowRef"`
}

// NewLayout computes the layout of the application described by tok.
func NewLayout(cfg *config.Config, tok naming.Tokens) Layout {
	appsRoot := filepath.Join(cfg.RepoRoot(), filepath.FromSlash(cfg.AppsDir()))
	l := layoutAt(cfg, tok, filepath.Join(appsRoot, tok.Name))

	l.RepoRoot = cfg.RepoRoot()
	l.AppsRoot = appsRoot
	l.WorkflowFile = filepath.Join(cfg.RepoRoot(), filepath.FromSlash(cfg.WorkflowsDir()), tok.Name+".yml")

	appsDir := path.Clean(filepath.ToSlash(cfg.AppsDir()))
	l.BuildContext = path.Join(appsDir, tok.Name)
	l.HelmChartPath = path.Join(appsDir, tok.Name, "helm")
	l.WorkflowRef = path.Join(path.Clean(filepath.ToSlash(cfg.WorkflowsDir())), tok.Name+".yml")
	return l
}

// layoutAt fills the paths that live inside the application directory.
func layoutAt(cfg *config.Config, tok naming.Tokens, target string) Layout {
	pkgPath := filepath.Join(filepath.FromSlash(cfg.GroupPath()), tok.PackageToken)
	mainPkg := filepath.Join(target, "src", "main", "java", pkgPath)

	return Layout{
		Target:         target,
		HelmDir:        filepath.Join(target, "helm"),
		ResourcesDir:   filepath.Join(target, "src", "main", "resources"),
		MainPackageDir: mainPkg,
		TestPackageDir: filepath.Join(target, "src", "test", "java", pkgPath),
		PomFile:        filepath.Join(target, "pom.xml"),
		Dockerfile:     filepath.Join(target, "Dockerfile"),
		EntryPointFile: filepath.Join(mainPkg, tok.EntryPoint+".java"),
		ControllerFile: filepath.Join(mainPkg, "controller", "StatusController.java"),
	}
}

// withTarget returns a copy of l whose application paths are rooted at target.
func (l Layout) withTarget(cfg *config.Config, tok naming.Tokens, target string) Layout {
	moved := layoutAt(cfg, tok, target)
	moved.RepoRoot = l.RepoRoot
	moved.AppsRoot = l.AppsRoot
	moved.WorkflowFile = l.WorkflowFile
	moved.BuildContext = l.BuildContext
	moved.HelmChartPath = l.HelmChartPath
	moved.WorkflowRef = l.WorkflowRef
	return moved
}

// SubstitutedFiles lists the copied files that receive placeholder
// substitution, excluding resource files (those are selected by glob).
func (l Layout) SubstitutedFiles() []string {
	files := []string{
		filepath.Join(l.HelmDir, templates.ChartFile),
		filepath.Join(l.HelmDir, templates.ValuesFile),
	}
	for _, env := range templates.Environments() {
		files = append(files, filepath.Join(l.HelmDir, env.ValuesFile()))
	}
	return append(files, filepath.Join(l.HelmDir, filepath.FromSlash(templates.HelpersFile)))
}

func templateData(cfg *config.Config, tok naming.Tokens, l Layout) templates.Data {
	return templates.Data{
		Name:             tok.Name,
		PackageToken:     tok.PackageToken,
		TypeToken:        tok.TypeToken,
		EntryPoint:       tok.EntryPoint,
		Package:          cfg.GroupID() + "." + tok.PackageToken,
		GroupID:          cfg.GroupID(),
		AppVersion:       cfg.AppVersion(),
		JavaVersion:      cfg.JavaVersion(),
		ApplicationType:  cfg.ApplicationType(),
		BuildContext:     l.BuildContext,
		HelmChartPath:    l.HelmChartPath,
		WorkflowFile:     l.WorkflowRef,
		ReusableWorkflow: cfg.ReusableWorkflow(),
		Environments:     templates.Environments(),
	}
}
