package config

import (
	"fmt"
	"path"
	"strings"
)

// Defaults applied by NewConfig.
const (
	DefaultRepoRoot         = "."
	DefaultAppsDir          = "apps"
	DefaultGroupID          = "com.example"
	DefaultJavaVersion      = "17"
	DefaultAppVersion       = "0.0.1-SNAPSHOT"
	DefaultApplicationType  = "spring-boot"
	DefaultReusableWorkflow = "./.github/workflows/deploy-reusable.yml"
	DefaultWorkflowsDir     = ".github/workflows"
)

// Config controls materialization. It is immutable after creation.
type Config struct {
	repoRoot         string
	appsDir          string
	workflowsDir     string
	reusableWorkflow string
	groupID          string
	javaVersion      string
	appVersion       string
	applicationType  string
	version          string
	strict           bool
	noClobber        bool
	atomic           bool
	includeChecksums bool
}

// Option is a functional option for Config.
type Option func(*Config)

// WithRepoRoot sets the repository root the apps directory and workflow live in.
func WithRepoRoot(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.repoRoot = dir
		}
	}
}

// WithAppsDir sets the applications root, relative to the repository root.
func WithAppsDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.appsDir = dir
		}
	}
}

// WithWorkflowsDir sets the workflow directory, relative to the repository root.
func WithWorkflowsDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.workflowsDir = dir
		}
	}
}

// WithReusableWorkflow sets the reference of the shared deployment workflow.
func WithReusableWorkflow(ref string) Option {
	return func(c *Config) {
		if ref != "" {
			c.reusableWorkflow = ref
		}
	}
}

// WithGroupID sets the Maven group and Java base package.
func WithGroupID(groupID string) Option {
	return func(c *Config) {
		if groupID != "" {
			c.groupID = groupID
		}
	}
}

// WithJavaVersion sets the Java release written to pom.xml.
func WithJavaVersion(v string) Option {
	return func(c *Config) {
		if v != "" {
			c.javaVersion = v
		}
	}
}

// WithAppVersion sets the initial version of the generated application.
func WithAppVersion(v string) Option {
	return func(c *Config) {
		if v != "" {
			c.appVersion = v
		}
	}
}

// WithApplicationType sets the application_type passed to the deployment workflow.
func WithApplicationType(t string) Option {
	return func(c *Config) {
		if t != "" {
			c.applicationType = t
		}
	}
}

// WithVersion sets the skelgen version recorded in results.
func WithVersion(v string) Option {
	return func(c *Config) {
		c.version = v
	}
}

// WithStrict enables strict application name validation.
func WithStrict(enabled bool) Option {
	return func(c *Config) {
		c.strict = enabled
	}
}

// WithNoClobber makes materialization fail when the target already exists.
func WithNoClobber(enabled bool) Option {
	return func(c *Config) {
		c.noClobber = enabled
	}
}

// WithAtomic stages the application tree and renames it into place on success.
func WithAtomic(enabled bool) Option {
	return func(c *Config) {
		c.atomic = enabled
	}
}

// WithIncludeChecksums writes checksums.txt into the generated tree.
func WithIncludeChecksums(enabled bool) Option {
	return func(c *Config) {
		c.includeChecksums = enabled
	}
}

// NewConfig creates a Config with defaults and applies opts in order.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		repoRoot:         DefaultRepoRoot,
		appsDir:          DefaultAppsDir,
		workflowsDir:     DefaultWorkflowsDir,
		reusableWorkflow: DefaultReusableWorkflow,
		groupID:          DefaultGroupID,
		javaVersion:      DefaultJavaVersion,
		appVersion:       DefaultAppVersion,
		applicationType:  DefaultApplicationType,
		version:          "dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Config) RepoRoot() string         { return c.repoRoot }
func (c *Config) AppsDir() string          { return c.appsDir }
func (c *Config) WorkflowsDir() string     { return c.workflowsDir }
func (c *Config) ReusableWorkflow() string { return c.reusableWorkflow }
func (c *Config) GroupID() string          { return c.groupID }
func (c *Config) JavaVersion() string      { return c.javaVersion }
func (c *Config) AppVersion() string       { return c.appVersion }
func (c *Config) ApplicationType() string  { return c.applicationType }
func (c *Config) Version() string          { return c.version }
func (c *Config) Strict() bool             { return c.strict }
func (c *Config) NoClobber() bool          { return c.noClobber }
func (c *Config) Atomic() bool             { return c.atomic }
func (c *Config) IncludeChecksums() bool   { return c.includeChecksums }

// GroupPath returns the group ID as a slash separated directory path.
func (c *Config) GroupPath() string {
	return strings.ReplaceAll(c.groupID, ".", "/")
}

// Validate checks the configuration for values that would produce a broken tree.
func (c *Config) Validate() error {
	if c.repoRoot == "" {
		return fmt.Errorf("repo root must not be empty")
	}
	if err := validateRelative("apps dir", c.appsDir); err != nil {
		return err
	}
	if err := validateRelative("workflows dir", c.workflowsDir); err != nil {
		return err
	}
	if c.groupID == "" || strings.HasPrefix(c.groupID, ".") || strings.HasSuffix(c.groupID, ".") ||
		strings.Contains(c.groupID, "..") || strings.ContainsAny(c.groupID, "/\\ ") {
		return fmt.Errorf("invalid group id %q", c.groupID)
	}
	if c.appVersion == "" {
		return fmt.Errorf("app version must not be empty")
	}
	return nil
}

func validateRelative(what, p string) error {
	if p == "" {
		return fmt.Errorf("%s must not be empty", what)
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if path.IsAbs(p) {
		return fmt.Errorf("%s %q must be relative to the repo root", what, p)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%s %q must not leave the repo root", what, p)
	}
	return nil
}
