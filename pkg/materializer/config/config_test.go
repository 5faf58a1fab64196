package config

import "testing"

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.RepoRoot() != DefaultRepoRoot {
		t.Errorf("RepoRoot() = %s, want %s", cfg.RepoRoot(), DefaultRepoRoot)
	}
	if cfg.AppsDir() != "apps" {
		t.Errorf("AppsDir() = %s, want apps", cfg.AppsDir())
	}
	if cfg.WorkflowsDir() != ".github/workflows" {
		t.Errorf("WorkflowsDir() = %s, want .github/workflows", cfg.WorkflowsDir())
	}
	if cfg.GroupID() != "com.example" {
		t.Errorf("GroupID() = %s, want com.example", cfg.GroupID())
	}
	if cfg.AppVersion() != "0.0.1-SNAPSHOT" {
		t.Errorf("AppVersion() = %s, want 0.0.1-SNAPSHOT", cfg.AppVersion())
	}
	if cfg.Strict() || cfg.NoClobber() || cfg.Atomic() || cfg.IncludeChecksums() {
		t.Error("boolean options should default to false")
	}
}

func TestNewConfigWithOptions(t *testing.T) {
	cfg := NewConfig(
		WithRepoRoot("/src"),
		WithAppsDir("services"),
		WithWorkflowsDir("ci/workflows"),
		WithReusableWorkflow("org/repo/.github/workflows/deploy.yml@v1"),
		WithGroupID("com.acme.platform"),
		WithJavaVersion("21"),
		WithAppVersion("1.0.0"),
		WithApplicationType("java"),
		WithVersion("v0.3.0"),
		WithStrict(true),
		WithNoClobber(true),
		WithAtomic(true),
		WithIncludeChecksums(true),
	)

	checks := []struct {
		name string
		got  string
		want string
	}{
		{"RepoRoot", cfg.RepoRoot(), "/src"},
		{"AppsDir", cfg.AppsDir(), "services"},
		{"WorkflowsDir", cfg.WorkflowsDir(), "ci/workflows"},
		{"ReusableWorkflow", cfg.ReusableWorkflow(), "org/repo/.github/workflows/deploy.yml@v1"},
		{"GroupID", cfg.GroupID(), "com.acme.platform"},
		{"GroupPath", cfg.GroupPath(), "com/acme/platform"},
		{"JavaVersion", cfg.JavaVersion(), "21"},
		{"AppVersion", cfg.AppVersion(), "1.0.0"},
		{"ApplicationType", cfg.ApplicationType(), "java"},
		{"Version", cfg.Version(), "v0.3.0"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s() = %s, want %s", c.name, c.got, c.want)
		}
	}

	if !cfg.Strict() || !cfg.NoClobber() || !cfg.Atomic() || !cfg.IncludeChecksums() {
		t.Error("boolean options were not applied")
	}
}

func TestEmptyOptionValuesKeepDefaults(t *testing.T) {
	cfg := NewConfig(WithAppsDir(""), WithGroupID(""), WithRepoRoot(""))

	if cfg.AppsDir() != DefaultAppsDir {
		t.Errorf("AppsDir() = %s, want %s", cfg.AppsDir(), DefaultAppsDir)
	}
	if cfg.GroupID() != DefaultGroupID {
		t.Errorf("GroupID() = %s, want %s", cfg.GroupID(), DefaultGroupID)
	}
	if cfg.RepoRoot() != DefaultRepoRoot {
		t.Errorf("RepoRoot() = %s, want %s", cfg.RepoRoot(), DefaultRepoRoot)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "valid default config", config: NewConfig()},
		{name: "nested apps dir", config: NewConfig(WithAppsDir("deploy/apps"))},
		{name: "absolute apps dir", config: NewConfig(WithAppsDir("/apps")), wantErr: true},
		{name: "escaping apps dir", config: NewConfig(WithAppsDir("../apps")), wantErr: true},
		{name: "escaping workflows dir", config: NewConfig(WithWorkflowsDir("../../wf")), wantErr: true},
		{name: "group id with slash", config: NewConfig(WithGroupID("com/example")), wantErr: true},
		{name: "group id trailing dot", config: NewConfig(WithGroupID("com.example.")), wantErr: true},
		{name: "group id double dot", config: NewConfig(WithGroupID("com..example")), wantErr: true},
		{name: "empty repo root", config: &Config{appsDir: "apps", workflowsDir: "wf", groupID: "g", appVersion: "1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
