package templates

// Data is the input of every generated file template.
type Data struct {
	Name         string
	PackageToken string
	TypeToken    string
	EntryPoint   string

	// Package is the fully qualified Java package (GroupID + "." + PackageToken).
	Package string

	GroupID         string
	AppVersion      string
	JavaVersion     string
	ApplicationType string

	// BuildContext, HelmChartPath and WorkflowFile are slash separated paths
	// relative to the repository root.
	BuildContext  string
	HelmChartPath string
	WorkflowFile  string

	// ReusableWorkflow is the relative reference to the shared deployment workflow.
	ReusableWorkflow string

	Environments []Environment
}
