package templates

// Environment is one of the fixed deployment stages.
type Environment struct {
	// Name is the short identifier used in file names and workflow inputs.
	Name string `json:"name" yaml:"name"`

	// DisplayName is the human readable stage name.
	DisplayName string `json:"displayName" yaml:"displayName"`

	// Branch is the git branch whose pushes deploy to this stage.
	Branch string `json:"branch" yaml:"branch"`
}

// ValuesFile returns the Helm values file holding the stage overrides.
func (e Environment) ValuesFile() string {
	return "values-" + e.Name + ".yaml"
}

// Environments returns the three deployment stages in promotion order.
func Environments() []Environment {
	return []Environment{
		{Name: "dev", DisplayName: "development", Branch: "develop"},
		{Name: "qa", DisplayName: "quality assurance", Branch: "release"},
		{Name: "prod", DisplayName: "production", Branch: "main"},
	}
}
