// Package templates holds the Template Set and the generated file templates
// compiled into the skelgen binary.
//
// # Template Set
//
// The Template Set is copied into every new application and then passed
// through placeholder substitution:
//
//	helm/Chart.yaml
//	helm/values.yaml
//	helm/values-dev.yaml
//	helm/values-qa.yaml
//	helm/values-prod.yaml
//	helm/templates/_helpers.tpl
//	resources/application.yml
//	resources/application-local.yml
//
// The files are embedded, so materialization can never modify them.
//
// # Generated Files
//
// pom.xml, Dockerfile, the Java entry point, the status controller and the
// GitHub Actions workflow are rendered with text/template using [[ ]]
// delimiters and a Data value:
//
//	out, err := templates.Render(templates.PomTemplate, data)
//
// # Environments
//
// Environments returns the three fixed deployment stages (dev, qa, prod).
// Each has a values file in the chart and a job in the workflow.
package templates
