// Package naming derives the identifiers used throughout a generated
// application skeleton from a single application name.
//
// # Derived Tokens
//
// For the application name "my-spring-app":
//
//	Name         my-spring-app           directories, Helm values, workflow names
//	PackageToken my_spring_app           Java package path segment
//	TypeToken    MySpringApp             Java type names
//	EntryPoint   MySpringAppApplication  Spring Boot entry-point class
//	Hostname     my-spring-app.local     local ingress host
//
// All derivations are pure functions of the name. Apart from rejecting an
// empty name, Derive performs no validation; ValidateStrict applies the
// stricter Kubernetes and container-registry naming rules on request.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	skerrors "github.com/appforge/skelgen/pkg/errors"
)

const (
	// EntryPointSuffix is appended to the type token to name the entry point.
	EntryPointSuffix = "Application"

	// HostnameSuffix is appended to the name to build the local hostname.
	HostnameSuffix = ".local"
)

// Tokens holds every identifier derived from an application name.
type Tokens struct {
	Name         string `json:"name" yaml:"name"`
	PackageToken string `json:"packageToken" yaml:"packageToken"`
	TypeToken    string `json:"typeToken" yaml:"typeToken"`
	EntryPoint   string `json:"entryPoint" yaml:"entryPoint"`
	Hostname     string `json:"hostname" yaml:"hostname"`
}

// Derive computes the tokens for name. It fails with MISSING_ARGUMENT when
// name is empty or only whitespace.
func Derive(name string) (Tokens, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tokens{}, skerrors.New(skerrors.ErrCodeMissingArgument, "application name is required")
	}

	typeToken := TypeToken(name)
	return Tokens{
		Name:         name,
		PackageToken: PackageToken(name),
		TypeToken:    typeToken,
		EntryPoint:   typeToken + EntryPointSuffix,
		Hostname:     name + HostnameSuffix,
	}, nil
}

// PackageToken replaces hyphens with underscores.
func PackageToken(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// TypeToken removes hyphens and upper-cases the first letter of every word.
// The remaining letters keep their case.
func TypeToken(name string) string {
	caser := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, word := range strings.Split(name, "-") {
		if word == "" {
			continue
		}
		b.WriteString(caser.String(word))
	}
	return b.String()
}
