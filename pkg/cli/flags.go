/*
Copyright © 2025 The skelgen Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/appforge/skelgen/pkg/materializer/config"
	"github.com/appforge/skelgen/pkg/serializer"
)

// Environment variables backing the repository flags.
const (
	EnvRepoRoot = "SKELGEN_REPO_ROOT"
	EnvAppsDir  = "SKELGEN_APPS_DIR"
	EnvGroupID  = "SKELGEN_GROUP_ID"
)

// formatFlag is local to each command that prints structured output.
func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Local:   true,
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "log-json",
			Usage: "log in JSON format",
		},
	}
}

// configFlags are shared by every command that locates or creates an application.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo-root",
			Value:   config.DefaultRepoRoot,
			Usage:   "repository root directory",
			Sources: cli.EnvVars(EnvRepoRoot),
		},
		&cli.StringFlag{
			Name:    "apps-dir",
			Value:   config.DefaultAppsDir,
			Usage:   "applications directory, relative to the repository root",
			Sources: cli.EnvVars(EnvAppsDir),
		},
		&cli.StringFlag{
			Name:  "workflows-dir",
			Value: config.DefaultWorkflowsDir,
			Usage: "workflow directory, relative to the repository root",
		},
		&cli.StringFlag{
			Name:  "reusable-workflow",
			Value: config.DefaultReusableWorkflow,
			Usage: "reusable deployment workflow called by each job",
		},
		&cli.StringFlag{
			Name:    "group-id",
			Value:   config.DefaultGroupID,
			Usage:   "Maven group ID and Java base package",
			Sources: cli.EnvVars(EnvGroupID),
		},
		&cli.StringFlag{
			Name:  "java-version",
			Value: config.DefaultJavaVersion,
			Usage: "Java release written to pom.xml",
		},
		&cli.StringFlag{
			Name:  "app-version",
			Value: config.DefaultAppVersion,
			Usage: "application version written to pom.xml and the Dockerfile",
		},
		&cli.StringFlag{
			Name:  "application-type",
			Value: config.DefaultApplicationType,
			Usage: "application type passed to the deployment workflow",
		},
	}
}

func materializeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-clobber",
			Usage: "fail if the application directory already exists",
		},
		&cli.BoolFlag{
			Name:  "atomic",
			Usage: "build the tree in a staging directory and move it into place on success",
		},
		&cli.BoolFlag{
			Name:  "checksums",
			Usage: "write checksums.txt into the application directory",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "require a DNS-1123 label that is also a valid container repository name",
		},
		&cli.BoolFlag{
			Name:  "verify",
			Usage: "verify the generated tree after materializing",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write run metrics in Prometheus text format to this file",
		},
		formatFlag(),
	}
}

// configOptions builds materializer options from the shared flags.
func configOptions(cmd *cli.Command) []config.Option {
	return []config.Option{
		config.WithRepoRoot(cmd.String("repo-root")),
		config.WithAppsDir(cmd.String("apps-dir")),
		config.WithWorkflowsDir(cmd.String("workflows-dir")),
		config.WithReusableWorkflow(cmd.String("reusable-workflow")),
		config.WithGroupID(cmd.String("group-id")),
		config.WithJavaVersion(cmd.String("java-version")),
		config.WithAppVersion(cmd.String("app-version")),
		config.WithApplicationType(cmd.String("application-type")),
		config.WithVersion(version),
	}
}
