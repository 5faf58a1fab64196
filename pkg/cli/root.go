/*
Copyright © 2025 The skelgen Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	skerrors "github.com/appforge/skelgen/pkg/errors"
	"github.com/appforge/skelgen/pkg/logging"
)

const name = "skelgen"

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/appforge/skelgen/pkg/cli.version=1.0.0"
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitCancelled = 2
)

// Execute runs the command line and exits the process with its status.
func Execute() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)

	err := cmd.Run(ctx, args)
	switch {
	case err == nil:
		return exitOK
	case skerrors.HasCode(err, skerrors.ErrCodeMissingArgument):
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr)
		return exitFailure
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "Error: interrupted")
		return exitCancelled
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [options] <appName>\n", name)
	fmt.Fprintf(w, "       %s tokens|verify <appName>\n", name)
	fmt.Fprintf(w, "       %s serve\n\n", name)
	fmt.Fprintf(w, "Run '%s --help' for the list of options.\n", name)
}

func newRootCmd(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Create a Spring Boot application with Helm chart and CI workflow",
		ArgsUsage:             "<appName>",
		Version:               version,
		EnableShellCompletion: true,
		Writer:                stdout,
		ErrWriter:             stderr,
		Description: `Creates apps/<appName> with a Helm chart, Spring Boot sources, a Maven
pom.xml and a Dockerfile, and writes .github/workflows/<appName>.yml which
deploys the application to the development, quality assurance and production
environments through the shared reusable workflow.

# Examples

Create an application in the current repository:
  skelgen my-spring-app

Use a different group ID and keep existing applications untouched:
  skelgen --group-id com.acme --no-clobber billing-api

Build the tree in a staging directory and check it afterwards:
  skelgen --atomic --checksums --verify orders`,
		Flags: append(append(globalFlags(), configFlags()...), materializeFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := logging.LevelFromEnv()
			if cmd.Bool("debug") {
				level = slog.LevelDebug
			}
			logging.SetDefaultCLILogger(cmd.Root().ErrWriter, level, cmd.Bool("log-json"))
			return ctx, nil
		},
		Action: materializeAction,
		Commands: []*cli.Command{
			tokensCmd(),
			verifyCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintf(cmd.Root().Writer, "%s %s (commit %s, built %s)\n", name, version, commit, date)
			return err
		},
	}
}
