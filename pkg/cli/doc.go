/*
Copyright © 2025 The skelgen Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the skelgen command line.
//
// # Commands
//
// Create an application (the root command):
//
//	skelgen [--repo-root DIR] [--apps-dir DIR] [--group-id ID] [--no-clobber] [--atomic] <appName>
//
// Writes apps/<appName> (Helm chart, Spring Boot sources, pom.xml,
// Dockerfile) and .github/workflows/<appName>.yml under the repository root.
// With no application name the usage is printed and the process exits with
// status 1. Any filesystem failure exits with status 1.
//
// Inspect derived identifiers:
//
//	skelgen tokens <appName> [--format yaml|json|table]
//
// Check a generated application:
//
//	skelgen verify <appName> [--format yaml|json|table]
//
// Serve skeleton generation over HTTP:
//
//	skelgen serve [--address ADDR] [--port PORT]
//
// # Configuration
//
// --repo-root, --apps-dir and --group-id fall back to SKELGEN_REPO_ROOT,
// SKELGEN_APPS_DIR and SKELGEN_GROUP_ID. A .env file in the working
// directory is loaded before flags are parsed. LOG_LEVEL sets the log level
// unless --debug is given.
//
// An application named like a subcommand (tokens, verify, serve, version)
// runs that subcommand instead; pass such names after "--".
package cli
