// Package config provides configuration options for the materializer.
//
// Config is built with functional options and is immutable afterwards:
//
//	cfg := config.NewConfig(
//	    config.WithRepoRoot("/src/platform"),
//	    config.WithGroupID("com.acme"),
//	    config.WithNoClobber(true),
//	)
//
// # Default Values
//
//   - RepoRoot: "."
//   - AppsDir: "apps" (relative to RepoRoot)
//   - WorkflowsDir: ".github/workflows" (relative to RepoRoot)
//   - ReusableWorkflow: "./.github/workflows/deploy-reusable.yml"
//   - GroupID: "com.example"
//   - JavaVersion: "17"
//   - AppVersion: "0.0.1-SNAPSHOT"
//   - ApplicationType: "spring-boot"
//   - Strict, NoClobber, Atomic, IncludeChecksums: false
//
// With the defaults an existing application directory is overwritten
// without warning and a failed run leaves partial output behind. NoClobber
// and Atomic change those two behaviors.
package config
