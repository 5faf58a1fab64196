// Package materializer writes a new application skeleton into a repository.
//
// Given an application name, Materialize derives the naming tokens and runs
// a fixed sequence of steps against an afero filesystem:
//
//  1. create-target: create <repo>/<apps>/<name>
//  2. copy-helm: copy the Helm chart skeleton into helm/
//  3. copy-resources: copy the resource config files into src/main/resources/
//  4. substitute: replace placeholders in the chart, values, helpers and resource files
//  5. pom: render pom.xml
//  6. dockerfile: render the two-instruction Dockerfile
//  7. source-dirs: create the main, controller and test package directories
//  8. entry-point: render the Spring Boot entry point class
//  9. controller: render the status controller
//  10. checksums: write checksums.txt (optional)
//  11. workflow: render <repo>/.github/workflows/<name>.yml
//
// Steps run in order; each depends on files produced by earlier steps. The
// first failure stops the run and is returned as a StructuredError with code
// IO_FAILURE and the failing step in its context.
//
// # Existing Applications
//
// By default an existing application directory is written over in place:
// files produced by the run are replaced, other files are left alone.
// config.WithNoClobber refuses to touch an existing directory and fails with
// ALREADY_EXISTS instead.
//
// # Atomic Mode
//
// With config.WithAtomic the application tree is built in a hidden staging
// directory next to the target and renamed into place once every tree step
// succeeded. A failed run removes the staging directory and leaves the
// previous tree untouched. The workflow file lives outside the application
// directory and is written after the rename.
//
// # Usage
//
//	m, err := materializer.New(
//	    materializer.WithConfig(config.NewConfig(config.WithRepoRoot("."))),
//	)
//	if err != nil {
//	    return err
//	}
//	result, err := m.Materialize(ctx, "my-spring-app")
//
// Tests and the HTTP API pass materializer.WithFS(afero.NewMemMapFs()) to
// build the tree in memory.
package materializer
