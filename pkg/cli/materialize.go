/*
Copyright © 2025 The skelgen Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/appforge/skelgen/pkg/materializer"
	"github.com/appforge/skelgen/pkg/materializer/config"
	"github.com/appforge/skelgen/pkg/serializer"
	"github.com/appforge/skelgen/pkg/verify"
)

func materializeAction(ctx context.Context, cmd *cli.Command) (err error) {
	appName, err := appNameArg(cmd)
	if err != nil {
		return err
	}

	outFormat, err := parseOutputFormat(cmd, "")
	if err != nil {
		return err
	}

	if path := cmd.String("metrics-file"); path != "" {
		defer func() {
			if werr := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); werr != nil {
				slog.Warn("failed to write metrics file", "path", path, "error", werr)
			}
		}()
	}

	opts := append(configOptions(cmd),
		config.WithNoClobber(cmd.Bool("no-clobber")),
		config.WithAtomic(cmd.Bool("atomic")),
		config.WithIncludeChecksums(cmd.Bool("checksums")),
		config.WithStrict(cmd.Bool("strict")),
	)

	m, err := materializer.New(materializer.WithConfig(config.NewConfig(opts...)))
	if err != nil {
		return err
	}

	result, err := m.Materialize(ctx, appName)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if outFormat != "" {
		if err := serializer.NewWriter(outFormat, out).Serialize(ctx, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Created application %s in %s\n", result.AppName, result.Target)
		fmt.Fprintf(out, "Created workflow %s\n", result.WorkflowFile)
		if result.Checksums != "" {
			fmt.Fprintf(out, "Checksums written to %s\n", filepath.Base(result.Checksums))
		}
	}

	if !cmd.Bool("verify") {
		return nil
	}
	return runVerify(ctx, cmd, m, appName, serializer.FormatTable)
}

// runVerify checks the tree of appName and fails when any finding is reported.
func runVerify(ctx context.Context, cmd *cli.Command, m *materializer.Materializer, appName string, def serializer.Format) error {
	layout, tok, err := m.Layout(appName)
	if err != nil {
		return err
	}

	report, err := verify.Verify(ctx, m.FS(), layout, tok)
	if err != nil {
		return err
	}

	outFormat, err := parseOutputFormat(cmd, def)
	if err != nil {
		return err
	}

	if report.Passed && outFormat == serializer.FormatTable {
		fmt.Fprintf(cmd.Root().Writer, "Verified %s: %d files, no findings\n", report.AppName, report.Files)
		return nil
	}

	if err := serializer.NewWriter(outFormat, cmd.Root().Writer).Serialize(ctx, report); err != nil {
		return err
	}
	if !report.Passed {
		return fmt.Errorf("verification of %s reported %d findings", report.AppName, len(report.Findings))
	}
	return nil
}
