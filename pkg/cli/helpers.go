/*
Copyright © 2025 The skelgen Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	skerrors "github.com/appforge/skelgen/pkg/errors"
	"github.com/appforge/skelgen/pkg/serializer"
)

// parseOutputFormat extracts and validates the output format from CLI flags.
// An unset flag yields def.
func parseOutputFormat(cmd *cli.Command, def serializer.Format) (serializer.Format, error) {
	raw := cmd.String("format")
	if raw == "" {
		return def, nil
	}
	outFormat := serializer.Format(raw)
	if outFormat.IsUnknown() {
		return "", skerrors.New(skerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format: %q, valid formats are: %s",
				raw, strings.Join(serializer.SupportedFormats(), ", ")))
	}
	return outFormat, nil
}

// appNameArg returns the single application name argument.
func appNameArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() == 0 {
		return "", skerrors.New(skerrors.ErrCodeMissingArgument, "application name is required")
	}
	if cmd.Args().Len() > 1 {
		return "", skerrors.New(skerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("expected one application name, got %d arguments", cmd.Args().Len()))
	}
	return cmd.Args().First(), nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, skerrors.New(skerrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid port %q", s))
	}
	return port, nil
}
