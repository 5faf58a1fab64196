package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/appforge/skelgen/pkg/naming"
	"github.com/appforge/skelgen/pkg/serializer"
)

func tokensCmd() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "Print the identifiers derived from an application name",
		ArgsUsage: "<appName>",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			appName, err := appNameArg(cmd)
			if err != nil {
				return err
			}

			outFormat, err := parseOutputFormat(cmd, serializer.FormatYAML)
			if err != nil {
				return err
			}

			tok, err := naming.Derive(appName)
			if err != nil {
				return err
			}

			return serializer.NewWriter(outFormat, cmd.Root().Writer).Serialize(ctx, tok)
		},
	}
}
