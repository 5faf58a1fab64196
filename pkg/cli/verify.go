package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/appforge/skelgen/pkg/materializer"
	"github.com/appforge/skelgen/pkg/materializer/config"
	"github.com/appforge/skelgen/pkg/serializer"
)

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check a generated application for leftover placeholders and broken files",
		ArgsUsage: "<appName>",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			appName, err := appNameArg(cmd)
			if err != nil {
				return err
			}

			m, err := materializer.New(materializer.WithConfig(config.NewConfig(configOptions(cmd)...)))
			if err != nil {
				return err
			}

			return runVerify(ctx, cmd, m, appName, serializer.FormatTable)
		},
	}
}
