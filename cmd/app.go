// Package cmd holds the slidearchitect command-line interface
package cmd

import "github.com/urfave/cli/v2"

// NewApp assembles the CLI with its global flags and commands
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "slidearchitect",
		Usage:   "Turn free text into slide plans and presentations built from a template",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE` (default ./slidearchitect.toml, then ~/.slidearchitect.toml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override log.level (trace, debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			ServeCommand(),
			PlanCommand(),
			CloneCommand(),
			GenerateCommand(),
			InspectCommand(),
			ConfigCommand(),
		},
	}
}
