package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// InspectCommand returns the command that shows how a template is described to the model
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Describe a .pptx template",
		ArgsUsage: "TEMPLATE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the full template descriptor as JSON",
			},
		},
		Action: runInspect,
	}
}

func runInspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("missing required argument: TEMPLATE")
	}
	tpl, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	s, err := setup(c)
	if err != nil {
		return err
	}
	orch, err := s.orchestrator(c.Context, false)
	if err != nil {
		return err
	}

	res, err := orch.InspectTemplate(c.Context, tpl)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, "", res.Template)
	}
	fmt.Fprintln(c.App.Writer, res.Summary)
	fmt.Fprintln(c.App.Writer)
	fmt.Fprintln(c.App.Writer, res.Prompt)
	return nil
}
