package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/slidearchitect/internal/generator"
	"github.com/slidearchitect/internal/pipeline"
)

// CloneCommand returns the cloning-mode command
func CloneCommand() *cli.Command {
	return &cli.Command{
		Name:      "clone",
		Usage:     "Plan a presentation from a .pptx template and optionally generate it",
		ArgsUsage: "TEMPLATE",
		Flags: append(contentFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Generate the presentation into `OUT.pptx`",
			},
			&cli.StringFlag{
				Name:  "instructions-out",
				Usage: "Write the cloning instructions to `FILE` instead of stdout",
			},
		),
		Action: runClone,
	}
}

// GenerateCommand returns the command that builds a presentation from saved
// cloning instructions without calling the model.
func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Build a presentation from a template and cloning instructions",
		ArgsUsage: "TEMPLATE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "instructions",
				Aliases:  []string{"i"},
				Usage:    "Cloning instructions `FILE` (JSON)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output `FILE` (defaults to presentation-generated-DATE.pptx)",
			},
		},
		Action: runGenerate,
	}
}

func runClone(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("missing required argument: TEMPLATE")
	}
	content, err := readContent(c)
	if err != nil {
		return err
	}
	tpl, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	s, err := setup(c)
	if err != nil {
		return err
	}
	orch, err := s.orchestrator(c.Context, true)
	if err != nil {
		return err
	}

	res, err := orch.GenerateCloningPlan(c.Context, pipeline.CloningRequest{
		Template:    tpl,
		UserContent: content,
		Language:    languageFlag(c),
	})
	if err != nil {
		return err
	}
	if err := writeJSON(c.App.Writer, c.String("instructions-out"), res.Instructions); err != nil {
		return err
	}

	out := c.String("output")
	if out == "" {
		return nil
	}
	instr, err := json.Marshal(res.Instructions)
	if err != nil {
		return fmt.Errorf("failed to encode instructions: %w", err)
	}
	return generate(c, orch, tpl, instr, out)
}

func runGenerate(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("missing required argument: TEMPLATE")
	}
	tpl, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}
	instr, err := os.ReadFile(c.String("instructions"))
	if err != nil {
		return fmt.Errorf("failed to read instructions: %w", err)
	}

	s, err := setup(c)
	if err != nil {
		return err
	}
	orch, err := s.orchestrator(c.Context, false)
	if err != nil {
		return err
	}

	out := c.String("output")
	if out == "" {
		out = generator.FileName(time.Now())
	}
	return generate(c, orch, tpl, instr, out)
}

// generate hands the instructions to the pipeline as JSON so saved files get
// the same schema check as HTTP clients
func generate(c *cli.Context, orch *pipeline.Orchestrator, tpl, instr []byte, out string) error {
	res, err := orch.GeneratePresentation(c.Context, pipeline.GenerateRequest{
		Template:     tpl,
		Instructions: instr,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, res.File, 0644); err != nil {
		return fmt.Errorf("failed to write presentation: %w", err)
	}
	fmt.Fprintf(c.App.ErrWriter, "Wrote %s (%d slides)\n", out, len(res.Instructions.Slides))
	return nil
}
