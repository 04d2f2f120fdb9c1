package cmd

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/slidearchitect/internal/aiconnectors"
	"github.com/slidearchitect/internal/pipeline"
)

// PlanCommand returns the plan-mode command
func PlanCommand() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Map user content onto template slide images",
		ArgsUsage: "IMAGE...",
		Flags: append(contentFlags(),
			&cli.IntFlag{
				Name:  "max-slides",
				Usage: "Upper bound on the number of slides (0 for no bound)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the plan to `FILE` instead of stdout",
			},
		),
		Action: runPlan,
	}
}

func runPlan(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: at least one template image")
	}
	content, err := readContent(c)
	if err != nil {
		return err
	}
	images, err := readImages(c.Args().Slice())
	if err != nil {
		return err
	}

	s, err := setup(c)
	if err != nil {
		return err
	}
	orch, err := s.orchestrator(c.Context, true)
	if err != nil {
		return err
	}

	res, err := orch.AnalyzeSlides(c.Context, pipeline.PlanRequest{
		Images:      images,
		UserContent: content,
		Language:    languageFlag(c),
		MaxSlides:   c.Int("max-slides"),
	})
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, c.String("output"), res.Plan)
}

func readImages(paths []string) ([]aiconnectors.Image, error) {
	images := make([]aiconnectors.Image, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		mediaType := mime.TypeByExtension(filepath.Ext(path))
		if mediaType == "" {
			mediaType = http.DetectContentType(data)
		}
		images = append(images, aiconnectors.Image{MediaType: mediaType, Data: data})
	}
	return images, nil
}
