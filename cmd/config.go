package cmd

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/slidearchitect/internal/config"
)

// ConfigCommand returns the config command
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Write, inspect and check the slidearchitect.toml file",
		Subcommands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Write a sample configuration for one model provider",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   "Model provider written to [model] (claude, openai, gemini, cohere, ollama)",
						Value:   "claude",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Model name written to [model], defaults to the provider's usual model",
					},
					&cli.StringFlag{
						Name:  "generator-command",
						Usage: "Render presentations with an external `PROGRAM` instead of the built-in ooxml generator",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite FILE if it exists",
					},
				},
				Action: runConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration, API key masked",
				Action: runConfigShow,
			},
			{
				Name:    "check",
				Aliases: []string{"validate"},
				Usage:   "Check that the model, pipeline and generator sections can be used",
				Action:  runConfigCheck,
			},
		},
	}
}

func runConfigInit(c *cli.Context) error {
	path := "slidearchitect.toml"
	if c.Args().Present() {
		path = c.Args().First()
	}

	err := config.InitConfig(path, config.SampleOptions{
		Provider:         c.String("provider"),
		Model:            c.String("model"),
		GeneratorCommand: c.String("generator-command"),
		Force:            c.Bool("force"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Created configuration file at %s for provider %s\n", path, c.String("provider"))
	if names := config.KeyEnv(c.String("provider")); len(names) > 0 {
		fmt.Fprintf(c.App.Writer, "Set %s or model.api_key before running plan or clone\n", names[0])
	}
	return nil
}

func runConfigShow(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	printConfig(c.App.Writer, cfg)
	return nil
}

func runConfigCheck(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Configuration is valid: %s model %s, %s generator\n",
		cfg.Model.Provider, modelName(cfg), cfg.Generator.Kind)
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "[server]")
	fmt.Fprintf(w, "  port = %d\n  body_limit = %s\n", cfg.Server.Port, cfg.Server.BodyLimit)
	fmt.Fprintln(w, "[log]")
	fmt.Fprintf(w, "  level = %s\n  format = %s\n", cfg.Log.Level, cfg.Log.Format)
	fmt.Fprintln(w, "[model]")
	fmt.Fprintf(w, "  provider = %s\n  name = %s\n  api_key = %s\n", cfg.Model.Provider, modelName(cfg), maskKey(cfg.Model.APIKey))
	if cfg.Model.BaseURL != "" {
		fmt.Fprintf(w, "  base_url = %s\n", cfg.Model.BaseURL)
	}
	fmt.Fprintf(w, "  timeout = %s\n  max_retries = %d\n", cfg.Model.Timeout, cfg.Model.MaxRetries)
	fmt.Fprintln(w, "[pipeline]")
	fmt.Fprintf(w, "  min_content_length = %d\n  max_images = %d\n  max_image_bytes = %d\n  repair_json = %t\n  default_language = %s\n",
		cfg.Pipeline.MinContentLength, cfg.Pipeline.MaxImages, cfg.Pipeline.MaxImageBytes, cfg.Pipeline.RepairJSON, cfg.Pipeline.DefaultLanguage)
	fmt.Fprintln(w, "[generator]")
	fmt.Fprintf(w, "  kind = %s\n", cfg.Generator.Kind)
	if cfg.Generator.Kind == "command" {
		fmt.Fprintf(w, "  command = %s\n  args = %v\n", cfg.Generator.Command, cfg.Generator.Args)
	}
}

func modelName(cfg *config.Config) string {
	if cfg.Model.Name != "" {
		return cfg.Model.Name
	}
	return "(provider default)"
}

// maskKey keeps the last four characters of a key
func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 8:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}

