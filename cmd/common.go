package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/slidearchitect/internal/aiconnectors"
	"github.com/slidearchitect/internal/config"
	"github.com/slidearchitect/internal/generator"
	"github.com/slidearchitect/internal/logging"
	"github.com/slidearchitect/internal/pipeline"
	"github.com/slidearchitect/internal/schema"
	"github.com/slidearchitect/pkg/models"
)

// session bundles what every command needs after startup
type session struct {
	cfg *config.Config
	log zerolog.Logger
}

// setup loads the configuration and builds the logger. Global flags override
// the file and environment.
func setup(c *cli.Context) (*session, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log}, nil
}

// orchestrator builds the pipeline. The model connector is created only
// when withModel is set, so commands that never call it need no API key.
func (s *session) orchestrator(ctx context.Context, withModel bool) (*pipeline.Orchestrator, error) {
	var model pipeline.Model = offlineModel{}
	if withModel {
		if err := config.Validate(s.cfg); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		conn, err := s.connector(ctx)
		if err != nil {
			return nil, err
		}
		model = conn
	}

	gen, err := s.generator()
	if err != nil {
		return nil, err
	}

	p := s.cfg.Pipeline
	return pipeline.New(model, gen,
		pipeline.WithLogger(s.log),
		pipeline.WithDefaultLanguage(models.ParseLanguage(p.DefaultLanguage)),
		pipeline.WithLimits(pipeline.Limits{
			MinContentLength: p.MinContentLength,
			MaxImageBytes:    p.MaxImageBytes,
			MaxImages:        p.MaxImages,
		}),
		pipeline.WithValidator(schema.NewValidator(
			schema.WithRepair(p.RepairJSON),
			schema.WithLogger(s.log),
		)),
	), nil
}

func (s *session) connector(ctx context.Context) (*aiconnectors.Connector, error) {
	m := s.cfg.Model
	conn, err := aiconnectors.NewConnector(ctx, aiconnectors.ConnectorOptions{
		Provider: aiconnectors.Provider(m.Provider),
		APIKey:   m.APIKey,
		BaseURL:  m.BaseURL,
		ModelConfig: aiconnectors.ModelConfig{
			Model:       m.Name,
			Temperature: m.Temperature,
			MaxTokens:   m.MaxTokens,
		},
		Timeout:           m.Timeout,
		MaxRetries:        m.MaxRetries,
		RequestsPerSecond: m.RequestsPerSecond,
	}, s.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create model connector: %w", err)
	}
	s.log.Info().
		Str("provider", string(conn.GetProvider())).
		Str("model", conn.GetModel()).
		Msg("model connector ready")
	return conn, nil
}

func (s *session) generator() (generator.Generator, error) {
	g := s.cfg.Generator
	switch g.Kind {
	case "", "ooxml":
		return generator.NewOOXML(s.log), nil
	case "command":
		if g.Command == "" {
			return nil, fmt.Errorf("generator command is required for kind \"command\"")
		}
		return generator.NewCommand(g.Command, g.Args, s.log), nil
	default:
		return nil, fmt.Errorf("unsupported generator kind %q", g.Kind)
	}
}

// offlineModel stands in for the connector in commands that never call it
type offlineModel struct{}

func (offlineModel) Generate(context.Context, aiconnectors.Request) (string, error) {
	return "", fmt.Errorf("no model configured for this command")
}

// readContent returns the user content from --content FILE ("-" for stdin)
// or --text.
func readContent(c *cli.Context) (string, error) {
	if text := c.String("text"); text != "" {
		return text, nil
	}
	path := c.String("content")
	switch path {
	case "":
		return "", fmt.Errorf("missing user content: use --content FILE or --text")
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read content file: %w", err)
		}
		return string(data), nil
	}
}

// writeJSON writes v indented to path, or to w when path is empty
func writeJSON(w io.Writer, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func contentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "content",
			Usage: "Read the user content from `FILE` (- for stdin)",
		},
		&cli.StringFlag{
			Name:  "text",
			Usage: "User content given inline",
		},
		&cli.StringFlag{
			Name:    "language",
			Aliases: []string{"l"},
			Usage:   "Prompt language (fr or en)",
		},
	}
}

func languageFlag(c *cli.Context) models.Language {
	if l := strings.TrimSpace(c.String("language")); l != "" {
		return models.ParseLanguage(l)
	}
	return ""
}
