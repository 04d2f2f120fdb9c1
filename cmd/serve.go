package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/slidearchitect/internal/api"
	"github.com/slidearchitect/pkg/models"
)

// ServeCommand returns the CLI command for starting the API server
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides server.port)",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return err
	}
	if port := c.Int("port"); port > 0 {
		s.cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch, err := s.orchestrator(ctx, true)
	if err != nil {
		return err
	}

	server := api.NewServer(orch, api.Options{
		Port:            s.cfg.Server.Port,
		BodyLimit:       s.cfg.Server.BodyLimit,
		DefaultLanguage: models.ParseLanguage(s.cfg.Pipeline.DefaultLanguage),
	}, s.log)
	return server.Start(ctx)
}
