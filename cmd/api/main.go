package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"taskBoard/internal/app"
	"taskBoard/internal/config"
	"taskBoard/internal/logger"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	var configPath string

	cmd := &cli.Command{
		Name:    "taskboard",
		Usage:   "Kanban board for the day: tasks with time windows in todo, in-progress and done columns",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file (defaults are used when empty)",
				Sources:     cli.EnvVars("TASKBOARD_CONFIG"),
				Destination: &configPath,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the HTTP API",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, configPath)
				},
			},
			{
				Name:  "reset",
				Usage: "wipe the persisted board and exit",
				Action: func(ctx context.Context, c *cli.Command) error {
					return reset(ctx, configPath)
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'taskboard --help' for usage", c.Args().First())
			}
			return serve(ctx, configPath)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	a := app.New(cfg)
	defer a.Close()

	if err := a.Init(ctx); err != nil {
		return err
	}

	return a.Run(ctx)
}

func reset(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Development, cfg.Logging.Level); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	defer logger.Sync()

	return app.ResetStorage(ctx, cfg.Storage)
}
