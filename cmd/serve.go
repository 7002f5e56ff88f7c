package main

import (
	"context"

	"pagure/internal/app"
	"pagure/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type serveCommand struct {
	configPath  *string
	skipMigrate bool
}

func (c *serveCommand) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&c.skipMigrate, "skip-migrate", false, "do not apply pending migrations on start")

	parent.AddCommand(cmd)
}

func (c *serveCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(*c.configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	if !c.skipMigrate {
		if err := database.Migrate(cfg.App.MigrationDir, cfg.DatabaseURL); err != nil {
			log.Error("error on migrating database", zap.Error(err))
			return err
		}
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start app", zap.Error(err))
		return err
	}

	if err := a.Run(ctx); err != nil {
		if ctx.Err() != nil {
			log.Info("app stopped by context")
			return nil
		}
		log.Error("app exited with error", zap.Error(err))
		return err
	}

	log.Info("app stopped")
	return nil
}
