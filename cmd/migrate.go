package main

import (
	"pagure/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type migrateCommand struct {
	configPath *string
}

func (c *migrateCommand) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*c.configPath)
			if err != nil {
				return err
			}

			log := newLogger(cfg)
			defer func() { _ = log.Sync() }()

			if err := database.Migrate(cfg.App.MigrationDir, cfg.DatabaseURL); err != nil {
				log.Error("error on migrating database", zap.Error(err))
				return err
			}

			log.Info("migrations applied", zap.String("dir", cfg.App.MigrationDir))
			return nil
		},
	}

	parent.AddCommand(cmd)
}
