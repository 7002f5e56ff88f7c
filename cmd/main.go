package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pagure/internal/config"
	"pagure/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Command is a subcommand of the root command.
type Command interface {
	Register(parent *cobra.Command)
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := &serveCommand{configPath: &configPath}

	root := &cobra.Command{
		Use:           "pagure",
		Short:         "Pull request service for Pagure projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve.Run(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to the YAML config file (env CONFIG_PATH)")

	commands := []Command{
		serve,
		&migrateCommand{configPath: &configPath},
		&mergeCheckCommand{},
	}
	for _, c := range commands {
		c.Register(root)
	}

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty: set --config or CONFIG_PATH")
	}
	return config.Load(path)
}

func newLogger(cfg *config.Config) *zap.Logger {
	return logger.NewLogger(cfg.App.LogLevel, cfg.App.LogFile)
}
