package app

import (
	"context"
	"errors"
	"net/http"

	"pagure/internal/api"
	"pagure/internal/config"
	"pagure/internal/database"
	"pagure/internal/gitrepo"
	"pagure/internal/handler"
	"pagure/internal/notify"
	"pagure/internal/repository"
	"pagure/internal/service"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// App represents the application with its dependencies.
type App struct {
	cfg *config.Config

	db         *pgxpool.Pool
	dispatcher *notify.Dispatcher
	r          *echo.Echo

	log *zap.Logger
}

// New connects to the database and notification sinks and wires services, handlers and routes.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	notifiers, err := newNotifiers(ctx, cfg.Notify, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	dispatcher := notify.NewDispatcher(log, cfg.Notify.Timeout, notifiers...)

	retrier := newRepoRetrier(cfg.Retry, isRetryableFunc)

	projectRepo := repository.NewProjectRepository(db, trmpgx.DefaultCtxGetter, retrier)
	prRepo := repository.NewPRRepository(db, trmpgx.DefaultCtxGetter, retrier)
	trManager := manager.Must(trmpgx.NewDefaultFactory(db))

	projectService := service.NewProjectService(projectRepo, trManager, log)
	prService := service.NewPRService(
		projectRepo,
		prRepo,
		gitrepo.NewStore(cfg.Git.ReposDir),
		dispatcher,
		trManager,
		service.Committer{Name: cfg.Git.CommitterName, Email: cfg.Git.CommitterEmail},
		log,
	)

	h := handler.NewHandler(projectService, prService, db.Ping, log)

	r := echo.New()
	r.HideBanner = true
	r.Use(middleware.Recover())
	r.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: cfg.App.RequestTimeout,
	}))
	r.Use(requestLogger(log))

	api.RegisterHandlers(r, h)

	return &App{
		cfg:        cfg,
		db:         db,
		dispatcher: dispatcher,
		r:          r,
		log:        log,
	}, nil
}

// Run starts the HTTP server and waits for context cancellation.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting server", zap.String("port", a.cfg.App.Port))
		if err := a.r.Start(":" + a.cfg.App.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		a.log.Error("server failed", zap.Error(err))
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown stops the server, drains pending notifications and closes database connections.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.r.Shutdown(ctx); err != nil {
		a.log.Error("failed to shutdown server",
			zap.Error(err),
		)
		errs = append(errs, err)
	}

	if err := a.dispatcher.Close(); err != nil {
		a.log.Warn("failed to close notifiers",
			zap.Error(err),
		)
		errs = append(errs, err)
	}

	a.db.Close()

	return errors.Join(errs...)
}
