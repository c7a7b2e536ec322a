package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/logger"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired application components.
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	DB       *database.Database
	Books    *services.BookService
	Students *services.StudentService
	Router   *gin.Engine

	// Tasks and Sweeper are nil when disabled.
	Tasks   *tasks.Client
	Sweeper *scheduler.IntegritySweepScheduler

	cancelTasks context.CancelFunc
}

// NewApp opens the database, starts the task queue and the integrity sweep
// scheduler when enabled, and builds the router.
func NewApp(cfg *config.Config, log *logger.Logger, version string) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}

	db, err := database.NewDatabase(database.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Books:    services.NewBookService(db),
		Students: services.NewStudentService(db),
	}

	routerCfg := http_controllers.RouterConfig{
		BookService:      app.Books,
		StudentService:   app.Students,
		Database:         db,
		Logger:           log,
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		MetricsEnabled:   cfg.Metrics.Enabled,
		Version:          version,
	}

	if cfg.Tasks.Enabled {
		taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}, log)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		taskClient.Register(tasks.NewSweepOrphanLinksQueue(db.StudentBooks(), log))

		var taskCtx context.Context
		taskCtx, app.cancelTasks = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		app.Tasks = taskClient
		routerCfg.TaskQueue = taskClient

		if cfg.IntegritySweep.Enabled {
			app.Sweeper = scheduler.NewIntegritySweepScheduler(taskClient, cfg.IntegritySweep.Schedule, log)
			if err := app.Sweeper.Start(taskCtx); err != nil {
				app.Close(context.Background())
				return nil, err
			}
		}
	} else if cfg.IntegritySweep.Enabled {
		log.Warn("Integrity sweep requires the task queue, TASKS_ENABLED is false")
	}

	app.Router = http_controllers.NewRouter(routerCfg)
	return app, nil
}

// Close stops background work and releases the database handles.
func (a *App) Close(ctx context.Context) {
	if a.Sweeper != nil {
		a.Sweeper.Stop()
	}
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
		if a.cancelTasks != nil {
			a.cancelTasks()
		}
		if err := a.Tasks.Close(); err != nil {
			a.Log.Error("Error closing task client", "error", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Log.Error("Error closing database", "error", err)
	}
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// gracefully.
func Serve(router http.Handler, cfg *config.Config, log *logger.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	log.Info("Shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Stop the task queue after in-flight requests have drained.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info("Server exiting")
	return nil
}

func Run(cfg *config.Config, version string) error {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	if cfg.Log.Mode == "production" || cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting library service", "version", version, "driver", cfg.Database.Driver)

	app, err := NewApp(cfg, log, version)
	if err != nil {
		return err
	}

	if err := Serve(app.Router, cfg, log, app.Close); err != nil {
		app.Close(context.Background())
		return err
	}
	return nil
}
