package main

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/questlog/api/handler"
	"github.com/fastygo/questlog/internal/config"
	"github.com/fastygo/questlog/internal/infrastructure/buffer"
	"github.com/fastygo/questlog/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/questlog/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/questlog/internal/infrastructure/redis"
	"github.com/fastygo/questlog/internal/middleware"
	"github.com/fastygo/questlog/internal/router"
	"github.com/fastygo/questlog/internal/services"
	"github.com/fastygo/questlog/internal/services/lifecycle"
	"github.com/fastygo/questlog/pkg/httpcontext"
	"github.com/fastygo/questlog/pkg/logger"
	"github.com/fastygo/questlog/repository"
	"github.com/fastygo/questlog/repository/postgres"
	redisRepo "github.com/fastygo/questlog/repository/redis"
	"github.com/fastygo/questlog/repository/sqlite"
	"github.com/fastygo/questlog/usecase"
	activityUC "github.com/fastygo/questlog/usecase/activity"
	dashboardUC "github.com/fastygo/questlog/usecase/dashboard"
	profileUC "github.com/fastygo/questlog/usecase/profile"
	"github.com/fastygo/questlog/usecase/schedule"
	taskUC "github.com/fastygo/questlog/usecase/task"
)

const monitorInterval = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. Settings are read from the environment and an optional .env file.

Examples:
  DB_DRIVER=sqlite JWT_SECRET=dev questlog serve
  questlog serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		return fmt.Errorf("logger error: %w", err)
	}
	defer zapLogger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)
	defer func() {
		if err := manager.Shutdown(context.Background()); err != nil {
			zapLogger.Error("graceful shutdown error", zap.Error(err))
		}
	}()

	store, err := openStore(appCtx, cfg, zapLogger)
	if err != nil {
		return err
	}
	manager.Register(cfg.Database.Driver, func(ctx context.Context) error {
		return store.Close()
	})

	var (
		redisClient *redislib.Client
		redisPinger monitor.Pinger
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisInfra.NewClient(appCtx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		redisPinger = monitor.PingFunc(redisInfra.Ping(redisClient))
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	spool, err := buffer.Open(cfg.Journal.Path, "activity")
	if err != nil {
		return fmt.Errorf("open journal spool: %w", err)
	}
	manager.Register("journal_spool", func(ctx context.Context) error {
		return spool.Close()
	})

	mon := monitor.New(store, redisPinger, spool, monitorInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	repos := store.Repositories()

	processor, err := services.NewJournalProcessor(spool, mon, repos.Activity, zapLogger, services.ProcessorConfig{
		Interval:   cfg.Journal.SyncInterval,
		BatchSize:  cfg.Journal.BatchSize,
		MaxRetries: cfg.Journal.MaxRetry,
		Retention:  cfg.Journal.Retention,
	})
	if err != nil {
		return err
	}
	processor.Start()
	manager.Register("journal_processor", func(ctx context.Context) error {
		processor.Stop(ctx)
		return nil
	})

	var locker usecase.ScheduleLocker = usecase.NoopLocker{}
	if cfg.Schedule.Lock == config.LockRedis {
		locker = redisRepo.NewScheduleLocker(redisClient, cfg.Schedule.LockTTL, zapLogger)
	}

	planner := schedule.New(loc)
	clock := usecase.Clock(time.Now)

	taskUseCase := taskUC.New(store, planner, zapLogger,
		taskUC.WithLocker(locker),
		taskUC.WithJournal(services.NewActivityBridge(processor)),
		taskUC.WithClock(clock),
	)
	dashboardUseCase := dashboardUC.New(repos.Tasks, planner, clock, zapLogger)
	profileUseCase := profileUC.New(store, zapLogger)
	activityUseCase := activityUC.New(repos.Activity, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:      apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Dashboard: apiHandler.NewDashboardHandler(dashboardUseCase, ctxAdapter, zapLogger),
		Profile:   apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Activity:  apiHandler.NewActivityHandler(activityUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("driver", cfg.Database.Driver),
			zap.String("timezone", loc.String()))
		serveErr <- server.ListenAndServe(cfg.Address())
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	select {
	case <-appCtx.Done():
		return nil
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server crashed: %w", err)
		}
		return nil
	}
}

func openStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (repository.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.NewDB(cfg.SQLite.Path, zapLogger)
		if err != nil {
			return nil, fmt.Errorf("sqlite open failed: %w", err)
		}
		return sqlite.NewStore(db), nil
	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		store, err := postgres.NewStore(pool, cfg.Database.TxIsolation, zapLogger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	}
}
