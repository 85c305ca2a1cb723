package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/tasktracker/api/handler"
	tokenauth "github.com/fastygo/tasktracker/internal/auth"
	"github.com/fastygo/tasktracker/internal/config"
	"github.com/fastygo/tasktracker/internal/infrastructure/boltdb"
	"github.com/fastygo/tasktracker/internal/infrastructure/database"
	"github.com/fastygo/tasktracker/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/tasktracker/internal/infrastructure/redis"
	"github.com/fastygo/tasktracker/internal/middleware"
	"github.com/fastygo/tasktracker/internal/router"
	"github.com/fastygo/tasktracker/internal/services"
	"github.com/fastygo/tasktracker/internal/services/shutdown"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
	"github.com/fastygo/tasktracker/pkg/logger"
	"github.com/fastygo/tasktracker/repository"
	"github.com/fastygo/tasktracker/repository/postgres"
	redisRepo "github.com/fastygo/tasktracker/repository/redis"
	"github.com/fastygo/tasktracker/repository/sqlite"
	authUC "github.com/fastygo/tasktracker/usecase/auth"
	taskUC "github.com/fastygo/tasktracker/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := shutdown.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.SignalContext(context.Background())
	defer cancel()

	if err := database.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	db, err := database.Open(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("database connection failed", zap.Error(err))
	}
	store := newStore(cfg.Database.Driver, db)
	manager.Register("database", shutdown.Closer(store.Close))

	// Redis is required for redis sessions and optional for rate limiting.
	var redisClient *goRedis.Client
	if cfg.Session.Store == config.SessionStoreRedis {
		redisClient, err = redisInfra.NewClient(appCtx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
	} else {
		redisClient = redisInfra.Optional(appCtx, cfg.Redis, zapLogger)
	}
	if redisClient != nil {
		manager.Register("redis", shutdown.Closer(redisClient.Close))
	}

	var (
		sessionRepo   repository.SessionRepository
		sessionHealth monitor.Pinger
	)
	if cfg.Session.Store == config.SessionStoreRedis {
		sessionRepo = redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)
	} else {
		boltStore, err := boltdb.Open(cfg.Session.BoltPath, cfg.Session.TTL)
		if err != nil {
			zapLogger.Fatal("failed to open session store", zap.Error(err))
		}
		manager.Register("sessions", shutdown.Closer(boltStore.Close))
		sessionRepo, sessionHealth = boltStore, boltStore

		sweeper, err := services.NewSessionSweeper(boltStore, cfg.Session.SweepInterval, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to schedule session sweeper", zap.Error(err))
		}
		sweeper.Start()
		manager.Register("session_sweeper", sweeper.Stop)
	}

	mon := monitor.New(store, redisClient, sessionHealth, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	tokens := tokenauth.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer)
	authUseCase := authUC.New(store.Users(), sessionRepo, cfg.Auth.BcryptCost, zapLogger)
	taskUseCase := taskUC.New(store, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, tokens, ctxAdapter, zapLogger, cfg.Session.TTL),
		Profile: apiHandler.NewProfileHandler(authUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, router.Options{
		Auth:      middleware.JWTAuth(tokens, authUseCase, cfg.Context.RequestTimeout, zapLogger),
		RateLimit: middleware.RateLimit(redisClient, cfg.Auth.RateLimit, cfg.Auth.RateWindow, zapLogger),
		Metrics:   cfg.HTTP.EnableMetrics,
	})

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Database.Driver),
			zap.String("sessions", cfg.Session.Store))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server crashed", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func newStore(driver string, db *sql.DB) repository.Store {
	if driver == config.DriverPostgres {
		return postgres.NewStore(db)
	}
	return sqlite.NewStore(db)
}
