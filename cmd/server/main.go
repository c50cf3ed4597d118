package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/funtiknax13/task-manager/api/handler"
	"github.com/funtiknax13/task-manager/internal/config"
	"github.com/funtiknax13/task-manager/internal/infrastructure/monitor"
	pgInfra "github.com/funtiknax13/task-manager/internal/infrastructure/postgres"
	redisInfra "github.com/funtiknax13/task-manager/internal/infrastructure/redis"
	"github.com/funtiknax13/task-manager/internal/infrastructure/throttle"
	"github.com/funtiknax13/task-manager/internal/middleware"
	"github.com/funtiknax13/task-manager/internal/router"
	"github.com/funtiknax13/task-manager/internal/services"
	"github.com/funtiknax13/task-manager/internal/services/lifecycle"
	"github.com/funtiknax13/task-manager/pkg/httpcontext"
	"github.com/funtiknax13/task-manager/pkg/logger"
	"github.com/funtiknax13/task-manager/pkg/password"
	"github.com/funtiknax13/task-manager/pkg/token"
	"github.com/funtiknax13/task-manager/repository/postgres"
	redisRepo "github.com/funtiknax13/task-manager/repository/redis"
	authUC "github.com/funtiknax13/task-manager/usecase/auth"
	taskUC "github.com/funtiknax13/task-manager/usecase/task"
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

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	throttleStore, err := throttle.Open(cfg.Throttle.Path, throttle.Options{
		Window: cfg.Throttle.Window,
		Limit:  cfg.Throttle.MaxFailures,
	})
	if err != nil {
		zapLogger.Fatal("failed to open throttle store", zap.Error(err))
	}
	manager.Register("throttle", func(ctx context.Context) error {
		return throttleStore.Close()
	})

	janitor := services.NewThrottleJanitor(throttleStore, cfg.Throttle.CleanupInterval, zapLogger)
	janitor.Start()
	manager.Register("throttle_janitor", func(ctx context.Context) error {
		janitor.Stop()
		return nil
	})

	mon := monitor.New(pool, redisClient, throttleStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	hasher := password.NewBcrypt(password.DefaultCost)
	signer := token.NewSigner(cfg.Session.Secret, cfg.Session.Issuer)

	authUseCase := authUC.New(userRepo, sessionRepo, hasher, signer, throttleStore, cfg.Session.TTL, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, signer, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(signer, authUseCase, cfg.Context.RequestTimeout, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
