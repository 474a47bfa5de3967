package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"union-officer/backend/config"
	"union-officer/backend/internal/api/handler"
	"union-officer/backend/internal/api/router"
	"union-officer/backend/internal/repository"
	"union-officer/backend/internal/service"
	"union-officer/backend/pkg/database"
	"union-officer/backend/pkg/jwt"
	applogger "union-officer/backend/pkg/logger"
	"union-officer/backend/pkg/mailer"
	"union-officer/backend/pkg/redis"
	"union-officer/backend/pkg/storage"
	"union-officer/backend/pkg/validate"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./config/config.yaml)")
	flag.Parse()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting union-officer backend",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("storage", cfg.Storage.Driver),
	)

	if err := validate.RegisterGin(); err != nil {
		logger.Fatal("register validators", zap.Error(err))
	}

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. Redis is optional: without it logout revocation, rate limiting and
	// the dashboard cache are disabled.
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without token blacklist and cache", zap.Error(err))
		rdb = nil
	}

	// 5. CV storage
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := storage.New(initCtx, &cfg.Storage)
	cancelInit()
	if err != nil {
		logger.Warn("cv storage unavailable, uploads will be rejected", zap.Error(err))
		store = nil
	}

	// 6. DI: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, service.Deps{
		Redis:  rdb,
		Store:  store,
		Mailer: mailer.New(&cfg.Mail, cfg.Server.FrontendURL, logger),
	}, logger)
	h := handler.NewHandler(svc, cfg.Storage.MaxUploadBytes)

	// 7. router
	engine := router.Setup(cfg, h, jwtMgr, rdb, repo, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
