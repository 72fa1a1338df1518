package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/scriptdeck/scriptdeck/internal/cache"
	"github.com/scriptdeck/scriptdeck/internal/commons"
	"github.com/scriptdeck/scriptdeck/internal/logger"
	"github.com/scriptdeck/scriptdeck/internal/repository"
	"github.com/scriptdeck/scriptdeck/internal/server"
	"github.com/scriptdeck/scriptdeck/internal/service"
	"github.com/scriptdeck/scriptdeck/internal/shutdown"
)

func main() {
	godotenv.Load(".env")

	config, err := commons.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	scriptRepo, err := repository.NewPostgresScriptRepository(config.PostgresConn, nil)
	if err != nil {
		log.Fatalf("Failed to initialize script repository: %v", err)
	}
	logRepo, err := repository.NewPostgresLogRepository(config.PostgresConn, nil)
	if err != nil {
		log.Fatalf("Failed to initialize log repository: %v", err)
	}
	userRepo, err := repository.NewPostgresUserRepository(config.PostgresConn, nil)
	if err != nil {
		log.Fatalf("Failed to initialize user repository: %v", err)
	}
	redisCache, err := cache.NewRedisCache(config.RedisAddr, config.RedisPass)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}

	fileSink := logger.NewFileSink(config.LogDir)
	appLogger := logger.New(logger.Config{
		Service:       config.ServiceName,
		Environment:   config.Environment,
		Sync:          config.LogSync,
		BatchSize:     config.LogBatchSize,
		QueueCapacity: config.LogQueueCapacity,
		FlushInterval: config.LogFlushInterval,
	}, logRepo, fileSink)

	scriptService := service.NewScriptService(scriptRepo, redisCache, appLogger)
	logService := service.NewLogService(logRepo, appLogger, config.LogRetentionDays)
	userService := service.NewUserService(userRepo)

	srv := server.NewServer(config, server.Dependencies{
		ScriptService: scriptService,
		LogService:    logService,
		UserService:   userService,
		UserRepo:      userRepo,
		Logger:        appLogger,
	})

	coordinator := shutdown.NewCoordinator(config.ShutdownTimeout)
	coordinator.Register("http-server", srv.Stop)
	coordinator.Register("log-queue", appLogger.Close)
	coordinator.Register("script-cache", func(ctx context.Context) error {
		return redisCache.Close()
	})
	coordinator.Register("script-repository", func(ctx context.Context) error {
		return scriptRepo.Close()
	})
	coordinator.Register("user-repository", func(ctx context.Context) error {
		return userRepo.Close()
	})
	coordinator.Register("log-repository", func(ctx context.Context) error {
		return logRepo.Close()
	})
	coordinator.Listen()

	appLogger.Info(fmt.Sprintf("starting server on port %d", config.ServerPort), nil)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLogger.Fatal("server failed", err, nil)
		coordinator.Shutdown("server error")
	}

	coordinator.Wait()
}
