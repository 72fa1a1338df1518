package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/scriptdeck/scriptdeck/internal/commons"
	"github.com/scriptdeck/scriptdeck/internal/logger"
	"github.com/scriptdeck/scriptdeck/internal/repository"
	"github.com/scriptdeck/scriptdeck/internal/service"
	"github.com/scriptdeck/scriptdeck/internal/worker"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	config, err := commons.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logRepo, err := repository.NewPostgresLogRepository(config.PostgresConn, nil)
	if err != nil {
		log.Fatalf("Failed to initialize log repository: %v", err)
	}

	fileSink := logger.NewFileSink(config.LogDir)
	appLogger := logger.New(logger.Config{
		Service:     "scriptdeck-worker",
		Environment: config.Environment,
		Sync:        true,
	}, logRepo, fileSink)

	logService := service.NewLogService(logRepo, appLogger, config.LogRetentionDays)
	sweeper := worker.NewRetentionSweeper(logService, fileSink, config.FileRetentionDays, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("Failed to start retention sweeper: %v", err)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	log.Println("Shutdown signal received, initiating graceful shutdown...")
	cancel()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer drainCancel()
	if err := appLogger.Close(drainCtx); err != nil {
		log.Printf("Error draining logger: %v", err)
	}
	if err := logRepo.Close(); err != nil {
		log.Printf("Error closing log repository: %v", err)
	}
	log.Println("Worker shut down gracefully")
}
