package commons

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	PostgresConn string
	RedisAddr    string
	RedisPass    string
	ServerPort   uint16

	ServiceName string
	Environment string

	LogDir            string
	LogSync           bool
	LogBatchSize      int
	LogQueueCapacity  int
	LogFlushInterval  time.Duration
	LogRetentionDays  int
	FileRetentionDays int

	ShutdownTimeout time.Duration
}

const (
	decimalBase = 10
	bitSize     = 16
)

func LoadConfig() (Config, error) {
	var config Config
	var errors []string

	config.RedisPass = os.Getenv("REDIS_PASSWORD")
	if config.RedisPass == "" {
		errors = append(errors, "REDIS_PASSWORD is not set")
	}

	config.RedisAddr = os.Getenv("REDIS_ADDR")
	if config.RedisAddr == "" {
		errors = append(errors, "REDIS_ADDR is not set")
	}

	pg_user := os.Getenv("POSTGRES_USER")
	if pg_user == "" {
		errors = append(errors, "POSTGRES_USER is not set")
	}

	pg_pass := os.Getenv("POSTGRES_PASSWORD")
	if pg_pass == "" {
		errors = append(errors, "POSTGRES_PASSWORD is not set")
	}

	pg_host := os.Getenv("POSTGRES_HOST")
	if pg_host == "" {
		errors = append(errors, "POSTGRES_HOST is not set")
	}
	pg_port := os.Getenv("POSTGRES_PORT")
	if pg_port == "" {
		errors = append(errors, "POSTGRES_PORT is not set")
	}

	pg_db := os.Getenv("POSTGRES_NAME")
	if pg_db == "" {
		errors = append(errors, "POSTGRES_NAME is not set")
	}

	config.PostgresConn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pg_user, pg_pass, pg_host, pg_port, pg_db)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		errors = append(errors, "SERVER_PORT is not set")
	} else {
		parsedServerPort, err := strconv.ParseUint(serverPort, decimalBase, bitSize)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid SERVER_PORT: %s", err))
		} else {
			config.ServerPort = uint16(parsedServerPort)
		}
	}

	config.ServiceName = envOrDefault("SERVICE_NAME", "scriptdeck-api")
	config.Environment = envOrDefault("ENVIRONMENT", "development")
	config.LogDir = envOrDefault("LOG_DIR", DefaultLogDir)
	config.LogSync = os.Getenv("LOG_SYNC") == "true"
	config.LogBatchSize = envIntOrDefault("LOG_BATCH_SIZE", DefaultLogBatchSize, &errors)
	config.LogQueueCapacity = envIntOrDefault("LOG_QUEUE_CAPACITY", DefaultLogQueueCapacity, &errors)
	config.LogRetentionDays = envIntOrDefault("LOG_RETENTION_DAYS", DefaultLogRetentionDays, &errors)
	config.FileRetentionDays = envIntOrDefault("LOG_FILE_RETENTION_DAYS", DefaultFileRetentionDays, &errors)

	flushMs := envIntOrDefault("LOG_FLUSH_INTERVAL_MS", int(DefaultLogFlushInterval/time.Millisecond), &errors)
	config.LogFlushInterval = time.Duration(flushMs) * time.Millisecond

	shutdownMs := envIntOrDefault("SHUTDOWN_TIMEOUT_MS", int(DefaultShutdownTimeout/time.Millisecond), &errors)
	config.ShutdownTimeout = time.Duration(shutdownMs) * time.Millisecond

	if len(errors) > 0 {
		for _, err := range errors {
			fmt.Println("Configuration Error:", err)
		}
		return Config{}, fmt.Errorf("configuration errors occurred")
	}

	return config, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		*errs = append(*errs, fmt.Sprintf("invalid %s: %s", key, v))
		return fallback
	}
	return parsed
}
