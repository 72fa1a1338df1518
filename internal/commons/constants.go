package commons

import "time"

const (
	UserContextKey = "user"

	AllowedRPS = 10

	ServerIdleTimeout  = time.Minute
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second

	ScriptCacheExpiration = 1 * time.Hour
	MaxScriptNameLength   = 100
	MaxLogMessageLength   = 10000

	DefaultLogBatchSize      = 100
	DefaultLogQueueCapacity  = 1000
	DefaultLogFlushInterval  = 5 * time.Second
	DefaultLogRetentionDays  = 30
	DefaultFileRetentionDays = 14
	DefaultLogDir            = "logs"
	DefaultShutdownTimeout   = 30 * time.Second

	DefaultLogQueryLimit = 50
	MaxLogQueryLimit     = 1000
)
