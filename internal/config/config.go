package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted by FAVTUBE_STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":3000"
	ShutdownTimeout time.Duration // ex: 5s
	WriteTimeout    time.Duration // 0 => no write deadline (streams may run long)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	StoreDriver string        // "mongo" | "redis" | "badger" | "memory"
	StreamDelay time.Duration // delay between two streamed characters (ex: 50ms)
	SeedFile    string        // optional YAML file of records inserted into an empty collection

	// MongoDB
	MongoURI        string // connection string, required when StoreDriver is mongo
	MongoDatabase   string // optional, defaults to the database in the URI
	MongoCollection string // ex: "favyoutubevideos"

	// Redis
	RedisAddr     string        // ex: "localhost:6379", required when StoreDriver is redis
	RedisUser     string        // optional
	RedisPassword string        // optional
	RedisDB       int           // Redis DB number
	RedisDT       time.Duration // Redis dial timeout (ex: 5s)
	RedisRT       time.Duration // Redis read timeout (ex: 3s)
	RedisWT       time.Duration // Redis write timeout (ex: 3s)
	RedisPoolSize int           // Redis connection pool size

	// Badger
	BadgerPath       string        // data directory
	BadgerGCInterval time.Duration // value log GC period, 0 disables

	// Connection retry policy shared by remote stores
	ConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RetryMaxWait   time.Duration // max wait between retries (ex: 10s)
	PingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	WarnThreshold  int           // warn after this many attempts
}

// LearnConfig configures the in-memory demo service.
type LearnConfig struct {
	ListenPort      string
	ShutdownTimeout time.Duration
	LogLevel        string
	PrettyLog       bool
	StreamDelay     time.Duration // delay after each streamed video line
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("FAVTUBE_LISTEN_PORT", ":3000"),
		ShutdownTimeout: mustDuration("FAVTUBE_SHUTDOWN_TIMEOUT", 5*time.Second),
		WriteTimeout:    mustDuration("FAVTUBE_WRITE_TIMEOUT", 0),

		// Logging
		LogLevel:  getenv("FAVTUBE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("FAVTUBE_PRETTY_LOG", true),

		StoreDriver: strings.ToLower(getenv("FAVTUBE_STORE_DRIVER", DriverMongo)),
		StreamDelay: mustDuration("FAVTUBE_STREAM_DELAY", 50*time.Millisecond),
		SeedFile:    getenv("FAVTUBE_SEED_FILE", ""),

		MongoDatabase:   getenv("FAVTUBE_MONGO_DATABASE", ""),
		MongoCollection: getenv("FAVTUBE_MONGO_COLLECTION", "favyoutubevideos"),

		RedisUser:     getenv("FAVTUBE_REDIS_USERNAME", ""),
		RedisPassword: getenv("FAVTUBE_REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("FAVTUBE_REDIS_DB", 0),
		RedisDT:       mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:       mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:       mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize: getenvInt("REDIS_POOL_SIZE", 10),

		BadgerPath:       getenv("FAVTUBE_BADGER_PATH", "./data/badger"),
		BadgerGCInterval: mustDuration("FAVTUBE_BADGER_GC_INTERVAL", 10*time.Minute),

		ConnectTimeout: mustDuration("FAVTUBE_CONNECT_TIMEOUT", 30*time.Second),
		RetryInterval:  mustDuration("FAVTUBE_RETRY_INTERVAL", 2*time.Second),
		RetryMaxWait:   mustDuration("FAVTUBE_RETRY_MAX_WAIT", 10*time.Second),
		PingTimeout:    mustDuration("FAVTUBE_PING_TIMEOUT", 5*time.Second),
		WarnThreshold:  getenvInt("FAVTUBE_RETRY_WARN_THRESHOLD", 3),
	}

	switch cfg.StoreDriver {
	case DriverMongo:
		// The connection string is the only mandatory setting of the service.
		cfg.MongoURI = requireEnv("MONGODB_URI")
	case DriverRedis:
		cfg.RedisAddr = requireEnv("FAVTUBE_REDIS_ADDR")
	case DriverBadger, DriverMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown store driver %q (FAVTUBE_STORE_DRIVER)", cfg.StoreDriver))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.redacted())
	}

	return cfg
}

func LoadLearn() *LearnConfig {
	return &LearnConfig{
		ListenPort:      getenv("FAVTUBE_LEARN_LISTEN_PORT", ":3001"),
		ShutdownTimeout: mustDuration("FAVTUBE_SHUTDOWN_TIMEOUT", 5*time.Second),
		LogLevel:        getenv("FAVTUBE_LOG_LEVEL", "info"),
		PrettyLog:       mustBool("FAVTUBE_PRETTY_LOG", true),
		StreamDelay:     mustDuration("FAVTUBE_LEARN_STREAM_DELAY", time.Second),
	}
}

func (c *Config) redacted() Config {
	cfgCopy := *c
	if cfgCopy.MongoURI != "" {
		cfgCopy.MongoURI = "***REDACTED***"
	}
	if cfgCopy.RedisPassword != "" {
		cfgCopy.RedisPassword = "***REDACTED***"
	}
	if cfgCopy.RedisUser != "" {
		cfgCopy.RedisUser = "***REDACTED***"
	}
	return cfgCopy
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
