package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata" // 시스템 tzdata 없는 컨테이너용

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: empty URL keeps the paper ledger in memory)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Data providers
	IEX   IEXConfig
	Yahoo YahooConfig

	// Simulated trading engine
	Paper PaperConfig

	// Host runtime
	Runtime RuntimeConfig

	// Strategy parameters file (YAML)
	StrategyFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// IEXConfig holds the IEX Cloud API configuration
type IEXConfig struct {
	Token   string
	BaseURL string

	// BatchSize overrides the strategy file's batch_size (0 = keep the file's)
	BatchSize int

	// RequestsPerSecond bounds outgoing requests (0 = unlimited)
	RequestsPerSecond int

	// Timeout bounds one HTTP request
	Timeout time.Duration
}

// YahooConfig toggles the Yahoo Finance quote/stat source
type YahooConfig struct {
	Enabled bool
}

// PaperConfig holds simulated engine settings
type PaperConfig struct {
	StartingCash float64
	QuoteTTL     time.Duration // 0 = no quote caching
}

// RuntimeConfig holds the host runtime schedule
type RuntimeConfig struct {
	Timezone              string
	BeforeTradingSchedule string // cron, seconds field first
	BarSchedule           string // cron, seconds field first
	SymbolRefreshSchedule string // cron, seconds field first
	SnapshotSchedule      string // cron, seconds field first
	ScreenOnInitialize    bool
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Data providers
		IEX: IEXConfig{
			Token:             getEnv("IEX_TOKEN", ""),
			BaseURL:           getEnv("IEX_BASE_URL", "https://cloud.iexapis.com/stable"),
			BatchSize:         getEnvAsInt("IEX_BATCH_SIZE", 0),
			RequestsPerSecond: getEnvAsInt("IEX_REQUESTS_PER_SECOND", 10),
			Timeout:           getEnvAsDuration("IEX_TIMEOUT", "30s"),
		},
		Yahoo: YahooConfig{
			Enabled: getEnvAsBool("YAHOO_ENABLED", false),
		},

		Paper: PaperConfig{
			StartingCash: getEnvAsFloat("PAPER_STARTING_CASH", 1000000),
			QuoteTTL:     getEnvAsDuration("PAPER_QUOTE_TTL", "1m"),
		},

		Runtime: RuntimeConfig{
			Timezone:              getEnv("RUNTIME_TIMEZONE", "America/New_York"),
			BeforeTradingSchedule: getEnv("RUNTIME_BEFORE_TRADING_SCHEDULE", "0 0 9 * * MON-FRI"),
			BarSchedule:           getEnv("RUNTIME_BAR_SCHEDULE", "0 */30 10-15 * * MON-FRI"),
			SymbolRefreshSchedule: getEnv("RUNTIME_SYMBOL_REFRESH_SCHEDULE", "0 30 8 * * MON-FRI"),
			SnapshotSchedule:      getEnv("RUNTIME_SNAPSHOT_SCHEDULE", "0 10 16 * * MON-FRI"),
			ScreenOnInitialize:    getEnvAsBool("RUNTIME_SCREEN_ON_INITIALIZE", true),
		},

		StrategyFile: getEnv("STRATEGY_FILE", "config/strategy/graham_fundamentals.yaml"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	// 섹터 구성과 재무제표는 항상 IEX에서 가져옴
	if c.IEX.Token == "" {
		return fmt.Errorf("IEX_TOKEN is required")
	}

	if c.IEX.BatchSize < 0 {
		return fmt.Errorf("IEX_BATCH_SIZE must not be negative, got %d", c.IEX.BatchSize)
	}

	if _, err := time.LoadLocation(c.Runtime.Timezone); err != nil {
		return fmt.Errorf("RUNTIME_TIMEZONE invalid: %w", err)
	}

	if c.Paper.StartingCash <= 0 {
		return fmt.Errorf("PAPER_STARTING_CASH must be positive")
	}

	return nil
}

// Location returns the runtime timezone (validated by Load)
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Runtime.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
