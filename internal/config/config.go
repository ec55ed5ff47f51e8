package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database (absence of MongoURI means file-only mode)
	MongoURI          string
	DatabaseName      string
	ConnectTimeoutSec int

	// File store
	DataFilePath string
	BackupDir    string

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		MongoURI:          getEnv("MONGODB_URI", ""),
		DatabaseName:      getEnv("DATABASE_NAME", "loantracker"),
		ConnectTimeoutSec: getEnvAsInt("DB_CONNECT_TIMEOUT_SECONDS", 5),
		DataFilePath:      getEnv("DATA_FILE", "./data/borrowers.json"),
		BackupDir:         getEnv("BACKUP_DIR", "./data/backups"),
		WorkerCount:       getEnvAsInt("WORKER_COUNT", 2),
		AllowedOrigins:    getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
	}

	return cfg, nil
}

// FileOnly reports whether the database backend is configured at all
func (c *Config) FileOnly() bool {
	return c.MongoURI == ""
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
