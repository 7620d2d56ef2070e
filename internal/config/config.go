package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Encryption EncryptionConfig
	Jobs       JobsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// EncryptionConfig holds the field-encryption key configuration.
// FernetKey is the base64-encoded key used to encrypt monetary operation
// fields at rest. When empty, the server generates an ephemeral key at
// startup (development only: stored data does not survive a restart key
// change).
type EncryptionConfig struct {
	FernetKey string
}

// JobsConfig holds scheduled-job configuration.
type JobsConfig struct {
	// ReportRefreshSchedule is a cron expression for the materialized
	// report-cache refresh of the current month.
	ReportRefreshSchedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/tax_engine.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Encryption: EncryptionConfig{
			FernetKey: getEnv("FERNET_KEY", ""),
		},
		Jobs: JobsConfig{
			ReportRefreshSchedule: getEnv("REPORT_REFRESH_SCHEDULE", "0 3 * * *"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
