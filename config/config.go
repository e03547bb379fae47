package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort int

	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Report cache TTL in minutes
	ReportCacheTTLMinutes int

	// MinIO configuration
	Minio MinioConfig
}

// MinioConfig holds object storage configuration for report artifacts
type MinioConfig struct {
	Endpoint  string
	Port      string
	UseSSL    bool
	AccessKey string
	SecretKey string
	Bucket    string
}

// Address returns the host:port pair the MinIO client dials
func (m MinioConfig) Address() string {
	return fmt.Sprintf("%s:%s", m.Endpoint, m.Port)
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "market_pulse"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "market"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "market123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		ReportCacheTTLMinutes: getEnvInt("REPORT_CACHE_TTL_MINUTES", 60),

		// MinIO configuration
		Minio: MinioConfig{
			Endpoint:  getEnvOrDefault("MINIO_ENDPOINT", "localhost"),
			Port:      getEnvOrDefault("MINIO_PORT", "9000"),
			UseSSL:    getEnvOrDefault("MINIO_USE_SSL", "false") == "true",
			AccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnvOrDefault("MINIO_BUCKET_NAME", "reports"),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
