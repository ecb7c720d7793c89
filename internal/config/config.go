package config

import (
	"fmt"     // DSN assembly
	"os"      // Environment variables
	"strconv" // String to int conversion
	"time"    // Request timeout duration

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort        string        // HTTP listen port
	DBHost         string        // Database host
	DBPort         string        // Database port
	DBUser         string        // Database user
	DBPassword     string        // Database password
	DBName         string        // Database name
	DBSSLMode      string        // Postgres sslmode
	JWTSecret      string        // JWT signing secret
	RequestTimeout time.Duration // Per-request deadline
	IsProd         bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	timeoutSecs, _ := strconv.Atoi(os.Getenv("REQUEST_TIMEOUT_SECONDS"))
	if timeoutSecs <= 0 {
		timeoutSecs = 10 // Default per-request deadline
	}
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	return &Config{
		AppPort:        os.Getenv("APP_PORT"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         os.Getenv("DB_PORT"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBSSLMode:      sslMode,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RequestTimeout: time.Duration(timeoutSecs) * time.Second,
		IsProd:         os.Getenv("IS_PROD") == "true",
	}
}

// DSN builds the Postgres connection string from the loaded settings.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}
