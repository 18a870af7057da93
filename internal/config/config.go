package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort string
	ServerHost string

	// Database
	DatabaseURL  string
	DatabaseType string // "postgres" or "sqlite"

	// JWT
	JWTSecret     string
	JWTExpiration int // hours

	// Email
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string

	// Logging
	LogLevel string

	// App
	AppURL        string
	AppName       string
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		// Database
		DatabaseURL:  getEnv("DATABASE_URL", "asyncscrum.db"),
		DatabaseType: getEnv("DATABASE_TYPE", "sqlite"),

		// JWT
		JWTSecret:     getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration: getEnvInt("JWT_EXPIRATION", 72),

		// Email
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@asyncscrum.com"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// App
		AppURL:        getEnv("APP_URL", "http://localhost:8080"),
		AppName:       getEnv("APP_NAME", "AsyncScrum"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@asyncscrum.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
