package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port string

	DBDriver       string // postgres, mysql or sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string // file path when DBDriver is sqlite
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTKey                 string
	AccessTokenExpireMins  int
	RefreshTokenExpireDays int
	SaltRound              int

	WebhookSecretKey string

	DefaultAdminEmail    string
	DefaultAdminPassword string
	DefaultAdminFullName string
	DefaultUserEmail     string
	DefaultUserPassword  string
	DefaultUserFullName  string

	PaymentSummaryCron string
}

// Load reads configuration from the environment, loading .env first if it exists
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port: getEnv("PORT", "3000"),

		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "payhook"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTKey:                 getEnv("JWT_SECRET_KEY", "defaultSecret"),
		AccessTokenExpireMins:  getEnvInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		RefreshTokenExpireDays: getEnvInt("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7),
		SaltRound:              getEnvInt("SALT_ROUND", 10),

		WebhookSecretKey: getEnv("WEBHOOK_SECRET_KEY", "defaultWebhookSecret"),

		DefaultAdminEmail:    getEnv("DEFAULT_ADMIN_EMAIL", ""),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", ""),
		DefaultAdminFullName: getEnv("DEFAULT_ADMIN_FULL_NAME", "Admin"),
		DefaultUserEmail:     getEnv("DEFAULT_USER_EMAIL", ""),
		DefaultUserPassword:  getEnv("DEFAULT_USER_PASSWORD", ""),
		DefaultUserFullName:  getEnv("DEFAULT_USER_FULL_NAME", "User"),

		PaymentSummaryCron: getEnv("PAYMENT_SUMMARY_CRON", "5 0 * * *"),
	}

	// Validate critical configuration
	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if cfg.WebhookSecretKey == "defaultWebhookSecret" {
		log.Println("Warning: Using default WEBHOOK_SECRET_KEY. Update it in your environment.")
	}

	return cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
