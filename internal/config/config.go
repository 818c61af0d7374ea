package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	JWTSecret string
	TokenTTL  time.Duration

	GinMode string

	SeedOrganization string
	SeedOwnerEmail   string
	SeedOwnerName    string
	SeedOwnerPass    string
}

func Load() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "taskuser"),
		DBPassword: getEnv("DB_PASSWORD", "taskpassword"),
		DBName:     getEnv("DB_NAME", "secure_task"),
		DBPath:     getEnv("DB_PATH", "secure_task.db"),

		JWTSecret: getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,

		GinMode: getEnv("GIN_MODE", "debug"),

		SeedOrganization: getEnv("SEED_ORGANIZATION", "TurboVets HQ"),
		SeedOwnerEmail:   getEnv("SEED_OWNER_EMAIL", "owner@securetask.dev"),
		SeedOwnerName:    getEnv("SEED_OWNER_NAME", "Org Owner"),
		SeedOwnerPass:    getEnv("SEED_OWNER_PASSWORD", "ChangeMe123!"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
