package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	JWTSecret      string
	PasswordSecret string // Pepper for the credential hasher
	RedisAddr      string // Optional; empty means in-memory cart store
	AllowedOrigin  string
}

// Load loads configuration from environment variables or sets defaults.
// JWT_SECRET has no usable default and its absence is a startup error.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./shophub.db"),
		JWTSecret:      jwtSecret,
		PasswordSecret: getEnv("PASSWORD_SECRET", "default-secret-key"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
