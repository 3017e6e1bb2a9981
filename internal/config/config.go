package config

import (
	"os"
)

// Config carries all process configuration. It is loaded once in main
// and handed to constructors; nothing reads the environment after that.
type Config struct {
	HTTPPort    string
	DatabaseURL string // postgres DSN; empty selects the sqlite store
	SQLitePath  string
	StoragePath string // base directory for uploaded avatar files
	JWTSecret   string
}

// Load builds a Config from the environment, applying defaults.
func Load() Config {
	return Config{
		HTTPPort:    getenvDefault("HTTP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getenvDefault("SQLITE_PATH", "data/app.db"),
		StoragePath: getenvDefault("STORAGE_PATH", "./storage"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
