// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"driftwood/internal/models"

	"github.com/joho/godotenv"
)

// Backend kinds for the content store.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port int
	Host string
}

// StoreConfig selects the persistence strategy and identity scheme. Both
// are fixed at startup; the store never switches modes at runtime.
type StoreConfig struct {
	Backend  string
	AuthMode models.AuthMode
	DataFile string // file backend
	MongoURI string // mongo backend
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Store          *StoreConfig
	JWTSecret      string
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port: 8080,
		Host: "0.0.0.0",
	}
}

// DefaultStoreConfig provides default store settings: a durable JSON file
// under ./data, anonymous authorship.
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Backend:  BackendFile,
		AuthMode: models.AuthModeAnonymous,
		DataFile: "data/posts.json",
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env from the working directory or the project root when
	// running from cmd/server.
	envLocations := []string{
		".env",
		"../../.env",
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		// Silent failure if no .env exists, which is fine
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	storeConfig := DefaultStoreConfig()

	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		storeConfig.Backend = backend
	}
	switch storeConfig.Backend {
	case BackendFile:
		storeConfig.DataFile = getEnvOrDefault("DATA_FILE", storeConfig.DataFile)
	case BackendMemory:
		// Nothing to configure; state is process-lifetime only.
	case BackendMongo:
		storeConfig.MongoURI = os.Getenv("MONGODB_URI")
		if storeConfig.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI environment variable is required when STORE_BACKEND is mongo")
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q (want file, memory or mongo)", storeConfig.Backend)
	}

	switch mode := os.Getenv("AUTH_MODE"); mode {
	case "", string(models.AuthModeAnonymous):
		storeConfig.AuthMode = models.AuthModeAnonymous
	case string(models.AuthModeAuthenticated):
		storeConfig.AuthMode = models.AuthModeAuthenticated
	default:
		return nil, fmt.Errorf("unsupported AUTH_MODE %q (want anonymous or authenticated)", mode)
	}

	config := &Config{
		Server:         serverConfig,
		Store:          storeConfig,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: []string{"*"},
		Debug:          false,
	}

	if storeConfig.AuthMode == models.AuthModeAuthenticated && config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required when AUTH_MODE is authenticated")
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}
	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
