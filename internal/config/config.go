// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Server ServerConfig
	Auth   AuthConfig
	Books  BooksConfig
	Cache  CacheConfig
	Lists  ListsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds storage configuration.
type DataConfig struct {
	BasePath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string
	BaseURL      string        // Public base URL for share links (optional)
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes)
	AccessTokenKey []byte
	// Session duration
	AccessTokenDuration time.Duration // e.g., 720h (30 days)
	// AdminToken guards the administrative endpoints. Empty disables them.
	AdminToken string
}

// BooksConfig holds book metadata provider configuration.
type BooksConfig struct {
	// BaseURL overrides the Google Books API endpoint, mainly for tests.
	BaseURL string
	// APIKey is optional; the volumes API works unauthenticated at lower quota.
	APIKey string
	// RequestTimeout bounds a single provider call (default: 15s)
	RequestTimeout time.Duration
	// RequestsPerSecond throttles outbound provider calls (default: 5)
	RequestsPerSecond int
}

// CacheConfig holds metadata cache configuration.
type CacheConfig struct {
	// BookTTL is how long a cached book stays fresh (default: 720h / 30 days)
	BookTTL time.Duration
	// SearchTTL is how long cached search results stay fresh (default: 24h)
	SearchTTL time.Duration
	// HotSize is the capacity of the in-process book cache (default: 512)
	HotSize int
}

// ListsConfig holds reading list configuration.
type ListsConfig struct {
	// AnonymousRetention is how long unclaimed lists live (default: 2160h / 90 days)
	AnonymousRetention time.Duration
	// PurgeInterval is how often the background purge runs (default: 1h)
	PurgeInterval time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for data storage")
	serverName := flag.String("server-name", "", "Name for the server")
	serverBaseURL := flag.String("base-url", "", "Public base URL for share links")

	// Auth flags
	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (e.g., 720h)")
	adminToken := flag.String("admin-token", "", "Token for administrative endpoints (empty disables them)")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	// Books provider flags
	booksBaseURL := flag.String("books-base-url", "", "Book metadata provider base URL")
	booksAPIKey := flag.String("books-api-key", "", "Book metadata provider API key")
	booksTimeout := flag.String("books-timeout", "", "Provider request timeout (default: 15s)")
	booksRPS := flag.String("books-rps", "", "Provider requests per second (default: 5)")

	// Cache flags
	bookTTL := flag.String("book-ttl", "", "Cached book freshness window (default: 720h)")
	searchTTL := flag.String("search-ttl", "", "Cached search freshness window (default: 24h)")
	hotSize := flag.String("hot-cache-size", "", "In-process book cache capacity (default: 512)")

	// List flags
	anonRetention := flag.String("anonymous-retention", "", "Anonymous list lifetime (default: 2160h)")
	purgeInterval := flag.String("purge-interval", "", "Background purge interval (default: 1h)")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},

		Server: ServerConfig{
			Name:    getConfigValue(*serverName, "SERVER_NAME", "Journey Server"),
			BaseURL: getConfigValue(*serverBaseURL, "SERVER_BASE_URL", ""),
			Port:    getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},

		Auth: AuthConfig{
			AccessTokenKey: nil, // Will be set by auth.LoadOrGenerateKey in main
			AdminToken:     getConfigValue(*adminToken, "ADMIN_TOKEN", ""),
		},

		Books: BooksConfig{
			BaseURL:           getConfigValue(*booksBaseURL, "BOOKS_BASE_URL", "https://www.googleapis.com/books/v1"),
			APIKey:            getConfigValue(*booksAPIKey, "BOOKS_API_KEY", ""),
			RequestsPerSecond: getIntConfigValue(*booksRPS, "BOOKS_RPS", 5),
		},

		Cache: CacheConfig{
			HotSize: getIntConfigValue(*hotSize, "HOT_CACHE_SIZE", 512),
		},
	}

	// Parse durations.
	durations := []struct {
		dst      *time.Duration
		flagVal  string
		envKey   string
		def      string
		describe string
	}{
		{&cfg.Auth.AccessTokenDuration, *accessTokenDuration, "ACCESS_TOKEN_DURATION", "720h", "access token duration"},
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s", "read timeout"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", "write timeout"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", "idle timeout"},
		{&cfg.Books.RequestTimeout, *booksTimeout, "BOOKS_TIMEOUT", "15s", "provider request timeout"},
		{&cfg.Cache.BookTTL, *bookTTL, "BOOK_TTL", "720h", "book TTL"},
		{&cfg.Cache.SearchTTL, *searchTTL, "SEARCH_TTL", "24h", "search TTL"},
		{&cfg.Lists.AnonymousRetention, *anonRetention, "ANONYMOUS_RETENTION", "2160h", "anonymous retention"},
		{&cfg.Lists.PurgeInterval, *purgeInterval, "PURGE_INTERVAL", "1h", "purge interval"},
	}
	for _, d := range durations {
		str := getConfigValue(d.flagVal, d.envKey, d.def)
		dur, err := time.ParseDuration(str)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.describe, str, err)
		}
		*d.dst = dur
	}

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Books.BaseURL == "" {
		return errors.New("books base URL cannot be empty")
	}
	if c.Books.RequestsPerSecond <= 0 {
		return fmt.Errorf("books requests per second must be positive, got %d", c.Books.RequestsPerSecond)
	}

	if c.Cache.HotSize <= 0 {
		return fmt.Errorf("hot cache size must be positive, got %d", c.Cache.HotSize)
	}
	if c.Cache.BookTTL <= 0 || c.Cache.SearchTTL <= 0 {
		return errors.New("cache TTLs must be positive")
	}

	if c.Lists.AnonymousRetention <= 0 {
		return errors.New("anonymous retention must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Journey", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
