package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	BaseURL        string
	TimeoutSeconds int
	CacheDir       string
	ProxyURL       string
	LoginRole      string

	// Logging configuration
	LogLevel    string
	EnableDebug bool
	QuietMode   bool
	LogFile     string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cacheDir := "cache"
	if base, err := os.UserCacheDir(); err == nil {
		cacheDir = filepath.Join(base, "coursefetch", "cache")
	}

	return &Config{
		BaseURL:        "https://api.example.edu/v1/",
		TimeoutSeconds: 15,
		CacheDir:       cacheDir,
		LoginRole:      "teacher",

		// Logging defaults
		LogLevel:    "info",
		EnableDebug: false,
		QuietMode:   false,
		LogFile:     "", // Empty means stderr
	}
}

// LoadDotEnv reads a .env file from the working directory, if one
// exists, so COURSEFETCH_* variables can be kept out of the shell.
func LoadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if baseURL := os.Getenv("COURSEFETCH_BASE_URL"); baseURL != "" {
		c.BaseURL = baseURL
	}

	if timeout := os.Getenv("COURSEFETCH_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			c.TimeoutSeconds = t
		}
	}

	if cacheDir := os.Getenv("COURSEFETCH_CACHE_DIR"); cacheDir != "" {
		c.CacheDir = cacheDir
	}

	if proxyURL := os.Getenv("COURSEFETCH_PROXY"); proxyURL != "" {
		c.ProxyURL = proxyURL
	}

	if role := os.Getenv("COURSEFETCH_LOGIN_ROLE"); role != "" {
		c.LoginRole = role
	}

	// Load logging configuration from environment
	if logLevel := os.Getenv("COURSEFETCH_LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}

	if debug := os.Getenv("COURSEFETCH_DEBUG"); debug != "" {
		c.EnableDebug = debug == "true" || debug == "1"
	}

	if quiet := os.Getenv("COURSEFETCH_QUIET"); quiet != "" {
		c.QuietMode = quiet == "true" || quiet == "1"
	}

	if logFile := os.Getenv("COURSEFETCH_LOG_FILE"); logFile != "" {
		c.LogFile = logFile
	}
}

// GetEnvWithDefault returns environment variable value or default
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ValidateConfig validates the configuration values
func (c *Config) ValidateConfig() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("invalid base URL: %s", c.BaseURL)
	}

	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("invalid timeout: %d (must be > 0)", c.TimeoutSeconds)
	}

	if c.CacheDir == "" {
		return fmt.Errorf("cache directory cannot be empty")
	}

	if c.LoginRole == "" {
		return fmt.Errorf("login role cannot be empty")
	}

	return nil
}
