package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	App     AppConfig
	API     APIConfig
	Cache   CacheConfig
	Session SessionConfig
	Serve   ServeConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name    string `envconfig:"EDUSEVA_APP_NAME" default:"eduseva"`
	Version string `envconfig:"EDUSEVA_APP_VERSION" default:"1.0.0"`
	Debug   bool   `envconfig:"EDUSEVA_DEBUG" default:"false"`
}

// APIConfig holds settings for the remote generation API.
type APIConfig struct {
	BaseURL string        `envconfig:"EDUSEVA_API_BASE_URL" default:"https://api.eduseva.app"`
	Timeout time.Duration `envconfig:"EDUSEVA_API_TIMEOUT" default:"120s"` // generation endpoints are slow
	Token   string        `envconfig:"EDUSEVA_API_TOKEN" default:""`       // overrides the stored session token
}

// CacheConfig holds artifact cache settings.
type CacheConfig struct {
	Backend   string        `envconfig:"EDUSEVA_CACHE_BACKEND" default:"file"` // file, sqlite, redis, or memory
	Dir       string        `envconfig:"EDUSEVA_CACHE_DIR" default:""`
	DBPath    string        `envconfig:"EDUSEVA_CACHE_DB_PATH" default:""`
	Namespace string        `envconfig:"EDUSEVA_CACHE_NAMESPACE" default:"eduseva"`
	TTL       time.Duration `envconfig:"EDUSEVA_CACHE_TTL" default:"24h"` // 0 disables expiry

	RedisHost     string `envconfig:"EDUSEVA_REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"EDUSEVA_REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"EDUSEVA_REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"EDUSEVA_REDIS_DB" default:"0"`
}

// SessionConfig holds login session settings.
type SessionConfig struct {
	File string `envconfig:"EDUSEVA_SESSION_FILE" default:""`
}

// ServeConfig holds settings for the local podcast feed server.
type ServeConfig struct {
	Addr            string        `envconfig:"EDUSEVA_SERVE_ADDR" default:"127.0.0.1:8931"`
	ReadTimeout     time.Duration `envconfig:"EDUSEVA_SERVE_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"EDUSEVA_SERVE_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"EDUSEVA_SERVE_SHUTDOWN_TIMEOUT" default:"10s"`
}

// baseDir is where EduSeva keeps its state when no explicit paths are
// configured. Falls back to the working directory if the home directory
// cannot be determined.
func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eduseva"
	}
	return filepath.Join(home, ".eduseva")
}

// CacheDir returns the directory for the file cache backend.
func (c *CacheConfig) CacheDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(baseDir(), "cache")
}

// SQLitePath returns the database file for the sqlite cache backend.
func (c *CacheConfig) SQLitePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(baseDir(), "cache.db")
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Path returns the session file location.
func (s *SessionConfig) Path() string {
	if s.File != "" {
		return s.File
	}
	return filepath.Join(baseDir(), "session.json")
}

// UserAgent returns the User-Agent header value sent with API requests.
func (a *AppConfig) UserAgent() string {
	return fmt.Sprintf("%s/%s", a.Name, a.Version)
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
