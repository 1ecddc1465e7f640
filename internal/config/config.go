package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Dashboard DashboardConfig
	Export    ExportConfig
	Logging   LoggingConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Environment     string
	RateLimitRPS    float64
	RateLimitBurst  int
}

// BackendConfig describes how to reach the Orion backend API
type BackendConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration // zero means no client-side timeout
}

// DashboardConfig contains polling and presentation settings
type DashboardConfig struct {
	RefreshInterval time.Duration
	AlertLimit      int
	AllowedOrigins  []string
}

// Export sinks
const (
	SinkDir = "dir"
	SinkS3  = "s3"
	SinkGCS = "gcs"
)

// ExportConfig controls the scheduled export archive
type ExportConfig struct {
	Schedule string // cron spec; empty disables the archive job
	Format   string
	Severity string
	Sink     string

	Dir string

	S3Bucket          string
	S3Prefix          string
	S3Region          string
	S3Endpoint        string // optional, for S3-compatible stores
	S3AccessKeyID     string // optional; default AWS credential chain otherwise
	S3SecretAccessKey string

	GCSBucket          string
	GCSPrefix          string
	GCSCredentialsFile string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 3180),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			Environment:     getEnv("ENVIRONMENT", "development"),
			RateLimitRPS:    getEnvAsFloat("RATE_LIMIT_RPS", 5),
			RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Backend: BackendConfig{
			URL:     getEnv("BACKEND_URL", "http://localhost:8006"),
			APIKey:  getEnv("BACKEND_API_KEY", os.Getenv("API_KEY")),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 0),
		},
		Dashboard: DashboardConfig{
			RefreshInterval: getEnvAsDuration("DASHBOARD_REFRESH_INTERVAL", 5*time.Second),
			AlertLimit:      getEnvAsInt("DASHBOARD_ALERT_LIMIT", 50),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3180"}),
		},
		Export: ExportConfig{
			Schedule:           getEnv("EXPORT_SCHEDULE", ""),
			Format:             getEnv("EXPORT_FORMAT", "csv"),
			Severity:           getEnv("EXPORT_SEVERITY", ""),
			Sink:               getEnv("EXPORT_SINK", SinkDir),
			Dir:                getEnv("EXPORT_DIR", "./exports"),
			S3Bucket:           getEnv("EXPORT_S3_BUCKET", ""),
			S3Prefix:           getEnv("EXPORT_S3_PREFIX", "orion/exports"),
			S3Region:           getEnv("EXPORT_S3_REGION", getEnv("AWS_REGION", "us-east-1")),
			S3Endpoint:         getEnv("EXPORT_S3_ENDPOINT", ""),
			S3AccessKeyID:      getEnv("EXPORT_S3_ACCESS_KEY_ID", ""),
			S3SecretAccessKey:  getEnv("EXPORT_S3_SECRET_ACCESS_KEY", ""),
			GCSBucket:          getEnv("EXPORT_GCS_BUCKET", ""),
			GCSPrefix:          getEnv("EXPORT_GCS_PREFIX", "orion/exports"),
			GCSCredentialsFile: getEnv("EXPORT_GCS_CREDENTIALS_FILE", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend url: %q", c.Backend.URL)
	}

	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend timeout must not be negative")
	}

	if c.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}

	if c.Dashboard.AlertLimit <= 0 {
		return fmt.Errorf("alert limit must be positive")
	}

	if c.Export.Schedule == "" {
		return nil
	}

	switch c.Export.Format {
	case "json", "csv":
	default:
		return fmt.Errorf("unsupported export format: %s", c.Export.Format)
	}

	switch c.Export.Sink {
	case SinkDir:
		if c.Export.Dir == "" {
			return fmt.Errorf("EXPORT_DIR is required for the dir sink")
		}
	case SinkS3:
		if c.Export.S3Bucket == "" {
			return fmt.Errorf("EXPORT_S3_BUCKET is required for the s3 sink")
		}
	case SinkGCS:
		if c.Export.GCSBucket == "" {
			return fmt.Errorf("EXPORT_GCS_BUCKET is required for the gcs sink")
		}
	default:
		return fmt.Errorf("unsupported export sink: %s", c.Export.Sink)
	}

	return nil
}

// Address returns the host:port the HTTP server listens on
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs in production
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
