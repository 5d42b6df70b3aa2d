package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	RDMS        RDMSConfig    `toml:"rdms"`
	Images      ImagesConfig  `toml:"images"`
	Logging     LoggingConfig `toml:"logging"`
}

// RDMSConfig describes the target RDMS installation and scraping behavior.
type RDMSConfig struct {
	BaseURL  string `toml:"base_url" validate:"omitempty,url"`
	Username string `toml:"username"`
	Password string `toml:"password"`

	UserAgent      string `toml:"user_agent"`
	RequestTimeout string `toml:"request_timeout"`                    // e.g. "30s"
	RateLimit      int    `toml:"rate_limit" validate:"gte=1,lte=50"` // requests per second

	// SiteNames are the site/product branding suffixes stripped from page
	// titles; installations with different branding override these.
	SiteNames []string `toml:"site_names"`

	DefaultListLimit int `toml:"default_list_limit" validate:"gte=1,lte=100"`
}

// ImagesConfig configures where downloaded images are written.
type ImagesConfig struct {
	Dir string `toml:"dir"`
}

// LoggingConfig mirrors the arbor writer setup.
type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // time format for log lines
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "production",
		RDMS: RDMSConfig{
			UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			RequestTimeout:   "30s",
			RateLimit:        5,
			DefaultListLimit: 20,
		},
		Images: ImagesConfig{
			Dir: "./images",
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// A missing file is not an error: MCP hosts commonly configure this server
// through environment variables alone.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// env-only configuration
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the struct tags against the loaded values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.ParseDuration(c.RDMS.RequestTimeout); err != nil {
		return fmt.Errorf("invalid configuration: rdms.request_timeout: %w", err)
	}
	return nil
}

// Timeout returns the parsed per-request timeout.
func (r *RDMSConfig) Timeout() time.Duration {
	d, err := time.ParseDuration(r.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// applyEnvOverrides applies environment variable overrides. The RDMS_*
// variables keep the names the original deployment documentation uses;
// RDMSMCP_* covers the server's own concerns.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RDMSMCP_ENV"); env != "" {
		config.Environment = env
	}

	if baseURL := os.Getenv("RDMS_BASE_URL"); baseURL != "" {
		config.RDMS.BaseURL = baseURL
	}
	if username := os.Getenv("RDMS_USERNAME"); username != "" {
		config.RDMS.Username = username
	}
	if password := os.Getenv("RDMS_PASSWORD"); password != "" {
		config.RDMS.Password = password
	}
	if userAgent := os.Getenv("RDMS_USER_AGENT"); userAgent != "" {
		config.RDMS.UserAgent = userAgent
	}
	if timeout := os.Getenv("RDMS_REQUEST_TIMEOUT"); timeout != "" {
		config.RDMS.RequestTimeout = timeout
	}
	if limit := os.Getenv("RDMS_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			config.RDMS.RateLimit = n
		}
	}
	if names := os.Getenv("RDMS_SITE_NAMES"); names != "" {
		parts := []string{}
		for _, part := range strings.Split(names, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			config.RDMS.SiteNames = parts
		}
	}

	if dir := os.Getenv("RDMSMCP_IMAGES_DIR"); dir != "" {
		config.Images.Dir = dir
	}

	if level := os.Getenv("RDMSMCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("RDMSMCP_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}
