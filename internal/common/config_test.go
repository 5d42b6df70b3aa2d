package common

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Environment != "production" {
		t.Errorf("Environment = %q", config.Environment)
	}
	if config.RDMS.RateLimit != 5 {
		t.Errorf("RateLimit = %d", config.RDMS.RateLimit)
	}
	if config.RDMS.DefaultListLimit != 20 {
		t.Errorf("DefaultListLimit = %d", config.RDMS.DefaultListLimit)
	}
	if config.RDMS.Timeout() != 30*time.Second {
		t.Errorf("Timeout = %v", config.RDMS.Timeout())
	}
	if config.Images.Dir != "./images" {
		t.Errorf("Images.Dir = %q", config.Images.Dir)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromFileMissingIsNotAnError(t *testing.T) {
	config, err := LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if config.RDMS.RateLimit != 5 {
		t.Errorf("RateLimit = %d, want default", config.RDMS.RateLimit)
	}
}

func TestLoadFromFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rdms-mcp.toml")
	content := `
environment = "development"

[rdms]
base_url = "http://rdms.example.com"
username = "alice"
rate_limit = 10
site_names = ["FT-V3.X", "MySite"]

[images]
dir = "/tmp/rdms-images"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if config.Environment != "development" {
		t.Errorf("Environment = %q", config.Environment)
	}
	if config.RDMS.BaseURL != "http://rdms.example.com" {
		t.Errorf("BaseURL = %q", config.RDMS.BaseURL)
	}
	if config.RDMS.RateLimit != 10 {
		t.Errorf("RateLimit = %d", config.RDMS.RateLimit)
	}
	if !reflect.DeepEqual(config.RDMS.SiteNames, []string{"FT-V3.X", "MySite"}) {
		t.Errorf("SiteNames = %v", config.RDMS.SiteNames)
	}
	if config.Images.Dir != "/tmp/rdms-images" {
		t.Errorf("Images.Dir = %q", config.Images.Dir)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", config.Logging.Level)
	}
	// File values merge over defaults; untouched keys keep theirs.
	if config.RDMS.RequestTimeout != "30s" {
		t.Errorf("RequestTimeout = %q", config.RDMS.RequestTimeout)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rdms-mcp.toml")
	if err := os.WriteFile(path, []byte("[rdms]\nbase_url = \"http://from-file\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RDMS_BASE_URL", "http://from-env.example.com")
	t.Setenv("RDMS_USERNAME", "envuser")
	t.Setenv("RDMS_PASSWORD", "envpass")
	t.Setenv("RDMS_RATE_LIMIT", "7")
	t.Setenv("RDMS_SITE_NAMES", "One, Two ,")
	t.Setenv("RDMSMCP_ENV", "development")
	t.Setenv("RDMSMCP_IMAGES_DIR", "/tmp/env-images")
	t.Setenv("RDMSMCP_LOG_LEVEL", "debug")

	config, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if config.RDMS.BaseURL != "http://from-env.example.com" {
		t.Errorf("BaseURL = %q", config.RDMS.BaseURL)
	}
	if config.RDMS.Username != "envuser" || config.RDMS.Password != "envpass" {
		t.Errorf("credentials not overridden: %q", config.RDMS.Username)
	}
	if config.RDMS.RateLimit != 7 {
		t.Errorf("RateLimit = %d", config.RDMS.RateLimit)
	}
	if !reflect.DeepEqual(config.RDMS.SiteNames, []string{"One", "Two"}) {
		t.Errorf("SiteNames = %v", config.RDMS.SiteNames)
	}
	if config.Environment != "development" {
		t.Errorf("Environment = %q", config.Environment)
	}
	if config.Images.Dir != "/tmp/env-images" {
		t.Errorf("Images.Dir = %q", config.Images.Dir)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", config.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"rate limit too high", func(c *Config) { c.RDMS.RateLimit = 100 }},
		{"rate limit zero", func(c *Config) { c.RDMS.RateLimit = 0 }},
		{"list limit too high", func(c *Config) { c.RDMS.DefaultListLimit = 500 }},
		{"bad base url", func(c *Config) { c.RDMS.BaseURL = "not a url" }},
		{"bad timeout", func(c *Config) { c.RDMS.RequestTimeout = "soon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			if err := config.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
