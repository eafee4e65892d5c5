package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the global panel configuration
type Config struct {
	// General configuration
	General struct {
		// InstanceID is this panel instance's identifier
		InstanceID string `yaml:"instanceId"`

		// DataDir is the local data directory (preferences, caches)
		DataDir string `yaml:"dataDir"`

		// LogLevel is the logging level
		LogLevel string `yaml:"logLevel"`

		// Development enables development mode
		Development bool `yaml:"development"`
	} `yaml:"general"`

	// HTTP panel server configuration
	HTTP struct {
		// Address to bind the panel server
		Address string `yaml:"address"`

		// Port to bind the panel server
		Port int `yaml:"port"`

		// TLS enables TLS
		TLS bool `yaml:"tls"`

		// CertFile is the TLS certificate path
		CertFile string `yaml:"certFile"`

		// KeyFile is the TLS private key path
		KeyFile string `yaml:"keyFile"`
	} `yaml:"http"`

	// API is the remote admin API the panel consumes
	API struct {
		// BaseURL is the API base path, e.g. http://localhost:5000/api
		BaseURL string `yaml:"baseUrl"`

		// Timeout bounds every API call
		Timeout time.Duration `yaml:"timeout"`

		// SessionCookie is the name of the session cookie the API expects
		SessionCookie string `yaml:"sessionCookie"`

		// SessionCredential is the session cookie value; prefer the
		// ADMIN_PANEL_SESSION environment variable over the file
		SessionCredential string `yaml:"sessionCredential"`

		// CacheCredential persists the credential encrypted under DataDir
		CacheCredential bool `yaml:"cacheCredential"`

		// LoginURL is where unauthenticated operators are sent
		LoginURL string `yaml:"loginUrl"`

		// LandingURL is where authenticated non-admins are sent
		LandingURL string `yaml:"landingUrl"`
	} `yaml:"api"`

	// Session guard configuration
	Session struct {
		// CacheTTL is how long a verified session is trusted before the
		// guard re-checks the identity endpoint
		CacheTTL time.Duration `yaml:"cacheTtl"`
	} `yaml:"session"`

	// Refresh configuration for background reloads
	Refresh struct {
		// Enabled turns periodic background reloads on
		Enabled bool `yaml:"enabled"`

		// Interval between background reloads
		Interval time.Duration `yaml:"interval"`
	} `yaml:"refresh"`

	// Monitoring configuration
	Monitoring struct {
		// Enabled enables the monitoring listener
		Enabled bool `yaml:"enabled"`

		// Address to bind the monitoring server
		Address string `yaml:"address"`

		// Port to bind the monitoring server
		Port int `yaml:"port"`

		// Prometheus enables Prometheus export
		Prometheus bool `yaml:"prometheus"`
	} `yaml:"monitoring"`

	Logging struct {
		Level       string `yaml:"level"` // "ERROR", "WARN", "INFO", "DEBUG"
		ChannelSize int    `yaml:"channelSize"`
		Format      string `yaml:"format"`
		Output      string `yaml:"output"` // "stdout" or "file"
		FilePath    string `yaml:"filePath"`

		// Rotation settings, used when Output is "file"
		MaxSizeMB  int `yaml:"maxSizeMB"`
		MaxBackups int `yaml:"maxBackups"`
		MaxAgeDays int `yaml:"maxAgeDays"`
	} `yaml:"logging"`
}

// envOverrides are secrets and endpoints that may come from the environment
// instead of the config file. Environment values win.
type envOverrides struct {
	SessionCredential string `env:"ADMIN_PANEL_SESSION"`
	BaseURL           string `env:"ADMIN_PANEL_API_URL"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	c := &Config{}

	// General configuration
	c.General.InstanceID = "panel1"
	c.General.DataDir = "./data"
	c.General.LogLevel = "info"
	c.General.Development = false

	// Panel server configuration
	c.HTTP.Address = "127.0.0.1"
	c.HTTP.Port = 8090
	c.HTTP.TLS = false
	c.HTTP.CertFile = ""
	c.HTTP.KeyFile = ""

	// Remote API configuration
	c.API.BaseURL = "http://localhost:5000/api"
	c.API.Timeout = 10 * time.Second
	c.API.SessionCookie = "session"
	c.API.SessionCredential = ""
	c.API.CacheCredential = true
	c.API.LoginURL = "/login"
	c.API.LandingURL = "/calculadora"

	// Session guard configuration
	c.Session.CacheTTL = 5 * time.Minute

	// Refresh configuration
	c.Refresh.Enabled = true
	c.Refresh.Interval = time.Minute

	// Monitoring configuration
	c.Monitoring.Enabled = false
	c.Monitoring.Address = "127.0.0.1"
	c.Monitoring.Port = 9090
	c.Monitoring.Prometheus = true

	// Logging configuration defaults
	c.Logging.Level = "INFO"
	c.Logging.ChannelSize = 1000
	c.Logging.Format = "json"
	c.Logging.Output = "stdout"
	c.Logging.FilePath = ""
	c.Logging.MaxSizeMB = 50
	c.Logging.MaxBackups = 3
	c.Logging.MaxAgeDays = 28

	return c
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Load the default configuration
	config := DefaultConfig()

	// Decode the YAML file
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment overrides for secrets and endpoints
	if err := applyEnv(config); err != nil {
		return nil, err
	}

	// Complete relative paths
	if !filepath.IsAbs(config.General.DataDir) {
		dir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		config.General.DataDir = filepath.Join(dir, config.General.DataDir)
	}

	// Validate the configuration
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, path string) error {
	// Encode the configuration to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Create parent directory if necessary
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write file
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overlays environment-provided values onto the configuration
func applyEnv(config *Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if overrides.SessionCredential != "" {
		config.API.SessionCredential = overrides.SessionCredential
	}
	if overrides.BaseURL != "" {
		config.API.BaseURL = overrides.BaseURL
	}

	return nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	// Check the log level
	logLevel := strings.ToLower(config.General.LogLevel)
	if logLevel != "debug" && logLevel != "info" && logLevel != "warn" && logLevel != "error" {
		return fmt.Errorf("invalid log level: %s", config.General.LogLevel)
	}

	// Check the API base URL
	parsed, err := url.Parse(config.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid API base URL: %s", config.API.BaseURL)
	}

	if config.API.Timeout <= 0 {
		return fmt.Errorf("invalid API timeout: %s", config.API.Timeout)
	}

	// check ports
	if config.HTTP.Port < 1 || config.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", config.HTTP.Port)
	}

	if config.Monitoring.Enabled && (config.Monitoring.Port < 1 || config.Monitoring.Port > 65535) {
		return fmt.Errorf("invalid monitoring port: %d", config.Monitoring.Port)
	}

	if config.Refresh.Enabled && config.Refresh.Interval < time.Second {
		return fmt.Errorf("refresh interval too short: %s", config.Refresh.Interval)
	}

	// Check the TLS configuration
	if config.HTTP.TLS {
		if config.HTTP.CertFile == "" || config.HTTP.KeyFile == "" {
			return fmt.Errorf("TLS enabled but certificate or key file not specified")
		}
		if _, err := os.Stat(config.HTTP.CertFile); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", config.HTTP.CertFile)
		}
		if _, err := os.Stat(config.HTTP.KeyFile); os.IsNotExist(err) {
			return fmt.Errorf("key file not found: %s", config.HTTP.KeyFile)
		}
	}

	return nil
}
