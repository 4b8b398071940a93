package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the ipd tool configuration
type Config struct {
	ArchiveDir   string                      `yaml:"archive_dir" validate:"required"`
	MaxFileSize  int64                       `yaml:"max_file_size" validate:"gte=0"`
	Server       Server                      `yaml:"server"`
	Logging      Logging                     `yaml:"logging"`
	Interpreters map[string]map[uint8]string `yaml:"interpreters" validate:"dive,dive,oneof=text uint int hex bytes"`
}

// Server contains HTTP API configuration
type Server struct {
	Bind   string `yaml:"bind" validate:"required"`
	Port   int    `yaml:"port" validate:"gte=1,lte=65535"`
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		ArchiveDir:  "./archive",
		MaxFileSize: 256 << 20,
		Server: Server{
			Bind: "127.0.0.1",
			Port: 9300,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Interpreters: map[string]map[uint8]string{
			"Handheld Agent": {
				100: "uint",
				2:   "text",
				3:   "text",
				4:   "text",
			},
		},
	}
}

// LoadConfig loads configuration from the specified path. Values missing
// from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold the API key.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Environment variables that override file settings.
const (
	EnvArchiveDir = "IPD_ARCHIVE_DIR"
	EnvLogLevel   = "IPD_LOG_LEVEL"
	EnvLogFormat  = "IPD_LOG_FORMAT"
	EnvPort       = "IPD_PORT"
	EnvAPIKey     = "IPD_API_KEY"
)

// ApplyEnv overrides settings from the environment. Variables are first
// loaded from the given env files, if they exist; variables already set in
// the process environment take precedence over the files.
func ApplyEnv(config *Config, envFiles ...string) error {
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	if v := os.Getenv(EnvArchiveDir); v != "" {
		config.ArchiveDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		config.Logging.Format = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		config.Server.Port = port
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		config.Server.APIKey = v
	}

	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report yaml keys rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./ipd.yaml"
	}

	// For Linux/macOS, use ~/.config/ipd/config.yaml
	configDir := filepath.Join(homeDir, ".config", "ipd")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
