package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/existflow/launchdeck/internal/logger"
)

// Backend names
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// LocalUserID owns every record in local mode unless configured otherwise
const LocalUserID = "local"

// Config holds client settings from ~/.launchdeck/config.yaml
type Config struct {
	Backend       string `yaml:"backend" validate:"oneof=local remote"`            // local database or hosted server
	DatabasePath  string `yaml:"database_path"`                                    // SQLite file in local mode
	ServerURL     string `yaml:"server_url" validate:"required_if=Backend remote"` // hosted backend base URL
	UserID        string `yaml:"user_id" validate:"required"`                      // record owner in local mode
	Author        string `yaml:"author"`                                           // credited in exported templates
	ConfirmDelete bool   `yaml:"confirm_delete"`                                   // ask before deleting

	// Logging configuration
	LogLevel   string `yaml:"log_level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	LogFile    string `yaml:"log_file"`
	LogConsole bool   `yaml:"log_console"`

	path string
}

// DefaultDir returns ~/.launchdeck
func DefaultDir() string {
	return logger.DefaultDir()
}

// DefaultConfig returns default settings rooted at dir
func DefaultConfig(dir string) *Config {
	return &Config{
		Backend:       BackendLocal,
		DatabasePath:  filepath.Join(dir, "launchdeck.db"),
		ServerURL:     "http://localhost:8080",
		UserID:        LocalUserID,
		Author:        os.Getenv("USER"),
		ConfirmDelete: true,
		LogLevel:      "INFO",
		LogFile:       filepath.Join(dir, "logs", "launchdeck.log"),
		path:          filepath.Join(dir, "config.yaml"),
	}
}

// envOverrides maps LAUNCHDECK_* variables onto fields
var envOverrides = []struct {
	key   string
	apply func(c *Config, v string)
}{
	{"LAUNCHDECK_BACKEND", func(c *Config, v string) { c.Backend = v }},
	{"LAUNCHDECK_DATABASE_PATH", func(c *Config, v string) { c.DatabasePath = v }},
	{"LAUNCHDECK_SERVER_URL", func(c *Config, v string) { c.ServerURL = v }},
	{"LAUNCHDECK_USER_ID", func(c *Config, v string) { c.UserID = v }},
	{"LAUNCHDECK_LOG_LEVEL", func(c *Config, v string) { c.LogLevel = v }},
	{"LAUNCHDECK_LOG_FILE", func(c *Config, v string) { c.LogFile = v }},
	{"LAUNCHDECK_LOG_CONSOLE", func(c *Config, v string) { c.LogConsole = v == "true" }},
}

// Load reads ~/.launchdeck/config.yaml
func Load() (*Config, error) {
	return LoadFrom(DefaultDir())
}

// LoadFrom reads config.yaml in dir. A missing file yields defaults.
// Environment variables win over the file.
func LoadFrom(dir string) (*Config, error) {
	cfg := DefaultConfig(dir)

	data, err := os.ReadFile(cfg.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	for _, o := range envOverrides {
		if v := os.Getenv(o.key); v != "" {
			o.apply(cfg, v)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Path returns the file the config is saved to
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to its file
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// IsRemote reports whether records live on the hosted backend
func (c *Config) IsRemote() bool {
	return c.Backend == BackendRemote
}

// Dir returns the directory holding the config, database and session files
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// LoggerConfig turns the logging fields into a logger.Config
func (c *Config) LoggerConfig() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = logger.ParseLevel(c.LogLevel)
	lc.FilePath = c.LogFile
	lc.Console = c.LogConsole
	return lc
}
