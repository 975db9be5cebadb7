package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvBaseURL overrides the configured API base URL when set.
const EnvBaseURL = "LINKLY_BASE_URL"

// Config holds CLI configuration stored at ~/.linkly/config.
type Config struct {
	BaseURL     string `yaml:"base_url,omitempty"`
	AccessToken string `yaml:"access_token"`
	UserID      int64  `yaml:"user_id"`
	Email       string `yaml:"email"`
	Name        string `yaml:"name"`
	Role        string `yaml:"role,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
	LogFile     string `yaml:"log_file,omitempty"`
}

// Dir returns the directory holding config and logs.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".linkly")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Read parses the config file without requiring a login.
func Read() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config and requires a stored access token.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("config missing access_token")
	}
	return cfg, nil
}

// ReadOrDefault returns the stored config, or an empty one when none exists
// or it cannot be parsed.
func ReadOrDefault() *Config {
	cfg, err := Read()
	if err != nil {
		return &Config{}
	}
	return cfg
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}

// ClearCredentials drops the token and identity, keeping connection settings.
func (c *Config) ClearCredentials() {
	c.AccessToken = ""
	c.UserID = 0
	c.Email = ""
	c.Name = ""
	c.Role = ""
}

// BaseURLOrDefault resolves the API base URL: env override, then config, then fallback.
func (c *Config) BaseURLOrDefault(fallback string) string {
	if env := strings.TrimSpace(os.Getenv(EnvBaseURL)); env != "" {
		return env
	}
	if c != nil && strings.TrimSpace(c.BaseURL) != "" {
		return strings.TrimSpace(c.BaseURL)
	}
	return fallback
}

// LogPath returns the log file path, defaulting to ~/.linkly/linkly.log.
func (c *Config) LogPath() string {
	if c != nil && strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile
	}
	return filepath.Join(Dir(), "linkly.log")
}
