package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds connection settings for the marketplace backend.
type ServerConfig struct {
	// BaseURL is the root URL of the REST backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec is the per-request HTTP timeout in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// NotificationsConfig holds settings for the order-notification poller.
type NotificationsConfig struct {
	// PollIntervalSec is how often (in seconds) to re-fetch the order list.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// MaxVisible is how many records the compact dropdown shows at once.
	MaxVisible int `mapstructure:"max_visible" yaml:"max_visible"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// StorageConfig holds the local database location.
type StorageConfig struct {
	// DBPath is the sqlite file holding dismissed notifications and the
	// orders cache. Empty means the default under the config directory.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server        ServerConfig        `mapstructure:"server" yaml:"server"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	Display       DisplayConfig       `mapstructure:"display" yaml:"display"`
	Storage       StorageConfig       `mapstructure:"storage" yaml:"storage"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/streetsell/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "streetsell", "config.yaml")
}

// DefaultDBPath returns the default sqlite database path next to the
// configuration file.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "streetsell.db")
	}
	return filepath.Join(home, ".config", "streetsell", "streetsell.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:    "http://localhost:8888",
			TimeoutSec: 30,
		},
		Notifications: NotificationsConfig{
			PollIntervalSec: 30,
			MaxVisible:      5,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
		Storage: StorageConfig{
			DBPath: DefaultDBPath(),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed STREETSELL_ override file values
// (e.g. STREETSELL_SERVER_BASE_URL). If the file does not exist, defaults
// are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server.base_url", "http://localhost:8888")
	v.SetDefault("server.timeout_sec", 30)
	v.SetDefault("notifications.poll_interval_sec", 30)
	v.SetDefault("notifications.max_visible", 5)
	v.SetDefault("display.theme", "default")
	v.SetDefault("storage.db_path", DefaultDBPath())

	v.SetEnvPrefix("streetsell")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Notifications.PollIntervalSec <= 0 {
		cfg.Notifications.PollIntervalSec = 30
	}
	if cfg.Notifications.MaxVisible <= 0 {
		cfg.Notifications.MaxVisible = 5
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = DefaultDBPath()
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("notifications", cfg.Notifications)
	v.Set("display", cfg.Display)
	v.Set("storage", cfg.Storage)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
