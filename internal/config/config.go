package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Clinic   ClinicConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path           string
	MigrationsPath string
}

// ClinicConfig holds practice identity settings.
type ClinicConfig struct {
	Name     string
	Timezone string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string
	PageSize   int
}

// LogConfig holds log output settings. Logs go to a file because the TUI
// owns the terminal.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix VETPRAXIS_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "vetpraxis", "vetpraxis.db"))
	v.SetDefault("database.migrations_path", "internal/database/migrations")
	v.SetDefault("clinic.name", "VetPraxis Clinic")
	v.SetDefault("clinic.timezone", "Local")
	v.SetDefault("ui.date_format", "02/01/2006")
	v.SetDefault("ui.page_size", 20)
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "vetpraxis", "vetpraxis.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("VETPRAXIS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "vetpraxis"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("VETPRAXIS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.PageSize <= 0 {
		c.UI.PageSize = 20
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// Used by the TUI settings view for clinic and presentation preferences.
func Save(cfg Config) error {
	path := os.Getenv("VETPRAXIS_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "vetpraxis", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations_path", cfg.Database.MigrationsPath)
	v.Set("clinic.name", cfg.Clinic.Name)
	v.Set("clinic.timezone", cfg.Clinic.Timezone)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
