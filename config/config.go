// Package config provides configuration management for TunnelDeck.
// It handles loading, saving, and managing application settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mohsafer/tunneldeck/common"
)

// Config represents the application configuration.
// All settings are persisted to a YAML file in the user's config directory.
type Config struct {
	// Interface is the tunnel interface this panel controls.
	Interface string `yaml:"interface"`
	// UpCommand overrides the command used to bring the tunnel up.
	// If empty, "sudo <quick-tool> up <interface>" is used.
	UpCommand string `yaml:"up_command,omitempty"`
	// DownCommand overrides the command used to bring the tunnel down.
	DownCommand string `yaml:"down_command,omitempty"`
	// StatusCommand overrides the command used to query tunnel status.
	StatusCommand string `yaml:"status_command,omitempty"`
	// MyIPCommand overrides the command used to show the public IP.
	MyIPCommand string `yaml:"my_ip_command,omitempty"`
	// PingTarget is the host probed by the ping window.
	PingTarget string `yaml:"ping_target"`
	// Terminal is the terminal emulator used for ping and config windows.
	Terminal string `yaml:"terminal"`
	// TunnelConfigPath is the tunnel configuration file opened by the
	// config window. Empty means /etc/amnezia/amneziawg/<interface>.conf.
	TunnelConfigPath string `yaml:"tunnel_config_path,omitempty"`
	// ShowNotifications enables desktop notifications for finished commands.
	ShowNotifications bool `yaml:"show_notifications"`
	// Theme sets the color theme: "light", "dark", or "auto".
	Theme string `yaml:"theme"`
	// Health holds the connectivity prober settings.
	Health HealthConfig `yaml:"health"`
}

// HealthConfig holds settings for the passive connectivity prober.
type HealthConfig struct {
	// Enabled turns the prober on or off.
	Enabled bool `yaml:"enabled"`
	// Interval is how often to probe, e.g. "30s".
	Interval Duration `yaml:"interval"`
	// Hosts are "host:port" endpoints dialed for the probe.
	Hosts []string `yaml:"hosts,omitempty"`
}

// Duration wraps time.Duration so that YAML values can be written in the
// human form ("30s", "1m") instead of nanosecond integers.
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. It accepts duration strings
// ("30s") as well as plain integers interpreted as seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %v", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}

	var secs int64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("invalid duration value")
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns the default configuration.
// These are sensible defaults matching a stock AmneziaWG setup.
func DefaultConfig() *Config {
	return &Config{
		Interface:         common.DefaultInterface,
		PingTarget:        common.DefaultPingTarget,
		Terminal:          common.DefaultTerminal,
		ShowNotifications: true,
		Theme:             common.ThemeAuto,
		Health: HealthConfig{
			Enabled:  true,
			Interval: Duration(common.HealthCheckInterval),
		},
	}
}

// Load loads the configuration from the default config file.
// If the file doesn't exist, it creates one with default values.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from the given path, creating the file
// with defaults if it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.SaveTo(configPath); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, common.WrapError(err, "error opening configuration")
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true) // Strict validation: reject unknown fields

	var config Config
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfigLoad, err)
	}

	config.applyDefaults()
	config.validate()

	return &config, nil
}

// applyDefaults fills in zero-valued fields with defaults so that a partial
// config file still yields a usable configuration.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Interface == "" {
		c.Interface = def.Interface
	}
	if c.PingTarget == "" {
		c.PingTarget = def.PingTarget
	}
	if c.Terminal == "" {
		c.Terminal = def.Terminal
	}
	if c.Health.Interval <= 0 {
		c.Health.Interval = def.Health.Interval
	}
}

// validate verifies that configuration values are valid, falling back to
// defaults for invalid ones.
func (c *Config) validate() {
	if !common.StringInSlice(c.Theme, []string{common.ThemeAuto, common.ThemeLight, common.ThemeDark}) {
		c.Theme = common.ThemeAuto
	}
}

// Save saves the configuration to the default config file.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to the given path.
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return common.WrapError(err, "error creating config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}

	return nil
}

func getConfigPath() (string, error) {
	configDir, err := common.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, common.ConfigFileName), nil
}
