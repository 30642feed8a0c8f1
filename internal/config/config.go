// Package config loads application configuration from a YAML file,
// CHECKBRIDGE_* environment variables, and CLI flag overrides via viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied where the file and environment are silent.
const (
	DefaultBindPort     = 8080
	DefaultLogLevel     = "info"
	DefaultBranchPrefix = "changes/"
	DefaultRepoFormat   = "{repo}-ci"
	DefaultTimeout      = 2 * time.Second
)

// Config holds the validated process configuration.
type Config struct {
	LogLevel    string   `mapstructure:"log_level"`
	LogFile     string   `mapstructure:"log_file"`
	BindAddress string   `mapstructure:"bind_address"`
	BindPort    int      `mapstructure:"bind_port"`
	Drivers     []string `mapstructure:"drivers"`

	// driverConfigs maps a driver name from Drivers to its own section.
	driverConfigs map[string]DriverConfig
}

// DriverConfig is one driver's configuration section. Which fields are
// required depends on the driver: github needs owner+token, bitbucket needs
// user+password, sandbox needs nothing.
type DriverConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Owner        string        `mapstructure:"owner"`
	Token        string        `mapstructure:"token"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	BranchPrefix string        `mapstructure:"branch_prefix"`
	RepoFormat   string        `mapstructure:"repo_format"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// NewViper creates a viper instance with the standard CHECKBRIDGE
// environment binding and built-in defaults applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("bind_address", "")
	v.SetDefault("bind_port", DefaultBindPort)
	v.SetEnvPrefix("CHECKBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load unmarshals and validates configuration from the given viper instance.
// The caller is responsible for pointing v at a config file (and reading it)
// before calling Load.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if len(cfg.Drivers) == 0 {
		return nil, fmt.Errorf("no drivers configured: set 'drivers' to a non-empty list")
	}
	if cfg.BindPort <= 0 || cfg.BindPort > 65535 {
		return nil, fmt.Errorf("bind_port %d out of range", cfg.BindPort)
	}

	cfg.driverConfigs = make(map[string]DriverConfig, len(cfg.Drivers))
	for _, name := range cfg.Drivers {
		var dc DriverConfig
		if err := v.UnmarshalKey(name, &dc); err != nil {
			return nil, fmt.Errorf("unmarshaling driver section %q: %w", name, err)
		}
		if dc.BranchPrefix == "" {
			dc.BranchPrefix = DefaultBranchPrefix
		}
		if dc.RepoFormat == "" {
			dc.RepoFormat = DefaultRepoFormat
		}
		if dc.Timeout <= 0 {
			dc.Timeout = DefaultTimeout
		}
		cfg.driverConfigs[name] = dc
	}

	return &cfg, nil
}

// Driver returns the configuration section for the named driver. Names not
// listed in Drivers return a zero-value section.
func (c *Config) Driver(name string) DriverConfig {
	return c.driverConfigs[name]
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.BindPort)
}

// Repo expands the repo_format template for the given Gerrit project name.
func (dc DriverConfig) Repo(project string) string {
	return strings.ReplaceAll(dc.RepoFormat, "{repo}", project)
}

// Branch builds the CI branch name for a change/revision pair. Changes are
// sharded into two-digit buckets by changeId so the layout matches the
// replication plugin's ref naming: <prefix><changeId%100>/<changeId>/<revision>.
func (dc DriverConfig) Branch(changeID, revision int) string {
	return fmt.Sprintf("%s%02d/%d/%d", dc.BranchPrefix, changeID%100, changeID, revision)
}
