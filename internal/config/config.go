package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/civicpulse/civicpulse/internal/validation"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Analysis Analysis `yaml:"analysis"`
	Reports  Reports  `yaml:"reports"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

// Analysis tunes the analytic components.
type Analysis struct {
	NominalCapacity float64 `yaml:"nominal_capacity" validate:"gt=0"`
	RiskRanking     string  `yaml:"risk_ranking" validate:"oneof=recent score"`
	RiskLimit       int     `yaml:"risk_limit" validate:"gte=1"`
	ClusterMinSize  int     `yaml:"cluster_min_size" validate:"gte=2"`
}

// Reports configures scheduled report generation. An empty schedule
// disables the scheduler.
type Reports struct {
	Schedule string `yaml:"schedule"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port" validate:"gte=1,lte=65535"`
}

type Logging struct {
	Level string `yaml:"level" validate:"oneof=DEBUG INFO WARNING ERROR"`
}

// ConfigDir returns the XDG config directory for civicpulse.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "civicpulse")
}

// DataDir returns the XDG data directory for civicpulse.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "civicpulse")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/civicpulse/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'civicpulse init' to create a default config",
		xdgConfig,
	)
}

// Load reads, parses and validates a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Analysis: Analysis{
			NominalCapacity: 50,
			RiskRanking:     "recent",
			RiskLimit:       10,
			ClusterMinSize:  3,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
