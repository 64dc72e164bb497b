package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/populationgenomics/pedviz/pkg/pipeline"
	"github.com/populationgenomics/pedviz/pkg/tangle"
)

// Config holds user defaults loaded from the config file. Command-line flags
// override config values, which override built-in defaults.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig holds layout parameter defaults.
type LayoutConfig struct {
	NodeSpacing  float64 `toml:"node_spacing"`
	LevelSpacing float64 `toml:"level_spacing"`
	MarginX      float64 `toml:"margin_x"`
	MarginY      float64 `toml:"margin_y"`
}

// RenderConfig holds render parameter defaults.
type RenderConfig struct {
	Style  string  `toml:"style"`
	Labels bool    `toml:"labels"`
	Legend bool    `toml:"legend"`
	Scale  float64 `toml:"scale"`
}

// ServeConfig holds preview server defaults.
type ServeConfig struct {
	Addr  string `toml:"addr"`
	Redis string `toml:"redis"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			NodeSpacing:  tangle.DefaultNodeSpacing,
			LevelSpacing: tangle.DefaultLevelSpacing,
			MarginX:      tangle.DefaultMargin,
			MarginY:      tangle.DefaultMargin,
		},
		Render: RenderConfig{
			Style: pipeline.DefaultStyle,
			Scale: pipeline.DefaultScale,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// configPath returns the default config file location using XDG standard
// (~/.config/pedviz/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file at path, or the default location when path
// is empty. A missing file is not an error; built-in defaults are returned.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		p, err := configPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
