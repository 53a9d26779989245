// Package config loads engine settings from YAML with environment
// overrides. Every field has a default, so a missing file is not an
// error unless a path was given explicitly.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the simulator.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig locates the card catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// GameConfig holds the tunable rule parameters.
type GameConfig struct {
	GridWidth        int   `mapstructure:"grid_width"`
	GridHeight       int   `mapstructure:"grid_height"`
	ActionsPerTurn   int   `mapstructure:"actions_per_turn"`
	StartingHandSize int   `mapstructure:"starting_hand_size"`
	Seed             int64 `mapstructure:"seed"`
}

// LoggingConfig controls zap logger construction.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given path. An empty path loads
// defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("catalog.path", "catalog.yaml")
	v.SetDefault("game.grid_width", 9)
	v.SetDefault("game.grid_height", 10)
	v.SetDefault("game.actions_per_turn", 3)
	v.SetDefault("game.starting_hand_size", 5)
	v.SetDefault("game.seed", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetEnvPrefix("BMSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Game.GridWidth < 3 || c.Game.GridHeight < 3 {
		return fmt.Errorf("grid %dx%d is too small", c.Game.GridWidth, c.Game.GridHeight)
	}
	if c.Game.ActionsPerTurn < 1 {
		return fmt.Errorf("actions_per_turn must be at least 1, got %d", c.Game.ActionsPerTurn)
	}
	if c.Game.StartingHandSize < 0 {
		return fmt.Errorf("starting_hand_size must not be negative, got %d", c.Game.StartingHandSize)
	}
	return nil
}
