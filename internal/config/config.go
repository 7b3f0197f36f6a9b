// Package config loads server and generator settings from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Ko-stant/melody-dungeon/internal/dungeon"
)

const (
	EnvPath = "APP_CONFIG"
	EnvPort = "APP_PORT"
)

type Server struct {
	Addr         string        `yaml:"addr"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type Game struct {
	StartLevel int `yaml:"start_level"`
}

type Config struct {
	Server  Server         `yaml:"server"`
	Dungeon dungeon.Config `yaml:"dungeon"`
	Game    Game           `yaml:"game"`
}

func Default() Config {
	return Config{
		Server:  Server{Addr: ":8080", WriteTimeout: 3 * time.Second},
		Dungeon: dungeon.DefaultConfig(),
		Game:    Game{StartLevel: 1},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the config path: the flag value wins over APP_CONFIG.
func Resolve(flagPath string, lookup func(string) (string, bool)) string {
	if flagPath != "" {
		return flagPath
	}
	if p, ok := lookup(EnvPath); ok {
		return p
	}
	return ""
}

// ApplyEnv lets APP_PORT override the listen address.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if port, ok := lookup(EnvPort); ok && port != "" {
		c.Server.Addr = ":" + port
	}
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must be set")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Game.StartLevel < 1 {
		return fmt.Errorf("%w: game.start_level %d", dungeon.ErrInvalidLevel, c.Game.StartLevel)
	}
	if err := c.Dungeon.Validate(); err != nil {
		return fmt.Errorf("dungeon: %w", err)
	}
	return nil
}

func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
