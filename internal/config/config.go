package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Network NetworkConfig `toml:"network"`
	Game    GameConfig    `toml:"game"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Name         string `toml:"name"`
	SinglePlayer bool   `toml:"single_player"` // one human: asks wait forever
	StartTime    int64  // set at boot, not from config
}

type NetworkConfig struct {
	BindAddress  string        `toml:"bind_address"`
	AskTimeout   time.Duration `toml:"ask_timeout"` // synchronous ask/reply; 0 = wait forever
	WriteTimeout time.Duration `toml:"write_timeout"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	OutQueueSize int           `toml:"out_queue_size"`
}

type GameConfig struct {
	MapWidth  int    `toml:"map_width"`
	MapHeight int    `toml:"map_height"`
	RulesPath string `toml:"rules_path"` // YAML rule tables; empty = built-in rules
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// AskTimeout resolves the effective synchronous-request timeout: infinite
// in single-player, the configured value otherwise.
func (c *Config) AskTimeout() time.Duration {
	if c.Server.SinglePlayer {
		return 0
	}
	return c.Network.AskTimeout
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "colonyforge",
		},
		Network: NetworkConfig{
			BindAddress:  "0.0.0.0:8801",
			AskTimeout:   60 * time.Second,
			WriteTimeout: 10 * time.Second,
			ReadTimeout:  5 * time.Minute,
			OutQueueSize: 256,
		},
		Game: GameConfig{
			MapWidth:  40,
			MapHeight: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
