package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

/** @brief The engine configuration, usually read from anima.toml. */
type Config struct {
	Log    LogConfig    `toml:"log"`
	Assets AssetsConfig `toml:"assets"`
	Jobs   JobsConfig   `toml:"jobs"`
	Weld   WeldConfig   `toml:"weld"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type AssetsConfig struct {
	/** @brief The relative base path for assets. */
	BasePath string `toml:"base_path"`
	/** @brief Watch the asset directory and re-index files on change. */
	Watch bool `toml:"watch"`
}

type JobsConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

type WeldConfig struct {
	/** @brief Either "hashed" or "linear". */
	Strategy string `toml:"strategy"`
	/** @brief Keep the triangle graph alive after welding for later edits. */
	KeepGraph bool `toml:"keep_graph"`
	/** @brief Emit plain triangle lists without neighbor indices. */
	StripAdjacency bool `toml:"strip_adjacency"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Assets: AssetsConfig{
			BasePath: "assets",
			Watch:    false,
		},
		Jobs: JobsConfig{
			Workers:   2,
			QueueSize: 16,
		},
		Weld: WeldConfig{
			Strategy:       "hashed",
			KeepGraph:      false,
			StripAdjacency: false,
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML data; keys that are missing keep their defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.Jobs.Workers <= 0 {
		return fmt.Errorf("%w: jobs.workers must be > 0", ErrInvalidConfig)
	}
	if c.Jobs.QueueSize < 0 {
		return fmt.Errorf("%w: jobs.queue_size must be >= 0", ErrInvalidConfig)
	}
	switch c.Weld.Strategy {
	case "hashed", "linear":
	default:
		return fmt.Errorf("%w: unknown weld strategy %q", ErrInvalidConfig, c.Weld.Strategy)
	}
	return nil
}

// Encode writes the configuration back to TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
