package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRows      = 10
	DefaultCols      = 8
	DefaultRefreshMs = 1000
	DefaultLogLevel  = "info"
)

var (
	ErrRows    = errors.New("config: rows must be positive")
	ErrCols    = errors.New("config: cols must be positive")
	ErrRefresh = errors.New("config: refresh_ms must be positive")
)

type Config struct {
	Rows      int           `yaml:"rows"`
	Cols      int           `yaml:"cols"`
	RefreshMs int           `yaml:"refresh_ms"`
	InitFile  string        `yaml:"init_file"`
	Seed      int64         `yaml:"seed"`
	Preset    string        `yaml:"preset"`
	Palette   PaletteConfig `yaml:"palette"`
	LogLevel  string        `yaml:"log_level"`
}

// PaletteConfig holds cell background colours as hex strings.
type PaletteConfig struct {
	Charged string `yaml:"charged"`
	Empty   string `yaml:"empty"`
}

func DefaultConfig() *Config {
	return &Config{
		Rows:      DefaultRows,
		Cols:      DefaultCols,
		RefreshMs: DefaultRefreshMs,
		Palette: PaletteConfig{
			Charged: "#90ee90",
			Empty:   "#add8e6",
		},
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Rows <= 0:
		return ErrRows
	case c.Cols <= 0:
		return ErrCols
	case c.RefreshMs <= 0:
		return ErrRefresh
	}
	return nil
}

func (c *Config) Refresh() time.Duration {
	return time.Duration(c.RefreshMs) * time.Millisecond
}
