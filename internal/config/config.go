// Package config loads settings from defaults, an optional file and
// TRENCHLINE_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "TRENCHLINE"

// Config is the fully resolved configuration.
type Config struct {
	LogLevel  string  `mapstructure:"logLevel"`
	AssetsDir string  `mapstructure:"assetsDir"`
	TileSize  float64 `mapstructure:"tileSize"`

	Window  WindowConfig  `mapstructure:"window"`
	Sim     SimConfig     `mapstructure:"sim"`
	Graylog GraylogConfig `mapstructure:"graylog"`
	Store   StoreConfig   `mapstructure:"store"`
	Influx  InfluxConfig  `mapstructure:"influx"`
	Audio   AudioConfig   `mapstructure:"audio"`
}

type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// SimConfig tunes the simulation driver. MaxDelta caps a single step so a
// stalled frame cannot tunnel rounds through soldiers.
type SimConfig struct {
	AnimFPS  float64 `mapstructure:"animFps"`
	MaxDelta float64 `mapstructure:"maxDelta"`
}

type GraylogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// StoreConfig selects the after-action database. Driver is "sqlite" or
// "postgres"; an empty DSN disables persistence.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type InfluxConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	Org     string `mapstructure:"org"`
	Bucket  string `mapstructure:"bucket"`
}

type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("assetsDir", "")
	v.SetDefault("tileSize", 32.0)

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)

	v.SetDefault("sim.animFps", 12.0)
	v.SetDefault("sim.maxDelta", 0.05)

	v.SetDefault("graylog.enabled", false)
	v.SetDefault("graylog.address", "localhost:12201")

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "")

	v.SetDefault("influx.enabled", false)
	v.SetDefault("influx.url", "http://localhost:8086")
	v.SetDefault("influx.token", "")
	v.SetDefault("influx.org", "trenchline")
	v.SetDefault("influx.bucket", "battles")

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", -1.0)
}

// Load resolves the configuration. With an empty path a trenchline.* file in
// the working directory is used if present; a named file must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("trenchline")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("tileSize %v must be positive", c.TileSize)
	case c.Sim.AnimFPS <= 0:
		return fmt.Errorf("sim.animFps %v must be positive", c.Sim.AnimFPS)
	case c.Sim.MaxDelta <= 0:
		return fmt.Errorf("sim.maxDelta %v must be positive", c.Sim.MaxDelta)
	case c.Store.Driver != "sqlite" && c.Store.Driver != "postgres":
		return fmt.Errorf("store.driver %q: want sqlite or postgres", c.Store.Driver)
	}
	return nil
}
