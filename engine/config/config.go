// Package config loads oxy-life settings from defaults, an optional config file and OXY_LIFE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/gridbuffer"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Grid       GridConfig       `mapstructure:"grid" yaml:"grid" toml:"grid"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation" toml:"simulation"`
	Window     WindowConfig     `mapstructure:"window" yaml:"window" toml:"window"`
	Renderer   RendererConfig   `mapstructure:"renderer" yaml:"renderer" toml:"renderer"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging" toml:"logging"`
	Profiling  ProfilingConfig  `mapstructure:"profiling" yaml:"profiling" toml:"profiling"`
}

type GridConfig struct {
	Width    int    `mapstructure:"width" yaml:"width" toml:"width"`
	Height   int    `mapstructure:"height" yaml:"height" toml:"height"`
	Topology string `mapstructure:"topology" yaml:"topology" toml:"topology"`
	Rule     string `mapstructure:"rule" yaml:"rule" toml:"rule"`
	Strategy string `mapstructure:"strategy" yaml:"strategy" toml:"strategy"`
}

type SimulationConfig struct {
	StepInterval float64    `mapstructure:"step_interval" yaml:"step_interval" toml:"step_interval"`
	Paused       bool       `mapstructure:"paused" yaml:"paused" toml:"paused"`
	Seed         SeedConfig `mapstructure:"seed" yaml:"seed" toml:"seed"`
}

// SeedConfig selects the initial-state provider.
type SeedConfig struct {
	// Provider is one of noise, pattern, image or empty.
	Provider string  `mapstructure:"provider" yaml:"provider" toml:"provider"`
	Seed     uint64  `mapstructure:"seed" yaml:"seed" toml:"seed"`
	Density  float64 `mapstructure:"density" yaml:"density" toml:"density"`
	// Pattern is a built-in pattern name or a path to a plaintext .cells file.
	Pattern string `mapstructure:"pattern" yaml:"pattern" toml:"pattern"`
	Image   string `mapstructure:"image" yaml:"image" toml:"image"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width" yaml:"width" toml:"width"`
	Height int    `mapstructure:"height" yaml:"height" toml:"height"`
	Title  string `mapstructure:"title" yaml:"title" toml:"title"`
	VSync  bool   `mapstructure:"vsync" yaml:"vsync" toml:"vsync"`
}

type RendererConfig struct {
	Backend       string `mapstructure:"backend" yaml:"backend" toml:"backend"`
	ForceFallback bool   `mapstructure:"force_fallback" yaml:"force_fallback" toml:"force_fallback"`
	Workers       int    `mapstructure:"workers" yaml:"workers" toml:"workers"`
	TextureBudget int    `mapstructure:"texture_budget" yaml:"texture_budget" toml:"texture_budget"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level" yaml:"level" toml:"level"`
	File    string `mapstructure:"file" yaml:"file" toml:"file"`
	Console bool   `mapstructure:"console" yaml:"console" toml:"console"`
}

type ProfilingConfig struct {
	Enabled  bool    `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	Interval float64 `mapstructure:"interval" yaml:"interval" toml:"interval"`
}

var (
	validProviders = []string{"noise", "pattern", "image", "empty"}
	validBackends  = []string{"wgpu", "software"}
	validLevels    = []string{"trace", "debug", "info", "warn", "error"}
)

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Width:    512,
			Height:   512,
			Topology: grid.TopologyToroidal.String(),
			Rule:     grid.Conway.String(),
			Strategy: gridbuffer.StrategyPingPong.String(),
		},
		Simulation: SimulationConfig{
			StepInterval: 0.05,
			Seed: SeedConfig{
				Provider: "noise",
				Density:  0.3,
				Pattern:  "glider",
			},
		},
		Window: WindowConfig{
			Width:  1024,
			Height: 1024,
			Title:  "oxy-life",
			VSync:  true,
		},
		Renderer: RendererConfig{
			Backend: "wgpu",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
		Profiling: ProfilingConfig{
			Interval: 1,
		},
	}
}

// LoadOption customises the viper instance used by Load, typically to bind command line flags.
type LoadOption func(v *viper.Viper) error

// Load loads configuration from flags, environment, file, and defaults, in that order of precedence.
// A missing config file is not an error when none was named explicitly.
//
// Parameters:
//   - cfgFile: an explicit config file, or "" to search $HOME/.oxy-life and the working directory
//   - opts: options applied to the viper instance before reading
//
// Returns:
//   - *Config: the loaded and validated configuration
//   - error: a read, decode or validation error
func Load(cfgFile string, opts ...LoadOption) (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()
	setDefaults(v, cfg)
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("binding config: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".oxy-life"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("OXY_LIFE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.Simulation.Seed.Image = expandPath(cfg.Simulation.Seed.Image)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("%w: grid dimensions must be greater than zero, got %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height)
	}
	if _, err := grid.ParseTopology(c.Grid.Topology); err != nil {
		return fmt.Errorf("%w: grid.topology: %w", ErrInvalid, err)
	}
	if _, err := grid.ParseRule(c.Grid.Rule); err != nil {
		return fmt.Errorf("%w: grid.rule: %w", ErrInvalid, err)
	}
	if _, err := gridbuffer.ParseStrategy(c.Grid.Strategy); err != nil {
		return fmt.Errorf("%w: grid.strategy: %w", ErrInvalid, err)
	}
	if c.Simulation.StepInterval < 0 {
		return fmt.Errorf("%w: simulation.step_interval must be >= 0", ErrInvalid)
	}
	if !slices.Contains(validProviders, c.Simulation.Seed.Provider) {
		return fmt.Errorf("%w: simulation.seed.provider must be one of: %v", ErrInvalid, validProviders)
	}
	if d := c.Simulation.Seed.Density; d < 0 || d > 1 {
		return fmt.Errorf("%w: simulation.seed.density must be between 0 and 1", ErrInvalid)
	}
	if c.Simulation.Seed.Provider == "image" && c.Simulation.Seed.Image == "" {
		return fmt.Errorf("%w: simulation.seed.image is required for the image provider", ErrInvalid)
	}
	if !slices.Contains(validBackends, c.Renderer.Backend) {
		return fmt.Errorf("%w: renderer.backend must be one of: %v", ErrInvalid, validBackends)
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("%w: logging.level must be one of: %v", ErrInvalid, validLevels)
	}
	if c.Profiling.Enabled && c.Profiling.Interval <= 0 {
		return fmt.Errorf("%w: profiling.interval must be greater than zero", ErrInvalid)
	}
	return nil
}

// Topology returns the parsed grid topology. Only valid after Validate.
func (c *Config) Topology() grid.Topology {
	t, _ := grid.ParseTopology(c.Grid.Topology)
	return t
}

// Rule returns the parsed birth/survival rule. Only valid after Validate.
func (c *Config) Rule() grid.Rule {
	r, _ := grid.ParseRule(c.Grid.Rule)
	return r
}

// Strategy returns the parsed buffer strategy. Only valid after Validate.
func (c *Config) Strategy() gridbuffer.Strategy {
	s, _ := gridbuffer.ParseStrategy(c.Grid.Strategy)
	return s
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("grid.width", cfg.Grid.Width)
	v.SetDefault("grid.height", cfg.Grid.Height)
	v.SetDefault("grid.topology", cfg.Grid.Topology)
	v.SetDefault("grid.rule", cfg.Grid.Rule)
	v.SetDefault("grid.strategy", cfg.Grid.Strategy)

	v.SetDefault("simulation.step_interval", cfg.Simulation.StepInterval)
	v.SetDefault("simulation.paused", cfg.Simulation.Paused)
	v.SetDefault("simulation.seed.provider", cfg.Simulation.Seed.Provider)
	v.SetDefault("simulation.seed.seed", cfg.Simulation.Seed.Seed)
	v.SetDefault("simulation.seed.density", cfg.Simulation.Seed.Density)
	v.SetDefault("simulation.seed.pattern", cfg.Simulation.Seed.Pattern)
	v.SetDefault("simulation.seed.image", cfg.Simulation.Seed.Image)

	v.SetDefault("window.width", cfg.Window.Width)
	v.SetDefault("window.height", cfg.Window.Height)
	v.SetDefault("window.title", cfg.Window.Title)
	v.SetDefault("window.vsync", cfg.Window.VSync)

	v.SetDefault("renderer.backend", cfg.Renderer.Backend)
	v.SetDefault("renderer.force_fallback", cfg.Renderer.ForceFallback)
	v.SetDefault("renderer.workers", cfg.Renderer.Workers)
	v.SetDefault("renderer.texture_budget", cfg.Renderer.TextureBudget)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)

	v.SetDefault("profiling.enabled", cfg.Profiling.Enabled)
	v.SetDefault("profiling.interval", cfg.Profiling.Interval)
}
