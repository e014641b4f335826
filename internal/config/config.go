// Package config provides Viper-based configuration loading for the fight simulator.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yopox/decade-jam/internal/game/stats"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// DefaultLogOutput keeps logs off stdout, where transcripts are printed.
const DefaultLogOutput = "stderr"

// OutputPath returns Output, or DefaultLogOutput when it is unset.
func (l LoggingConfig) OutputPath() string {
	if l.Output == "" {
		return DefaultLogOutput
	}
	return l.Output
}

// SimulationConfig holds fight scheduling settings.
type SimulationConfig struct {
	// MaxTurns is the turn cap after which a fight is a draw.
	MaxTurns int `mapstructure:"max_turns"`
	// Parallelism bounds how many fights run at once.
	Parallelism int `mapstructure:"parallelism"`
	// Timeout bounds a whole run; 0 disables it.
	Timeout time.Duration `mapstructure:"timeout"`
}

// ContentConfig locates the content directory.
type ContentConfig struct {
	// Dir holds fighters/, weapons/, statuses/ and matchups.yaml.
	// Empty means built-in content only.
	Dir string `mapstructure:"dir"`
}

// ElementConfig overrides one row of the element weight table.
type ElementConfig struct {
	Element    string        `mapstructure:"element"`
	AttackType string        `mapstructure:"attack_type"`
	Attack     stats.Weights `mapstructure:"attack"`
	Defense    stats.Weights `mapstructure:"defense"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Content    ContentConfig    `mapstructure:"content"`
	Elements   []ElementConfig  `mapstructure:"elements"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := c.ElementTable(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ElementTable returns the default weight table with every configured row
// replacing its default.
//
// Postcondition: a nil error guarantees the table validates.
func (c Config) ElementTable() (stats.Table, error) {
	table := stats.DefaultTable()
	var errs []string
	seen := map[stats.Key]bool{}
	for i, ec := range c.Elements {
		e, err := stats.ParseElement(ec.Element)
		if err != nil {
			errs = append(errs, fmt.Sprintf("elements[%d].element: %v", i, err))
			continue
		}
		k, err := stats.ParseAttackType(ec.AttackType)
		if err != nil {
			errs = append(errs, fmt.Sprintf("elements[%d].attack_type: %v", i, err))
			continue
		}
		key := stats.Key{Element: e, Type: k}
		if seen[key] {
			errs = append(errs, fmt.Sprintf("elements[%d]: %s/%s configured twice", i, e, k))
			continue
		}
		seen[key] = true
		table[key] = stats.Profile{Attack: ec.Attack, Defense: ec.Defense}
	}
	if len(errs) == 0 {
		if err := table.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return nil, errors.New(strings.Join(errs, "; "))
	}
	return table, nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_turns must be >= 1, got %d", s.MaxTurns))
	}
	if s.Parallelism < 1 {
		errs = append(errs, fmt.Sprintf("simulation.parallelism must be >= 1, got %d", s.Parallelism))
	}
	if s.Timeout < 0 {
		errs = append(errs, "simulation.timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with FIGHTSIM_ prefix
	v.SetEnvPrefix("FIGHTSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", DefaultLogOutput)

	v.SetDefault("simulation.max_turns", 50)
	v.SetDefault("simulation.parallelism", 4)
	v.SetDefault("simulation.timeout", "0s")

	v.SetDefault("content.dir", "")
}
