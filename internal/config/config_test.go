package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yopox/decade-jam/internal/game/stats"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Simulation: SimulationConfig{
			MaxTurns:    50,
			Parallelism: 4,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestElementTable_DefaultsWhenUnset(t *testing.T) {
	table, err := validConfig().ElementTable()
	require.NoError(t, err)
	assert.Equal(t, stats.DefaultTable(), table)
}

func TestElementTable_OverridesOneRow(t *testing.T) {
	cfg := validConfig()
	cfg.Elements = []ElementConfig{{
		Element:    "natural",
		AttackType: "magical",
		Attack:     stats.Weights{Nature: 1},
		Defense:    stats.Weights{Defense: 1},
	}}
	table, err := cfg.ElementTable()
	require.NoError(t, err)
	key := stats.Key{Element: stats.Natural, Type: stats.Magical}
	assert.Equal(t, stats.Profile{Attack: stats.Weights{Nature: 1}, Defense: stats.Weights{Defense: 1}}, table[key])
	assert.Equal(t, stats.DefaultTable()[stats.Key{Element: stats.Neutral, Type: stats.Physical}], table[stats.Key{Element: stats.Neutral, Type: stats.Physical}])
}

func TestElementTable_Errors(t *testing.T) {
	tests := []struct {
		name  string
		elems []ElementConfig
		want  string
	}{
		{"unknown element", []ElementConfig{{Element: "water", AttackType: "physical", Attack: stats.Weights{Attack: 1}, Defense: stats.Weights{Defense: 1}}}, "elements[0].element"},
		{"unknown type", []ElementConfig{{Element: "neutral", AttackType: "psychic", Attack: stats.Weights{Attack: 1}, Defense: stats.Weights{Defense: 1}}}, "elements[0].attack_type"},
		{"no positive weight", []ElementConfig{{Element: "neutral", AttackType: "physical", Attack: stats.Weights{Attack: -1}, Defense: stats.Weights{Defense: 1}}}, "no positive component"},
		{"duplicate", []ElementConfig{
			{Element: "demonic", AttackType: "magical", Attack: stats.Weights{Demon: 1}, Defense: stats.Weights{Demon: 1}},
			{Element: "demon", AttackType: "Magical", Attack: stats.Weights{Demon: 2}, Defense: stats.Weights{Demon: 2}},
		}, "configured twice"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Elements = tc.elems
			_, err := cfg.ElementTable()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
simulation:
  max_turns: 20
  parallelism: 2
  timeout: 30s
content:
  dir: ./content
elements:
  - element: neutral
    attack_type: physical
    attack: {attack: 2, speed: 1}
    defense: {defense: 3}
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, 20, cfg.Simulation.MaxTurns)
	assert.Equal(t, 2, cfg.Simulation.Parallelism)
	assert.Equal(t, 30*time.Second, cfg.Simulation.Timeout)
	assert.Equal(t, "./content", cfg.Content.Dir)
	require.Len(t, cfg.Elements, 1)
	assert.Equal(t, stats.Weights{Attack: 2, Speed: 1}, cfg.Elements[0].Attack)

	table, err := cfg.ElementTable()
	require.NoError(t, err)
	assert.Equal(t, stats.Weights{Defense: 3}, table[stats.Key{Element: stats.Neutral, Type: stats.Physical}].Defense)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 50, cfg.Simulation.MaxTurns)
	assert.Equal(t, 4, cfg.Simulation.Parallelism)
	assert.Zero(t, cfg.Simulation.Timeout)
	assert.Empty(t, cfg.Content.Dir)
	assert.Empty(t, cfg.Elements)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FIGHTSIM_SIMULATION_MAX_TURNS", "7")
	t.Setenv("FIGHTSIM_LOGGING_LEVEL", "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Simulation.MaxTurns)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/fightsim.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: loud
simulation:
  max_turns: 0
  parallelism: 0
`), 0644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "simulation.max_turns")
	assert.Contains(t, err.Error(), "simulation.parallelism")
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("simulation.parallelism", 9)
	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Simulation.Parallelism)
}

func TestLoggingConfig_OutputPath(t *testing.T) {
	assert.Equal(t, DefaultLogOutput, LoggingConfig{}.OutputPath())
	assert.Equal(t, "/tmp/sim.log", LoggingConfig{Output: "/tmp/sim.log"}.OutputPath())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLogOutput, cfg.Logging.Output)
}

func TestValidate_LoggingErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.ErrorContains(t, cfg.Validate(), "logging.format")

	cfg = validConfig()
	cfg.Logging.Output = ""
	assert.ErrorContains(t, cfg.Validate(), "logging.output")
}

func TestProperty_SimulationBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := validConfig()
		cfg.Simulation.MaxTurns = rapid.IntRange(-5, 500).Draw(rt, "max_turns")
		cfg.Simulation.Parallelism = rapid.IntRange(-5, 64).Draw(rt, "parallelism")
		err := cfg.Validate()
		if cfg.Simulation.MaxTurns >= 1 && cfg.Simulation.Parallelism >= 1 {
			assert.NoError(rt, err)
		} else {
			assert.Error(rt, err)
		}
	})
}
