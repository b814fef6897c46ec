// pkg/config/config.go
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/opd-ai/go-armada/pkg/logging"
)

// EnvPrefix is the prefix of environment variables overriding configuration
// keys, e.g. ARMADA_COMBAT_AUTOTARGETING.
const EnvPrefix = "ARMADA"

// GameConfig contains configuration for a combat simulation
type GameConfig struct {
	Combat  CombatConfig  `json:"combat" mapstructure:"combat"`
	Physics PhysicsConfig `json:"physics" mapstructure:"physics"`
	Level   LevelConfig   `json:"level" mapstructure:"level"`
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`
}

// CombatConfig contains the combat rules
type CombatConfig struct {
	AutoTargeting string `json:"autoTargeting" mapstructure:"autoTargeting"`
	SelfFire      bool   `json:"selfFire" mapstructure:"selfFire"`
}

// PhysicsConfig contains the impulse timings used by the combat core
type PhysicsConfig struct {
	ThrusterBurstLengthMs   float64 `json:"thrusterBurstLengthMs" mapstructure:"thrusterBurstLengthMs"`
	ProjectileBurstLengthMs float64 `json:"projectileBurstLengthMs" mapstructure:"projectileBurstLengthMs"`
	HitImpulseBurstLengthMs float64 `json:"hitImpulseBurstLengthMs" mapstructure:"hitImpulseBurstLengthMs"`
}

// LevelConfig contains the level loop settings
type LevelConfig struct {
	TickMs      float64 `json:"tickMs" mapstructure:"tickMs"`
	Seed        uint64  `json:"seed" mapstructure:"seed"`
	SpawnRadius float64 `json:"spawnRadius" mapstructure:"spawnRadius"`
	ClassFile   string  `json:"classFile" mapstructure:"classFile"`
}

// MetricsConfig toggles the OpenTelemetry combat instruments
type MetricsConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Combat: CombatConfig{
			AutoTargeting: HitAndAutoTarget.String(),
			SelfFire:      false,
		},
		Physics: PhysicsConfig{
			ThrusterBurstLengthMs:   50,
			ProjectileBurstLengthMs: 50,
			HitImpulseBurstLengthMs: 50,
		},
		Level: LevelConfig{
			TickMs:      20,
			Seed:        1,
			SpawnRadius: 2000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// bind feeds every key of cfg to set, which is SetDefault or Set.
func bind(cfg *GameConfig, set func(key string, value any)) {
	set("combat.autoTargeting", cfg.Combat.AutoTargeting)
	set("combat.selfFire", cfg.Combat.SelfFire)
	set("physics.thrusterBurstLengthMs", cfg.Physics.ThrusterBurstLengthMs)
	set("physics.projectileBurstLengthMs", cfg.Physics.ProjectileBurstLengthMs)
	set("physics.hitImpulseBurstLengthMs", cfg.Physics.HitImpulseBurstLengthMs)
	set("level.tickMs", cfg.Level.TickMs)
	set("level.seed", cfg.Level.Seed)
	set("level.spawnRadius", cfg.Level.SpawnRadius)
	set("level.classFile", cfg.Level.ClassFile)
	set("metrics.enabled", cfg.Metrics.Enabled)
}

// newViper creates a viper instance seeded with base and bound to the
// ARMADA_ environment variables.
func newViper(base *GameConfig) *viper.Viper {
	v := viper.New()
	bind(base, v.SetDefault)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads a configuration from a JSON, YAML or TOML file. Missing
// keys keep their default values and environment variables win over the file.
func LoadConfig(path string) (*GameConfig, error) {
	v := newViper(DefaultConfig())
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, logging.WrapError(err, "failed to read config file")
	}

	var config GameConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, logging.WrapError(err, "failed to parse config file")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ApplyEnvironmentOverrides replaces values of cfg with the ones set through
// ARMADA_ environment variables.
func ApplyEnvironmentOverrides(cfg *GameConfig) error {
	v := newViper(cfg)
	if err := v.Unmarshal(cfg); err != nil {
		return logging.WrapError(err, "failed to apply environment overrides")
	}
	return cfg.Validate()
}

// SaveConfig saves a configuration to a file. The format follows the file
// extension.
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return fmt.Errorf("failed to marshal config: nil config")
	}
	v := viper.New()
	bind(config, v.Set)
	if err := v.WriteConfigAs(path); err != nil {
		return logging.WrapError(err, "failed to write config file")
	}
	return nil
}

// Validate checks the numeric settings. An unknown auto-targeting mode is not
// an error; it is reported and replaced when the mode is read.
func (c *GameConfig) Validate() error {
	if c.Level.TickMs <= 0 {
		return fmt.Errorf("invalid level.tickMs %v: must be positive", c.Level.TickMs)
	}
	if c.Level.SpawnRadius < 0 {
		return fmt.Errorf("invalid level.spawnRadius %v: must not be negative", c.Level.SpawnRadius)
	}
	if c.Physics.ThrusterBurstLengthMs <= 0 {
		return fmt.Errorf("invalid physics.thrusterBurstLengthMs %v: must be positive", c.Physics.ThrusterBurstLengthMs)
	}
	if c.Physics.ProjectileBurstLengthMs <= 0 {
		return fmt.Errorf("invalid physics.projectileBurstLengthMs %v: must be positive", c.Physics.ProjectileBurstLengthMs)
	}
	if c.Physics.HitImpulseBurstLengthMs <= 0 {
		return fmt.Errorf("invalid physics.hitImpulseBurstLengthMs %v: must be positive", c.Physics.HitImpulseBurstLengthMs)
	}
	return nil
}

// AutoTargetingMode parses the configured auto-targeting mode, logging a
// warning and falling back to HitAndAutoTarget when it is not recognized.
func (c CombatConfig) AutoTargetingMode(ctx context.Context, logger *logging.Logger) AutoTargeting {
	mode, err := ParseAutoTargeting(c.AutoTargeting)
	if err != nil {
		if logger != nil {
			logger.Warn(ctx, "Invalid auto-targeting mode, using default",
				"value", c.AutoTargeting,
				"default", HitAndAutoTarget.String(),
			)
		}
		return HitAndAutoTarget
	}
	return mode
}
