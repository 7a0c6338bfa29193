package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so TOML files can write "16ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config is the engine configuration, decoded from TOML.
type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Pool       PoolConfig       `toml:"pool"`
	Logging    LoggingConfig    `toml:"logging"`
}

// SimulationConfig tunes the fixed-timestep loop and physics.
type SimulationConfig struct {
	// Tick is the fixed simulation step, independent of render frame time.
	Tick Duration `toml:"tick"`

	// MaxSubSteps caps how many fixed steps a single render frame may
	// run. Hitting the cap discards the remaining accumulated time
	// instead of simulating an unbounded catch-up.
	MaxSubSteps int `toml:"max_sub_steps"`

	// Gravity is the constant downward acceleration in world units/s²
	// (Y grows downward, so this is positive).
	Gravity float64 `toml:"gravity"`

	// CellSize is the broad-phase grid cell edge length in world units.
	CellSize float64 `toml:"cell_size"`

	// MaxSpeed clamps body velocity magnitude for stability.
	MaxSpeed float64 `toml:"max_speed"`
}

// PoolConfig sizes the transient-entity pool.
type PoolConfig struct {
	Capacity int `toml:"capacity"`
}

// LoggingConfig selects the zap logger profile.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			Tick:        Duration{time.Second / 60},
			MaxSubSteps: 5,
			Gravity:     900,
			CellSize:    64,
			MaxSpeed:    2000,
		},
		Pool: PoolConfig{
			Capacity: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a TOML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the loop cannot run with.
func (c Config) Validate() error {
	s := c.Simulation
	if s.Tick.Duration <= 0 {
		return fmt.Errorf("simulation.tick must be positive, got %s", s.Tick)
	}
	if s.MaxSubSteps < 1 {
		return fmt.Errorf("simulation.max_sub_steps must be at least 1, got %d", s.MaxSubSteps)
	}
	if s.CellSize <= 0 {
		return fmt.Errorf("simulation.cell_size must be positive, got %g", s.CellSize)
	}
	if s.MaxSpeed <= 0 {
		return fmt.Errorf("simulation.max_speed must be positive, got %g", s.MaxSpeed)
	}
	if c.Pool.Capacity < 0 {
		return fmt.Errorf("pool.capacity must not be negative, got %d", c.Pool.Capacity)
	}
	return nil
}
