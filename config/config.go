// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
// NEAT hyperparameters are not here: they live in the trainer's own config file.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Bird      BirdConfig      `yaml:"bird"`
	Pipe      PipeConfig      `yaml:"pipe"`
	Base      BaseConfig      `yaml:"base"`
	Fitness   FitnessConfig   `yaml:"fitness"`
	Training  TrainingConfig  `yaml:"training"`
	Assets    AssetsConfig    `yaml:"assets"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// BirdConfig holds bird kinematics and animation parameters.
type BirdConfig struct {
	StartX               float64 `yaml:"start_x"`
	StartY               float64 `yaml:"start_y"`
	JumpVelocity         float64 `yaml:"jump_velocity"`         // Negative = upwards
	Gravity              float64 `yaml:"gravity"`               // Coefficient of t^2 in the displacement arc
	TerminalDisplacement float64 `yaml:"terminal_displacement"` // Max fall per tick
	JumpBoost            float64 `yaml:"jump_boost"`            // Extra lift applied while rising
	MaxRotation          float64 `yaml:"max_rotation"`
	RotationVelocity     float64 `yaml:"rotation_velocity"`
	MinTilt              float64 `yaml:"min_tilt"`
	TiltHoldBand         float64 `yaml:"tilt_hold_band"` // Keep nose up until this far below the jump height
	NoseDiveTilt         float64 `yaml:"nose_dive_tilt"`
	AnimationTime        int     `yaml:"animation_time"` // Ticks per wing frame
}

// PipeConfig holds pipe spawning and scrolling parameters.
type PipeConfig struct {
	Gap       float64 `yaml:"gap"`
	Velocity  float64 `yaml:"velocity"`
	MinHeight int     `yaml:"min_height"` // Inclusive
	MaxHeight int     `yaml:"max_height"` // Exclusive
	InitialX  float64 `yaml:"initial_x"`
	SpawnX    float64 `yaml:"spawn_x"`
}

// BaseConfig holds ground strip parameters.
type BaseConfig struct {
	Y        float64 `yaml:"y"`
	Velocity float64 `yaml:"velocity"`
}

// FitnessConfig holds the reward shaping applied during a round.
type FitnessConfig struct {
	TickReward       float64 `yaml:"tick_reward"`
	PassBonus        float64 `yaml:"pass_bonus"`
	CollisionPenalty float64 `yaml:"collision_penalty"`
	JumpThreshold    float64 `yaml:"jump_threshold"`
}

// TrainingConfig holds generation loop settings.
type TrainingConfig struct {
	Generations          int     `yaml:"generations"`
	FitnessThreshold     float64 `yaml:"fitness_threshold"`
	NoFitnessTermination bool    `yaml:"no_fitness_termination"`
	MaxRoundTicks        int     `yaml:"max_round_ticks"` // 0 = unlimited
	StartConnectionProb  float64 `yaml:"start_connection_prob"`
	StepsPerUpdate       int     `yaml:"steps_per_update"`
}

// AssetsConfig holds paths to images and sounds, relative to Dir.
type AssetsConfig struct {
	Dir         string   `yaml:"dir"`
	BirdFrames  []string `yaml:"bird_frames"`
	Pipe        string   `yaml:"pipe"`
	Base        string   `yaml:"base"`
	Background  string   `yaml:"background"`
	PointSound  string   `yaml:"point_sound"`
	SpriteScale int      `yaml:"sprite_scale"`

	// Sprite sizes used when running without image files (already scaled).
	BirdWidth  int `yaml:"bird_width"`
	BirdHeight int `yaml:"bird_height"`
	PipeWidth  int `yaml:"pipe_width"`
	PipeHeight int `yaml:"pipe_height"`
	BaseWidth  int `yaml:"base_width"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32  float32
	ScreenH32  float32
	BirdFrames int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks values the simulation cannot run without.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Pipe.MaxHeight <= c.Pipe.MinHeight {
		return fmt.Errorf("pipe height range [%d, %d) is empty", c.Pipe.MinHeight, c.Pipe.MaxHeight)
	}
	if c.Pipe.Gap <= 0 {
		return fmt.Errorf("pipe gap must be positive, got %v", c.Pipe.Gap)
	}
	if c.Bird.TerminalDisplacement <= 0 {
		return fmt.Errorf("terminal displacement must be positive, got %v", c.Bird.TerminalDisplacement)
	}
	if c.Bird.AnimationTime <= 0 {
		return fmt.Errorf("animation time must be positive, got %d", c.Bird.AnimationTime)
	}
	if len(c.Assets.BirdFrames) == 0 {
		return fmt.Errorf("at least one bird frame is required")
	}
	if c.Assets.SpriteScale <= 0 {
		return fmt.Errorf("sprite scale must be positive, got %d", c.Assets.SpriteScale)
	}
	if c.Training.Generations < 0 {
		return fmt.Errorf("generations must not be negative, got %d", c.Training.Generations)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.BirdFrames = len(c.Assets.BirdFrames)

	if c.Training.StepsPerUpdate < 1 {
		c.Training.StepsPerUpdate = 1
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
