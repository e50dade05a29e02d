package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Screen.Width != 600 || cfg.Screen.Height != 900 {
		t.Errorf("expected 600x900 screen, got %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Pipe.Gap != 200 {
		t.Errorf("expected pipe gap 200, got %v", cfg.Pipe.Gap)
	}
	if cfg.Fitness.JumpThreshold != 0.5 {
		t.Errorf("expected jump threshold 0.5, got %v", cfg.Fitness.JumpThreshold)
	}
	if cfg.Training.Generations != 10 {
		t.Errorf("expected 10 generations, got %d", cfg.Training.Generations)
	}
	if cfg.Derived.BirdFrames != 3 {
		t.Errorf("expected 3 bird frames, got %d", cfg.Derived.BirdFrames)
	}
	if cfg.Derived.ScreenW32 != 600 {
		t.Errorf("expected derived width 600, got %v", cfg.Derived.ScreenW32)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	data := []byte("pipe:\n  gap: 150\ntraining:\n  generations: 50\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Pipe.Gap != 150 {
		t.Errorf("expected overridden gap 150, got %v", cfg.Pipe.Gap)
	}
	if cfg.Training.Generations != 50 {
		t.Errorf("expected overridden generations 50, got %d", cfg.Training.Generations)
	}
	// Untouched fields keep defaults
	if cfg.Pipe.Velocity != 5 {
		t.Errorf("expected default pipe velocity 5, got %v", cfg.Pipe.Velocity)
	}
	if cfg.Base.Y != 730 {
		t.Errorf("expected default base y 730, got %v", cfg.Base.Y)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty height range", func(c *Config) { c.Pipe.MaxHeight = c.Pipe.MinHeight }},
		{"zero gap", func(c *Config) { c.Pipe.Gap = 0 }},
		{"zero terminal", func(c *Config) { c.Bird.TerminalDisplacement = 0 }},
		{"no frames", func(c *Config) { c.Assets.BirdFrames = nil }},
		{"bad screen", func(c *Config) { c.Screen.Width = 0 }},
		{"negative generations", func(c *Config) { c.Training.Generations = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Pipe.Gap = 175

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot failed: %v", err)
	}
	if loaded.Pipe.Gap != 175 {
		t.Errorf("expected gap 175 after reload, got %v", loaded.Pipe.Gap)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected Cfg() to panic before Init")
		}
	}()
	Cfg()
}
