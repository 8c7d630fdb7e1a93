package flock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v; want nil", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.WorldWidth = 0 }},
		{"no flock", func(c *Config) { c.FlockCount = 0 }},
		{"negative flock size", func(c *Config) { c.FlockSize = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"cell equals visual radius", func(c *Config) { c.CellSize = c.Boid.VisualRadius }},
		{"cell smaller than visual radius", func(c *Config) { c.CellSize = 20 }},
		{"protected beyond visual", func(c *Config) { c.Boid.ProtectedRadius = 60 }},
		{"min speed above max", func(c *Config) { c.Boid.MinSpeed = 6 }},
		{"overlapping margins", func(c *Config) { c.Boid.ScreenMargin = 500 }},
		{"predator timers reversed", func(c *Config) { c.Predator.MinTimer, c.Predator.MaxTimer = 10, 5 }},
		{"predator without attack", func(c *Config) { c.Predator.AttackDuration = 0 }},
		{"predator circling faster than max", func(c *Config) { c.Predator.CirclingMaxSpeed = 10 }},
		{"wind without transition", func(c *Config) { c.Wind.TransitionLength = 0 }},
		{"wind stable ticks reversed", func(c *Config) { c.Wind.MinStableTicks, c.Wind.MaxStableTicks = 9, 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v; want an error wrapping ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_Validate_DisabledFeaturesAreNotChecked(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PredatorEnabled = false
	cfg.WindEnabled = false
	cfg.Predator = PredatorParams{}
	cfg.Wind = WindParams{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v; want nil when predator and wind are off", err)
	}
}

func TestParseConfig_OverlaysDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"flockSize": 10, "seed": 7, "boid": {"maxSpeed": 4}}`))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.FlockSize != 10 || cfg.Seed != 7 {
		t.Errorf("got flockSize=%d seed=%d; want 10 and 7", cfg.FlockSize, cfg.Seed)
	}
	if cfg.Boid.MaxSpeed != 4 {
		t.Errorf("Boid.MaxSpeed = %v; want 4", cfg.Boid.MaxSpeed)
	}
	def := DefaultConfig()
	if cfg.Boid.MinSpeed != def.Boid.MinSpeed || cfg.FlockCount != def.FlockCount {
		t.Errorf("fields absent from the document must keep their defaults, got %+v", cfg)
	}
}

func TestParseConfig_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantInvalid bool // semantic failure rather than schema failure
	}{
		{"malformed json", `{"flockSize": `, false},
		{"unknown property", `{"flockSize": 10, "colour": "red"}`, false},
		{"wrong type", `{"flockSize": "ten"}`, false},
		{"schema minimum", `{"flockCount": 0}`, false},
		{"cell too small for the visual radius", `{"cellSize": 40}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.doc))
			if err == nil {
				t.Fatalf("ParseConfig(%s) succeeded; want error", tt.doc)
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.wantInvalid {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = %v; want %v (err: %v)", got, tt.wantInvalid, err)
			}
		})
	}
}

func TestLoadConfig_Formats(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "scenario.json")
	if err := os.WriteFile(jsonPath, []byte(`{"flockCount": 2, "windEnabled": false}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tomlPath := filepath.Join(dir, "scenario.toml")
	tomlDoc := `
flockCount = 2
windEnabled = false
cellSize = 75.0

[boid]
visualRadius = 70.0
`
	if err := os.WriteFile(tomlPath, []byte(tomlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, tomlPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig(%s) error = %v", path, err)
			}
			if cfg.FlockCount != 2 || cfg.WindEnabled {
				t.Errorf("got flockCount=%d windEnabled=%v; want 2 and false", cfg.FlockCount, cfg.WindEnabled)
			}
		})
	}

	cfg, err := LoadConfig(tomlPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CellSize != 75 || cfg.Boid.VisualRadius != 70 {
		t.Errorf("toml nested values not applied: cellSize=%v visualRadius=%v", cfg.CellSize, cfg.Boid.VisualRadius)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadConfig on a missing file succeeded; want error")
	}
}

func TestLoadConfig_ShippedScenarios(t *testing.T) {
	for _, path := range []string{"../../configs/flock.json", "../../configs/flock.toml"} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			if _, err := LoadConfig(path); err != nil {
				t.Errorf("LoadConfig(%s) error = %v", path, err)
			}
		})
	}
}
