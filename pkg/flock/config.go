package flock

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid flock config")

//go:embed config.schema.json
var configSchema []byte

const configSchemaURL = "config.schema.json"

// BoidParams are the tuning constants shared by every boid of a flock.
type BoidParams struct {
	ProtectedRadius float64 `json:"protectedRadius" toml:"protectedRadius"` // separation applies inside
	VisualRadius    float64 `json:"visualRadius" toml:"visualRadius"`       // alignment/cohesion apply inside

	TurnFactor      float64 `json:"turnFactor" toml:"turnFactor"`           // separation and edge turning strength
	ScreenMargin    float64 `json:"screenMargin" toml:"screenMargin"`       // distance from an edge where turning starts
	MatchingFactor  float64 `json:"matchingFactor" toml:"matchingFactor"`   // alignment strength
	CenteringFactor float64 `json:"centeringFactor" toml:"centeringFactor"` // cohesion strength
	EscapeFactor    float64 `json:"escapeFactor" toml:"escapeFactor"`       // predator avoidance strength

	MinSpeed float64 `json:"minSpeed" toml:"minSpeed"`
	MaxSpeed float64 `json:"maxSpeed" toml:"maxSpeed"`
}

// PredatorParams drive the predator attack cycle.
type PredatorParams struct {
	// Circling lasts a random number of ticks in [MinTimer, MaxTimer],
	// then the attack lasts AttackDuration ticks.
	MinTimer       int `json:"minTimer" toml:"minTimer"`
	MaxTimer       int `json:"maxTimer" toml:"maxTimer"`
	AttackDuration int `json:"attackDuration" toml:"attackDuration"`

	CirclingFactor   float64 `json:"circlingFactor" toml:"circlingFactor"`
	CirclingMaxSpeed float64 `json:"circlingMaxSpeed" toml:"circlingMaxSpeed"`
	CenteringFactor  float64 `json:"centeringFactor" toml:"centeringFactor"`

	MinSpeed     float64 `json:"minSpeed" toml:"minSpeed"`
	MaxSpeed     float64 `json:"maxSpeed" toml:"maxSpeed"`
	TurnFactor   float64 `json:"turnFactor" toml:"turnFactor"`
	ScreenMargin float64 `json:"screenMargin" toml:"screenMargin"`
}

// WindParams drive the wind generator.
type WindParams struct {
	MaxWind          float64 `json:"maxWind" toml:"maxWind"` // per axis bound of any target
	TransitionLength int     `json:"transitionLength" toml:"transitionLength"`
	MinStableTicks   int     `json:"minStableTicks" toml:"minStableTicks"`
	MaxStableTicks   int     `json:"maxStableTicks" toml:"maxStableTicks"`
}

// Config is the construction-time scenario of a Simulation.
type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" toml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" toml:"worldHeight"`

	// Population
	FlockCount int `json:"flockCount" toml:"flockCount"`
	FlockSize  int `json:"flockSize" toml:"flockSize"`

	// Spatial grid cell edge, must exceed Boid.VisualRadius
	CellSize float64 `json:"cellSize" toml:"cellSize"`

	// Workers > 1 runs the steering pass of a flock on that many goroutines.
	Workers int `json:"workers" toml:"workers"`
	// Seed of the random source, 0 means seeded from the clock.
	Seed uint64 `json:"seed" toml:"seed"`

	PredatorEnabled bool `json:"predatorEnabled" toml:"predatorEnabled"`
	WindEnabled     bool `json:"windEnabled" toml:"windEnabled"`

	Boid     BoidParams     `json:"boid" toml:"boid"`
	Predator PredatorParams `json:"predator" toml:"predator"`
	Wind     WindParams     `json:"wind" toml:"wind"`
}

// DefaultConfig returns the scenario of the demo: three flocks of a hundred
// boids on a 80x50 tiles screen of 16 px, predator and wind on.
func DefaultConfig() *Config {
	return &Config{
		WorldWidth:      80 * 16,
		WorldHeight:     50 * 16,
		FlockCount:      3,
		FlockSize:       100,
		CellSize:        60,
		Workers:         1,
		PredatorEnabled: true,
		WindEnabled:     true,
		Boid: BoidParams{
			ProtectedRadius: 10,
			VisualRadius:    50,
			TurnFactor:      0.1,
			ScreenMargin:    200,
			MatchingFactor:  0.02,
			CenteringFactor: 0.001,
			EscapeFactor:    0.05,
			MinSpeed:        1,
			MaxSpeed:        5,
		},
		Predator: PredatorParams{
			MinTimer:         300,
			MaxTimer:         900,
			AttackDuration:   240,
			CirclingFactor:   0.002,
			CirclingMaxSpeed: 3,
			CenteringFactor:  0.005,
			MinSpeed:         1,
			MaxSpeed:         6,
			TurnFactor:       0.15,
			ScreenMargin:     150,
		},
		Wind: WindParams{
			MaxWind:          0.5,
			TransitionLength: 120,
			MinStableTicks:   300,
			MaxStableTicks:   900,
		},
	}
}

// Validate checks the invariants the simulation relies on.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.WorldWidth > 0 && c.WorldHeight > 0, "world size must be positive, got %vx%v", c.WorldWidth, c.WorldHeight)
	check(c.FlockCount >= 1, "flockCount must be at least 1, got %d", c.FlockCount)
	check(c.FlockSize >= 0, "flockSize must not be negative, got %d", c.FlockSize)
	check(c.Workers >= 0, "workers must not be negative, got %d", c.Workers)

	b := c.Boid
	check(b.ProtectedRadius >= 0 && b.VisualRadius >= 0, "boid radii must not be negative")
	check(b.ProtectedRadius <= b.VisualRadius, "protectedRadius %v exceeds visualRadius %v", b.ProtectedRadius, b.VisualRadius)
	// the 3x3 neighbour block only covers the visual radius when cells are larger
	check(c.CellSize > b.VisualRadius, "cellSize %v must exceed visualRadius %v", c.CellSize, b.VisualRadius)
	check(b.MinSpeed >= 0 && b.MinSpeed <= b.MaxSpeed, "boid speed bounds [%v, %v] are invalid", b.MinSpeed, b.MaxSpeed)
	check(2*b.ScreenMargin < c.WorldWidth && 2*b.ScreenMargin < c.WorldHeight,
		"boid screenMargin %v leaves no room between opposite margins", b.ScreenMargin)

	if c.PredatorEnabled {
		p := c.Predator
		check(p.MinTimer >= 0 && p.MaxTimer >= p.MinTimer, "predator timer bounds [%d, %d] are invalid", p.MinTimer, p.MaxTimer)
		check(p.AttackDuration >= 1, "predator attackDuration must be at least 1, got %d", p.AttackDuration)
		check(p.MinSpeed >= 0 && p.MinSpeed <= p.CirclingMaxSpeed && p.CirclingMaxSpeed <= p.MaxSpeed,
			"predator speeds must satisfy minSpeed <= circlingMaxSpeed <= maxSpeed")
		check(2*p.ScreenMargin < c.WorldWidth && 2*p.ScreenMargin < c.WorldHeight,
			"predator screenMargin %v leaves no room between opposite margins", p.ScreenMargin)
	}

	if c.WindEnabled {
		w := c.Wind
		check(w.MaxWind >= 0, "maxWind must not be negative, got %v", w.MaxWind)
		check(w.TransitionLength >= 1, "wind transitionLength must be at least 1, got %d", w.TransitionLength)
		check(w.MinStableTicks >= 0 && w.MaxStableTicks >= w.MinStableTicks,
			"wind stable ticks [%d, %d] are invalid", w.MinStableTicks, w.MaxStableTicks)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// LoadConfig loads a scenario from a JSON or TOML file, validates the document
// against the embedded schema and overlays it on DefaultConfig.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// TOML documents are converted to JSON so that one schema covers both formats
	if strings.EqualFold(filepath.Ext(configFile), ".toml") {
		var raw map[string]any
		if _, err := toml.Decode(string(b), &raw); err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
		if b, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("failed to convert config toml: %w", err)
		}
	}

	return ParseConfig(b)
}

// ParseConfig validates a JSON scenario document and overlays it on DefaultConfig.
func ParseConfig(document []byte) (*Config, error) {
	sch, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var v interface{}
	if err := json.Unmarshal(document, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(document, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(configSchemaURL, bytes.NewReader(configSchema)); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	sch, err := compiler.Compile(configSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
}
