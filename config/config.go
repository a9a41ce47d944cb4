// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	World        WorldConfig        `yaml:"world"`
	Clock        ClockConfig        `yaml:"clock"`
	Environment  EnvironmentConfig  `yaml:"environment"`
	Population   PopulationConfig   `yaml:"population"`
	Founder      FounderConfig      `yaml:"founder"`
	Metabolism   MetabolismConfig   `yaml:"metabolism"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Item         ItemConfig         `yaml:"item"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Server       ServerConfig       `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the toroidal world dimensions and spatial grid resolution.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// ClockConfig controls how tick durations are chosen.
type ClockConfig struct {
	DT             float64 `yaml:"dt"`               // Fixed tick duration in seconds
	MaxDT          float64 `yaml:"max_dt"`           // Upper bound for measured tick durations
	Measured       bool    `yaml:"measured"`         // Use wall-clock frame time in graphical mode
	StepsPerUpdate int     `yaml:"steps_per_update"` // Ticks per update call
}

// EnvironmentConfig holds collaborator parameters for the environment.
type EnvironmentConfig struct {
	SpeedScale float64     `yaml:"speed_scale"` // envSpeedScale divisor used by random movement
	Light      LightConfig `yaml:"light"`
}

// LightConfig selects the light model.
type LightConfig struct {
	Model     string  `yaml:"model"`     // "constant" or "noise"
	Intensity float64 `yaml:"intensity"` // Constant intensity, or mean intensity for noise
	Amplitude float64 `yaml:"amplitude"` // Noise amplitude around the mean
	Scale     float64 `yaml:"scale"`     // Noise spatial frequency
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial          int `yaml:"initial"`
	ReproductionGate int `yaml:"reproduction_gate"` // Reproduction only when live count <= this
	AbsoluteCap      int `yaml:"absolute_cap"`      // Forced culling above this
}

// FounderConfig is the full initial trait set for seeded agents.
type FounderConfig struct {
	MaxHealth                float64 `yaml:"max_health"`
	MaxEnergy                float64 `yaml:"max_energy"`
	ReproductionThreshold    float64 `yaml:"reproduction_threshold"`
	ReproductionEnergyCost   float64 `yaml:"reproduction_energy_cost"`
	ReproductionCooldown     float64 `yaml:"reproduction_cooldown"`
	ReproductionRange        float64 `yaml:"reproduction_range"`
	SuicideCountdown         float64 `yaml:"suicide_countdown"`
	HeatGenerationRate       float64 `yaml:"heat_generation_rate"`
	HeatRadius               float64 `yaml:"heat_radius"`
	MetabolicRate            float64 `yaml:"metabolic_rate"`
	PhotosynthesisRate       float64 `yaml:"photosynthesis_rate"`
	PhotosynthesisEfficiency float64 `yaml:"photosynthesis_efficiency"`
	RespirationRate          float64 `yaml:"respiration_rate"`
	HeatResistance           float64 `yaml:"heat_resistance"`
	HeatProductionRate       float64 `yaml:"heat_production_rate"`
	HeatProductionEfficiency float64 `yaml:"heat_production_efficiency"`
	HeatDissipationRate      float64 `yaml:"heat_dissipation_rate"`
	BaseSpeed                float64 `yaml:"base_speed"`
	MaxSpeed                 float64 `yaml:"max_speed"`
	AgingRate                float64 `yaml:"aging_rate"`

	Photosynthesis bool `yaml:"photosynthesis"`
	GeneratingHeat bool `yaml:"generating_heat"`
	HarnessHeat    bool `yaml:"harness_heat"`
	CollectEnergy  bool `yaml:"collect_energy"`
	CanSuicide     bool `yaml:"can_suicide"`
}

// MetabolismConfig holds the constants of the per-tick agent update.
type MetabolismConfig struct {
	HealthRegenDivisor  float64 `yaml:"health_regen_divisor"`  // health += energy / this
	DeficitDamageFactor float64 `yaml:"deficit_damage_factor"` // damage = |energy| * this
	HarnessSpeedMin     float64 `yaml:"harness_speed_min"`     // Heat harvesters move at least this fast
	HarnessSpeedMax     float64 `yaml:"harness_speed_max"`     // Upper bound of the re-rolled speed
	MobileSpeed         float64 `yaml:"mobile_speed"`          // baseSpeed set by StopPhotosynthesis
	HeatTransferDivisor float64 `yaml:"heat_transfer_divisor"` // transfer = rate * resistance / this
	BaseReproCooldown   float64 `yaml:"base_repro_cooldown"`   // Cooldown after reproducing, before jitter
}

// ReproductionConfig holds offspring placement and inheritance parameters.
type ReproductionConfig struct {
	SearchRadius    float64 `yaml:"search_radius"`    // Candidate spawn point offset magnitude
	OccupancyRadius float64 `yaml:"occupancy_radius"` // Radius that must be free of other agents
	MaxRetries      int     `yaml:"max_retries"`      // Occupied-slot retries before giving up
	ChildOffset     float64 `yaml:"child_offset"`     // Child placement offset from the parent
	ChildCooldown   float64 `yaml:"child_cooldown"`
	SuicideJitter   float64 `yaml:"suicide_jitter"`   // Child suicideTimer = U(-j, j) * SuicideFactor
	SuicideFactor   float64 `yaml:"suicide_factor"`
	ChildInit       string  `yaml:"child_init"`       // "literal" or "reinitialize"
}

// MutationConfig holds offspring mutation parameters.
type MutationConfig struct {
	SpeedJitter          float64 `yaml:"speed_jitter"`
	MaxHealthJitter      float64 `yaml:"max_health_jitter"`
	MaxEnergyJitter      float64 `yaml:"max_energy_jitter"`
	PhotosynthesisToggle float64 `yaml:"photosynthesis_toggle"` // Probability per birth
	HarnessToggle        float64 `yaml:"harness_toggle"`
	CollectToggle        float64 `yaml:"collect_toggle"`
}

// ItemConfig holds EnergyItem parameters.
type ItemConfig struct {
	DefaultAmount float64 `yaml:"default_amount"`
	DecaySeconds  float64 `yaml:"decay_seconds"`
	CollectRadius float64 `yaml:"collect_radius"`
	CanDecay      bool    `yaml:"can_decay"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// ServerConfig holds observation server parameters.
type ServerConfig struct {
	Addr              string   `yaml:"addr"`
	BroadcastInterval float64  `yaml:"broadcast_interval"` // Seconds between websocket pushes
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	Burst             int      `yaml:"burst"`
	CORSOrigins       []string `yaml:"cors_origins"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32 // Clock.DT as float32
	WorldW32 float32
	WorldH32 float32
	ScreenW  int32
	ScreenH  int32
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// MustLoad is like Load but panics on error. Intended for tests.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// validate rejects configurations the simulation cannot run with.
func (c *Config) validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %vx%v", c.World.Width, c.World.Height)
	}
	if c.World.GridCellSize <= 0 {
		return fmt.Errorf("world.grid_cell_size must be positive, got %v", c.World.GridCellSize)
	}
	if c.Clock.DT <= 0 {
		return fmt.Errorf("clock.dt must be positive, got %v", c.Clock.DT)
	}
	if c.Environment.SpeedScale == 0 {
		return fmt.Errorf("environment.speed_scale must be non-zero")
	}
	switch c.Reproduction.ChildInit {
	case "", "literal", "reinitialize":
	default:
		return fmt.Errorf("reproduction.child_init: unknown mode %q", c.Reproduction.ChildInit)
	}
	switch c.Environment.Light.Model {
	case "", "constant", "noise":
	default:
		return fmt.Errorf("environment.light.model: unknown model %q", c.Environment.Light.Model)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Clock.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.ScreenW = int32(c.Screen.Width)
	c.Derived.ScreenH = int32(c.Screen.Height)

	if c.Clock.StepsPerUpdate < 1 {
		c.Clock.StepsPerUpdate = 1
	}
	if c.Clock.MaxDT < c.Clock.DT {
		c.Clock.MaxDT = c.Clock.DT
	}
	if c.Reproduction.ChildInit == "" {
		c.Reproduction.ChildInit = "literal"
	}
	if c.Environment.Light.Model == "" {
		c.Environment.Light.Model = "constant"
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
