package systems

import "github.com/pthm-cable/cellsoup/config"

// Rand is the random source the rules draw from. *rand.Rand satisfies it.
type Rand interface {
	Float32() float32
	Float64() float64
}

// Params caches the float32 constants used in the per-agent hot path.
type Params struct {
	HealthRegenDivisor  float32
	DeficitDamageFactor float32
	HarnessSpeedMin     float32
	HarnessSpeedMax     float32
	MobileSpeed         float32
	HeatTransferDivisor float32
	BaseReproCooldown   float32
	SpeedScale          float32

	WorldW, WorldH float32

	// Reproduction
	SearchRadius    float32
	OccupancyRadius float32
	MaxRetries      int32
	ChildOffset     float32
	ChildCooldown   float32
	SuicideJitter   float32
	SuicideFactor   float32
	Reinitialize    bool

	// Mutation
	SpeedJitter          float32
	MaxHealthJitter      float32
	MaxEnergyJitter      float32
	PhotosynthesisToggle float32
	HarnessToggle        float32
	CollectToggle        float32

	// Founder values reused when offspring are reinitialized
	FounderSuicideCountdown float32
	FounderReproCooldown    float32
}

// NewParams converts the loaded configuration.
func NewParams(cfg *config.Config) Params {
	m := cfg.Metabolism
	r := cfg.Reproduction
	mu := cfg.Mutation
	return Params{
		HealthRegenDivisor:  float32(m.HealthRegenDivisor),
		DeficitDamageFactor: float32(m.DeficitDamageFactor),
		HarnessSpeedMin:     float32(m.HarnessSpeedMin),
		HarnessSpeedMax:     float32(m.HarnessSpeedMax),
		MobileSpeed:         float32(m.MobileSpeed),
		HeatTransferDivisor: float32(m.HeatTransferDivisor),
		BaseReproCooldown:   float32(m.BaseReproCooldown),
		SpeedScale:          float32(cfg.Environment.SpeedScale),

		WorldW: cfg.Derived.WorldW32,
		WorldH: cfg.Derived.WorldH32,

		SearchRadius:    float32(r.SearchRadius),
		OccupancyRadius: float32(r.OccupancyRadius),
		MaxRetries:      int32(r.MaxRetries),
		ChildOffset:     float32(r.ChildOffset),
		ChildCooldown:   float32(r.ChildCooldown),
		SuicideJitter:   float32(r.SuicideJitter),
		SuicideFactor:   float32(r.SuicideFactor),
		Reinitialize:    r.ChildInit == "reinitialize",

		SpeedJitter:          float32(mu.SpeedJitter),
		MaxHealthJitter:      float32(mu.MaxHealthJitter),
		MaxEnergyJitter:      float32(mu.MaxEnergyJitter),
		PhotosynthesisToggle: float32(mu.PhotosynthesisToggle),
		HarnessToggle:        float32(mu.HarnessToggle),
		CollectToggle:        float32(mu.CollectToggle),

		FounderSuicideCountdown: float32(cfg.Founder.SuicideCountdown),
		FounderReproCooldown:    float32(cfg.Founder.ReproductionCooldown),
	}
}
