package components

import "github.com/pthm-cable/cellsoup/config"

// Traits holds the heritable parameters of an agent. Offspring clone and mutate them.
type Traits struct {
	BaseSpeed                float32 `inspect:"bar,max:5"`
	MaxSpeed                 float32 `inspect:"skip"`
	MetabolicRate            float32 `inspect:"label,fmt:%.2f"`
	PhotosynthesisRate       float32 `inspect:"label,fmt:%.2f"`
	PhotosynthesisEfficiency float32 `inspect:"label,fmt:%.2f"`
	RespirationRate          float32 `inspect:"label,fmt:%.2f"`
	HeatProductionRate       float32 `inspect:"skip"`
	HeatProductionEfficiency float32 `inspect:"skip"`
	HeatDissipationRate      float32 `inspect:"skip"`
	HeatResistance           float32 `inspect:"skip"`
	HeatRadius               float32 `inspect:"label,fmt:%.1f"`
	HeatGenerationRate       float32 `inspect:"skip"`
	MaxHealth                float32 `inspect:"label,fmt:%.1f"`
	MaxEnergy                float32 `inspect:"label,fmt:%.1f"`
	ReproductionThreshold    float32 `inspect:"label,fmt:%.1f"`
	ReproductionEnergyCost   float32 `inspect:"label,fmt:%.1f"`
	ReproductionRange        float32 `inspect:"skip"` // jitter applied to the reproduction cooldown
	AgingRate                float32 `inspect:"skip"`
	Generation               uint32  `inspect:"label"`
}

// Capabilities holds the agent's behavioural flags.
type Capabilities struct {
	Photosynthesis bool `inspect:"bool"` // immobile, gains energy from light
	GeneratingHeat bool `inspect:"bool"`
	HarnessHeat    bool `inspect:"bool"` // absorbs heat from nearby generators
	CollectEnergy  bool `inspect:"bool"` // picks up EnergyItems
	CanSuicide     bool `inspect:"bool"`
}

// TraitsFromFounder converts the configured founder trait set.
func TraitsFromFounder(f *config.FounderConfig) Traits {
	return Traits{
		BaseSpeed:                float32(f.BaseSpeed),
		MaxSpeed:                 float32(f.MaxSpeed),
		MetabolicRate:            float32(f.MetabolicRate),
		PhotosynthesisRate:       float32(f.PhotosynthesisRate),
		PhotosynthesisEfficiency: float32(f.PhotosynthesisEfficiency),
		RespirationRate:          float32(f.RespirationRate),
		HeatProductionRate:       float32(f.HeatProductionRate),
		HeatProductionEfficiency: float32(f.HeatProductionEfficiency),
		HeatDissipationRate:      float32(f.HeatDissipationRate),
		HeatResistance:           float32(f.HeatResistance),
		HeatRadius:               float32(f.HeatRadius),
		HeatGenerationRate:       float32(f.HeatGenerationRate),
		MaxHealth:                float32(f.MaxHealth),
		MaxEnergy:                float32(f.MaxEnergy),
		ReproductionThreshold:    float32(f.ReproductionThreshold),
		ReproductionEnergyCost:   float32(f.ReproductionEnergyCost),
		ReproductionRange:        float32(f.ReproductionRange),
		AgingRate:                float32(f.AgingRate),
	}
}

// CapabilitiesFromFounder converts the configured founder flags.
func CapabilitiesFromFounder(f *config.FounderConfig) Capabilities {
	return Capabilities{
		Photosynthesis: f.Photosynthesis,
		GeneratingHeat: f.GeneratingHeat,
		HarnessHeat:    f.HarnessHeat,
		CollectEnergy:  f.CollectEnergy,
		CanSuicide:     f.CanSuicide,
	}
}
