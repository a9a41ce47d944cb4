package main

import (
	"github.com/pthm-cable/cellsoup/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64
	apply   func(cfg *config.Config, v float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the reproduction and aging parameter set.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "repro_threshold", Path: "founder.reproduction_threshold", Min: 30, Max: 100, Default: 75,
				apply: func(c *config.Config, v float64) { c.Founder.ReproductionThreshold = v }},
			{Name: "repro_cost", Path: "founder.reproduction_energy_cost", Min: 10, Max: 90, Default: 60,
				apply: func(c *config.Config, v float64) { c.Founder.ReproductionEnergyCost = v }},
			{Name: "base_repro_cooldown", Path: "metabolism.base_repro_cooldown", Min: 2, Max: 40, Default: 15,
				apply: func(c *config.Config, v float64) { c.Metabolism.BaseReproCooldown = v }},
			{Name: "aging_rate", Path: "founder.aging_rate", Min: 0.01, Max: 1, Default: 0.1,
				apply: func(c *config.Config, v float64) { c.Founder.AgingRate = v }},
			{Name: "metabolic_rate", Path: "founder.metabolic_rate", Min: 0.5, Max: 8, Default: 3,
				apply: func(c *config.Config, v float64) { c.Founder.MetabolicRate = v }},
			{Name: "photo_rate", Path: "founder.photosynthesis_rate", Min: 1, Max: 15, Default: 5,
				apply: func(c *config.Config, v float64) { c.Founder.PhotosynthesisRate = v }},
			{Name: "suicide_countdown", Path: "founder.suicide_countdown", Min: 30, Max: 600, Default: 250,
				apply: func(c *config.Config, v float64) { c.Founder.SuicideCountdown = v }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].apply(cfg, v)
	}
}
