package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID identifies a toggleable viewer overlay.
type OverlayID string

const (
	OverlayItems        OverlayID = "items"
	OverlayHeatRadius   OverlayID = "heat_radius"
	OverlayCollectRange OverlayID = "collect_range"
	OverlayLightMap     OverlayID = "light_map"
	OverlayGrid         OverlayID = "grid"
	OverlayHUD          OverlayID = "hud"
	OverlayPerf         OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32 // 0 = no key
	KeyLabel    string
	Category    string
	Default     bool
	Exclusive   []OverlayID // disabled when this one is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the viewer's overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayItems,
		Name:        "Energy Items",
		Description: "Draw dropped energy items",
		Key:         rl.KeyI,
		KeyLabel:    "I",
		Category:    "world",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayLightMap,
		Name:        "Light Map",
		Description: "Shade the world by light intensity",
		Key:         rl.KeyL,
		KeyLabel:    "L",
		Category:    "world",
		Exclusive:   []OverlayID{OverlayGrid},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayGrid,
		Name:        "Spatial Grid",
		Description: "Draw the neighbour query grid",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "world",
		Exclusive:   []OverlayID{OverlayLightMap},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayHeatRadius,
		Name:        "Heat Radius",
		Description: "Ring heat generators with their transfer radius",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "agents",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayCollectRange,
		Name:        "Collect Range",
		Description: "Ring collectors with their pickup radius",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "agents",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayHUD,
		Name:     "HUD",
		Key:      rl.KeyF1,
		KeyLabel: "F1",
		Category: "panels",
		Default:  true,
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayPerf,
		Name:     "Performance",
		Key:      rl.KeyF2,
		KeyLabel: "F2",
		Category: "panels",
	})
}

// Register adds an overlay in its default state.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	on := !r.enabled[id]
	r.SetEnabled(id, on)
	return on
}

// SetEnabled sets an overlay's state, disabling its exclusive partners when enabled.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
