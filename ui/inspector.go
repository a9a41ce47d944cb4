package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellsoup/components"
	"github.com/pthm-cable/cellsoup/game"
	"github.com/pthm-cable/cellsoup/palette"
)

// Inspector renders the selected agent's components.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32

	vitals   SectionDescriptor
	timers   SectionDescriptor
	traits   SectionDescriptor
	caps     SectionDescriptor
	identity SectionDescriptor
}

// NewInspector creates an inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		vitals:   vitalsSection(),
		timers:   Describe("Timers", components.Timers{}),
		traits:   Describe("Traits", components.Traits{}),
		caps:     Describe("Capabilities", components.Capabilities{}),
		identity: Describe("Lineage", components.Organism{}),
	}
}

// vitalsSection shows health and energy against their trait maxima.
func vitalsSection() SectionDescriptor {
	detail := func(d any) *game.AgentDetail { return d.(*game.AgentDetail) }
	return SectionDescriptor{
		ID:    "vitals",
		Title: "Vitals",
		Fields: []FieldDescriptor{
			{
				Label:     "Health",
				Widget:    WidgetEnergyBar,
				Getter:    func(d any) float32 { return detail(d).Vitals.Health },
				MaxGetter: func(d any) float32 { return detail(d).Traits.MaxHealth },
			},
			{
				Label:     "Energy",
				Widget:    WidgetEnergyBar,
				Getter:    func(d any) float32 { return detail(d).Vitals.Energy },
				MaxGetter: func(d any) float32 { return detail(d).Traits.MaxEnergy },
			},
			{
				Label:  "Lifespan",
				Widget: WidgetBar,
				Range:  DefaultRange(),
				Getter: func(d any) float32 {
					a := detail(d)
					if a.Traits.MaxHealth <= 0 {
						return 0
					}
					return min(a.Vitals.RemainingHealth/a.Traits.MaxHealth, a.Vitals.RemainingEnergy/a.Traits.MaxEnergy)
				},
			},
			{
				Label:  "Color",
				Widget: WidgetColorSwatch,
				ColorGetter: func(d any) rl.Color {
					a := detail(d)
					return palette.Agent(game.AgentView{
						Health:         a.Vitals.Health,
						MaxHealth:      a.Traits.MaxHealth,
						BaseSpeed:      a.Traits.BaseSpeed,
						Photosynthesis: a.Caps.Photosynthesis,
					})
				},
			},
		},
	}
}

// SetPosition moves the panel.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Height returns the panel height for an agent.
func (ins *Inspector) Height(a *game.AgentDetail) int32 {
	t := ins.renderer.Theme
	pd := PanelDescriptor{Title: "Agent", Sections: []SectionDescriptor{ins.vitals}}
	h := pd.PanelHeight(t, a)
	for _, sd := range []SectionDescriptor{ins.caps, ins.traits, ins.timers, ins.identity} {
		h += PanelDescriptor{Sections: []SectionDescriptor{sd}}.PanelHeight(t, nil) - t.Padding*2
	}
	return h
}

// Draw renders the panel and returns the y below it.
func (ins *Inspector) Draw(a *game.AgentDetail) int32 {
	r := ins.renderer
	pad := r.Theme.Padding
	width := ins.width - pad*2

	r.DrawPanel(ins.x, ins.y, ins.width, ins.Height(a))

	x := ins.x + pad
	y := ins.y + pad
	title := fmt.Sprintf("Agent #%d  gen %d", a.Org.ID, a.Traits.Generation)
	rl.DrawText(title, x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	y = r.DrawSection(x, y, ins.vitals, a, width)
	y = r.DrawSection(x, y, ins.caps, &a.Caps, width)
	y = r.DrawSection(x, y, ins.traits, &a.Traits, width)
	y = r.DrawSection(x, y, ins.timers, &a.Timers, width)
	y = r.DrawSection(x, y, ins.identity, &a.Org, width)
	return y + pad
}
