// Package ui provides a descriptor-driven UI for the viewer. Panels are
// described by metadata and drawn by a shared Renderer, so layouts follow
// the data they show.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field is rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar over Range
	WidgetColorSwatch                   // Color preview square
	WidgetEnergyBar                     // Current/max bar with color thresholds
	WidgetBool                          // On/off indicator
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// FieldDescriptor defines how to display a single value.
type FieldDescriptor struct {
	ID     string
	Label  string
	Widget WidgetType
	Format string // Printf format for text
	Range  FieldRange
	Color  rl.Color

	Visible     func(any) bool    // nil = always visible
	Getter      func(any) float32 // numeric value
	MaxGetter   func(any) float32 // upper bound for energy bars
	BoolGetter  func(any) bool
	TextGetter  func(any) string
	ColorGetter func(any) rl.Color
}

// SectionDescriptor groups fields under a header.
type SectionDescriptor struct {
	ID      string
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// PanelDescriptor defines a complete panel layout.
type PanelDescriptor struct {
	ID       string
	Title    string
	Sections []SectionDescriptor
	Width    int32
	Anchor   PanelAnchor
}

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	BoolOn         rl.Color
	BoolOff        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		BoolOn:         rl.Color{R: 100, G: 200, B: 100, A: 255},
		BoolOff:        rl.Color{R: 80, G: 80, B: 80, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     150,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// PanelHeight returns the height a panel needs for data.
func (p PanelDescriptor) PanelHeight(t Theme, data any) int32 {
	h := t.Padding * 2
	if p.Title != "" {
		h += t.LineHeight + 4
	}
	for _, s := range p.Sections {
		if s.Visible != nil && !s.Visible(data) {
			continue
		}
		if s.Title != "" {
			h += t.LineHeight
		}
		for _, f := range s.Fields {
			if f.Visible != nil && !f.Visible(data) {
				continue
			}
			h += fieldHeight(t, f.Widget)
		}
		h += 4
	}
	return h
}

func fieldHeight(t Theme, w WidgetType) int32 {
	switch w {
	case WidgetBar, WidgetEnergyBar:
		return t.LineHeight + 2
	case WidgetSpacer:
		return 6
	default:
		return t.LineHeight
	}
}
