package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// drawBar draws a labelled bar filled to ratio with the value text to its
// right. textWidth is the space reserved for the text.
func (r *Renderer) drawBar(x, y int32, label string, ratio float32, fill rl.Color, text string, width, textWidth int32) int32 {
	ratio = min(max(ratio, 0), 1)
	barX := x + r.Theme.LabelWidth
	barWidth := max(width-r.Theme.LabelWidth-textWidth, 10)

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, fill)
	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawBar draws a progress bar for [0, 1] values.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	return r.drawBar(x, y, label, value, r.Theme.BarFill, fmt.Sprintf("%.2f", min(max(value, 0), 1)), width, 50)
}

// DrawEnergyBar draws a current/max bar that turns amber then red as it drains.
func (r *Renderer) DrawEnergyBar(x, y int32, label string, current, limit float32, width int32) int32 {
	ratio := float32(0)
	if limit > 0 {
		ratio = current / limit
	}
	fill := r.Theme.BarFillHigh
	if ratio < 0.3 {
		fill = r.Theme.BarFillLow
	} else if ratio < 0.6 {
		fill = r.Theme.BarFillMedium
	}
	return r.drawBar(x, y, label, ratio, fill, fmt.Sprintf("%.0f/%.0f", current, limit), width, 80)
}

// DrawColorSwatch draws a color swatch.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, color)
	return y + r.Theme.LineHeight
}

// DrawBool draws an on/off indicator.
func (r *Renderer) DrawBool(x, y int32, label string, on bool) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	c, text := r.Theme.BoolOff, "off"
	if on {
		c, text = r.Theme.BoolOn, "on"
	}
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+2, 8, 8, c)
	rl.DrawText(text, x+r.Theme.LabelWidth+14, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	value := float32(0)
	if fd.Getter != nil {
		value = fd.Getter(data)
	}

	switch fd.Widget {
	case WidgetText:
		var text string
		if fd.TextGetter != nil {
			text = fd.TextGetter(data)
		} else {
			format := fd.Format
			if format == "" {
				format = "%.2f"
			}
			text = fmt.Sprintf(format, value)
		}
		return r.DrawLabelValue(x, y, fd.Label, text)

	case WidgetBar:
		rng := fd.Range
		if rng.Max == rng.Min {
			rng = DefaultRange()
		}
		return r.DrawBar(x, y, fd.Label, (value-rng.Min)/(rng.Max-rng.Min), width)

	case WidgetColorSwatch:
		color := fd.Color
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(data)
		}
		return r.DrawColorSwatch(x, y, fd.Label, color)

	case WidgetEnergyBar:
		limit := fd.Range.Max
		if fd.MaxGetter != nil {
			limit = fd.MaxGetter(data)
		}
		return r.DrawEnergyBar(x, y, fd.Label, value, limit, width)

	case WidgetBool:
		on := false
		if fd.BoolGetter != nil {
			on = fd.BoolGetter(data)
		}
		return r.DrawBool(x, y, fd.Label, on)

	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)

	case WidgetSpacer:
		return y + 6
	}

	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + 4
}

// DrawDescribedPanel draws a described panel at its anchor and returns its bounds.
func (r *Renderer) DrawDescribedPanel(pd PanelDescriptor, data any, screenW, screenH int32) rl.Rectangle {
	width := pd.Width
	if width == 0 {
		width = 240
	}
	height := pd.PanelHeight(r.Theme, data)

	var x, y int32
	switch pd.Anchor {
	case AnchorTopLeft:
		x, y = 10, 10
	case AnchorTopRight:
		x, y = screenW-width-10, 10
	case AnchorBottomLeft:
		x, y = 10, screenH-height-10
	case AnchorBottomRight:
		x, y = screenW-width-10, screenH-height-10
	}

	r.DrawPanel(x, y, width, height)
	pad := r.Theme.Padding
	cy := y + pad
	if pd.Title != "" {
		rl.DrawText(pd.Title, x+pad, cy, 16, rl.White)
		cy += r.Theme.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		cy = r.DrawSection(x+pad, cy, sd, data, width-pad*2)
	}

	return rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}
}
