package ui

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
//
//	`inspect:"bar,max:5"`
//	`inspect:"label,fmt:%.1fs"`
//	`inspect:"bool"`
//	`inspect:"skip"`
//
// An empty or unknown widget name yields WidgetText.
func ParseTag(tag string) (widget WidgetType, skip bool, options map[string]string) {
	options = make(map[string]string)
	if tag == "" {
		return WidgetText, false, options
	}

	parts := strings.Split(tag, ",")
	switch strings.TrimSpace(parts[0]) {
	case "bar":
		widget = WidgetBar
	case "bool":
		widget = WidgetBool
	case "skip":
		return WidgetText, true, options
	default:
		widget = WidgetText
	}

	for _, part := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) == 2 {
			options[kv[0]] = kv[1]
		}
	}
	return widget, false, options
}

// Describe builds a section from the exported fields of a struct type using
// their inspect tags. The returned getters expect a value or pointer of the
// same type as sample.
func Describe(title string, sample any) SectionDescriptor {
	t := reflect.TypeOf(sample)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	sd := SectionDescriptor{ID: t.Name(), Title: title}
	if t.Kind() != reflect.Struct {
		return sd
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		widget, skip, options := ParseTag(sf.Tag.Get("inspect"))
		if skip {
			continue
		}

		index := i
		fd := FieldDescriptor{
			ID:     sf.Name,
			Label:  splitCamel(sf.Name),
			Widget: widget,
			Format: options["fmt"],
		}

		switch sf.Type.Kind() {
		case reflect.Bool:
			fd.Widget = WidgetBool
			fd.BoolGetter = func(d any) bool { return fieldOf(d, index).Bool() }
		default:
			fd.Getter = func(d any) float32 { return floatOf(fieldOf(d, index)) }
			if fd.Format == "" && isInteger(sf.Type.Kind()) {
				fd.TextGetter = func(d any) string { return fmt.Sprint(fieldOf(d, index).Interface()) }
			}
		}

		if fd.Widget == WidgetBar {
			fd.Range = FieldRange{Min: 0, Max: parseMax(options)}
		}
		sd.Fields = append(sd.Fields, fd)
	}
	return sd
}

func fieldOf(d any, i int) reflect.Value {
	v := reflect.ValueOf(d)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v.Field(i)
}

func floatOf(v reflect.Value) float32 {
	switch {
	case v.CanFloat():
		return float32(v.Float())
	case v.CanInt():
		return float32(v.Int())
	case v.CanUint():
		return float32(v.Uint())
	default:
		return 0
	}
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// parseMax returns the max option, defaulting to 1.
func parseMax(options map[string]string) float32 {
	if s, ok := options["max"]; ok {
		if v, err := strconv.ParseFloat(s, 32); err == nil && v > 0 {
			return float32(v)
		}
	}
	return 1
}

// splitCamel turns "ReproductionCooldown" into "Reproduction Cooldown".
func splitCamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
