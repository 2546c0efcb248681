package measurement

import (
	"fmt"
	"image/color"

	"github.com/paulmach/orb/geojson"
)

// Style property keys
const (
	PropFill        = "fill"
	PropStroke      = "stroke"
	PropStrokeWidth = "stroke_width"
	PropTextColor   = "text_color"
	PropTextBack    = "text_background"
	PropFontSize    = "font_size"
	PropOffsetY     = "offset_y"
	PropRadius      = "radius"
)

// Style describes how a feature is drawn. Values are copied, never shared:
// every constructor returns a fresh descriptor.
type Style struct {
	Fill           color.NRGBA
	Stroke         color.NRGBA
	StrokeWidth    float32
	TextColor      color.NRGBA
	TextBackground color.NRGBA
	FontSize       float32
	OffsetY        float32
	Radius         float32
}

// AngleStyle is the red badge drawn at an angle vertex
func AngleStyle() Style {
	return Style{
		Fill:           color.NRGBA{R: 255, A: 153},
		Stroke:         color.NRGBA{R: 255, A: 255},
		StrokeWidth:    1,
		TextColor:      color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		TextBackground: color.NRGBA{A: 153},
		FontSize:       12,
		OffsetY:        -15,
		Radius:         5,
	}
}

// LabelStyle is the summary label with length or area
func LabelStyle() Style {
	return Style{
		Fill:           color.NRGBA{A: 178},
		TextColor:      color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		TextBackground: color.NRGBA{A: 178},
		FontSize:       14,
		OffsetY:        -15,
		Radius:         8,
	}
}

// SegmentStyle is the small label at the middle of a segment
func SegmentStyle() Style {
	return Style{
		TextColor:      color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		TextBackground: color.NRGBA{A: 102},
		FontSize:       12,
		Radius:         6,
	}
}

// GeometryStyle is the measured line or polygon
func GeometryStyle() Style {
	return Style{
		Fill:        color.NRGBA{R: 255, G: 255, B: 255, A: 51},
		Stroke:      color.NRGBA{A: 128},
		StrokeWidth: 2,
		Radius:      5,
	}
}

// SketchStyle is the geometry while it is still being drawn
func SketchStyle() Style {
	s := GeometryStyle()
	s.Stroke = color.NRGBA{A: 128}
	s.Fill = color.NRGBA{R: 255, G: 255, B: 255, A: 176}
	return s
}

// StyleOf returns the style stored on a feature, falling back to the
// default style of its kind for missing values
func StyleOf(f *geojson.Feature) Style {
	s := defaultStyle(KindOf(f))
	if f == nil {
		return s
	}
	p := f.Properties
	s.Fill = parseColor(p.MustString(PropFill, ""), s.Fill)
	s.Stroke = parseColor(p.MustString(PropStroke, ""), s.Stroke)
	s.TextColor = parseColor(p.MustString(PropTextColor, ""), s.TextColor)
	s.TextBackground = parseColor(p.MustString(PropTextBack, ""), s.TextBackground)
	s.StrokeWidth = float32(p.MustFloat64(PropStrokeWidth, float64(s.StrokeWidth)))
	s.FontSize = float32(p.MustFloat64(PropFontSize, float64(s.FontSize)))
	s.OffsetY = float32(p.MustFloat64(PropOffsetY, float64(s.OffsetY)))
	s.Radius = float32(p.MustFloat64(PropRadius, float64(s.Radius)))
	return s
}

func defaultStyle(kind Kind) Style {
	switch kind {
	case KindAngle:
		return AngleStyle()
	case KindLabel:
		return LabelStyle()
	case KindSegment:
		return SegmentStyle()
	default:
		return GeometryStyle()
	}
}

// apply writes the style as flat properties so it survives GeoJSON encoding
func (s Style) apply(p geojson.Properties) {
	p[PropFill] = formatColor(s.Fill)
	p[PropStroke] = formatColor(s.Stroke)
	p[PropTextColor] = formatColor(s.TextColor)
	p[PropTextBack] = formatColor(s.TextBackground)
	p[PropStrokeWidth] = float64(s.StrokeWidth)
	p[PropFontSize] = float64(s.FontSize)
	p[PropOffsetY] = float64(s.OffsetY)
	p[PropRadius] = float64(s.Radius)
}

func formatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func parseColor(s string, def color.NRGBA) color.NRGBA {
	var c color.NRGBA
	if n, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil || n != 4 {
		return def
	}
	return c
}
