package analysis

import (
	"math"
	"testing"
)

func TestFormatLength(t *testing.T) {
	tests := []struct {
		meters   float64
		unit     Unit
		expected string
	}{
		{1500, Metric, "1.5 km"},
		{1500, Imperial, "0.93 mi"},
		{14.142135, Metric, "14.14 m"},
		{100, Metric, "100 m"},
		{100.5, Metric, "0.1 km"},
		{50, Imperial, "0 mi"},
		{0, Metric, "0 m"},
	}

	for _, tt := range tests {
		if got := FormatLength(tt.meters, tt.unit); got != tt.expected {
			t.Errorf("FormatLength(%v, %v) failed: expected %q, got %q", tt.meters, tt.unit, tt.expected, got)
		}
	}
}

func TestFormatArea(t *testing.T) {
	tests := []struct {
		sqMeters float64
		unit     Unit
		expected string
	}{
		{15000000, Metric, "15 km²"},
		{100, Metric, "100 m²"},
		{10000, Metric, "10000 m²"},
		{25899881.10336, Imperial, "10 mi²"},
		{5000, Imperial, "0 mi²"},
	}

	for _, tt := range tests {
		if got := FormatArea(tt.sqMeters, tt.unit); got != tt.expected {
			t.Errorf("FormatArea(%v, %v) failed: expected %q, got %q", tt.sqMeters, tt.unit, tt.expected, got)
		}
	}
}

func TestFormatAngle(t *testing.T) {
	if got := FormatAngle(math.Pi/2, Degrees); got != "90°" {
		t.Errorf("FormatAngle degrees failed: expected %q, got %q", "90°", got)
	}
	if got := FormatAngle(math.Pi/2, Radians); got != "1.57 rad" {
		t.Errorf("FormatAngle radians failed: expected %q, got %q", "1.57 rad", got)
	}
	if got := FormatAngle(math.Pi/3, Degrees); got != "60°" {
		t.Errorf("FormatAngle degrees failed: expected %q, got %q", "60°", got)
	}
}

func TestFormatAngles(t *testing.T) {
	got := FormatAngles([]float64{math.Pi / 2, math.Pi / 4}, Degrees)
	if got != "90°, 45°" {
		t.Errorf("FormatAngles failed: expected %q, got %q", "90°, 45°", got)
	}
	if got := FormatAngles(nil, Degrees); got != "" {
		t.Errorf("FormatAngles of nothing should be empty, got %q", got)
	}
}

func TestFormatClampsInvalidInput(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -42} {
		if got := FormatLength(v, Metric); got != "0 m" {
			t.Errorf("FormatLength(%v) should clamp to 0, got %q", v, got)
		}
		if got := FormatArea(v, Metric); got != "0 m²" {
			t.Errorf("FormatArea(%v) should clamp to 0, got %q", v, got)
		}
		if got := FormatAngle(v, Degrees); got != "0°" {
			t.Errorf("FormatAngle(%v) should clamp to 0, got %q", v, got)
		}
	}
}

func TestParseUnit(t *testing.T) {
	if u, err := ParseUnit("Imperial"); err != nil || u != Imperial {
		t.Errorf("ParseUnit(Imperial) failed: %v, %v", u, err)
	}
	if u, err := ParseUnit("metric"); err != nil || u != Metric {
		t.Errorf("ParseUnit(metric) failed: %v, %v", u, err)
	}
	if _, err := ParseUnit("furlongs"); err == nil {
		t.Errorf("ParseUnit should reject unknown units")
	}
}

func TestParseAngleUnit(t *testing.T) {
	if u, err := ParseAngleUnit("rad"); err != nil || u != Radians {
		t.Errorf("ParseAngleUnit(rad) failed: %v, %v", u, err)
	}
	if _, err := ParseAngleUnit("gradians"); err == nil {
		t.Errorf("ParseAngleUnit should reject unknown units")
	}
}
