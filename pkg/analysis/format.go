package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit selects the unit system used for lengths and areas
type Unit int

const (
	Metric Unit = iota
	Imperial
)

// AngleUnit selects how angles are displayed
type AngleUnit int

const (
	Degrees AngleUnit = iota
	Radians
)

const (
	metersPerMile      = 1609.34
	squareMetersPerMi2 = 2589988.110336

	// Above these raw magnitudes the larger display unit is used
	lengthThreshold = 100.0
	areaThreshold   = 10000.0
)

// String returns the config name of the unit
func (u Unit) String() string {
	if u == Imperial {
		return "imperial"
	}
	return "metric"
}

// String returns the config name of the angle unit
func (a AngleUnit) String() string {
	if a == Radians {
		return "radians"
	}
	return "degrees"
}

// ParseUnit converts a unit name into a Unit
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metric", "km", "m", "":
		return Metric, nil
	case "imperial", "miles", "mi":
		return Imperial, nil
	}
	return Metric, fmt.Errorf("unknown unit: %q (expected metric or imperial)", s)
}

// ParseAngleUnit converts an angle unit name into an AngleUnit
func ParseAngleUnit(s string) (AngleUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "degrees", "deg", "":
		return Degrees, nil
	case "radians", "rad":
		return Radians, nil
	}
	return Degrees, fmt.Errorf("unknown angle unit: %q (expected degrees or radians)", s)
}

// FormatLength formats a length given in meters
func FormatLength(meters float64, unit Unit) string {
	meters = sanitize(meters)

	if unit == Imperial {
		miles := meters / metersPerMile
		if meters > lengthThreshold {
			return formatNumber(roundTo(miles, 2)) + " mi"
		}
		return formatNumber(roundTo(miles, 0)) + " mi"
	}

	if meters > lengthThreshold {
		return formatNumber(roundTo(meters/1000, 2)) + " km"
	}
	return formatNumber(roundTo(meters, 2)) + " m"
}

// FormatArea formats an area given in square meters
func FormatArea(squareMeters float64, unit Unit) string {
	squareMeters = sanitize(squareMeters)

	if unit == Imperial {
		sqMiles := squareMeters / squareMetersPerMi2
		if squareMeters > areaThreshold {
			return formatNumber(roundTo(sqMiles, 2)) + " mi²"
		}
		return formatNumber(roundTo(sqMiles, 0)) + " mi²"
	}

	if squareMeters > areaThreshold {
		return formatNumber(roundTo(squareMeters/1000000, 2)) + " km²"
	}
	return formatNumber(roundTo(squareMeters, 2)) + " m²"
}

// FormatAngle formats an angle given in radians
func FormatAngle(radians float64, unit AngleUnit) string {
	radians = sanitize(radians)

	if unit == Radians {
		return formatNumber(roundTo(radians, 2)) + " rad"
	}
	return formatNumber(roundTo(radians*180/math.Pi, 2)) + "°"
}

// FormatAngles formats a list of angles and joins them with ", "
func FormatAngles(radians []float64, unit AngleUnit) string {
	parts := make([]string, len(radians))
	for i, r := range radians {
		parts[i] = FormatAngle(r, unit)
	}
	return strings.Join(parts, ", ")
}

// roundTo rounds half up to the given number of decimals
func roundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Floor(value*scale+0.5) / scale
}

// formatNumber prints the shortest representation, dropping trailing zeros
func formatNumber(value float64) string {
	if value == 0 {
		return "0"
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func sanitize(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}
