package session

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// ParseLonLat parses WGS84 longitude and latitude in degrees and returns the
// point in map coordinates. Empty, non-numeric or out of range input is
// rejected.
func ParseLonLat(lon, lat string) (orb.Point, bool) {
	x, ok := parseDegrees(lon, 180)
	if !ok {
		return orb.Point{}, false
	}
	y, ok := parseDegrees(lat, 90)
	if !ok {
		return orb.Point{}, false
	}
	return project.WGS84.ToMercator(orb.Point{x, y}), true
}

func parseDegrees(s string, limit float64) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
		return 0, false
	}
	return v, true
}

// AddCoordinate adds a vertex from coordinate input. Invalid input is
// ignored and false is returned, leaving the fields for correction.
func (s *Session) AddCoordinate(lon, lat string) bool {
	p, ok := ParseLonLat(lon, lat)
	if !ok {
		s.logger.Debug("coordinate input ignored")
		return false
	}
	return s.Dispatch(AddVertex{Point: p}) == nil
}
