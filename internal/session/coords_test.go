package session

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLonLat(t *testing.T) {
	p, ok := ParseLonLat("0", "0")
	require.True(t, ok)
	assert.InDelta(t, 0, p[0], 1e-9)
	assert.InDelta(t, 0, p[1], 1e-9)

	p, ok = ParseLonLat(" 180 ", "0")
	require.True(t, ok)
	assert.InDelta(t, math.Pi*6378137, p[0], 1e-3)
}

func TestParseLonLatRejects(t *testing.T) {
	cases := [][2]string{
		{"", "10"},
		{"10", ""},
		{"abc", "10"},
		{"10", "north"},
		{"181", "0"},
		{"0", "-90.5"},
		{"NaN", "0"},
		{"Inf", "0"},
	}
	for _, c := range cases {
		_, ok := ParseLonLat(c[0], c[1])
		assert.False(t, ok, "lon=%q lat=%q should be rejected", c[0], c[1])
	}
}

func TestAddCoordinate(t *testing.T) {
	s, _, drawings := newSession(t, DefaultModifiers())

	assert.False(t, s.AddCoordinate("", ""))
	assert.Equal(t, Idle, s.State())

	// Prague, then Washington
	require.True(t, s.AddCoordinate("14.4378", "50.0755"))
	assert.Equal(t, Drawing, s.State())
	assert.False(t, s.AddCoordinate("x", "1"))
	require.True(t, s.AddCoordinate("-77.0369", "38.9072"))

	sketch := s.Sketch()
	require.Equal(t, 2, sketch.Len())
	assert.NotEqual(t, orb.Point{}, sketch.Vertices[0])
	assert.NotEqual(t, sketch.Vertices[0], sketch.Vertices[1])

	require.NoError(t, s.Dispatch(DrawEnd{}))
	require.Equal(t, 1, drawings.Len())
	assert.Contains(t, drawings.All()[0].Text, "Total lines: 1")
}
