package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearing_Axes(t *testing.T) {
	origin := Point{X: 0, Y: 0}

	assert.InDelta(t, 0.0, Bearing(origin, Point{X: 10, Y: 0}), 1e-9)
	assert.InDelta(t, 90.0, Bearing(origin, Point{X: 0, Y: 10}), 1e-9)
	assert.InDelta(t, 180.0, Bearing(origin, Point{X: -10, Y: 0}), 1e-9)
	assert.InDelta(t, -90.0, Bearing(origin, Point{X: 0, Y: -10}), 1e-9)
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4}), 1e-9)
	assert.InDelta(t, 0.0, Distance(Point{X: 7, Y: -2}, Point{X: 7, Y: -2}), 1e-9)
}

func TestCardinalOf_Quadrants(t *testing.T) {
	cases := []struct {
		degrees float64
		want    Cardinal
	}{
		{0, CardinalE},
		{-44.9, CardinalE},
		{44.9, CardinalE},
		{45, CardinalN},
		{90, CardinalN},
		{134.9, CardinalN},
		{135, CardinalW},
		{180, CardinalW},
		{-180, CardinalW},
		{-135.1, CardinalW},
		{-135, CardinalS},
		{-90, CardinalS},
		{-45.1, CardinalS},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CardinalOf(c.degrees), "degrees=%v", c.degrees)
	}
}

func TestCardinalOf_Wraparound(t *testing.T) {
	assert.Equal(t, CardinalOf(200), CardinalOf(200-360))
	assert.Equal(t, CardinalOf(-200), CardinalOf(-200+360))
}

func TestCentroid_Square(t *testing.T) {
	square := []Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	c := Centroid(square)
	assert.InDelta(t, 2.0, c.X, 1e-9)
	assert.InDelta(t, 2.0, c.Y, 1e-9)
}

func TestCentroid_DegenerateFallsBackToMean(t *testing.T) {
	c := Centroid([]Point{{X: 1, Y: 1}, {X: 3, Y: 3}})
	assert.InDelta(t, 2.0, c.X, 1e-9)
	assert.InDelta(t, 2.0, c.Y, 1e-9)
}

func TestCardinal_String(t *testing.T) {
	assert.Equal(t, "1", CardinalN.String())
	assert.Equal(t, "2", CardinalE.String())
	assert.Equal(t, "3", CardinalW.String())
	assert.Equal(t, "4", CardinalS.String())
}
