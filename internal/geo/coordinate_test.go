package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateValid(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		want  bool
	}{
		{name: "plock", coord: Coordinate{Lat: 52.54258, Lon: 19.69306}, want: true},
		{name: "corner", coord: Coordinate{Lat: -90, Lon: 180}, want: true},
		{name: "lat too big", coord: Coordinate{Lat: 90.5, Lon: 0}, want: false},
		{name: "lon too big", coord: Coordinate{Lat: 0, Lon: -180.1}, want: false},
		{name: "nan", coord: Coordinate{Lat: math.NaN(), Lon: 0}, want: false},
		{name: "inf", coord: Coordinate{Lat: 0, Lon: math.Inf(1)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coord.Valid())
		})
	}
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, Coordinate{}, Centroid(nil))

	single := Coordinate{Lat: 52.5, Lon: 19.6}
	assert.Equal(t, single, Centroid([]Coordinate{single}))

	c := Centroid([]Coordinate{{Lat: 52.5, Lon: 19.6}, {Lat: 52.7, Lon: 19.8}})
	assert.InDelta(t, 52.6, c.Lat, 0.001)
	assert.InDelta(t, 19.7, c.Lon, 0.001)
}

func TestDistance(t *testing.T) {
	a := Coordinate{Lat: 52.5, Lon: 19.6}
	b := Coordinate{Lat: 52.6, Lon: 19.6}
	// one tenth of a degree of latitude
	assert.InDelta(t, 11119, a.Distance(b), 5)
	assert.Zero(t, a.Distance(a))
}

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("19.5, 52.4,19.9,52.8")
	require.NoError(t, err)
	assert.Equal(t, Bounds{MinLon: 19.5, MinLat: 52.4, MaxLon: 19.9, MaxLat: 52.8}, b)
	assert.True(t, b.Contains(Coordinate{Lat: 52.54, Lon: 19.69}))
	assert.False(t, b.Contains(Coordinate{Lat: 53, Lon: 19.69}))

	for _, bad := range []string{"", "1,2,3", "a,2,3,4", "10,2,3,4", "0,0,200,10"} {
		_, err := ParseBounds(bad)
		assert.Error(t, err, bad)
	}
}
