package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Valid reports whether the coordinate is finite and inside the geographic range.
func (c Coordinate) Valid() bool {
	return s2.LatLngFromDegrees(c.Lat, c.Lon).IsValid()
}

// IsZero reports whether the coordinate is unset.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

// Distance returns the great-circle distance to other in meters.
func (c Coordinate) Distance(other Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(c.Lat, c.Lon)
	p2 := s2.LatLngFromDegrees(other.Lat, other.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// EarthRadiusMeters is the mean Earth radius.
const EarthRadiusMeters = 6371008.8

// Centroid returns the spherical centroid of the given coordinates.
// An empty input yields the zero coordinate.
func Centroid(coords []Coordinate) Coordinate {
	if len(coords) == 0 {
		return Coordinate{}
	}
	if len(coords) == 1 {
		return coords[0]
	}

	var sum s2.Point
	for _, c := range coords {
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
		sum = s2.Point{Vector: sum.Add(p.Vector)}
	}

	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return Coordinate{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}

// Bounds represents a geographic bounding box in decimal degrees.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Contains returns true if the coordinate is within the bounds.
func (b Bounds) Contains(c Coordinate) bool {
	return c.Lon >= b.MinLon && c.Lon <= b.MaxLon &&
		c.Lat >= b.MinLat && c.Lat <= b.MaxLat
}

// ParseBounds parses a "minLon,minLat,maxLon,maxLat" string.
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("bbox needs 4 values, got %d", len(parts))
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("bbox value %d: %w", i, err)
		}
		vals[i] = v
	}

	b := Bounds{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}
	if b.MinLon > b.MaxLon || b.MinLat > b.MaxLat {
		return Bounds{}, fmt.Errorf("bbox min exceeds max: %s", s)
	}
	if !(Coordinate{Lat: b.MinLat, Lon: b.MinLon}).Valid() || !(Coordinate{Lat: b.MaxLat, Lon: b.MaxLon}).Valid() {
		return Bounds{}, fmt.Errorf("bbox out of range: %s", s)
	}

	return b, nil
}
