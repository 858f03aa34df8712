package parking

import (
	"fmt"

	"github.com/woozymasta/parkmap/internal/geo"
)

// Record is one parking location read from the dataset.
// Label keeps the raw kind string; mapping it to a Category is left to the resolver.
type Record struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// InvalidCoordinateError indicates a coordinate out of valid bounds.
type InvalidCoordinateError struct {
	Lat, Lon float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%f lon=%f (lat must be ±90, lon must be ±180)",
		e.Lat, e.Lon)
}

// Coordinate returns the record position.
func (r Record) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: r.Lat, Lon: r.Lon}
}

// Validate checks the record position.
func (r Record) Validate() error {
	if !r.Coordinate().Valid() {
		return &InvalidCoordinateError{Lat: r.Lat, Lon: r.Lon}
	}
	return nil
}

// Coordinates returns the positions of all records, in order.
func Coordinates(records []Record) []geo.Coordinate {
	coords := make([]geo.Coordinate, len(records))
	for i, r := range records {
		coords[i] = r.Coordinate()
	}
	return coords
}
