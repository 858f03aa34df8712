// Package geo handles the dataset wire structures and coordinate math.
package geo

// FeatureCollection is the bundled parking dataset document.
// Only the parts read by the parser are modeled.
type FeatureCollection struct {
	Type     string    `json:"type,omitempty" yaml:"type,omitempty"`
	Features []Feature `json:"features" yaml:"features"`
}

// Feature is a single parking location entry.
type Feature struct {
	Type     string    `json:"type,omitempty" yaml:"type,omitempty"`
	Geometry *Geometry `json:"geometry" yaml:"geometry"`
}

// Geometry holds the point coordinates. The dataset keeps the location name and
// kind next to the coordinates instead of in the feature properties.
type Geometry struct {
	Name        *string   `json:"nazwa" yaml:"nazwa"`
	Kind        *string   `json:"rodzaj" yaml:"rodzaj"`
	Type        string    `json:"type,omitempty" yaml:"type,omitempty"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates"` // [Lon, Lat]
}
