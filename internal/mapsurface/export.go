package mapsurface

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/woozymasta/parkmap/internal/geo"
	"github.com/woozymasta/parkmap/internal/marker"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-kml/v2"
)

// Layer names used in snapshot properties.
const (
	LayerMarker  = "marker"
	LayerCluster = "cluster"
)

// FeatureCollection returns the markers and cluster layers as GeoJSON features.
// Markers come first in insertion order, followed by one point per attached
// cluster at the centroid of its members. A nil bounds selects everything.
func (m *Map) FeatureCollection(bounds *geo.Bounds) *geojson.FeatureCollection {
	snap := m.current()
	markers, clusters := snap.markers, snap.clusters
	if bounds != nil {
		markers = snap.markersIn(*bounds)
	}

	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(markers)+len(clusters)),
	}

	for _, mk := range markers {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: point(mk.Coordinate),
			Properties: map[string]interface{}{
				"layer":    LayerMarker,
				"name":     mk.Record.Name,
				"category": mk.Category.String(),
				"icon":     string(mk.Icon),
			},
		})
	}

	for _, g := range clusters {
		if len(g.Members) == 0 {
			continue
		}
		center := geo.Centroid(g.Coordinates())
		if bounds != nil && !bounds.Contains(center) {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: point(center),
			Properties: map[string]interface{}{
				"layer":    LayerCluster,
				"category": g.Category.String(),
				"count":    len(g.Members),
			},
		})
	}

	return fc
}

// WriteGeoJSON encodes the snapshot as GeoJSON.
func (m *Map) WriteGeoJSON(w io.Writer, bounds *geo.Bounds) error {
	data, err := json.Marshal(m.FeatureCollection(bounds))
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteKML encodes the snapshot as a KML document with one folder for the base
// markers and one per attached cluster group.
func (m *Map) WriteKML(w io.Writer, title string) error {
	snap := m.current()
	markers, clusters := snap.markers, snap.clusters

	base := []kml.Element{kml.Name("Markers")}
	for _, mk := range markers {
		base = append(base, placemark(mk))
	}

	children := []kml.Element{kml.Name(title), kml.Folder(base...)}
	for _, g := range clusters {
		folder := []kml.Element{kml.Name(fmt.Sprintf("Cluster %s (%d)", g.Category, len(g.Members)))}
		for _, mk := range g.Members {
			folder = append(folder, placemark(mk))
		}
		children = append(children, kml.Folder(folder...))
	}

	return kml.KML(kml.Document(children...)).WriteIndent(w, "", "  ")
}

func placemark(mk *marker.Marker) kml.Element {
	return kml.Placemark(
		kml.Name(mk.Record.Name),
		kml.Description(fmt.Sprintf("%s (%s)", mk.Category, mk.Icon)),
		kml.Point(
			kml.Coordinates(kml.Coordinate{Lon: mk.Coordinate.Lon, Lat: mk.Coordinate.Lat}),
		),
	)
}

func point(c geo.Coordinate) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{c.Lon, c.Lat})
}
