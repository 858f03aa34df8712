package mapsurface

import (
	"sort"

	"github.com/woozymasta/parkmap/internal/geo"
	"github.com/woozymasta/parkmap/internal/marker"

	"github.com/dhconnelly/rtreego"
)

// R-tree requires non-zero dimensions; points get a box of about 11 meters.
const epsilon = 0.0001

// indexedMarker wraps a marker for R-tree storage.
type indexedMarker struct {
	marker *marker.Marker
	seq    uint64
}

// Bounds implements rtreego.Spatial interface.
func (e *indexedMarker) Bounds() rtreego.Rect {
	point := rtreego.Point{e.marker.Coordinate.Lon, e.marker.Coordinate.Lat}
	rect, _ := rtreego.NewRect(point, []float64{epsilon, epsilon})
	return rect
}

// snapshot is an immutable published view of the surface contents.
type snapshot struct {
	markers  []*marker.Marker
	clusters []*marker.ClusterGroup
	index    *rtreego.Rtree
}

// publish freezes the working state into a new snapshot. Caller holds mu.
func (m *Map) publish() {
	index := rtreego.NewTree(2, 25, 50)
	for _, mk := range m.markers {
		index.Insert(m.entries[mk])
	}

	m.view = &snapshot{
		markers:  append([]*marker.Marker(nil), m.markers...),
		clusters: append([]*marker.ClusterGroup(nil), m.clusters...),
		index:    index,
	}
}

// current returns the last published snapshot.
func (m *Map) current() *snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.view
}

// MarkersIn returns the markers inside bounds, in insertion order.
func (m *Map) MarkersIn(bounds geo.Bounds) []*marker.Marker {
	return m.current().markersIn(bounds)
}

func (s *snapshot) markersIn(bounds geo.Bounds) []*marker.Marker {
	// pad on both sides: index boxes start at the marker and touching boxes do not intersect
	point := rtreego.Point{bounds.MinLon - epsilon, bounds.MinLat - epsilon}
	lengths := []float64{
		bounds.MaxLon - bounds.MinLon + 2*epsilon,
		bounds.MaxLat - bounds.MinLat + 2*epsilon,
	}
	queryRect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}

	spatials := s.index.SearchIntersect(queryRect)

	hits := make([]*indexedMarker, 0, len(spatials))
	for _, spatial := range spatials {
		entry := spatial.(*indexedMarker)
		// the boxes are padded, keep the exact containment
		if bounds.Contains(entry.marker.Coordinate) {
			hits = append(hits, entry)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].seq < hits[j].seq })

	result := make([]*marker.Marker, len(hits))
	for i, h := range hits {
		result[i] = h.marker
	}
	return result
}
