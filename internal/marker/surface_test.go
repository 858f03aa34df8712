package marker

import (
	"github.com/woozymasta/parkmap/internal/geo"
)

// fakeSurface records every call in order and tracks what is attached.
type fakeSurface struct {
	calls    []string
	markers  map[*Marker]bool
	clusters map[*ClusterGroup]bool
	center   geo.Coordinate
	zoom     float64
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		markers:  make(map[*Marker]bool),
		clusters: make(map[*ClusterGroup]bool),
	}
}

func (s *fakeSurface) SetCenter(center geo.Coordinate, _ Animation) {
	s.calls = append(s.calls, "center")
	s.center = center
}

func (s *fakeSurface) SetZoom(level float64) {
	s.calls = append(s.calls, "zoom")
	s.zoom = level
}

func (s *fakeSurface) MinZoom() float64 { return 0 }
func (s *fakeSurface) MaxZoom() float64 { return 20 }

func (s *fakeSurface) AddMarker(m *Marker) {
	s.calls = append(s.calls, "add")
	s.markers[m] = true
}

func (s *fakeSurface) RemoveMarkers(markers []*Marker) {
	s.calls = append(s.calls, "remove")
	for _, m := range markers {
		delete(s.markers, m)
	}
}

func (s *fakeSurface) AddClusterLayer(g *ClusterGroup) {
	s.calls = append(s.calls, "add-cluster")
	s.clusters[g] = true
}

func (s *fakeSurface) RemoveClusterLayer(g *ClusterGroup) {
	s.calls = append(s.calls, "remove-cluster")
	delete(s.clusters, g)
}

func (s *fakeSurface) attachedClusters() []*ClusterGroup {
	out := make([]*ClusterGroup, 0, len(s.clusters))
	for g := range s.clusters {
		out = append(out, g)
	}
	return out
}

// batchingSurface marks where a batch opens and closes in the call log.
type batchingSurface struct {
	*fakeSurface
}

func (s batchingSurface) Batch(fn func()) {
	s.calls = append(s.calls, "begin")
	fn()
	s.calls = append(s.calls, "end")
}
