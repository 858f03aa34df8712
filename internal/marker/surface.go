// Package marker resolves parking categories to marker styles and owns the
// markers and cluster groups placed on the map surface.
package marker

import (
	"github.com/woozymasta/parkmap/internal/geo"
	"github.com/woozymasta/parkmap/internal/parking"
)

// Animation selects how the camera moves to a new center.
type Animation int

const (
	// AnimationNone jumps straight to the target.
	AnimationNone Animation = iota
	// AnimationLinear pans along a straight line.
	AnimationLinear
	// AnimationBow zooms out and back in while panning.
	AnimationBow
)

// IconHandle names a marker image known to the rendering side.
type IconHandle string

// Marker is a single marker placed on the map surface.
type Marker struct {
	Record     parking.Record
	Icon       IconHandle
	Coordinate geo.Coordinate
	Category   parking.Category
}

// ClusterGroup is a set of markers attached to or detached from the surface as one layer.
type ClusterGroup struct {
	Members  []*Marker
	Category parking.Category
}

// Coordinates returns the positions of all members.
func (g *ClusterGroup) Coordinates() []geo.Coordinate {
	coords := make([]geo.Coordinate, len(g.Members))
	for i, m := range g.Members {
		coords[i] = m.Coordinate
	}
	return coords
}

// Surface is the map rendering sink. Only Controller and the session setup call it.
type Surface interface {
	SetCenter(center geo.Coordinate, animation Animation)
	SetZoom(level float64)
	MinZoom() float64
	MaxZoom() float64
	AddMarker(m *Marker)
	RemoveMarkers(markers []*Marker)
	AddClusterLayer(g *ClusterGroup)
	RemoveClusterLayer(g *ClusterGroup)
}

// Batcher is implemented by surfaces that can show several changes as one.
// RenderAll runs its marker replacement inside Batch when available.
type Batcher interface {
	Batch(fn func())
}

func batch(s Surface, fn func()) {
	if b, ok := s.(Batcher); ok {
		b.Batch(fn)
		return
	}
	fn()
}
