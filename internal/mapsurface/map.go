// Package mapsurface provides an in-memory map surface that keeps the markers
// and cluster layers placed on it and serves them back as snapshots.
package mapsurface

import (
	"sync"

	"github.com/woozymasta/parkmap/internal/geo"
	"github.com/woozymasta/parkmap/internal/marker"

	"github.com/rs/zerolog/log"
)

// Default zoom range of the surface.
const (
	DefaultMinZoom = 0
	DefaultMaxZoom = 20
)

// Map is a headless map surface. Writes come from a single owner; reads may
// happen from any goroutine and always see a published snapshot, never a
// batch in progress.
type Map struct {
	entries   map[*marker.Marker]*indexedMarker
	markers   []*marker.Marker
	clusters  []*marker.ClusterGroup
	view      *snapshot
	center    geo.Coordinate
	animation marker.Animation
	zoom      float64
	minZoom   float64
	maxZoom   float64
	seq       uint64
	batch     int
	mu        sync.RWMutex
}

// New creates an empty map with the given zoom range. A non-positive or inverted
// range falls back to the defaults.
func New(minZoom, maxZoom float64) *Map {
	if maxZoom <= 0 || minZoom < 0 || minZoom >= maxZoom {
		minZoom, maxZoom = DefaultMinZoom, DefaultMaxZoom
	}

	m := &Map{
		entries: make(map[*marker.Marker]*indexedMarker),
		minZoom: minZoom,
		maxZoom: maxZoom,
		zoom:    minZoom,
	}
	m.publish()
	return m
}

// Batch runs fn and publishes its marker and cluster changes to readers at once.
func (m *Map) Batch(fn func()) {
	m.mu.Lock()
	m.batch++
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.batch--
		m.changed()
	}()

	fn()
}

// changed publishes the working state unless a batch is open. Caller holds mu.
func (m *Map) changed() {
	if m.batch == 0 {
		m.publish()
	}
}

// SetCenter moves the camera.
func (m *Map) SetCenter(center geo.Coordinate, animation marker.Animation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.center = center
	m.animation = animation
}

// SetZoom sets the zoom level, clamped to the map range.
func (m *Map) SetZoom(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case level < m.minZoom:
		level = m.minZoom
	case level > m.maxZoom:
		level = m.maxZoom
	}
	m.zoom = level
}

// MinZoom returns the lowest zoom level.
func (m *Map) MinZoom() float64 { return m.minZoom }

// MaxZoom returns the highest zoom level.
func (m *Map) MaxZoom() float64 { return m.maxZoom }

// AddMarker places a marker. Adding the same marker twice is ignored.
func (m *Map) AddMarker(mk *marker.Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[mk]; ok {
		log.Warn().
			Str("name", mk.Record.Name).
			Msg("Marker already on map, skipping")
		return
	}

	m.seq++
	entry := &indexedMarker{marker: mk, seq: m.seq}
	m.entries[mk] = entry
	m.markers = append(m.markers, mk)
	m.changed()
}

// RemoveMarkers removes the given markers. Unknown markers are ignored.
func (m *Map) RemoveMarkers(markers []*marker.Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := make(map[*marker.Marker]bool, len(markers))
	for _, mk := range markers {
		if _, ok := m.entries[mk]; !ok {
			continue
		}
		delete(m.entries, mk)
		removed[mk] = true
	}

	if len(removed) == 0 {
		return
	}

	kept := m.markers[:0]
	for _, mk := range m.markers {
		if !removed[mk] {
			kept = append(kept, mk)
		}
	}
	clear(m.markers[len(kept):])
	m.markers = kept
	m.changed()
}

// AddClusterLayer attaches a cluster group. Attaching the same group twice is ignored.
func (m *Map) AddClusterLayer(g *marker.ClusterGroup) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.clusters {
		if existing == g {
			return
		}
	}
	m.clusters = append(m.clusters, g)
	m.changed()
}

// RemoveClusterLayer detaches a cluster group.
func (m *Map) RemoveClusterLayer(g *marker.ClusterGroup) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.clusters {
		if existing == g {
			m.clusters = append(m.clusters[:i], m.clusters[i+1:]...)
			m.changed()
			return
		}
	}
}

// Center returns the camera center and the animation used to reach it.
func (m *Map) Center() (geo.Coordinate, marker.Animation) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.center, m.animation
}

// Zoom returns the current zoom level.
func (m *Map) Zoom() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.zoom
}

// Markers returns the placed markers in insertion order.
func (m *Map) Markers() []*marker.Marker {
	return append([]*marker.Marker(nil), m.current().markers...)
}

// Clusters returns the attached cluster groups in attach order.
func (m *Map) Clusters() []*marker.ClusterGroup {
	return append([]*marker.ClusterGroup(nil), m.current().clusters...)
}
