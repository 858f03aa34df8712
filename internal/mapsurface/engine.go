package mapsurface

import (
	"github.com/woozymasta/parkmap/internal/marker"

	"github.com/rs/zerolog/log"
)

// Engine hands out a Map once its one-shot initialization completes.
type Engine struct {
	surface *Map
}

// NewEngine wraps m.
func NewEngine(m *Map) *Engine {
	return &Engine{surface: m}
}

// Init reports readiness asynchronously, the way a rendering engine calls back
// once its resources are loaded.
func (e *Engine) Init(onReady func(error)) {
	log.Debug().
		Float64("min_zoom", e.surface.MinZoom()).
		Float64("max_zoom", e.surface.MaxZoom()).
		Msg("Map engine initializing")

	go onReady(nil)
}

// Surface returns the map as a marker surface.
func (e *Engine) Surface() marker.Surface {
	return e.surface
}

// Map returns the underlying map.
func (e *Engine) Map() *Map {
	return e.surface
}
