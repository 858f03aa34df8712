// Package server exposes the map session over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/woozymasta/parkmap/internal/geo"
	"github.com/woozymasta/parkmap/internal/marker"
	"github.com/woozymasta/parkmap/internal/parking"
	"github.com/woozymasta/parkmap/internal/session"

	"github.com/rs/zerolog/log"
)

type stateResponse struct {
	session.State
	Center geo.Coordinate `json:"center"`
	Zoom   float64        `json:"zoom"`
}

type toggleResponse struct {
	Category string `json:"category"`
	Visible  bool   `json:"visible"`
}

// HandleIndex serves the viewer page.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := s.IndexETag
	if etag == "" {
		etag = contentETag(s.IndexHTML)
	}

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleMarkers serves the markers and attached clusters as GeoJSON,
// optionally limited by a bbox=minLon,minLat,maxLon,maxLat query.
func (s *ServerContext) HandleMarkers(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var bounds *geo.Bounds
	if q := r.URL.Query().Get("bbox"); q != "" {
		b, err := geo.ParseBounds(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		bounds = &b
	}

	var buf bytes.Buffer
	if err := s.Map.WriteGeoJSON(&buf, bounds); err != nil {
		log.Error().Err(err).Msg("Failed to encode markers")
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// HandleMarkersKML serves the same snapshot as KML.
func (s *ServerContext) HandleMarkersKML(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var buf bytes.Buffer
	if err := s.Map.WriteKML(&buf, s.Config.Title); err != nil {
		log.Error().Err(err).Msg("Failed to encode KML")
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// HandleState serves the toggle state and marker counts.
func (s *ServerContext) HandleState(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	st, err := s.Session.State(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	center, _ := s.Map.Center()
	writeJSON(w, stateResponse{State: st, Center: center, Zoom: s.Map.Zoom()})
}

// HandleToggle flips the cluster of the category named in /api/toggle/{category}.
func (s *ServerContext) HandleToggle(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/toggle/"), "/")
	cat, err := parking.ParseCategory(name)
	if err != nil || name == "" {
		http.NotFound(w, r)
		return
	}

	visible, err := s.Session.Toggle(r.Context(), cat)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, toggleResponse{Category: cat.String(), Visible: visible})
}

// HandleRedraw rebuilds all markers.
func (s *ServerContext) HandleRedraw(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	if err := s.Session.Redraw(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleIcon serves /icons/{handle}.webp.
func (s *ServerContext) HandleIcon(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/icons/")
	handle, ok := strings.CutSuffix(name, ".webp")
	if !ok || handle == "" || strings.Contains(handle, "/") {
		http.NotFound(w, r)
		return
	}

	data, ok := s.Icons.Get(marker.IconHandle(handle))
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps session errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	var (
		notInit *marker.NotInitializedError
		unknown *marker.UnknownCategoryError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &notInit):
		status = http.StatusConflict
	case errors.As(err, &unknown):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrClosed):
		status = http.StatusServiceUnavailable
	}

	http.Error(w, err.Error(), status)
}
