// Package session owns the map lifetime: permission check, engine handshake,
// first render and the event loop that serializes every later marker change.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/woozymasta/parkmap/internal/config"
	"github.com/woozymasta/parkmap/internal/dataset"
	"github.com/woozymasta/parkmap/internal/geo"
	"github.com/woozymasta/parkmap/internal/marker"
	"github.com/woozymasta/parkmap/internal/parking"

	"github.com/rs/zerolog/log"
)

// ErrClosed is returned for events submitted after the loop stopped.
var ErrClosed = errors.New("session closed")

// Engine is the map rendering engine. Init reports readiness exactly once
// through onReady, possibly from another goroutine.
type Engine interface {
	Init(onReady func(error))
	Surface() marker.Surface
}

// Loader reads the parking records.
type Loader func(path string) ([]parking.Record, error)

// State is a read-only view of the session.
type State struct {
	Visible  map[string]bool `json:"visible"`
	Counts   map[string]int  `json:"counts"`
	Markers  int             `json:"markers"`
	Rendered bool            `json:"rendered"`
}

type event struct {
	name  string
	apply func() error
	done  chan error
}

// Session is the single owner of the marker state.
type Session struct {
	cfg        *config.Config
	engine     Engine
	gate       PermissionGate
	load       Loader
	resolver   *marker.Resolver
	controller *marker.Controller
	toggles    map[parking.Category]*marker.Toggle
	events     chan event
	stopped    chan struct{}
}

// Option customizes a Session.
type Option func(*Session)

// WithLoader replaces the dataset loader.
func WithLoader(load Loader) Option {
	return func(s *Session) { s.load = load }
}

// New creates a session. Nothing happens until Start.
func New(cfg *config.Config, engine Engine, gate PermissionGate, opts ...Option) *Session {
	icons := make(map[parking.Category]marker.IconHandle)
	for cat, handle := range cfg.IconOverrides() {
		icons[cat] = marker.IconHandle(handle)
	}

	s := &Session{
		cfg:      cfg,
		engine:   engine,
		gate:     gate,
		load:     dataset.Load,
		resolver: marker.NewResolver(icons),
		toggles:  make(map[parking.Category]*marker.Toggle),
		events:   make(chan event),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolver returns the category resolver used for rendering.
func (s *Session) Resolver() *marker.Resolver {
	return s.resolver
}

// Start checks permissions, waits for the engine, loads the dataset and renders
// it. It must complete before Run is started.
func (s *Session) Start(ctx context.Context) error {
	if err := checkPermissions(s.gate, s.cfg.Permissions.Required); err != nil {
		return err
	}
	log.Debug().Strs("permissions", s.cfg.Permissions.Required).Msg("Permissions granted")

	surface, err := s.awaitEngine(ctx)
	if err != nil {
		return err
	}

	records, err := s.load(s.cfg.Dataset.Path)
	if err != nil {
		if s.cfg.Dataset.OnError != config.OnErrorEmpty {
			return fmt.Errorf("load dataset: %w", err)
		}
		log.Error().
			Err(err).
			Str("path", s.cfg.Dataset.Path).
			Msg("Dataset unusable, continuing without markers")
		records = nil
	}

	center := *s.cfg.Map.Center
	if s.cfg.Map.CenterOnDataset && len(records) > 0 {
		center = geo.Centroid(parking.Coordinates(records))
	}
	surface.SetCenter(center, marker.AnimationNone)

	zoom := s.cfg.Map.Zoom
	if zoom <= 0 {
		zoom = (surface.MinZoom() + surface.MaxZoom()) / 2
	}
	surface.SetZoom(zoom)

	controller := marker.NewController(surface, s.resolver)
	if err := controller.RenderAll(records); err != nil {
		return err
	}

	for _, cat := range parking.Categories() {
		t := marker.NewToggle(controller, cat, s.cfg.InitiallyVisible(cat))
		if err := t.Sync(); err != nil {
			return err
		}
		s.toggles[cat] = t
	}
	s.controller = controller

	log.Info().
		Int("markers", len(records)).
		Interface("kinds", dataset.Stats(records)).
		Float64("lat", center.Lat).
		Float64("lon", center.Lon).
		Float64("zoom", zoom).
		Msg("Map session started")

	return nil
}

// awaitEngine turns the engine's ready callback into a blocking handshake.
func (s *Session) awaitEngine(ctx context.Context) (marker.Surface, error) {
	ready := make(chan error, 1)
	s.engine.Init(func(err error) { ready <- err })

	select {
	case err := <-ready:
		if err != nil {
			return nil, fmt.Errorf("map engine init: %w", err)
		}
		return s.engine.Surface(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run processes events until ctx is done. All marker changes after Start
// happen on this goroutine. The markers stay on the surface after Run
// returns; Close removes them.
func (s *Session) Run(ctx context.Context) {
	defer close(s.stopped)

	for {
		select {
		case ev := <-s.events:
			err := ev.apply()
			if err != nil {
				log.Warn().Err(err).Str("event", ev.name).Msg("Event failed")
			}
			ev.done <- err
		case <-ctx.Done():
			log.Debug().Msg("Session loop stopped")
			return
		}
	}
}

// Close waits for Run to return and then removes the markers and clusters
// from the surface.
func (s *Session) Close(ctx context.Context) error {
	select {
	case <-s.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}

	if s.controller != nil {
		s.controller.Clear()
	}
	log.Debug().Msg("Session closed")
	return nil
}

// submit hands fn to the loop and waits for its result. ctx only bounds the
// hand-off; once the loop took the event its outcome is always returned.
func (s *Session) submit(ctx context.Context, name string, fn func() error) error {
	ev := event{name: name, apply: fn, done: make(chan error, 1)}

	select {
	case s.events <- ev:
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-ev.done
}

// Toggle flips the cluster visibility of cat and returns the new state.
func (s *Session) Toggle(ctx context.Context, cat parking.Category) (bool, error) {
	var visible bool
	err := s.submit(ctx, "toggle", func() error {
		t, ok := s.toggles[cat]
		if !ok {
			if s.controller == nil {
				return &marker.NotInitializedError{Op: "toggle " + cat.String()}
			}
			return &marker.UnknownCategoryError{Label: cat.String()}
		}
		var err error
		visible, err = t.Toggle()
		return err
	})
	if err == nil {
		log.Info().Stringer("category", cat).Bool("visible", visible).Msg("Cluster toggled")
	}
	return visible, err
}

// Redraw renders the current records again from scratch.
func (s *Session) Redraw(ctx context.Context) error {
	return s.submit(ctx, "redraw", func() error {
		if s.controller == nil {
			return &marker.NotInitializedError{Op: "redraw"}
		}
		return s.controller.RenderAll(s.controller.Records())
	})
}

// State returns a snapshot of the marker state.
func (s *Session) State(ctx context.Context) (State, error) {
	var st State
	err := s.submit(ctx, "state", func() error {
		st = State{
			Visible: make(map[string]bool, len(s.toggles)),
			Counts:  make(map[string]int),
		}
		if s.controller == nil {
			return nil
		}
		st.Rendered = s.controller.Rendered()
		markers := s.controller.Markers()
		st.Markers = len(markers)
		for _, m := range markers {
			st.Counts[m.Category.String()]++
		}
		for cat, t := range s.toggles {
			st.Visible[cat.String()] = t.Visible()
		}
		return nil
	})
	return st, err
}
