package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"text/template"

	"github.com/woozymasta/parkmap/assets"
	"github.com/woozymasta/parkmap/internal/config"
	"github.com/woozymasta/parkmap/internal/icons"
	"github.com/woozymasta/parkmap/internal/mapsurface"
	"github.com/woozymasta/parkmap/internal/session"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Session   *session.Session
	Map       *mapsurface.Map
	Icons     *icons.Set
	IndexHTML []byte
	IndexETag string
}

type pageData struct {
	Title       string
	Attribution string
	Lat         float64
	Lon         float64
	Zoom        float64
}

// NewServerContext renders the viewer page for the started session.
func NewServerContext(cfg *config.Config, sess *session.Session, m *mapsurface.Map, iconSet *icons.Set) (*ServerContext, error) {
	center, _ := m.Center()
	index, err := renderIndex(pageData{
		Title:       cfg.Title,
		Attribution: cfg.Attribution,
		Lat:         center.Lat,
		Lon:         center.Lon,
		Zoom:        m.Zoom(),
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("index_bytes", len(index)).
		Int("icons", len(iconSet.Handles())).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:    cfg,
		Session:   sess,
		Map:       m,
		Icons:     iconSet,
		IndexHTML: index,
		IndexETag: contentETag(index),
	}, nil
}

// renderIndex fills the page template and minifies the result.
func renderIndex(data pageData) ([]byte, error) {
	tmpl, err := template.New("index").Parse(assets.IndexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render index template: %w", err)
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify index: %w", err)
	}
	return out, nil
}

// contentETag derives a strong ETag from the body bytes.
func contentETag(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}

// Routes builds the HTTP handler tree.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/markers", s.HandleMarkers)
	mux.HandleFunc("/api/markers.kml", s.HandleMarkersKML)
	mux.HandleFunc("/api/state", s.HandleState)
	mux.HandleFunc("/api/toggle/", s.HandleToggle)
	mux.HandleFunc("/api/redraw", s.HandleRedraw)
	mux.HandleFunc("/icons/", s.HandleIcon)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
