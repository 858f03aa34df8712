package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/woozymasta/parkmap/internal/config"
	"github.com/woozymasta/parkmap/internal/icons"
	"github.com/woozymasta/parkmap/internal/mapsurface"
	"github.com/woozymasta/parkmap/internal/parking"
	"github.com/woozymasta/parkmap/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords(string) ([]parking.Record, error) {
	return []parking.Record{
		{Lat: 52.5, Lon: 19.6, Name: "Private lot", Label: "prywatny"},
		{Lat: 52.6, Lon: 19.7, Name: "Paid lot", Label: "platny"},
		{Lat: 52.7, Lon: 19.8, Name: "Free lot", Label: "darmowy"},
	}, nil
}

func newTestServer(t *testing.T) *ServerContext {
	t.Helper()

	cfg := config.Default()
	m := mapsurface.New(cfg.Map.MinZoom, cfg.Map.MaxZoom)
	sess := session.New(cfg, mapsurface.NewEngine(m), session.NewStaticGate(cfg.Permissions.Granted),
		session.WithLoader(testRecords))
	require.NoError(t, sess.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go sess.Run(ctx)

	iconSet, err := icons.NewSet(sess.Resolver().Icons(), 16)
	require.NoError(t, err)

	srv, err := NewServerContext(cfg, sess, m, iconSet)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

type featureCollection struct {
	Features []struct {
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

func decodeFeatures(t *testing.T, rec *httptest.ResponseRecorder) featureCollection {
	t.Helper()
	var fc featureCollection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	return fc
}

func TestIndex(t *testing.T) {
	h := newTestServer(t).Routes()

	rec := do(t, h, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Parking map")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", rec.Header().Get("ETag"))
	cached := httptest.NewRecorder()
	h.ServeHTTP(cached, req)
	assert.Equal(t, http.StatusNotModified, cached.Code)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/missing.js").Code)
}

func TestIndexETagFollowsContent(t *testing.T) {
	a := &ServerContext{IndexHTML: []byte("<title>Parking A</title>")}
	b := &ServerContext{IndexHTML: []byte("<title>Parking B</title>")}

	etagOf := func(s *ServerContext) string {
		return do(t, http.HandlerFunc(s.HandleIndex), http.MethodGet, "/").Header().Get("ETag")
	}

	assert.NotEqual(t, etagOf(a), etagOf(b))
	assert.Equal(t, etagOf(a), etagOf(&ServerContext{IndexHTML: []byte("<title>Parking A</title>")}))

	srv := newTestServer(t)
	assert.Equal(t, contentETag(srv.IndexHTML), srv.IndexETag)
}

func TestMarkers(t *testing.T) {
	h := newTestServer(t).Routes()

	rec := do(t, h, http.MethodGet, "/api/markers")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	assert.Len(t, decodeFeatures(t, rec).Features, 3)

	rec = do(t, h, http.MethodGet, "/api/markers?bbox=19.65,52.55,19.75,52.65")
	require.Equal(t, http.StatusOK, rec.Code)
	fc := decodeFeatures(t, rec)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Paid lot", fc.Features[0].Properties["name"])

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/markers?bbox=1,2,3").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPost, "/api/markers").Code)
}

func TestMarkersKML(t *testing.T) {
	h := newTestServer(t).Routes()

	rec := do(t, h, http.MethodGet, "/api/markers.kml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "kml")
	assert.Contains(t, rec.Body.String(), "Private lot")
}

func TestToggle(t *testing.T) {
	h := newTestServer(t).Routes()

	rec := do(t, h, http.MethodPost, "/api/toggle/private")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp toggleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, toggleResponse{Category: "private", Visible: true}, resp)

	fc := decodeFeatures(t, do(t, h, http.MethodGet, "/api/markers"))
	require.Len(t, fc.Features, 4)
	last := fc.Features[3].Properties
	assert.Equal(t, mapsurface.LayerCluster, last["layer"])
	assert.Equal(t, "private", last["category"])

	rec = do(t, h, http.MethodPost, "/api/toggle/private")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Visible)
	assert.Len(t, decodeFeatures(t, do(t, h, http.MethodGet, "/api/markers")).Features, 3)
}

func TestToggleRejects(t *testing.T) {
	h := newTestServer(t).Routes()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/toggle/").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/toggle/garage").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/toggle/private").Code)
}

func TestState(t *testing.T) {
	h := newTestServer(t).Routes()
	do(t, h, http.MethodPost, "/api/toggle/free")

	rec := do(t, h, http.MethodGet, "/api/state")
	require.Equal(t, http.StatusOK, rec.Code)

	var st stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.True(t, st.Rendered)
	assert.Equal(t, 3, st.Markers)
	assert.Equal(t, map[string]int{"private": 1, "paid": 1, "free": 1}, st.Counts)
	assert.Equal(t, map[string]bool{"private": false, "paid": false, "free": true}, st.Visible)
	assert.Equal(t, config.DefaultCenter, st.Center)
	assert.Equal(t, 10.0, st.Zoom)
}

func TestRedraw(t *testing.T) {
	h := newTestServer(t).Routes()
	do(t, h, http.MethodPost, "/api/toggle/paid")

	rec := do(t, h, http.MethodPost, "/api/redraw")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	fc := decodeFeatures(t, do(t, h, http.MethodGet, "/api/markers"))
	assert.Len(t, fc.Features, 4)
}

func TestIcon(t *testing.T) {
	h := newTestServer(t).Routes()

	rec := do(t, h, http.MethodGet, "/icons/prywatnyznacznik.webp")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "RIFF"))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/icons/unknown.webp").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/icons/prywatnyznacznik.png").Code)
}

func TestRequestLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, requestLevel(http.StatusOK))
	assert.Equal(t, zerolog.InfoLevel, requestLevel(http.StatusNotModified))
	assert.Equal(t, zerolog.WarnLevel, requestLevel(http.StatusNotFound))
	assert.Equal(t, zerolog.ErrorLevel, requestLevel(http.StatusServiceUnavailable))
}
