// Package dataset decodes the bundled parking locations document.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/woozymasta/parkmap/assets"
	"github.com/woozymasta/parkmap/internal/geo"
	"github.com/woozymasta/parkmap/internal/parking"

	"github.com/rs/zerolog/log"
)

// Parse decodes a feature collection document into records, preserving source order.
// An empty features array yields an empty slice; a structurally invalid document
// yields a *MalformedDatasetError.
func Parse(raw []byte) ([]parking.Record, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, documentError("not a JSON object", err)
	}

	featuresRaw, ok := root["features"]
	if !ok || isNull(featuresRaw) {
		return nil, documentError("features is absent", nil)
	}

	var features []json.RawMessage
	if err := json.Unmarshal(featuresRaw, &features); err != nil {
		return nil, documentError("features is not an array", err)
	}

	records := make([]parking.Record, 0, len(features))
	for i, featureRaw := range features {
		rec, err := parseFeature(i, featureRaw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseFeature(i int, raw json.RawMessage) (parking.Record, error) {
	var f geo.Feature
	if err := json.Unmarshal(raw, &f); err != nil {
		return parking.Record{}, featureError(i, "invalid structure", err)
	}

	g := f.Geometry
	switch {
	case g == nil:
		return parking.Record{}, featureError(i, "geometry is absent", nil)
	case len(g.Coordinates) < 2:
		return parking.Record{}, featureError(i, fmt.Sprintf("coordinates need [lon, lat], got %d values", len(g.Coordinates)), nil)
	case g.Name == nil:
		return parking.Record{}, featureError(i, "nazwa is absent", nil)
	case g.Kind == nil:
		return parking.Record{}, featureError(i, "rodzaj is absent", nil)
	}

	rec := parking.Record{
		Lat:   g.Coordinates[1],
		Lon:   g.Coordinates[0],
		Name:  *g.Name,
		Label: *g.Kind,
	}
	if err := rec.Validate(); err != nil {
		return parking.Record{}, featureError(i, "bad position", err)
	}

	return rec, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Load reads and parses the dataset at path. An empty path selects the bundled dataset.
func Load(path string) ([]parking.Record, error) {
	raw := assets.Dataset
	source := "bundled:" + assets.DatasetName

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		raw = data
		source = path
	}

	records, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("source", source).
		Int("records", len(records)).
		Msg("Dataset parsed")

	return records, nil
}

// Stats counts records per kind label.
func Stats(records []parking.Record) map[string]int {
	stats := make(map[string]int)
	for _, r := range records {
		stats[r.Label]++
	}
	return stats
}
