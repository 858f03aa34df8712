// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/woozymasta/parkmap/internal/geo"
	"github.com/woozymasta/parkmap/internal/parking"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "config.yaml"

// Dataset error policies.
const (
	OnErrorAbort = "abort" // fail startup
	OnErrorEmpty = "empty" // log and render no markers
)

// DefaultCenter is the initial camera position over Płock.
var DefaultCenter = geo.Coordinate{Lat: 52.54258081047913, Lon: 19.69306172150562}

// DefaultPermissions are the OS permissions the map needs before it starts.
var DefaultPermissions = []string{"ACCESS_FINE_LOCATION", "WRITE_EXTERNAL_STORAGE"}

// Config represents the root configuration file structure.
type Config struct {
	Icons       map[string]string `yaml:"icons,omitempty" json:"icons,omitempty"` // category name -> icon handle
	Title       string            `yaml:"title,omitempty" json:"title"`
	Attribution string            `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Dataset     Dataset           `yaml:"dataset" json:"dataset"`
	Visible     []string          `yaml:"visible,omitempty" json:"visible,omitempty"` // clusters attached at start
	Permissions Permissions       `yaml:"permissions" json:"-"`
	Map         Map               `yaml:"map" json:"map"`
	IconSize    int               `yaml:"icon_size,omitempty" json:"icon_size"`

	icons   map[parking.Category]string
	visible []parking.Category
}

// Dataset selects the parking locations document.
type Dataset struct {
	Path    string `yaml:"path,omitempty" json:"path,omitempty"` // empty selects the bundled file
	OnError string `yaml:"on_error,omitempty" json:"on_error"`
}

// Map holds the camera setup.
type Map struct {
	Center          *geo.Coordinate `yaml:"center,omitempty" json:"center,omitempty"`
	Zoom            float64         `yaml:"zoom,omitempty" json:"zoom,omitempty"` // 0 means midpoint of the zoom range
	MinZoom         float64         `yaml:"min_zoom,omitempty" json:"min_zoom"`
	MaxZoom         float64         `yaml:"max_zoom,omitempty" json:"max_zoom"`
	CenterOnDataset bool            `yaml:"center_on_dataset,omitempty" json:"center_on_dataset,omitempty"`
}

// Permissions lists what the map requires and what the host has granted.
type Permissions struct {
	Required []string `yaml:"required,omitempty"`
	Granted  []string `yaml:"granted,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	center := DefaultCenter
	cfg := &Config{
		Title:       "Parking map",
		Attribution: "&copy; OpenStreetMap contributors",
		Dataset:     Dataset{OnError: OnErrorAbort},
		Map: Map{
			Center:  &center,
			MinZoom: 0,
			MaxZoom: 20,
		},
		Permissions: Permissions{
			Required: append([]string(nil), DefaultPermissions...),
			Granted:  append([]string(nil), DefaultPermissions...),
		},
	}
	if err := cfg.Normalize(); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
// Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when path is DefaultPath
// and the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && path == DefaultPath && errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("Config file not found, using defaults")
		return Default(), nil
	}
	return cfg, err
}

// Normalize validates the configuration and fills derived fields.
func (c *Config) Normalize() error {
	switch c.Dataset.OnError {
	case "":
		c.Dataset.OnError = OnErrorAbort
	case OnErrorAbort, OnErrorEmpty:
	default:
		return fmt.Errorf("dataset.on_error must be %q or %q, got %q", OnErrorAbort, OnErrorEmpty, c.Dataset.OnError)
	}

	if c.Map.Center == nil {
		center := DefaultCenter
		c.Map.Center = &center
	}
	if !c.Map.Center.Valid() {
		return fmt.Errorf("map.center out of range: %+v", *c.Map.Center)
	}
	if c.Map.MaxZoom <= c.Map.MinZoom || c.Map.MinZoom < 0 {
		return fmt.Errorf("map zoom range invalid: %v..%v", c.Map.MinZoom, c.Map.MaxZoom)
	}
	if c.Map.Zoom != 0 && (c.Map.Zoom < c.Map.MinZoom || c.Map.Zoom > c.Map.MaxZoom) {
		return fmt.Errorf("map.zoom %v outside %v..%v", c.Map.Zoom, c.Map.MinZoom, c.Map.MaxZoom)
	}

	c.icons = make(map[parking.Category]string, len(c.Icons))
	for name, handle := range c.Icons {
		cat, err := parking.ParseCategory(name)
		if err != nil {
			return fmt.Errorf("icons: %w", err)
		}
		c.icons[cat] = handle
	}

	c.visible = c.visible[:0]
	seen := make(map[parking.Category]bool)
	for _, name := range c.Visible {
		cat, err := parking.ParseCategory(name)
		if err != nil {
			return fmt.Errorf("visible: %w", err)
		}
		if !seen[cat] {
			seen[cat] = true
			c.visible = append(c.visible, cat)
		}
	}

	return nil
}

// IconOverrides returns the configured icon handles keyed by category.
func (c *Config) IconOverrides() map[parking.Category]string {
	out := make(map[parking.Category]string, len(c.icons))
	for cat, handle := range c.icons {
		out[cat] = handle
	}
	return out
}

// InitiallyVisible reports whether the cluster of cat starts attached.
func (c *Config) InitiallyVisible(cat parking.Category) bool {
	for _, v := range c.visible {
		if v == cat {
			return true
		}
	}
	return false
}
