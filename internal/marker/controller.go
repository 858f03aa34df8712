package marker

import (
	"fmt"

	"github.com/woozymasta/parkmap/internal/parking"

	"github.com/rs/zerolog/log"
)

// Controller owns the markers and cluster groups on a surface and is the only
// path through which they change. It is not safe for concurrent use; callers
// serialize access on a single goroutine.
type Controller struct {
	surface  Surface
	resolver *Resolver
	clusters map[parking.Category]*ClusterGroup
	records  []parking.Record
	markers  []*Marker
	rendered bool
}

// NewController creates a controller drawing on surface.
func NewController(surface Surface, resolver *Resolver) *Controller {
	return &Controller{
		surface:  surface,
		resolver: resolver,
		clusters: make(map[parking.Category]*ClusterGroup),
	}
}

// RenderAll replaces the markers on the surface with one marker per record.
// Every record is resolved before the surface is touched, so an unknown label
// leaves the previous state in place. Attached cluster groups are rebuilt from
// the new records.
func (c *Controller) RenderAll(records []parking.Record) error {
	markers := make([]*Marker, 0, len(records))
	for i, rec := range records {
		style, err := c.resolver.Resolve(rec.Label)
		if err != nil {
			return fmt.Errorf("record %d (%s): %w", i, rec.Name, err)
		}
		markers = append(markers, &Marker{
			Record:     rec,
			Icon:       style.Icon,
			Coordinate: rec.Coordinate(),
			Category:   style.Category,
		})
	}

	batch(c.surface, func() {
		if len(c.markers) > 0 {
			c.surface.RemoveMarkers(c.markers)
		}
		for _, m := range markers {
			c.surface.AddMarker(m)
		}

		c.records = append([]parking.Record(nil), records...)
		c.markers = markers
		c.rendered = true

		for _, cat := range parking.Categories() {
			old, ok := c.clusters[cat]
			if !ok {
				continue
			}
			c.surface.RemoveClusterLayer(old)
			next := c.buildCluster(cat)
			c.surface.AddClusterLayer(next)
			c.clusters[cat] = next
		}
	})

	log.Debug().
		Int("markers", len(markers)).
		Int("clusters", len(c.clusters)).
		Msg("Markers rendered")

	return nil
}

// SetCategoryVisible attaches or detaches the cluster group of a category.
// Requesting the current state does nothing.
func (c *Controller) SetCategoryVisible(cat parking.Category, visible bool) error {
	if !c.rendered {
		return &NotInitializedError{Op: "set category visible"}
	}
	if !cat.Valid() {
		return &UnknownCategoryError{Label: cat.String()}
	}

	current, attached := c.clusters[cat]
	if visible == attached {
		return nil
	}

	if visible {
		g := c.buildCluster(cat)
		c.surface.AddClusterLayer(g)
		c.clusters[cat] = g
	} else {
		c.surface.RemoveClusterLayer(current)
		delete(c.clusters, cat)
	}

	log.Debug().
		Stringer("category", cat).
		Bool("visible", visible).
		Msg("Cluster visibility changed")

	return nil
}

// buildCluster collects fresh markers for every current record of cat. The
// cluster layer gets its own marker instances; the base markers stay rendered.
func (c *Controller) buildCluster(cat parking.Category) *ClusterGroup {
	g := &ClusterGroup{Category: cat}
	for _, m := range c.markers {
		if m.Category != cat {
			continue
		}
		member := *m
		g.Members = append(g.Members, &member)
	}
	return g
}

// Clear removes every marker and cluster group from the surface.
func (c *Controller) Clear() {
	for _, cat := range parking.Categories() {
		if g, ok := c.clusters[cat]; ok {
			c.surface.RemoveClusterLayer(g)
			delete(c.clusters, cat)
		}
	}
	if len(c.markers) > 0 {
		c.surface.RemoveMarkers(c.markers)
	}
	c.markers = nil
	c.records = nil
	c.rendered = false
}

// Rendered reports whether RenderAll has completed at least once since the last Clear.
func (c *Controller) Rendered() bool {
	return c.rendered
}

// Records returns the records of the last render.
func (c *Controller) Records() []parking.Record {
	return append([]parking.Record(nil), c.records...)
}

// Markers returns the base markers currently on the surface.
func (c *Controller) Markers() []*Marker {
	return append([]*Marker(nil), c.markers...)
}

// Cluster returns the attached cluster group of cat, or nil.
func (c *Controller) Cluster(cat parking.Category) *ClusterGroup {
	return c.clusters[cat]
}

// Visible reports whether the cluster group of cat is attached.
func (c *Controller) Visible(cat parking.Category) bool {
	_, ok := c.clusters[cat]
	return ok
}
