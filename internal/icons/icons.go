// Package icons rasterizes the marker pins served to the map viewer.
package icons

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/woozymasta/parkmap/internal/marker"
	"github.com/woozymasta/parkmap/internal/parking"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// DefaultSize is the edge length of a rendered pin in pixels.
const DefaultSize = 32

// supersample factor before downscaling
const oversample = 4

// Palette is the pin color of each category.
var Palette = map[parking.Category]color.RGBA{
	parking.Private: {R: 0x1e, G: 0x88, B: 0xe5, A: 0xff},
	parking.Paid:    {R: 0xe5, G: 0x39, B: 0x35, A: 0xff},
	parking.Free:    {R: 0x43, G: 0xa0, B: 0x47, A: 0xff},
}

// Set holds encoded pins keyed by icon handle.
type Set struct {
	images map[marker.IconHandle][]byte
}

// NewSet renders one WebP pin per category icon.
func NewSet(icons map[parking.Category]marker.IconHandle, size int) (*Set, error) {
	if size <= 0 {
		size = DefaultSize
	}

	s := &Set{images: make(map[marker.IconHandle][]byte, len(icons))}
	for cat, handle := range icons {
		fill, ok := Palette[cat]
		if !ok {
			return nil, fmt.Errorf("no color for category %s", cat)
		}

		var buf bytes.Buffer
		if err := webp.Encode(&buf, Render(fill, size), &webp.Options{Lossless: true}); err != nil {
			return nil, fmt.Errorf("encode icon %s: %w", handle, err)
		}
		s.images[handle] = buf.Bytes()

		log.Trace().
			Str("icon", string(handle)).
			Stringer("category", cat).
			Int("bytes", buf.Len()).
			Msg("Icon rendered")
	}

	return s, nil
}

// Get returns the encoded pin for handle.
func (s *Set) Get(handle marker.IconHandle) ([]byte, bool) {
	data, ok := s.images[handle]
	return data, ok
}

// Handles returns the known icon handles, sorted.
func (s *Set) Handles() []marker.IconHandle {
	out := make([]marker.IconHandle, 0, len(s.images))
	for h := range s.images {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render draws a map pin of the given color on a transparent square.
func Render(fill color.RGBA, size int) *image.RGBA {
	big := size * oversample
	canvas := image.NewRGBA(image.Rect(0, 0, big, big))

	s := float32(big)
	r := s * 0.32
	cx, cy := s/2, r+s*0.04

	z := vector.NewRasterizer(big, big)
	circle(z, cx, cy, r)
	// tail, same winding as the head so the overlap stays filled
	z.MoveTo(cx+r*0.6, cy+r*0.8)
	z.LineTo(cx, s-1)
	z.LineTo(cx-r*0.6, cy+r*0.8)
	z.ClosePath()
	z.Draw(canvas, canvas.Bounds(), image.NewUniform(fill), image.Point{})

	z.Reset(big, big)
	circle(z, cx, cy, r*0.4)
	z.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{})

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Over, nil)
	return out
}

const kappa = 0.5522847

func circle(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}
