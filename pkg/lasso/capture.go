// Package lasso implements polygon-vertex capture over a reference image.
package lasso

import (
	"errors"
	"image"
	"math"

	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/ports"
	"github.com/fogleman/gg"
)

// MinVertices is the smallest vertex count that encloses a region.
const MinVertices = 3

// ErrVertexIndex is returned by edits addressing a vertex that does not exist.
var ErrVertexIndex = errors.New("vertex index out of range")

// Capture is the default ports.LassoCapture. Vertices are in display
// coordinates: the reference image is shown scaled to a fixed height.
type Capture struct {
	height   float64
	src      image.Image
	vertices []domain.Point
	events   ports.LassoEvents
	closed   bool
}

var _ ports.LassoCapture = (*Capture)(nil)

// Option configures a Capture.
type Option func(*Capture)

// WithDisplayHeight sets the height the reference image is displayed at.
func WithDisplayHeight(h float64) Option {
	return func(c *Capture) {
		c.height = h
	}
}

// New creates a detached capture.
func New(opts ...Option) *Capture {
	c := &Capture{height: domain.DefaultCanvasHeight}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach binds the capture to a reference image and seeds it with initial vertices.
func (c *Capture) Attach(src image.Image, initial []domain.Point, events ports.LassoEvents) {
	c.src = src
	c.vertices = append([]domain.Point(nil), initial...)
	c.events = events
	c.closed = false
}

// Detach drops the bound image and callbacks. Vertices are kept by the owner.
func (c *Capture) Detach() {
	c.src = nil
	c.events = ports.LassoEvents{}
}

// Vertices returns a copy of the ordered vertex list.
func (c *Capture) Vertices() []domain.Point {
	return append([]domain.Point(nil), c.vertices...)
}

// Add appends a vertex.
func (c *Capture) Add(p domain.Point) {
	c.vertices = append(c.vertices, p)
	c.closed = false
	c.changed()
}

// Move relocates vertex i.
func (c *Capture) Move(i int, p domain.Point) error {
	if i < 0 || i >= len(c.vertices) {
		return ErrVertexIndex
	}
	c.vertices[i] = p
	c.changed()
	if c.closed {
		c.Complete()
	}
	return nil
}

// Remove deletes vertex i.
func (c *Capture) Remove(i int) error {
	if i < 0 || i >= len(c.vertices) {
		return ErrVertexIndex
	}
	c.vertices = append(c.vertices[:i:i], c.vertices[i+1:]...)
	c.changed()
	return nil
}

// Reset clears every vertex.
func (c *Capture) Reset() {
	c.vertices = nil
	c.closed = false
	c.changed()
}

// Complete closes the polygon and emits the cropped preview.
// It is a no-op with no vertices, and with too few to enclose anything.
func (c *Capture) Complete() {
	if len(c.vertices) < MinVertices {
		return
	}
	c.closed = true
	if c.src == nil || c.events.OnComplete == nil {
		return
	}
	if preview := Crop(c.src, c.vertices, c.height); preview != nil {
		c.events.OnComplete(preview)
	}
}

func (c *Capture) changed() {
	if c.events.OnChange != nil {
		c.events.OnChange(c.Vertices())
	}
}

// Crop returns the part of src enclosed by the polygon, sized to the
// polygon's bounding box. Pixels outside the polygon are transparent.
// src is scaled so its height equals displayHeight, matching the coordinate
// space the vertices were captured in.
func Crop(src image.Image, vertices []domain.Point, displayHeight float64) image.Image {
	if len(vertices) < MinVertices {
		return nil
	}
	b := src.Bounds()
	if b.Dy() == 0 {
		return nil
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	w := int(math.Ceil(maxX - minX))
	h := int(math.Ceil(maxY - minY))
	if w < 1 || h < 1 {
		return nil
	}

	dc := gg.NewContext(w, h)
	dc.MoveTo(vertices[0].X-minX, vertices[0].Y-minY)
	for _, v := range vertices[1:] {
		dc.LineTo(v.X-minX, v.Y-minY)
	}
	dc.ClosePath()
	dc.Clip()

	scale := displayHeight / float64(b.Dy())
	dc.Translate(-minX, -minY)
	dc.Scale(scale, scale)
	dc.DrawImage(src, -b.Min.X, -b.Min.Y)

	return dc.Image()
}
