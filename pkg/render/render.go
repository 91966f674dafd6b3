// Package render draws annotation state with fogleman/gg.
//
// Rendering is a pure function of its inputs: every call clears the surface
// and redraws all strokes in store order. Nothing is patched incrementally.
package render

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/fogleman/gg"
)

// Size is a canvas size in pixels.
type Size struct {
	Width  float64
	Height float64
}

// CanvasSize derives the display size of the freehand canvas: a fixed height
// and the width that preserves the reference image aspect ratio.
func CanvasSize(bounds image.Rectangle, height float64) Size {
	if bounds.Dy() == 0 {
		return Size{Height: height}
	}
	aspect := float64(bounds.Dx()) / float64(bounds.Dy())
	return Size{Width: height * aspect, Height: height}
}

func (s Size) pixels() (int, int) {
	w := int(math.Ceil(s.Width))
	h := int(math.Ceil(s.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Strokes renders the stroke overlay on a transparent surface.
func Strokes(size Size, strokes []domain.Stroke) image.Image {
	w, h := size.pixels()
	dc := gg.NewContext(w, h)
	dc.SetColor(color.Transparent)
	dc.Clear()
	drawStrokes(dc, strokes)
	return dc.Image()
}

// Composite renders the reference image scaled to size with the strokes on top.
// base may be nil, in which case the background is white.
func Composite(size Size, base image.Image, strokes []domain.Stroke) image.Image {
	w, h := size.pixels()
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	if base != nil {
		drawScaled(dc, base, size)
	}
	drawStrokes(dc, strokes)
	return dc.Image()
}

// Polygon renders a closed vertex outline over the scaled reference image.
func Polygon(size Size, base image.Image, vertices []domain.Point, outline domain.Color) image.Image {
	w, h := size.pixels()
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	if base != nil {
		drawScaled(dc, base, size)
	}
	if len(vertices) == 0 {
		return dc.Image()
	}

	dc.SetColor(outline.RGBA())
	dc.SetLineWidth(domain.DefaultPencilWidth)
	dc.MoveTo(vertices[0].X, vertices[0].Y)
	for _, v := range vertices[1:] {
		dc.LineTo(v.X, v.Y)
	}
	dc.ClosePath()
	dc.Stroke()

	for _, v := range vertices {
		dc.DrawCircle(v.X, v.Y, 3)
		dc.Fill()
	}
	return dc.Image()
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return gg.NewContextForImage(img).EncodePNG(w)
}

func drawScaled(dc *gg.Context, img image.Image, size Size) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	dc.Push()
	dc.Scale(size.Width/float64(b.Dx()), size.Height/float64(b.Dy()))
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	dc.Pop()
}

func drawStrokes(dc *gg.Context, strokes []domain.Stroke) {
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	for _, s := range strokes {
		if len(s.Path) == 0 {
			continue
		}
		dc.SetColor(s.Color.RGBA())
		dc.SetLineWidth(s.Width)

		if len(s.Path) == 1 {
			dc.DrawPoint(s.Path[0].X, s.Path[0].Y, s.Width/2)
			dc.Fill()
			continue
		}

		dc.MoveTo(s.Path[0].X, s.Path[0].Y)
		for _, p := range s.Path[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
	}
}
