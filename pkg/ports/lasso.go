package ports

import (
	"image"

	"github.com/aretw0/inkmap/pkg/domain"
)

// LassoEvents receives the output of a LassoCapture.
type LassoEvents struct {
	// OnChange receives the full ordered vertex list after every edit.
	OnChange func([]domain.Point)
	// OnComplete receives the region enclosed by the finished polygon.
	OnComplete func(preview image.Image)
}

// LassoCapture is the polygon-vertex input collaborator.
// Given the reference image and an initial vertex list, it reports every edit
// and, when the polygon is closed, a cropped preview of the enclosed region.
type LassoCapture interface {
	Attach(src image.Image, initial []domain.Point, events LassoEvents)
	Detach()
}
