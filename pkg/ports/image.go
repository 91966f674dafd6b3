package ports

import (
	"context"
	"image"
)

// ImageSource is the addressable reference image under annotation.
type ImageSource interface {
	// Open fetches and decodes the image. It may block; callers run it off the event path.
	Open(ctx context.Context) (image.Image, error)
}
