// Package imagesrc implements ports.ImageSource for local files and HTTP URLs.
//
// Decoders for PNG, JPEG and GIF come from the standard library; BMP, TIFF and
// WebP are registered from golang.org/x/image.
package imagesrc

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aretw0/inkmap/pkg/ports"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// File reads an image from disk.
type File struct {
	Path string
}

var _ ports.ImageSource = File{}

// Open decodes the file.
func (f File) Open(ctx context.Context) (image.Image, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer fh.Close()
	return decode(fh, f.Path)
}

// URL fetches an image over HTTP.
type URL struct {
	Address string
	Client  *http.Client
}

var _ ports.ImageSource = URL{}

// Open downloads and decodes the image.
func (u URL) Open(ctx context.Context) (image.Image, error) {
	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.Address, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image url: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: %s", resp.Status)
	}
	return decode(resp.Body, u.Address)
}

// Static wraps an already decoded image.
type Static struct {
	Image image.Image
}

// Open returns the wrapped image.
func (s Static) Open(ctx context.Context) (image.Image, error) {
	if s.Image == nil {
		return nil, fmt.Errorf("no image")
	}
	return s.Image, nil
}

// Resolve picks a source for a location: http(s) URLs are fetched, anything else is a path.
func Resolve(location string) ports.ImageSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return URL{Address: location}
	}
	return File{Path: location}
}

func decode(r io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}
	return img, nil
}
