package fetcher

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errNotImage = errors.New("content is not an image")

// decodeImage sniffs data and decodes it into a tightly packed RGBA image with
// its origin at (0, 0).
func decodeImage(data []byte) (*image.RGBA, string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, "", fmt.Errorf("sniff image type: %w", err)
	}
	if !filetype.IsImage(data) {
		return nil, kind.MIME.Value, fmt.Errorf("%w (%s)", errNotImage, kind.MIME.Value)
	}
	mime := kind.MIME.Value

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, mime, fmt.Errorf("failed to decode %s image: %w", mime, err)
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, mime, nil
}
