// Package photo derives thumbnails and capture metadata from uploaded images.
package photo

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"

	"aperturama/internal/aperture"
	"aperturama/internal/config"
)

// Thumbnailer crops and scales images to cover a fixed box and encodes the
// result as JPEG.
type Thumbnailer struct {
	width   int
	height  int
	quality int
}

var _ aperture.Thumbnailer = (*Thumbnailer)(nil)

func NewThumbnailer(cfg config.ThumbnailConfig) *Thumbnailer {
	t := &Thumbnailer{width: cfg.Width, height: cfg.Height, quality: cfg.Quality}
	if t.width <= 0 {
		t.width = config.DefaultThumbnailSize
	}
	if t.height <= 0 {
		t.height = config.DefaultThumbnailSize
	}
	if t.quality <= 0 || t.quality > 100 {
		t.quality = config.DefaultThumbnailQuality
	}
	return t
}

// Thumbnail decodes r, honouring the EXIF orientation tag, and returns the
// JPEG-encoded thumbnail. Inputs that are not decodable images fail.
func (t *Thumbnailer) Thumbnail(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	thumb := imaging.Fill(img, t.width, t.height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
