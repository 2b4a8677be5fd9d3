package aperture

import (
	"io"
	"time"
)

// Thumbnailer derives the 256x256 cover-cropped JPEG thumbnail of an image.
type Thumbnailer interface {
	Thumbnail(r io.Reader) ([]byte, error)
}

// MetadataExtractor reads embedded capture metadata. Extraction is best
// effort: ok is false when no capture time could be read.
type MetadataExtractor interface {
	CaptureTime(r io.Reader) (t time.Time, ok bool)
}
