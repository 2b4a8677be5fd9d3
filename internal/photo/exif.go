package photo

import (
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"aperturama/internal/aperture"
)

// ExifExtractor reads the capture time from EXIF metadata.
type ExifExtractor struct{}

var _ aperture.MetadataExtractor = ExifExtractor{}

// CaptureTime returns DateTimeOriginal (falling back to DateTime) in UTC.
// Camera clocks carry no zone; goexif interprets them as local time unless
// an offset tag is present.
func (ExifExtractor) CaptureTime(r io.Reader) (time.Time, bool) {
	x, err := exif.Decode(r)
	if err != nil {
		return time.Time{}, false
	}
	tm, err := x.DateTime()
	if err != nil || tm.IsZero() {
		return time.Time{}, false
	}
	return tm.UTC(), true
}
