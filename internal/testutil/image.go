package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"
)

// JPEG returns a w x h gradient encoded as JPEG.
func JPEG(t testing.TB, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

// JPEGWithCaptureTime returns a JPEG carrying an EXIF DateTimeOriginal of
// taken, written as the camera's local wall clock.
func JPEGWithCaptureTime(t testing.TB, w, h int, taken time.Time) []byte {
	t.Helper()

	plain := JPEG(t, w, h)
	app1 := exifSegment(taken.Format("2006:01:02 15:04:05"))

	// SOI, then APP1, then the rest of the encoded image.
	out := make([]byte, 0, len(plain)+len(app1))
	out = append(out, plain[:2]...)
	out = append(out, app1...)
	out = append(out, plain[2:]...)
	return out
}

// exifSegment builds an APP1 segment holding a little-endian TIFF with IFD0
// pointing at an Exif IFD that holds DateTimeOriginal.
func exifSegment(stamp string) []byte {
	le := binary.LittleEndian
	value := append([]byte(stamp), 0)

	const (
		ifd0Offset   = 8
		exifOffset   = ifd0Offset + 2 + 12 + 4
		valueOffset  = exifOffset + 2 + 12 + 4
		tagExifIFD   = 0x8769
		tagDateTaken = 0x9003
		typeASCII    = 2
		typeLong     = 4
	)

	tiff := make([]byte, valueOffset+len(value))
	copy(tiff, "II")
	le.PutUint16(tiff[2:], 42)
	le.PutUint32(tiff[4:], ifd0Offset)

	le.PutUint16(tiff[ifd0Offset:], 1)
	entry := tiff[ifd0Offset+2:]
	le.PutUint16(entry[0:], tagExifIFD)
	le.PutUint16(entry[2:], typeLong)
	le.PutUint32(entry[4:], 1)
	le.PutUint32(entry[8:], exifOffset)

	le.PutUint16(tiff[exifOffset:], 1)
	entry = tiff[exifOffset+2:]
	le.PutUint16(entry[0:], tagDateTaken)
	le.PutUint16(entry[2:], typeASCII)
	le.PutUint32(entry[4:], uint32(len(value)))
	le.PutUint32(entry[8:], valueOffset)

	copy(tiff[valueOffset:], value)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	seg := []byte{0xff, 0xe1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}
