package photo_test

import (
	"bytes"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	"aperturama/internal/config"
	"aperturama/internal/photo"
	"aperturama/internal/testutil"
)

func TestThumbnailer_Thumbnail(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.ThumbnailConfig
		srcW, srcH   int
		wantW, wantH int
	}{
		{name: "landscape is cropped to the default square", srcW: 640, srcH: 480, wantW: 256, wantH: 256},
		{name: "portrait is cropped to the default square", srcW: 300, srcH: 900, wantW: 256, wantH: 256},
		{name: "small images are scaled up", srcW: 16, srcH: 16, wantW: 256, wantH: 256},
		{
			name: "configured box",
			cfg:  config.ThumbnailConfig{Width: 120, Height: 80, Quality: 60},
			srcW: 400, srcH: 400, wantW: 120, wantH: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := photo.NewThumbnailer(tt.cfg)
			out, err := th.Thumbnail(bytes.NewReader(testutil.JPEG(t, tt.srcW, tt.srcH)))
			if err != nil {
				t.Fatalf("Thumbnail() error = %v", err)
			}
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("thumbnail is not a JPEG: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("thumbnail is %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestThumbnailer_RejectsNonImages(t *testing.T) {
	th := photo.NewThumbnailer(config.ThumbnailConfig{})
	if _, err := th.Thumbnail(strings.NewReader("not an image at all")); err == nil {
		t.Error("Thumbnail() of text should fail")
	}
}

func TestExifExtractor_CaptureTime(t *testing.T) {
	taken := time.Date(2021, 6, 15, 10, 30, 0, 0, time.Local)

	tests := []struct {
		name   string
		data   []byte
		want   time.Time
		wantOK bool
	}{
		{
			name:   "DateTimeOriginal",
			data:   testutil.JPEGWithCaptureTime(t, 8, 8, taken),
			want:   taken.UTC(),
			wantOK: true,
		},
		{name: "no exif", data: testutil.JPEG(t, 8, 8)},
		{name: "not an image", data: []byte("plain text")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := photo.ExifExtractor{}.CaptureTime(bytes.NewReader(tt.data))
			if ok != tt.wantOK {
				t.Fatalf("CaptureTime() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("CaptureTime() = %v, want %v", got, tt.want)
			}
			if ok && got.Location() != time.UTC {
				t.Errorf("CaptureTime() location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestThumbnailer_AcceptsExif(t *testing.T) {
	th := photo.NewThumbnailer(config.ThumbnailConfig{})
	data := testutil.JPEGWithCaptureTime(t, 64, 48, time.Date(2020, 1, 2, 3, 4, 5, 0, time.Local))
	if _, err := th.Thumbnail(bytes.NewReader(data)); err != nil {
		t.Errorf("Thumbnail() error = %v", err)
	}
}
