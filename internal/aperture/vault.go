package aperture

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Vault stores the binary artifacts of a media item: the original file and
// its thumbnail. Artifacts are keyed by the media id assigned at commit time.
type Vault interface {
	// PutThumbnail stores the thumbnail for a media item.
	// size is the number of bytes that will be read from r.
	PutThumbnail(ctx context.Context, mediaID int64, r io.Reader, size int64) error

	// CommitOriginal moves a staged upload into place as the media
	// original. Implementations rename upload.LocalPath when they can and
	// stream it otherwise. The staged copy may be gone afterwards.
	CommitOriginal(ctx context.Context, mediaID int64, ext string, upload StagedUpload) error

	// OpenOriginal returns a reader for the original. A missing artifact
	// wraps ErrArtifactNotFound.
	OpenOriginal(ctx context.Context, mediaID int64, ext string) (io.ReadCloser, error)

	// OpenThumbnail returns a reader for the thumbnail. A missing artifact
	// wraps ErrArtifactNotFound.
	OpenThumbnail(ctx context.Context, mediaID int64) (io.ReadCloser, error)

	HasOriginal(ctx context.Context, mediaID int64, ext string) (bool, error)
	HasThumbnail(ctx context.Context, mediaID int64) (bool, error)

	// DeleteMedia removes both artifacts. Absent artifacts are ignored.
	DeleteMedia(ctx context.Context, mediaID int64, ext string) error

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}

// OriginalName is the artifact name of a media original: "<id><ext>".
func OriginalName(mediaID int64, ext string) string {
	return fmt.Sprintf("%d%s", mediaID, ext)
}

// ThumbnailName is the artifact name of a media thumbnail.
func ThumbnailName(mediaID int64) string {
	return fmt.Sprintf("%d.thumbnail.jpg", mediaID)
}

// MediaExt returns the lowercased extension of a client-supplied filename,
// including the dot. Directory components are ignored.
func MediaExt(filename string) string {
	return strings.ToLower(filepath.Ext(filepath.Base(filename)))
}
