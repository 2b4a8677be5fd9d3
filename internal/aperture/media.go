package aperture

import (
	"context"
	"errors"
	"fmt"
	"io"

	"aperturama/internal/database/sqlc"
)

// GetMedia returns the metadata of a media item readable by req.
func (s *Service) GetMedia(ctx context.Context, req Requester, mediaID int64) (*sqlc.Media, error) {
	if err := s.authorize(ctx, req, MediaTarget(mediaID), CapabilityRead); err != nil {
		return nil, err
	}
	m, err := s.store.FindMediaByID(ctx, mediaID)
	if err != nil {
		return nil, fmt.Errorf("finding media: %w", err)
	}
	if m == nil {
		// deleted between the check and the read
		return nil, ErrNotAuthorized
	}
	return m, nil
}

// OpenOriginal returns a reader for the original file of a media item.
// A committed row without its original yields *IncompleteMediaError.
func (s *Service) OpenOriginal(ctx context.Context, req Requester, mediaID int64) (*sqlc.Media, io.ReadCloser, error) {
	m, err := s.GetMedia(ctx, req, mediaID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.vault.OpenOriginal(ctx, m.ID, MediaExt(m.Filename))
	if err != nil {
		return nil, nil, s.artifactError(m.ID, "open original", err)
	}
	return m, rc, nil
}

// OpenThumbnail returns a reader for the JPEG thumbnail of a media item.
func (s *Service) OpenThumbnail(ctx context.Context, req Requester, mediaID int64) (io.ReadCloser, error) {
	m, err := s.GetMedia(ctx, req, mediaID)
	if err != nil {
		return nil, err
	}
	rc, err := s.vault.OpenThumbnail(ctx, m.ID)
	if err != nil {
		return nil, s.artifactError(m.ID, "open thumbnail", err)
	}
	return rc, nil
}

func (s *Service) artifactError(mediaID int64, op string, err error) error {
	if errors.Is(err, ErrArtifactNotFound) {
		s.logger.Error("media artifact missing", "media_id", mediaID, "op", op)
		return &IncompleteMediaError{MediaID: mediaID, Op: op, Err: err}
	}
	return fmt.Errorf("%s of media %d: %w", op, mediaID, err)
}

// DeleteMedia destroys a media item owned by req along with its thumbnail,
// collection memberships and grants. Deleting an id that no longer exists
// succeeds for any authenticated requester, so a retried delete is a no-op.
func (s *Service) DeleteMedia(ctx context.Context, req Requester, mediaID int64) error {
	m, err := s.store.FindMediaByID(ctx, mediaID)
	if err != nil {
		return fmt.Errorf("finding media: %w", err)
	}
	if m == nil && req.IsAuthenticated() {
		s.logger.Debug("media already deleted", "media_id", mediaID, "requester", req.String())
		return nil
	}
	if err := s.authorize(ctx, req, MediaTarget(mediaID), CapabilityOwn); err != nil {
		return err
	}
	if m == nil {
		return nil
	}

	// The row goes first so that no reader is granted access to an item
	// whose files are being removed.
	if err := s.store.DeleteMedia(ctx, mediaID); err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}
	if err := s.vault.DeleteMedia(ctx, mediaID, MediaExt(m.Filename)); err != nil {
		s.logger.Warn("failed to remove media artifacts", "media_id", mediaID, "error", err)
	}

	s.logger.Info("media deleted", "media_id", mediaID, "owner", m.OwnerUserID)
	return nil
}

// ListMedia returns the media owned by the authenticated requester.
func (s *Service) ListMedia(ctx context.Context, req Requester) ([]*sqlc.Media, error) {
	if !req.IsAuthenticated() {
		return nil, ErrNotAuthorized
	}
	media, err := s.store.ListMediaByOwner(ctx, req.UserID())
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	return media, nil
}
