package aperture

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"aperturama/internal/database/sqlc"
)

// Ingest admits an uploaded byte stream as a new media item owned by ownerID
// and returns its id.
//
// The bytes are staged and hashed, capture metadata is extracted, and the
// media row is inserted. The insert is the commit point: nothing before it
// leaves a row behind. The thumbnail and original are then written under
// names derived from the new id, the original by moving the staged file.
//
// Errors before the commit point are *IngestError. A later failure is
// cleaned up by deleting the row and any artifacts; if the row cannot be
// deleted, an *IncompleteMediaError carrying the id is returned instead.
func (s *Service) Ingest(ctx context.Context, ownerID int64, r io.Reader, filename string) (int64, error) {
	owner, err := s.store.FindUserByID(ctx, ownerID)
	if err != nil {
		return 0, &IngestError{Stage: StageValidate, Err: fmt.Errorf("finding owner: %w", err)}
	}
	if owner == nil {
		return 0, &IngestError{Stage: StageValidate, Err: fmt.Errorf("%w: %d", ErrUnknownUser, ownerID)}
	}
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		return 0, &IngestError{Stage: StageValidate, Err: fmt.Errorf("invalid filename %q", filename)}
	}

	upload, err := s.stagingArea.Stage(ctx, r)
	if err != nil {
		return 0, &IngestError{Stage: StageBuffer, Err: err}
	}

	capturedAt := s.captureTime(upload)

	// A transfer cut short after staging must still leave no row.
	if err := ctx.Err(); err != nil {
		s.discardStaged(upload)
		return 0, &IngestError{Stage: StageBuffer, Err: err}
	}

	media := &sqlc.Media{
		OwnerUserID: ownerID,
		Hash:        upload.Checksum(),
		Filename:    name,
		CapturedAt:  capturedAt,
		UploadedAt:  s.clock.Now(),
	}
	if err := s.store.CreateMedia(ctx, media); err != nil {
		s.discardStaged(upload)
		return 0, &IngestError{Stage: StagePersist, Err: fmt.Errorf("creating media: %w", err)}
	}

	s.logger.Debug("media row committed", "media_id", media.ID, "owner", ownerID, "hash", media.Hash)

	if err := s.finishIngest(ctx, media, upload); err != nil {
		return 0, s.abandonIngest(ctx, media, upload, err)
	}

	s.logger.Info("media ingested",
		"media_id", media.ID,
		"owner", ownerID,
		"filename", name,
		"size", upload.Size(),
	)
	return media.ID, nil
}

// finishIngest derives the thumbnail and moves both artifacts into the vault.
func (s *Service) finishIngest(ctx context.Context, media *sqlc.Media, upload StagedUpload) error {
	rc, err := upload.Open()
	if err != nil {
		return &IngestError{Stage: StageThumbnail, Err: fmt.Errorf("opening staged upload: %w", err)}
	}
	thumb, err := s.thumbnailer.Thumbnail(rc)
	rc.Close()
	if err != nil {
		return &IngestError{Stage: StageThumbnail, Err: err}
	}

	if err := s.vault.PutThumbnail(ctx, media.ID, bytes.NewReader(thumb), int64(len(thumb))); err != nil {
		return &IngestError{Stage: StageCommit, Err: fmt.Errorf("storing thumbnail: %w", err)}
	}
	if err := s.vault.CommitOriginal(ctx, media.ID, MediaExt(media.Filename), upload); err != nil {
		return &IngestError{Stage: StageCommit, Err: fmt.Errorf("storing original: %w", err)}
	}

	if err := s.stagingArea.Remove(upload); err != nil {
		s.logger.Warn("failed to remove staged upload", "key", upload.Key(), "error", err)
	}
	return nil
}

// abandonIngest undoes a committed media row after a later stage failed.
func (s *Service) abandonIngest(ctx context.Context, media *sqlc.Media, upload StagedUpload, cause error) error {
	// Cleanup runs even when the request was cancelled.
	ctx = context.WithoutCancel(ctx)

	if err := s.store.DeleteMedia(ctx, media.ID); err != nil {
		s.logger.Error("media left incomplete",
			"media_id", media.ID,
			"cause", cause,
			"error", err,
		)
		return &IncompleteMediaError{MediaID: media.ID, Op: "ingest", Err: errors.Join(cause, err)}
	}
	if err := s.vault.DeleteMedia(ctx, media.ID, MediaExt(media.Filename)); err != nil {
		s.logger.Warn("failed to remove artifacts of abandoned media", "media_id", media.ID, "error", err)
	}
	s.discardStaged(upload)

	s.logger.Warn("ingest abandoned", "media_id", media.ID, "error", cause)
	return cause
}

func (s *Service) captureTime(upload StagedUpload) sql.NullTime {
	if s.extractor == nil {
		return sql.NullTime{}
	}
	rc, err := upload.Open()
	if err != nil {
		return sql.NullTime{}
	}
	defer rc.Close()
	t, ok := s.extractor.CaptureTime(rc)
	if !ok {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func (s *Service) discardStaged(upload StagedUpload) {
	if err := s.stagingArea.Remove(upload); err != nil {
		s.logger.Warn("failed to remove staged upload", "key", upload.Key(), "error", err)
	}
}

// HasHash reports whether ownerID already has media with the given content
// hash. It only advises clients; Ingest never refuses duplicates.
func (s *Service) HasHash(ctx context.Context, ownerID int64, hash string) (bool, error) {
	ok, err := s.store.HasMediaHash(ctx, ownerID, hash)
	if err != nil {
		return false, fmt.Errorf("checking media hash: %w", err)
	}
	return ok, nil
}
