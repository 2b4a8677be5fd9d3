package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"aperturama/internal/aperture"
	"aperturama/internal/database/sqlc"
)

// Grants live in one table per target kind. Everything above this file
// sees a single Grant type keyed by aperture.Target.

func (s *SQLiteDatabase) CreateUserGrant(ctx context.Context, target aperture.Target, userID int64) (*aperture.Grant, error) {
	recipient := sql.NullInt64{Int64: userID, Valid: true}
	now := s.clock.Now()

	var (
		g   *aperture.Grant
		err error
	)
	switch target.Kind {
	case aperture.TargetMedia:
		var row sqlc.MediaGrant
		row, err = s.queries.InsertMediaUserGrant(ctx, sqlc.InsertMediaUserGrantParams{
			MediaID:         target.ID,
			RecipientUserID: recipient,
			CreatedAt:       now,
		})
		g = mediaGrant(row)
	case aperture.TargetCollection:
		var row sqlc.CollectionGrant
		row, err = s.queries.InsertCollectionUserGrant(ctx, sqlc.InsertCollectionUserGrantParams{
			CollectionID:    target.ID,
			RecipientUserID: recipient,
			CreatedAt:       now,
		})
		g = collectionGrant(row)
	default:
		return nil, unknownKind(target)
	}

	if errors.Is(err, sql.ErrNoRows) {
		// ON CONFLICT DO NOTHING returned no row: the grant already exists,
		// possibly inserted by a concurrent request.
		existing, findErr := s.FindUserGrant(ctx, target, userID)
		if findErr != nil {
			return nil, findErr
		}
		return existing, aperture.ErrDuplicateGrant
	}
	if err != nil {
		return nil, grantError(err)
	}
	return g, nil
}

func (s *SQLiteDatabase) CreateLinkGrant(ctx context.Context, target aperture.Target, code, passwordHash string) (*aperture.Grant, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty link code", aperture.ErrInvalidGrant)
	}
	linkCode := sql.NullString{String: code, Valid: true}
	hash := sql.NullString{String: passwordHash, Valid: passwordHash != ""}
	now := s.clock.Now()

	switch target.Kind {
	case aperture.TargetMedia:
		row, err := s.queries.InsertMediaLinkGrant(ctx, sqlc.InsertMediaLinkGrantParams{
			MediaID:          target.ID,
			LinkCode:         linkCode,
			LinkPasswordHash: hash,
			CreatedAt:        now,
		})
		if err != nil {
			return nil, grantError(err)
		}
		return mediaGrant(row), nil
	case aperture.TargetCollection:
		row, err := s.queries.InsertCollectionLinkGrant(ctx, sqlc.InsertCollectionLinkGrantParams{
			CollectionID:     target.ID,
			LinkCode:         linkCode,
			LinkPasswordHash: hash,
			CreatedAt:        now,
		})
		if err != nil {
			return nil, grantError(err)
		}
		return collectionGrant(row), nil
	default:
		return nil, unknownKind(target)
	}
}

func (s *SQLiteDatabase) FindUserGrant(ctx context.Context, target aperture.Target, userID int64) (*aperture.Grant, error) {
	recipient := sql.NullInt64{Int64: userID, Valid: true}

	var (
		g   *aperture.Grant
		err error
	)
	switch target.Kind {
	case aperture.TargetMedia:
		var row sqlc.MediaGrant
		row, err = s.queries.GetMediaUserGrant(ctx, sqlc.GetMediaUserGrantParams{
			MediaID:         target.ID,
			RecipientUserID: recipient,
		})
		g = mediaGrant(row)
	case aperture.TargetCollection:
		var row sqlc.CollectionGrant
		row, err = s.queries.GetCollectionUserGrant(ctx, sqlc.GetCollectionUserGrantParams{
			CollectionID:    target.ID,
			RecipientUserID: recipient,
		})
		g = collectionGrant(row)
	default:
		return nil, unknownKind(target)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user grant: %w", err)
	}
	return g, nil
}

func (s *SQLiteDatabase) FindLinkGrant(ctx context.Context, target aperture.Target, code string) (*aperture.Grant, error) {
	linkCode := sql.NullString{String: code, Valid: true}

	var (
		g   *aperture.Grant
		err error
	)
	switch target.Kind {
	case aperture.TargetMedia:
		var row sqlc.MediaGrant
		row, err = s.queries.GetMediaLinkGrant(ctx, sqlc.GetMediaLinkGrantParams{
			MediaID:  target.ID,
			LinkCode: linkCode,
		})
		g = mediaGrant(row)
	case aperture.TargetCollection:
		var row sqlc.CollectionGrant
		row, err = s.queries.GetCollectionLinkGrant(ctx, sqlc.GetCollectionLinkGrantParams{
			CollectionID: target.ID,
			LinkCode:     linkCode,
		})
		g = collectionGrant(row)
	default:
		return nil, unknownKind(target)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding link grant: %w", err)
	}
	return g, nil
}

func (s *SQLiteDatabase) ListGrantsForTarget(ctx context.Context, target aperture.Target) ([]*aperture.Grant, error) {
	switch target.Kind {
	case aperture.TargetMedia:
		rows, err := s.queries.ListMediaGrants(ctx, target.ID)
		if err != nil {
			return nil, fmt.Errorf("listing media grants: %w", err)
		}
		grants := make([]*aperture.Grant, len(rows))
		for i, row := range rows {
			grants[i] = mediaGrant(row)
		}
		return grants, nil
	case aperture.TargetCollection:
		rows, err := s.queries.ListCollectionGrants(ctx, target.ID)
		if err != nil {
			return nil, fmt.Errorf("listing collection grants: %w", err)
		}
		grants := make([]*aperture.Grant, len(rows))
		for i, row := range rows {
			grants[i] = collectionGrant(row)
		}
		return grants, nil
	default:
		return nil, unknownKind(target)
	}
}

func (s *SQLiteDatabase) DeleteUserGrant(ctx context.Context, target aperture.Target, userID int64) error {
	recipient := sql.NullInt64{Int64: userID, Valid: true}

	var err error
	switch target.Kind {
	case aperture.TargetMedia:
		err = s.queries.DeleteMediaUserGrant(ctx, sqlc.DeleteMediaUserGrantParams{
			MediaID:         target.ID,
			RecipientUserID: recipient,
		})
	case aperture.TargetCollection:
		err = s.queries.DeleteCollectionUserGrant(ctx, sqlc.DeleteCollectionUserGrantParams{
			CollectionID:    target.ID,
			RecipientUserID: recipient,
		})
	default:
		return unknownKind(target)
	}
	if err != nil {
		return fmt.Errorf("deleting user grant: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteLinkGrant(ctx context.Context, target aperture.Target, code string) error {
	linkCode := sql.NullString{String: code, Valid: true}

	var err error
	switch target.Kind {
	case aperture.TargetMedia:
		err = s.queries.DeleteMediaLinkGrant(ctx, sqlc.DeleteMediaLinkGrantParams{
			MediaID:  target.ID,
			LinkCode: linkCode,
		})
	case aperture.TargetCollection:
		err = s.queries.DeleteCollectionLinkGrant(ctx, sqlc.DeleteCollectionLinkGrantParams{
			CollectionID: target.ID,
			LinkCode:     linkCode,
		})
	default:
		return unknownKind(target)
	}
	if err != nil {
		return fmt.Errorf("deleting link grant: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteGrantsForTarget(ctx context.Context, target aperture.Target) (int64, error) {
	var (
		n   int64
		err error
	)
	switch target.Kind {
	case aperture.TargetMedia:
		n, err = s.queries.DeleteMediaGrants(ctx, target.ID)
	case aperture.TargetCollection:
		n, err = s.queries.DeleteCollectionGrants(ctx, target.ID)
	default:
		return 0, unknownKind(target)
	}
	if err != nil {
		return 0, fmt.Errorf("deleting grants: %w", err)
	}
	return n, nil
}

func mediaGrant(row sqlc.MediaGrant) *aperture.Grant {
	return &aperture.Grant{
		ID:              row.ID,
		Target:          aperture.MediaTarget(row.MediaID),
		RecipientUserID: row.RecipientUserID,
		LinkCode:        row.LinkCode,
		PasswordHash:    row.LinkPasswordHash,
		CreatedAt:       row.CreatedAt,
	}
}

func collectionGrant(row sqlc.CollectionGrant) *aperture.Grant {
	return &aperture.Grant{
		ID:              row.ID,
		Target:          aperture.CollectionTarget(row.CollectionID),
		RecipientUserID: row.RecipientUserID,
		LinkCode:        row.LinkCode,
		PasswordHash:    row.LinkPasswordHash,
		CreatedAt:       row.CreatedAt,
	}
}

// grantError maps constraint violations on the grant tables to sentinels.
func grantError(err error) error {
	switch {
	case isConstraint(err, sqlite3.ErrConstraintUnique):
		return aperture.ErrLinkCodeTaken
	case isConstraint(err, sqlite3.ErrConstraintCheck):
		return fmt.Errorf("%w: %v", aperture.ErrInvalidGrant, err)
	case isConstraint(err, sqlite3.ErrConstraintForeignKey):
		return fmt.Errorf("%w: %v", aperture.ErrUnknownUser, err)
	default:
		return fmt.Errorf("inserting grant: %w", err)
	}
}

func unknownKind(target aperture.Target) error {
	return fmt.Errorf("unknown target kind: %s", target.Kind)
}
